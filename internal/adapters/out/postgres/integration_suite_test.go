package postgres_test

import (
	"context"
	"time"

	postgres_adapter "fleetwise/internal/adapters/out/postgres"
	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// postgresSuite starts one PostgreSQL container per suite and migrates the
// schema. Every test starts from empty tables.
type postgresSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	dsn       string
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (s *postgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.dsn = dsn

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(postgres_adapter.Migrate(db))
	s.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (s *postgresSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *postgresSuite) SetupTest() {
	err := s.db.Exec("TRUNCATE TABLE jobs, job_audits, job_monitoring_alerts, monitoring_settings").Error
	s.Require().NoError(err)
}

// seedJob stores a job with the given status and pickup.
func (s *postgresSuite) seedJob(status job.Status, date, clockTime string) *job.Job {
	driver := kernel.NewUUID()
	j := job.RestoreJob(kernel.NewUUID(), status, kernel.RestorePickupSchedule(date, clockTime), &driver, nil, nil, false)
	s.Require().NoError(s.factory.Create().JobRepository().Add(context.Background(), j))
	return j
}

type transitionFactory struct{ f *postgres_adapter.GormUnitOfWorkFactory }

func (t transitionFactory) Create() commands.TransitionUoW { return t.f.Create() }

type alertFactory struct{ f *postgres_adapter.GormUnitOfWorkFactory }

func (a alertFactory) Create() commands.AlertUoW { return a.f.Create() }

type monitorFactory struct{ f *postgres_adapter.GormUnitOfWorkFactory }

func (m monitorFactory) Create() commands.MonitorUoW { return m.f.Create() }
