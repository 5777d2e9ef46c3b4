package ports

import "context"

// UnitOfWorkFactory hands out one UnitOfWork per command. Units are not
// shared between goroutines.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction over the dispatch tables. Before
// Begin, and after Commit or Rollback, the repositories run in autocommit
// mode; between them every repository call joins the transaction, so row
// locks taken by GetForUpdate are held until it ends.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit fails when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback after Commit returns an error that deferred callers ignore.
	Rollback(ctx context.Context) error

	JobRepository() JobRepository
	AuditRepository() AuditRepository
	AlertRepository() AlertRepository
	SettingsRepository() SettingsRepository
}
