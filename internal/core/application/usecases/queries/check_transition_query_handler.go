package queries

import (
	"context"
	"database/sql"
	"errors"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/pkg/errs"

	"gorm.io/gorm"
)

type CheckTransitionQueryHandler struct {
	db *gorm.DB
}

func NewCheckTransitionQueryHandler(db *gorm.DB) CheckTransitionQueryHandler {
	return CheckTransitionQueryHandler{db: db}
}

func (h CheckTransitionQueryHandler) Handle(ctx context.Context, query CheckTransitionQuery) (CheckTransitionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CheckTransitionQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	var code string
	err := db.Raw(`SELECT status FROM jobs WHERE id = ? AND is_deleted = false`, query.JobID().Bytes()).
		Row().Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return CheckTransitionQueryResponse{}, errs.NewObjectNotFoundError("job", query.JobID().String())
	}
	if err != nil {
		return CheckTransitionQueryResponse{}, err
	}

	current, err := job.StatusFromCode(code)
	if err != nil {
		return CheckTransitionQueryResponse{}, err
	}

	requested := query.Requested()
	allowed := requested.IsReachable() && !current.IsTerminal() &&
		(requested == current || current.CanTransitionTo(requested))

	return CheckTransitionQueryResponse{
		Current:     current,
		Requested:   requested,
		Allowed:     allowed,
		AllowedNext: current.AllowedNext(),
	}, nil
}
