package queries

import (
	"context"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListAuditQueryHandler struct {
	db *gorm.DB
}

func NewListAuditQueryHandler(db *gorm.DB) ListAuditQueryHandler {
	return ListAuditQueryHandler{db: db}
}

// Handle returns the job's audit trail. An unknown or deleted job is
// reported as not found rather than as an empty trail.
func (h ListAuditQueryHandler) Handle(ctx context.Context, query ListAuditQuery) ([]AuditEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	if err := ensureJobExists(db, query.JobID()); err != nil {
		return nil, err
	}

	direction := "DESC"
	if query.OldestFirst() {
		direction = "ASC"
	}

	rows, err := db.Raw(`
		SELECT id, from_status, to_status, actor_id, reason, changed_at
		FROM job_audits
		WHERE job_id = ?
		ORDER BY seq `+direction, query.JobID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]AuditEntry, 0)
	for rows.Next() {
		var (
			entry    AuditEntry
			id       uuid.UUID
			actorID  *uuid.UUID
			from, to string
		)
		if err := rows.Scan(&id, &from, &to, &actorID, &entry.Reason, &entry.ChangedAt); err != nil {
			return nil, err
		}

		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.ActorID, err = kernel.OptionalUUIDFromBytes(actorID); err != nil {
			return nil, err
		}
		if entry.FromStatus, err = displayName(from); err != nil {
			return nil, err
		}
		if entry.ToStatus, err = displayName(to); err != nil {
			return nil, err
		}
		entry.ChangedAt = entry.ChangedAt.UTC()
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func ensureJobExists(db *gorm.DB, id kernel.UUID) error {
	var exists bool
	err := db.Raw(`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = ? AND is_deleted = false)`, id.Bytes()).
		Row().Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewObjectNotFoundError("job", id.String())
	}
	return nil
}

func displayName(code string) (string, error) {
	status, err := job.StatusFromCode(code)
	if err != nil {
		return "", err
	}
	return status.String(), nil
}
