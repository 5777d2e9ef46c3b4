package queries

import (
	"errors"
	"strings"
	"time"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/errs"
	"fleetwise/internal/pkg/guard"
)

var ErrListAuditQueryIsNotConstructed = errors.New(
	"ListAuditQuery must be created via NewListAuditQuery constructor",
)

// ListAuditQuery reads the audit trail of one job.
type ListAuditQuery struct {
	jobID       kernel.UUID
	oldestFirst bool

	guard guard.ConstructorGuard
}

// NewListAuditQuery accepts "asc", "desc" or "" (newest first).
func NewListAuditQuery(jobID kernel.UUID, order string) (ListAuditQuery, error) {
	if err := jobID.Validate(); err != nil {
		return ListAuditQuery{}, err
	}

	var oldestFirst bool
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc":
	case "asc":
		oldestFirst = true
	default:
		return ListAuditQuery{}, errs.NewValueIsInvalidError("order")
	}

	return ListAuditQuery{jobID: jobID, oldestFirst: oldestFirst, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAuditQuery) JobID() kernel.UUID {
	return q.jobID
}

func (q ListAuditQuery) OldestFirst() bool {
	return q.oldestFirst
}

func (q ListAuditQuery) Validate() error {
	return q.guard.Validate(ErrListAuditQueryIsNotConstructed)
}

// AuditEntry is one audit record. FromStatus and ToStatus are display names.
type AuditEntry struct {
	ID         kernel.UUID
	FromStatus string
	ToStatus   string
	ActorID    *kernel.UUID
	Reason     string
	ChangedAt  time.Time
}
