package ports

import (
	"context"

	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/kernel"
)

// AuditOrder selects the direction of an audit listing.
type AuditOrder int

const (
	NewestFirst AuditOrder = iota
	OldestFirst
)

// AuditRepository is the append-only store of audit records. It exposes no
// way to change or remove a record.
type AuditRepository interface {
	// Append stores a record. Records of one job are ordered by commit.
	Append(ctx context.Context, record *audit.Record) error

	// ListByJob returns every record of a job in the requested order.
	ListByJob(ctx context.Context, jobID kernel.UUID, order AuditOrder) ([]*audit.Record, error)
}
