// Package audit holds the append-only record written for every applied job
// status transition.
package audit

import (
	"errors"
	"strings"
	"time"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
)

// MaxReasonLength bounds the free-text reason stored with a record.
const MaxReasonLength = 2000

var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord")

// Record is one immutable audit entry. A record whose previous and new
// statuses are equal is a note on a repeated request rather than a move.
type Record struct {
	id        kernel.UUID
	jobID     kernel.UUID
	from      job.Status
	to        job.Status
	actorID   *kernel.UUID
	reason    string
	changedAt time.Time

	// seq is assigned by storage and orders records by commit.
	seq int64

	isConstructed bool
}

// NewRecord builds the entry for a transition from -> to. actorID is nil for
// system-driven changes.
func NewRecord(
	jobID kernel.UUID,
	from, to job.Status,
	actorID *kernel.UUID,
	reason string,
	changedAt time.Time,
) (*Record, error) {
	if err := errors.Join(jobID.Validate(), from.Validate(), to.Validate()); err != nil {
		return nil, err
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Record{
		id:            kernel.NewUUID(),
		jobID:         jobID,
		from:          from,
		to:            to,
		actorID:       actorID,
		reason:        truncate(strings.TrimSpace(reason)),
		changedAt:     changedAt.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreRecord rebuilds a record read from storage.
func RestoreRecord(
	id, jobID kernel.UUID,
	from, to job.Status,
	actorID *kernel.UUID,
	reason string,
	changedAt time.Time,
	seq int64,
) *Record {
	return &Record{
		id:            id,
		jobID:         jobID,
		from:          from,
		to:            to,
		actorID:       actorID,
		reason:        reason,
		changedAt:     changedAt.UTC(),
		seq:           seq,
		isConstructed: true,
	}
}

func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r *Record) ID() kernel.UUID {
	return r.id
}

func (r *Record) JobID() kernel.UUID {
	return r.jobID
}

func (r *Record) From() job.Status {
	return r.from
}

func (r *Record) To() job.Status {
	return r.to
}

// ActorID returns the acting user, or nil for system changes.
func (r *Record) ActorID() *kernel.UUID {
	return r.actorID
}

func (r *Record) Reason() string {
	return r.reason
}

func (r *Record) ChangedAt() time.Time {
	return r.changedAt
}

// Seq is the storage commit sequence; zero until persisted.
func (r *Record) Seq() int64 {
	return r.seq
}

// IsNote reports whether the record documents a repeated request.
func (r *Record) IsNote() bool {
	return r.from == r.to
}

func truncate(s string) string {
	if len([]rune(s)) <= MaxReasonLength {
		return s
	}
	return string([]rune(s)[:MaxReasonLength])
}
