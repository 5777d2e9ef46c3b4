package http

import (
	"time"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/application/usecases/queries"
	"fleetwise/internal/core/domain/model/job"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type TransitionRequest struct {
	Status  string              `json:"status"`
	ActorID *openapi_types.UUID `json:"actor_id,omitempty"`
	Note    string              `json:"note,omitempty"`
}

type TransitionResult struct {
	JobID          openapi_types.UUID  `json:"job_id"`
	PreviousStatus string              `json:"previous_status"`
	NewStatus      string              `json:"new_status"`
	AuditID        *openapi_types.UUID `json:"audit_id,omitempty"`
	Changed        bool                `json:"changed"`
	AlertCleared   bool                `json:"alert_cleared"`
}

type TransitionCheck struct {
	Current     string   `json:"current"`
	Requested   string   `json:"requested"`
	Allowed     bool     `json:"allowed"`
	AllowedNext []string `json:"allowed_next"`
}

type AuditEntry struct {
	ID         openapi_types.UUID  `json:"id"`
	FromStatus string              `json:"from_status"`
	ToStatus   string              `json:"to_status"`
	ActorID    *openapi_types.UUID `json:"actor_id,omitempty"`
	Reason     string              `json:"reason,omitempty"`
	ChangedAt  time.Time           `json:"changed_at"`
}

type CancelRequest struct {
	ActorID *openapi_types.UUID `json:"actor_id,omitempty"`
	Reason  string              `json:"reason"`
}

type BulkCancelRequest struct {
	JobIDs  []openapi_types.UUID `json:"job_ids"`
	ActorID *openapi_types.UUID  `json:"actor_id,omitempty"`
	Reason  string               `json:"reason"`
}

type CanceledJob struct {
	JobID          openapi_types.UUID `json:"job_id"`
	PreviousStatus string             `json:"previous_status"`
	AuditID        openapi_types.UUID `json:"audit_id"`
	AlertCleared   bool               `json:"alert_cleared"`
}

type Alert struct {
	ID             openapi_types.UUID  `json:"id"`
	JobID          openapi_types.UUID  `json:"job_id"`
	DriverID       *openapi_types.UUID `json:"driver_id,omitempty"`
	Status         string              `json:"status"`
	ReminderCount  int                 `json:"reminder_count"`
	CreatedAt      time.Time           `json:"created_at"`
	LastReminderAt time.Time           `json:"last_reminder_at"`
	AcknowledgedAt *time.Time          `json:"acknowledged_at,omitempty"`
	ClearedAt      *time.Time          `json:"cleared_at,omitempty"`
	PickupDate     string              `json:"pickup_date,omitempty"`
	PickupTime     string              `json:"pickup_time,omitempty"`
	ElapsedMinutes *int                `json:"elapsed_minutes,omitempty"`
}

type AlertPage struct {
	Alerts      []Alert `json:"alerts"`
	ActiveCount int64   `json:"active_count"`
	TotalCount  int64   `json:"total_count"`
}

type AcknowledgeResult struct {
	Acknowledged bool `json:"acknowledged"`
}

type CycleResult struct {
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Skipped    string    `json:"skipped"`
	TimedOut   bool      `json:"timed_out"`
	Created    int       `json:"created"`
	Reminded   int       `json:"reminded"`
	Unchanged  int       `json:"unchanged"`
	Failed     int       `json:"failed"`
	Abandoned  int       `json:"abandoned"`
}

func toTransitionResult(r commands.ApplyTransitionResult) TransitionResult {
	out := TransitionResult{
		JobID:          r.JobID.Bytes(),
		PreviousStatus: r.PreviousStatus.String(),
		NewStatus:      r.NewStatus.String(),
		Changed:        r.Changed,
		AlertCleared:   r.AlertCleared,
	}
	if r.AuditID != nil {
		id := r.AuditID.Bytes()
		out.AuditID = &id
	}
	return out
}

func toTransitionCheck(r queries.CheckTransitionQueryResponse) TransitionCheck {
	return TransitionCheck{
		Current:     r.Current.String(),
		Requested:   r.Requested.String(),
		Allowed:     r.Allowed,
		AllowedNext: statusNames(r.AllowedNext),
	}
}

func statusNames(statuses []job.Status) []string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}
	return names
}

func toAuditEntries(entries []queries.AuditEntry) []AuditEntry {
	out := make([]AuditEntry, len(entries))
	for i, e := range entries {
		out[i] = AuditEntry{
			ID:         e.ID.Bytes(),
			FromStatus: e.FromStatus,
			ToStatus:   e.ToStatus,
			Reason:     e.Reason,
			ChangedAt:  e.ChangedAt,
		}
		if e.ActorID != nil {
			id := e.ActorID.Bytes()
			out[i].ActorID = &id
		}
	}
	return out
}

func toCanceledJobs(canceled []commands.CanceledJob) []CanceledJob {
	out := make([]CanceledJob, len(canceled))
	for i, c := range canceled {
		out[i] = CanceledJob{
			JobID:          c.JobID.Bytes(),
			PreviousStatus: c.PreviousStatus.String(),
			AuditID:        c.AuditID.Bytes(),
			AlertCleared:   c.AlertCleared,
		}
	}
	return out
}

func toAlerts(views []queries.AlertView) []Alert {
	out := make([]Alert, len(views))
	for i, v := range views {
		out[i] = Alert{
			ID:             v.ID.Bytes(),
			JobID:          v.JobID.Bytes(),
			Status:         v.Status,
			ReminderCount:  v.ReminderCount,
			CreatedAt:      v.CreatedAt,
			LastReminderAt: v.LastReminderAt,
			AcknowledgedAt: v.AcknowledgedAt,
			ClearedAt:      v.ClearedAt,
			PickupDate:     v.PickupDate,
			PickupTime:     v.PickupTime,
			ElapsedMinutes: v.ElapsedMinutes,
		}
		if v.DriverID != nil {
			id := v.DriverID.Bytes()
			out[i].DriverID = &id
		}
	}
	return out
}

func toAlertPage(r queries.ListActiveAlertsQueryResponse) AlertPage {
	return AlertPage{
		Alerts:      toAlerts(r.Alerts),
		ActiveCount: r.ActiveCount,
		TotalCount:  r.TotalCount,
	}
}

func toCycleResult(r commands.CycleResult) CycleResult {
	return CycleResult{
		StartedAt:  r.StartedAt,
		DurationMs: r.Duration.Milliseconds(),
		Skipped:    string(r.Skipped),
		TimedOut:   r.TimedOut,
		Created:    r.Count(commands.JobAlertCreated),
		Reminded:   r.Count(commands.JobAlertReminded),
		Unchanged:  r.Count(commands.JobAlertSkipped),
		Failed:     r.Count(commands.JobFailed),
		Abandoned:  r.Count(commands.JobAbandoned),
	}
}
