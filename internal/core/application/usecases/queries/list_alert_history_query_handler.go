package queries

import (
	"context"
	"time"

	"fleetwise/internal/core/domain/services"
	"fleetwise/internal/pkg/clock"

	"gorm.io/gorm"
)

// DefaultAlertRetention is how long closed alerts stay visible and stored.
const DefaultAlertRetention = 24 * time.Hour

// ListAlertHistoryQueryHandler returns acknowledged or cleared alerts that
// closed within the retention window, newest first.
type ListAlertHistoryQueryHandler struct {
	db        *gorm.DB
	detector  services.OverdueDetector
	clock     clock.Clock
	retention time.Duration
}

func NewListAlertHistoryQueryHandler(
	db *gorm.DB,
	detector services.OverdueDetector,
	clk clock.Clock,
	retention time.Duration,
) ListAlertHistoryQueryHandler {
	if retention <= 0 {
		retention = DefaultAlertRetention
	}
	return ListAlertHistoryQueryHandler{db: db, detector: detector, clock: clk, retention: retention}
}

func (h ListAlertHistoryQueryHandler) Handle(ctx context.Context, query ListAlertHistoryQuery) ([]AlertView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+alertColumns+`
		FROM job_monitoring_alerts a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.driver_id = ?
			AND a.status <> 'active'
			AND COALESCE(a.acknowledged_at, a.cleared_at) >= ?
		ORDER BY COALESCE(a.acknowledged_at, a.cleared_at) DESC
		LIMIT ?
	`, query.DriverID().Bytes(), now.Add(-h.retention), MaxAlertHistory).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAlertViews(rows, h.detector, now)
}
