package queries

import (
	"context"

	"fleetwise/internal/core/domain/services"
	"fleetwise/internal/pkg/clock"

	"gorm.io/gorm"
)

// ListActiveAlertsQueryHandler reads the active alerts together with the
// pickup of their job and the alert table counters.
type ListActiveAlertsQueryHandler struct {
	db       *gorm.DB
	detector services.OverdueDetector
	clock    clock.Clock
}

func NewListActiveAlertsQueryHandler(db *gorm.DB, detector services.OverdueDetector, clk clock.Clock) ListActiveAlertsQueryHandler {
	return ListActiveAlertsQueryHandler{db: db, detector: detector, clock: clk}
}

// Handle returns active alerts newest first. The counters always cover the
// whole table.
func (h ListActiveAlertsQueryHandler) Handle(
	ctx context.Context,
	query ListActiveAlertsQuery,
) (ListActiveAlertsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListActiveAlertsQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)

	filter := "a.status = 'active'"
	args := make([]any, 0, 1)
	if driverID := query.DriverID(); driverID != nil {
		filter += " AND a.driver_id = ?"
		args = append(args, driverID.Bytes())
	}

	rows, err := db.Raw(`
		SELECT `+alertColumns+`
		FROM job_monitoring_alerts a
		JOIN jobs j ON j.id = a.job_id
		WHERE `+filter+`
		ORDER BY a.created_at DESC
	`, args...).Rows()
	if err != nil {
		return ListActiveAlertsQueryResponse{}, err
	}
	defer rows.Close()

	views, err := scanAlertViews(rows, h.detector, h.clock.Now())
	if err != nil {
		return ListActiveAlertsQueryResponse{}, err
	}

	response := ListActiveAlertsQueryResponse{Alerts: views}
	err = db.Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*)
		FROM job_monitoring_alerts
	`).Row().Scan(&response.ActiveCount, &response.TotalCount)
	if err != nil {
		return ListActiveAlertsQueryResponse{}, err
	}

	return response, nil
}
