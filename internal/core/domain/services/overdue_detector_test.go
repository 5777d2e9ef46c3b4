package services_test

import (
	"testing"
	"time"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/domain/services"
	"fleetwise/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threshold = 15 * time.Minute

func singapore(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Singapore")
	require.NoError(t, err)
	return loc
}

// jobAt builds a confirmed job whose local pickup is at the given instant.
func jobAt(loc *time.Location, status job.Status, pickup time.Time) *job.Job {
	local := pickup.In(loc)
	return job.RestoreJob(
		kernel.NewUUID(),
		status,
		kernel.RestorePickupSchedule(local.Format("2006-01-02"), local.Format("15:04:05")),
		nil, nil, nil, false,
	)
}

func TestNewOverdueDetector(t *testing.T) {
	_, err := services.NewOverdueDetector(nil)
	require.ErrorIs(t, err, services.ErrLocationIsRequired)

	d, err := services.NewOverdueDetector(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
}

func TestOverdueDetector_Detect(t *testing.T) {
	loc := singapore(t)
	now := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	d, err := services.NewOverdueDetector(loc)
	require.NoError(t, err)

	t.Run("should report a job inside the window", func(t *testing.T) {
		soon := jobAt(loc, job.Confirmed, now.Add(10*time.Minute))

		got := d.Detect([]*job.Job{soon}, threshold, now)

		require.Len(t, got.Due, 1)
		assert.Empty(t, got.Failures)
		assert.True(t, soon.IsEqual(got.Due[0].Job))
		assert.Equal(t, now.Add(10*time.Minute), got.Due[0].Pickup)
		assert.Equal(t, now.Add(-5*time.Minute), got.Due[0].Deadline)
	})

	t.Run("should skip a job before its deadline", func(t *testing.T) {
		later := jobAt(loc, job.Confirmed, now.Add(20*time.Minute))

		got := d.Detect([]*job.Job{later}, threshold, now)

		assert.Empty(t, got.Due)
	})

	t.Run("should skip a job whose pickup has passed", func(t *testing.T) {
		missed := jobAt(loc, job.Confirmed, now.Add(-5*time.Minute))

		got := d.Detect([]*job.Job{missed}, threshold, now)

		assert.Empty(t, got.Due)
	})

	t.Run("should treat the window as half open", func(t *testing.T) {
		atDeadline := jobAt(loc, job.Confirmed, now.Add(threshold))
		atPickup := jobAt(loc, job.Confirmed, now)

		got := d.Detect([]*job.Job{atDeadline, atPickup}, threshold, now)

		require.Len(t, got.Due, 1)
		assert.True(t, atDeadline.IsEqual(got.Due[0].Job))
	})

	t.Run("should only consider confirmed live jobs", func(t *testing.T) {
		pickup := now.Add(5 * time.Minute)
		local := pickup.In(loc)
		deleted := job.RestoreJob(kernel.NewUUID(), job.Confirmed,
			kernel.RestorePickupSchedule(local.Format("2006-01-02"), local.Format("15:04")),
			nil, nil, nil, true)
		noSchedule := job.RestoreJob(kernel.NewUUID(), job.Confirmed, kernel.PickupSchedule{}, nil, nil, nil, false)

		got := d.Detect([]*job.Job{
			jobAt(loc, job.Pending, pickup),
			jobAt(loc, job.EnRoute, pickup),
			deleted,
			noSchedule,
			nil,
		}, threshold, now)

		assert.Empty(t, got.Due)
		assert.Empty(t, got.Failures)
	})

	t.Run("should isolate a malformed schedule", func(t *testing.T) {
		broken := job.RestoreJob(kernel.NewUUID(), job.Confirmed,
			kernel.RestorePickupSchedule("2026-02-30", "09:00"), nil, nil, nil, false)
		good := jobAt(loc, job.Confirmed, now.Add(time.Minute))

		got := d.Detect([]*job.Job{broken, good}, threshold, now)

		require.Len(t, got.Due, 1)
		assert.True(t, good.IsEqual(got.Due[0].Job))
		require.Len(t, got.Failures, 1)
		assert.True(t, broken.ID().IsEqual(got.Failures[0].JobID))
		require.ErrorIs(t, got.Failures[0].Err, errs.ErrValueIsInvalid)
	})

	t.Run("should interpret local time in the display timezone", func(t *testing.T) {
		// 09:10 in Singapore is 01:10 UTC, ten minutes after now.
		local := job.RestoreJob(kernel.NewUUID(), job.Confirmed,
			kernel.RestorePickupSchedule("2026-03-01", "09:10"), nil, nil, nil, false)

		got := d.Detect([]*job.Job{local}, threshold, now)
		require.Len(t, got.Due, 1)

		utc, err := services.NewOverdueDetector(time.UTC)
		require.NoError(t, err)
		assert.Empty(t, utc.Detect([]*job.Job{local}, threshold, now).Due)
	})
}

func TestElapsedMinutes(t *testing.T) {
	pickup := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, services.ElapsedMinutes(pickup, pickup))
	assert.Equal(t, 2, services.ElapsedMinutes(pickup, pickup.Add(150*time.Second)))
	assert.Equal(t, -5, services.ElapsedMinutes(pickup, pickup.Add(-5*time.Minute)))
	assert.Equal(t, -1, services.ElapsedMinutes(pickup, pickup.Add(-30*time.Second)))
}
