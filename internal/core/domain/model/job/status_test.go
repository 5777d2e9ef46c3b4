package job_test

import (
	"fmt"
	"testing"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var graph = map[job.Status][]job.Status{
	job.New:             {job.Pending, job.Confirmed},
	job.Pending:         {job.Confirmed},
	job.Confirmed:       {job.EnRoute, job.OnSite, job.PassengerAboard, job.StoodDown, job.Completed},
	job.EnRoute:         {job.OnSite, job.PassengerAboard, job.StoodDown, job.Completed},
	job.OnSite:          {job.PassengerAboard, job.StoodDown, job.Completed},
	job.PassengerAboard: {job.StoodDown, job.Completed},
	job.Completed:       {job.StoodDown},
}

func TestStatus_CanTransitionTo(t *testing.T) {
	for _, from := range job.All() {
		for _, to := range job.All() {
			want := contains(graph[from], to)
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))

				err := from.ValidateTransition(to)
				if want {
					require.NoError(t, err)
				} else {
					require.Error(t, err)
				}
			})
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, terminal := range []job.Status{job.StoodDown, job.Canceled} {
		assert.True(t, terminal.IsTerminal())
		assert.Empty(t, terminal.AllowedNext())

		for _, to := range job.All() {
			err := terminal.ValidateTransition(to)
			require.ErrorIs(t, err, job.ErrStatusIsTerminal)
		}
	}

	assert.False(t, job.Completed.IsTerminal())
}

func TestStatus_AllowedNext(t *testing.T) {
	t.Run("should return graph order", func(t *testing.T) {
		assert.Equal(t,
			[]job.Status{job.EnRoute, job.OnSite, job.PassengerAboard, job.StoodDown, job.Completed},
			job.Confirmed.AllowedNext())
	})

	t.Run("should return a copy", func(t *testing.T) {
		next := job.New.AllowedNext()
		next[0] = job.Canceled

		assert.Equal(t, []job.Status{job.Pending, job.Confirmed}, job.New.AllowedNext())
	})
}

func TestStatus_IsReachable(t *testing.T) {
	assert.False(t, job.New.IsReachable())
	assert.False(t, job.Canceled.IsReachable())
	assert.False(t, job.Unknown.IsReachable())

	for _, s := range []job.Status{job.Pending, job.Confirmed, job.EnRoute, job.OnSite,
		job.PassengerAboard, job.Completed, job.StoodDown} {
		assert.True(t, s.IsReachable(), s.String())
	}
}

func TestStatus_Markers(t *testing.T) {
	started := map[job.Status]bool{
		job.EnRoute: true, job.OnSite: true, job.PassengerAboard: true,
		job.Completed: true, job.StoodDown: true,
	}
	for _, s := range job.All() {
		assert.Equal(t, started[s], s.HasStarted(), s.String())
	}

	assert.True(t, job.EnRoute.MarksStart())
	assert.True(t, job.PassengerAboard.MarksStart())
	assert.False(t, job.Completed.MarksStart())
	assert.True(t, job.Completed.MarksEnd())
	assert.True(t, job.StoodDown.MarksEnd())
	assert.False(t, job.Canceled.MarksEnd())
}

func TestParseStatus(t *testing.T) {
	t.Run("should accept names and codes", func(t *testing.T) {
		cases := map[string]job.Status{
			"EN_ROUTE":  job.EnRoute,
			"en_route":  job.EnRoute,
			"otw":       job.EnRoute,
			" POB ":     job.PassengerAboard,
			"jc":        job.Completed,
			"Confirmed": job.Confirmed,
			"canceled":  job.Canceled,
		}
		for in, want := range cases {
			got, err := job.ParseStatus(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		got, err := job.ParseStatus("teleported")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, job.Unknown, got)
		assert.Contains(t, err.Error(), "teleported")
	})
}

func TestStatusFromCode(t *testing.T) {
	for _, s := range job.All() {
		got, err := job.StatusFromCode(s.Code())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := job.StatusFromCode("OTW")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range job.All() {
		require.NoError(t, s.Validate())
	}

	for _, s := range []job.Status{job.Unknown, job.Status(-1), job.Status(42)} {
		err := s.Validate()
		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Equal(t, "UNKNOWN", s.String())
		assert.Empty(t, s.Code())
	}
}

func contains(list []job.Status, s job.Status) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
