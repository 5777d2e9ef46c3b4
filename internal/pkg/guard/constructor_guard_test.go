package guard_test

import (
	"errors"
	"testing"

	"fleetwise/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("command not constructed")

	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_supplied_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errCommandNotConstructed := errors.New("AckCommand must be created via NewAckCommand")

	type ackCommand struct {
		alertID string
		guard   guard.ConstructorGuard
	}

	newAckCommand := func(alertID string) (ackCommand, error) {
		if alertID == "" {
			return ackCommand{}, errors.New("alert id is required")
		}
		return ackCommand{alertID: alertID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructor_output_validates", func(t *testing.T) {
		cmd, err := newAckCommand("a-1")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))
		assert.Equal(t, "a-1", cmd.alertID)
	})

	t.Run("literal_fails_validation", func(t *testing.T) {
		cmd := ackCommand{alertID: "a-1"}

		require.ErrorIs(t, cmd.guard.Validate(errCommandNotConstructed), errCommandNotConstructed)
	})

	t.Run("constructor_rejects_empty_id", func(t *testing.T) {
		_, err := newAckCommand("")

		require.Error(t, err)
	})
}
