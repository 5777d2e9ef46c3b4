package kernel_test

import (
	"encoding/json"
	"testing"

	"fleetwise/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
}

func TestUUIDFromString(t *testing.T) {
	t.Run("should accept supported forms", func(t *testing.T) {
		forms := []string{
			sampleID,
			"{" + sampleID + "}",
			"urn:uuid:" + sampleID,
			"550e8400e29b41d4a716446655440000",
		}
		for _, form := range forms {
			id, err := kernel.UUIDFromString(form)
			require.NoError(t, err, form)
			assert.Equal(t, sampleID, id.String())
		}
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, bad := range []string{"", "job-42", "550e8400-e29b-41d4-a716"} {
			_, err := kernel.UUIDFromString(bad)
			require.Error(t, err, bad)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("should reject the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	raw := uuid.MustParse(sampleID)

	id, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.Equal(t, raw, id.Bytes())

	_, err = kernel.UUIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestOptionalUUID(t *testing.T) {
	t.Run("nil column maps to nil identity", func(t *testing.T) {
		id, err := kernel.OptionalUUIDFromBytes(nil)
		require.NoError(t, err)
		assert.Nil(t, id)
		assert.Nil(t, kernel.OptionalBytes(nil))
	})

	t.Run("round trips a present identity", func(t *testing.T) {
		driverID := kernel.NewUUID()

		raw := kernel.OptionalBytes(&driverID)
		require.NotNil(t, raw)

		back, err := kernel.OptionalUUIDFromBytes(raw)
		require.NoError(t, err)
		require.NotNil(t, back)
		assert.True(t, driverID.IsEqual(*back))
	})
}

func TestUUID_Validate(t *testing.T) {
	var zero kernel.UUID

	require.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
	require.NoError(t, kernel.NewUUID().Validate())
}

func TestUUID_JSON(t *testing.T) {
	type payload struct {
		JobID   kernel.UUID  `json:"job_id"`
		ActorID *kernel.UUID `json:"actor_id,omitempty"`
	}

	id, err := kernel.UUIDFromString(sampleID)
	require.NoError(t, err)

	data, err := json.Marshal(payload{JobID: id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":"`+sampleID+`"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"job_id":"`+sampleID+`","actor_id":"`+sampleID+`"}`), &decoded))
	assert.True(t, id.IsEqual(decoded.JobID))
	require.NotNil(t, decoded.ActorID)

	err = json.Unmarshal([]byte(`{"job_id":"not-a-uuid"}`), &decoded)
	require.Error(t, err)
}
