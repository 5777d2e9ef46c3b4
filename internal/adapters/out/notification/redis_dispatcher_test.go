package notification_test

import (
	"encoding/json"
	"testing"
	"time"

	"fleetwise/internal/adapters/out/notification"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDispatcher(t *testing.T) (*miniredis.Miniredis, *redis.Client, *notification.RedisDispatcher) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client, notification.NewRedisDispatcher(client, "test:notify")
}

func TestRedisDispatcher_Notify(t *testing.T) {
	mr, client, dispatcher := newDispatcher(t)
	ctx := t.Context()

	sub := client.Subscribe(ctx, "test:notify")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	driver, jobID := kernel.NewUUID(), kernel.NewUUID()
	err = dispatcher.Notify(ctx, ports.Notification{
		DriverID: driver,
		JobID:    jobID,
		Kind:     ports.NotifyAlertRaised,
		Title:    "Trip starting soon",
		Body:     "Pickup at 09:10",
		Data:     map[string]string{"reminder_count": "1"},
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		var got notification.Message
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.True(t, driver.IsEqual(got.DriverID))
		assert.True(t, jobID.IsEqual(got.JobID))
		assert.Equal(t, "job_alert", got.Kind)
		assert.Equal(t, "1", got.Data["reminder_count"])
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}

	inbox, err := mr.List(notification.InboxKey("test:notify", driver))
	require.NoError(t, err)
	assert.Len(t, inbox, 1)
	assert.Positive(t, mr.TTL(notification.InboxKey("test:notify", driver)))
}

func TestRedisDispatcher_InboxIsCapped(t *testing.T) {
	mr, _, dispatcher := newDispatcher(t)
	driver := kernel.NewUUID()

	for range 60 {
		require.NoError(t, dispatcher.Notify(t.Context(), ports.Notification{
			DriverID: driver,
			JobID:    kernel.NewUUID(),
			Kind:     ports.NotifyStatusChanged,
			Title:    "Job Status Updated",
		}))
	}

	inbox, err := mr.List(notification.InboxKey("test:notify", driver))
	require.NoError(t, err)
	assert.Len(t, inbox, 50)
}

func TestRedisDispatcher_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	dispatcher := notification.NewRedisDispatcher(client, "")
	mr.Close()

	err = dispatcher.Notify(t.Context(), ports.Notification{DriverID: kernel.NewUUID(), JobID: kernel.NewUUID()})

	assert.ErrorContains(t, err, "publish notification to "+notification.DefaultChannel)
}
