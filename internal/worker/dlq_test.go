//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })
	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewDispatcher(rdb)
}

func TestDLQ_ListarYReencolar(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)
	d.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

	for _, id := range []string{"a", "b", "c"} {
		payload, _ := json.Marshal(EmailJob{To: id + "@impulsatelecom.es"})
		require.NoError(t, d.SendToDLQ(ctx, QueueEmail, Job{ID: id, Type: JobTypeEmail, Payload: payload, Attempts: MaxEmailAttempts}, "smtp caido"))
	}

	n, err := d.DLQLength(ctx, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	entries, err := d.ListDLQ(ctx, QueueEmail, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].JobID)
	assert.Equal(t, "2026-10-19T09:00:00Z", entries[0].FailedAt)

	moved, err := d.RequeueDLQ(ctx, QueueEmail, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	raw, err := d.rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "a", job.ID, "oldest dead letter is requeued first")
	assert.Zero(t, job.Attempts)

	n, err = d.DLQLength(ctx, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestDLQ_Tope(t *testing.T) {
	ctx := context.Background()
	d := newTestDispatcher(t)
	for i := 0; i < MaxDLQ+5; i++ {
		require.NoError(t, d.SendToDLQ(ctx, QueueEmail, Job{ID: "x", Type: JobTypeEmail}, "fallo"))
	}
	n, err := d.DLQLength(ctx, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, MaxDLQ, n)
}
