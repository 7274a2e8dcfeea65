package worker

// dlq.go: jobs that exhaust their retries land in dlq:{original_queue}.
// Entries are pushed at the head, so the tail holds the oldest failure.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"
	// MaxDLQ caps each dead letter list; older entries are trimmed.
	MaxDLQ = 1000
)

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobID         string          `json:"job_id"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue.
func (d *Dispatcher) SendToDLQ(ctx context.Context, queue string, job Job, reason string) error {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobID:         job.ID,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      d.now().UTC().Format(time.RFC3339),
		Attempts:      job.Attempts,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := DLQPrefix + queue
	pipe := d.rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, MaxDLQ-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	log.Warn().
		Str("queue", queue).
		Str("job_id", job.ID).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job moved to dead letter queue")
	return nil
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func (d *Dispatcher) DLQLength(ctx context.Context, queue string) (int64, error) {
	return d.rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ListDLQ returns up to limit entries, newest first. Undecodable entries are
// skipped.
func (d *Dispatcher) ListDLQ(ctx context.Context, queue string, limit int64) ([]DLQEntry, error) {
	if limit <= 0 {
		limit = MaxDLQ
	}
	raws, err := d.rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raws))
	for _, raw := range raws {
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: undecodable entry")
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// RequeueDLQ moves up to limit of the oldest dead letters back onto their
// queue with the attempt counter reset, and returns how many were moved.
func (d *Dispatcher) RequeueDLQ(ctx context.Context, queue string, limit int) (int, error) {
	key := DLQPrefix + queue
	moved := 0
	for limit <= 0 || moved < limit {
		raw, err := d.rdb.RPop(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return moved, err
		}
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: dropping undecodable entry")
			continue
		}
		job := Job{ID: e.JobID, Type: e.JobType, Payload: e.Payload}
		if job.ID == "" {
			job.ID = newJobID()
		}
		if err := d.push(ctx, queue, job); err != nil {
			// Put it back at the tail so it stays the oldest.
			_ = d.rdb.RPush(ctx, key, raw).Err()
			return moved, err
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("moved", moved).Msg("dlq: jobs requeued")
	}
	return moved, nil
}
