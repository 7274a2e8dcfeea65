package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"
	// QueueEmailRetry is a sorted set of failed email jobs scored by the
	// unix time they become due again.
	QueueEmailRetry = "jobs:email:retry"

	JobTypeEmail = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
	now func() time.Time
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb, now: time.Now}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, e EmailJob) error {
	if e.To == "" {
		return errors.New("email sin destinatario")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	job := Job{ID: newJobID(), Type: JobTypeEmail, Payload: data}
	return d.push(ctx, QueueEmail, job)
}

// ScheduleRetry parks job in the retry set until at.
func (d *Dispatcher) ScheduleRetry(ctx context.Context, queue string, job Job, at time.Time) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.ZAdd(ctx, retryKey(queue), redis.Z{Score: float64(at.Unix()), Member: encoded}).Err()
}

// PromoteDue moves every retry whose time has come back onto its queue and
// returns how many were moved.
func (d *Dispatcher) PromoteDue(ctx context.Context, queue string, limit int64) (int, error) {
	key := retryKey(queue)
	due, err := d.rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", d.now().Unix()),
		Count: limit,
	}).Result()
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, raw := range due {
		// ZREM decides ownership when several servers promote at once.
		removed, err := d.rdb.ZRem(ctx, key, raw).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}
		if err := d.rdb.LPush(ctx, queue, raw).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

func (d *Dispatcher) push(ctx context.Context, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func newJobID() string { return uuid.NewString() }

func retryKey(queue string) string {
	if queue == QueueEmail {
		return QueueEmailRetry
	}
	return queue + ":retry"
}

// Processor handles one decoded job. Returned errors are only logged; retry
// policy belongs to the processor.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// StartWorkerPool launches numWorkers goroutines consuming queue. The
// returned WaitGroup is done once every worker has observed ctx cancellation.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, queue string, numWorkers int, p Processor) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, queue, id, p)
		}(i)
	}
	log.Info().Str("queue", queue).Msgf("worker pool started with %d workers", numWorkers)
	return &wg
}

func runWorker(ctx context.Context, rdb *redis.Client, queue string, id int, p Processor) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Str("queue", queue).Msg("worker: brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processRaw(ctx, p, result[0], result[1])
		}
	}
}

func processRaw(ctx context.Context, p Processor, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Str("job_id", job.ID).Msg("processing job")
	if err := p.Process(ctx, job); err != nil {
		log.Error().Err(err).Str("type", job.Type).Str("job_id", job.ID).Msg("job failed")
	}
}
