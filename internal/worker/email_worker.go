package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"

	"github.com/rs/zerolog/log"
)

// MaxEmailAttempts is how many sends a job gets before it goes to the DLQ.
const MaxEmailAttempts = 5

// EsperaCircuitoAbierto delays jobs picked up while the SMTP breaker is open.
const EsperaCircuitoAbierto = time.Minute

// EmailJob is the payload of QueueEmail jobs.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
	Adjunto string `json:"adjunto,omitempty"`
	// Ref identifies the business event, e.g. "recordatorio:entrada:<nif>:<fecha>".
	Ref string `json:"ref,omitempty"`
}

// Sender delivers one message. *infra.Mailer satisfies it.
type Sender interface {
	Send(msg infra.Mensaje) error
}

// RetryQueue is the part of Dispatcher the email worker needs.
type RetryQueue interface {
	ScheduleRetry(ctx context.Context, queue string, job Job, at time.Time) error
	SendToDLQ(ctx context.Context, queue string, job Job, reason string) error
}

// EmailWorker sends QueueEmail jobs through the circuit breaker and
// reschedules failures with exponential backoff.
type EmailWorker struct {
	sender  Sender
	cb      *infra.CircuitBreaker
	queue   RetryQueue
	metrics *infra.Metrics
	now     func() time.Time
}

func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker, queue RetryQueue, m *infra.Metrics) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb, queue: queue, metrics: m, now: time.Now}
}

// Process implements Processor.
func (w *EmailWorker) Process(ctx context.Context, job Job) error {
	if job.Type != JobTypeEmail {
		return fmt.Errorf("email_worker: tipo de job inesperado %q", job.Type)
	}
	var payload EmailJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return w.deadLetter(ctx, job, "payload invalido: "+err.Error())
	}
	if payload.To == "" {
		log.Warn().Str("job_id", job.ID).Msg("email_worker: empty recipient, skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.sender.Send(infra.Mensaje{
			To:      payload.To,
			Subject: payload.Subject,
			Text:    payload.Text,
			HTML:    payload.HTML,
			Adjunto: payload.Adjunto,
		})
	})
	if err == nil {
		w.metrics.IncEmail("enviado")
		log.Info().Str("to", payload.To).Str("ref", payload.Ref).Msg("email_worker: email sent")
		return nil
	}

	if errors.Is(err, infra.ErrCircuitOpen) {
		// Nothing was dialed, so the attempt is not spent.
		next := w.now().Add(EsperaCircuitoAbierto)
		if qerr := w.queue.ScheduleRetry(ctx, QueueEmail, job, next); qerr != nil {
			return fmt.Errorf("email_worker: reprogramar: %w", qerr)
		}
		w.metrics.IncEmail("aplazado")
		log.Debug().Str("to", payload.To).Time("next_retry_at", next).Msg("email_worker: circuit open, send deferred")
		return nil
	}

	job.Attempts++
	if job.Attempts >= MaxEmailAttempts {
		return w.deadLetter(ctx, job, fmt.Sprintf("max attempts (%d) exceeded: %s", MaxEmailAttempts, err))
	}
	next := w.now().Add(RetryBackoff(job.Attempts))
	if qerr := w.queue.ScheduleRetry(ctx, QueueEmail, job, next); qerr != nil {
		return fmt.Errorf("email_worker: reprogramar: %w", qerr)
	}
	w.metrics.IncEmail("reintento")
	log.Warn().Err(err).
		Str("to", payload.To).
		Int("attempts", job.Attempts).
		Time("next_retry_at", next).
		Msg("email_worker: send failed, retry scheduled")
	return nil
}

func (w *EmailWorker) deadLetter(ctx context.Context, job Job, reason string) error {
	w.metrics.IncEmail("dlq")
	if err := w.queue.SendToDLQ(ctx, QueueEmail, job, reason); err != nil {
		return fmt.Errorf("email_worker: dlq: %w", err)
	}
	return nil
}

// RetryBackoff: 30s, 1m, 2m, 4m… capped at 30m.
func RetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 30 * time.Second << (attempt - 1)
	if d > 30*time.Minute || d <= 0 {
		return 30 * time.Minute
	}
	return d
}
