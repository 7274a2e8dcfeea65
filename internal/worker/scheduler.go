package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RunFunc is one scheduled pass. now is the tick time in the scheduler's
// location.
type RunFunc func(ctx context.Context, now time.Time) error

type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	log.Debug().Fields(kv).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	log.Error().Err(err).Fields(kv).Msg("cron: " + msg)
}

// StartRecordatorioScheduler runs fn on spec (standard 5-field cron) in loc.
// A pass still running when the next tick fires is not overlapped. The
// returned channel closes once ctx is cancelled and the running pass, if
// any, has finished.
func StartRecordatorioScheduler(ctx context.Context, spec string, loc *time.Location, fn RunFunc) (<-chan struct{}, error) {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	_, err := c.AddFunc(spec, func() {
		now := time.Now().In(loc).Truncate(time.Minute)
		if err := fn(ctx, now); err != nil {
			log.Error().Err(err).Time("at", now).Msg("recordatorios: pass failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("cron %q invalido: %w", spec, err)
	}
	c.Start()
	log.Info().Str("spec", spec).Str("tz", loc.String()).Msg("recordatorios: scheduler started")

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("recordatorios: scheduler stopped")
	}()
	return done, nil
}
