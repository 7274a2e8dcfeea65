package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/router"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	// Bootstrap logger so config errors are readable; reconfigured below.
	infra.SetupLogger("development")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env)

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	festivos, err := infra.LoadFestivos(cfg.FestivosFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load festivos")
	}

	files, err := infra.NewFileStore(cfg.UploadStoragePath, int64(cfg.UploadMaxMB)<<20)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload storage")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := infra.NewMetrics()
	mailer := infra.NewMailer(cfg)
	if !mailer.Configured() {
		log.Warn().Msg("SMTP_HOST vacio: los emails se encolan pero no se envian")
	}
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	dispatcher := worker.NewDispatcher(rdb)

	// Email pool and retry promotion. Worker wiring lives here (composition
	// root) so the pool has access to every infrastructure dependency.
	emailWorker := worker.NewEmailWorker(mailer, smtpCB, dispatcher, metrics)
	poolWG := worker.StartWorkerPool(ctx, rdb, worker.QueueEmail, cfg.WorkerPoolSize, emailWorker)
	retryDone := worker.StartRetryCron(ctx, dispatcher, smtpCB, 0)

	svcs := router.BuildServices(cfg, db, router.Infra{
		Emails:   dispatcher,
		Metrics:  metrics,
		Festivos: festivos,
		Files:    files,
		Clock:    service.SystemClock(cfg.Location()),
	})

	var schedDone <-chan struct{}
	if cfg.ReminderEnabled {
		schedDone, err = worker.StartRecordatorioScheduler(ctx, cfg.ReminderCron, cfg.Location(),
			func(ctx context.Context, now time.Time) error {
				res, err := svcs.Recordatorios.Ejecutar(ctx, now, service.RecordatorioOpts{})
				if err != nil {
					return err
				}
				if len(res.Enviados) > 0 || res.Errores > 0 {
					log.Info().Int("enviados", len(res.Enviados)).Int("errores", res.Errores).
						Int("evaluados", res.Evaluados).Msg("recordatorios: pass done")
				}
				return nil
			})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start reminder scheduler")
		}
	}

	limiters := router.NewLimiters()
	purgeDone := make(chan struct{})
	go func() {
		defer close(purgeDone)
		middleware.PurgeLoop(ctx, 5*time.Minute, limiters.Global, limiters.Login)
	}()

	r := router.New(cfg, db, rdb, metrics, svcs, limiters)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Impulsa Telecom backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	poolWG.Wait()
	<-retryDone
	<-purgeDone
	if schedDone != nil {
		<-schedDone
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
