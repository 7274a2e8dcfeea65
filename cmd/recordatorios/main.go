// cmd/recordatorios runs one reminder pass and exits. It is meant for hosts
// that schedule reminders from cron (every minute, weekdays) instead of
// setting REMINDER_ENABLED. The dlq subcommand inspects or requeues emails
// that exhausted their retries.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/router"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		at     string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:          "recordatorios",
		Short:        "Envia los recordatorios de fichaje pendientes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), at, dryRun)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `simula la hora de ejecucion ("2006-01-02 15:04", zona TIMEZONE)`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "evalua sin encolar emails ni registrar envios")
	cmd.AddCommand(newDLQCmd())
	return cmd
}

func newDLQCmd() *cobra.Command {
	var (
		limit     int
		reencolar bool
	)
	cmd := &cobra.Command{
		Use:          "dlq",
		Short:        "Muestra o reencola los emails que agotaron sus reintentos",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDLQ(cmd.Context(), limit, reencolar)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "numero maximo de entradas")
	cmd.Flags().BoolVar(&reencolar, "reencolar", false, "devuelve las entradas mas antiguas a la cola de email")
	return cmd
}

func runDLQ(ctx context.Context, limit int, reencolar bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	infra.SetupLogger(cfg.Env)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()
	d := worker.NewDispatcher(rdb)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if reencolar {
		n, err := d.RequeueDLQ(ctx, worker.QueueEmail, limit)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]int{"reencolados": n})
	}
	entries, err := d.ListDLQ(ctx, worker.QueueEmail, int64(limit))
	if err != nil {
		return err
	}
	return enc.Encode(entries)
}

func run(ctx context.Context, at string, dryRun bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	infra.SetupLogger("development")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	infra.SetupLogger(cfg.Env)

	now, err := parseAt(at, cfg.Location())
	if err != nil {
		return err
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL, false)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()
	festivos, err := infra.LoadFestivos(cfg.FestivosFile)
	if err != nil {
		return err
	}

	// Emails are only enqueued; the server's worker pool delivers them.
	svcs := router.BuildServices(cfg, db, router.Infra{
		Emails:   worker.NewDispatcher(rdb),
		Festivos: festivos,
		Clock:    service.SystemClock(cfg.Location()),
	})
	res, err := svcs.Recordatorios.Ejecutar(ctx, now, service.RecordatorioOpts{DryRun: dryRun})
	if err != nil {
		return err
	}
	log.Info().Int("evaluados", res.Evaluados).Int("enviados", len(res.Enviados)).
		Int("errores", res.Errores).Bool("dry_run", dryRun).Msg("recordatorios: pass done")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func parseAt(at string, loc *time.Location) (time.Time, error) {
	if at == "" {
		return time.Now().In(loc).Truncate(time.Minute), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, at, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("--at %q: formato esperado 2006-01-02 15:04", at)
}
