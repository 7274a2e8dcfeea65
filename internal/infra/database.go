package infra

import (
	"fmt"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection for the given driver ("mysql" or
// "postgres"), tunes the pool and, when autoMigrate is set, creates/updates
// every table before applying the idempotent patches GORM cannot express.
func NewDatabase(driver, dsn string, autoMigrate bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("database: driver %q no soportado", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Models lists every table owned by the service, in FK-safe order.
func Models() []any {
	return []any{
		&model.Horario{},
		&model.CentroTrabajo{},
		&model.Usuario{},
		&model.Turno{},
		&model.Registro{},
		&model.Ubicacion{},
		&model.Documento{},
		&model.Evento{},
		&model.Incidencia{},
		&model.Tarea{},
		&model.Solicitud{},
		&model.RecordatorioEnviado{},
	}
}

// RunMigrations runs AutoMigrate and then the schema patches. Used at startup
// and by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches adds the indexes AutoMigrate does not derive from the
// struct tags. Each patch checks for existence first, so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct {
		table, index string
		columns      []string
	}{
		// reminder pass: "has this user clocked <tipo> today?"
		{"registros", "idx_registros_usuario_tipo_fecha", []string{"usuario_nif", "tipo", "fecha_hora"}},
		// calendar range queries
		{"eventos", "idx_eventos_visibilidad_inicio", []string{"visibilidad", "inicio"}},
		// overlap checks on day-off requests
		{"solicitudes", "idx_solicitudes_usuario_estado", []string{"usuario_nif", "estado"}},
		{"tareas", "idx_tareas_asignado_estado", []string{"asignado_nif", "estado"}},
	}

	m := db.Migrator()
	for _, p := range patches {
		if m.HasIndex(p.table, p.index) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", p.index, p.table, strings.Join(p.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.index, err)
		}
	}
	return nil
}
