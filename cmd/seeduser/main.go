// cmd/seeduser creates or updates a user, an administrador by default.
//
//	seeduser --nif 12345678Z --email admin@impulsatelecom.es --password 'cambiame1'
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type opciones struct {
	nif          string
	nombre       string
	email        string
	password     string
	rol          string
	departamento string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o opciones
	cmd := &cobra.Command{
		Use:          "seeduser",
		Short:        "Crea o actualiza un usuario (por defecto administrador)",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.validar(); err != nil {
				return err
			}
			return run(cmd.Context(), o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.nif, "nif", "", "NIF del usuario (obligatorio)")
	f.StringVar(&o.nombre, "nombre", "Administrador", "nombre")
	f.StringVar(&o.email, "email", "", "email (obligatorio)")
	f.StringVar(&o.password, "password", "", "password en claro, minimo 8 caracteres (obligatorio)")
	f.StringVar(&o.rol, "rol", model.RolAdministrador, "empleado | supervisor | administrador")
	f.StringVar(&o.departamento, "departamento", "", "departamento")
	return cmd
}

func (o *opciones) validar() error {
	o.nif = service.NormalizarNIF(o.nif)
	o.email = strings.ToLower(strings.TrimSpace(o.email))
	switch {
	case o.nif == "":
		return errors.New("--nif es obligatorio")
	case o.email == "":
		return errors.New("--email es obligatorio")
	case len(o.password) < 8:
		return errors.New("--password debe tener al menos 8 caracteres")
	}
	switch o.rol {
	case model.RolEmpleado, model.RolSupervisor, model.RolAdministrador:
	default:
		return fmt.Errorf("--rol %q invalido", o.rol)
	}
	return nil
}

func run(ctx context.Context, o opciones) error {
	if ctx == nil {
		ctx = context.Background()
	}
	infra.SetupLogger("development")
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.password), 12)
	if err != nil {
		return fmt.Errorf("bcrypt: %w", err)
	}

	repo := repository.NewUsuarioRepository(db)
	u, err := repo.FindByNIF(ctx, o.nif)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.Usuario{NIF: o.nif, Recordatorios: true}
		aplicar(u, o, string(hash))
		if err := repo.Create(ctx, u); err != nil {
			return fmt.Errorf("crear usuario: %w", err)
		}
		log.Info().Str("nif", u.NIF).Str("rol", u.Rol).Msg("usuario creado")
	case err != nil:
		return fmt.Errorf("buscar usuario: %w", err)
	default:
		aplicar(u, o, string(hash))
		if err := repo.Update(ctx, u); err != nil {
			return fmt.Errorf("actualizar usuario: %w", err)
		}
		log.Info().Str("nif", u.NIF).Str("rol", u.Rol).Msg("usuario actualizado")
	}
	return nil
}

func aplicar(u *model.Usuario, o opciones, hash string) {
	u.Nombre = o.nombre
	u.Email = o.email
	u.PasswordHash = hash
	u.Rol = o.rol
	u.Departamento = o.departamento
	u.Activo = true
}
