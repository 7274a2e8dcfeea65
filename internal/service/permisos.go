package service

import (
	"context"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"
)

// usuarioVisible loads nif (the actor when empty) and checks actor may see it.
func usuarioVisible(ctx context.Context, repo repository.UsuarioRepository, actor Actor, nif string) (*model.Usuario, error) {
	if nif == "" {
		nif = actor.NIF
	}
	nif = NormalizarNIF(nif)
	u, err := repo.FindByNIF(ctx, nif)
	if err != nil {
		return nil, notFoundOr(err, "usuario", "buscar usuario")
	}
	if !actor.PuedeVer(u.NIF, u.Departamento) {
		return nil, sinPermiso("no tienes acceso a los datos de %s", nif)
	}
	return u, nil
}

// departamentoDe returns the department filter for team listings: empty
// (everyone) for administradores, the actor's own otherwise.
func departamentoDe(actor Actor) string {
	if actor.EsAdmin() {
		return ""
	}
	return actor.Departamento
}
