package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contenidoPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")

func archivo(nombre string, contenido []byte) Archivo {
	return Archivo{Nombre: nombre, Tamano: int64(len(contenido)), Contenido: bytes.NewReader(contenido)}
}

func newDocumentoFixture(t *testing.T) (DocumentoService, *stubDocumentoRepo, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := infra.NewFileStore(dir, 1024)
	require.NoError(t, err)
	repo := newStubDocumentoRepo()
	return NewDocumentoService(repo, usuariosBase(), fs), repo, dir
}

func TestSubirDocumento(t *testing.T) {
	svc, _, dir := newDocumentoFixture(t)
	ctx := context.Background()

	doc, err := svc.Subir(ctx, empleada, dto.SubirDocumentoForm{}, archivo("../justificante.PDF", contenidoPDF))
	require.NoError(t, err)
	assert.Equal(t, "justificante.PDF", doc.Nombre)
	assert.Equal(t, "application/pdf", doc.Mime)
	assert.Equal(t, "general", doc.Categoria)
	assert.Equal(t, empleada.NIF, doc.UsuarioNIF)
	assert.EqualValues(t, len(contenidoPDF), doc.Tamano)

	resp, ruta, err := svc.Abrir(ctx, empleada, uuid.MustParse(doc.ID))
	require.NoError(t, err)
	assert.Equal(t, doc.ID, resp.ID)
	assert.True(t, strings.HasPrefix(ruta, dir))
	guardado, err := os.ReadFile(ruta)
	require.NoError(t, err)
	assert.Equal(t, contenidoPDF, guardado)
}

func TestSubirDocumento_Rechazos(t *testing.T) {
	svc, _, _ := newDocumentoFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		archivo Archivo
		want    error
	}{
		{"extension no permitida", archivo("script.sh", []byte("#!/bin/sh\necho hola\n")), ErrValidacion},
		{"contenido no coincide", archivo("falso.pdf", []byte("esto no es un pdf")), ErrValidacion},
		{"zip disfrazado de png", archivo("foto.png", []byte("PK\x03\x04resto")), ErrValidacion},
		{"vacio", archivo("vacio.pdf", nil), ErrValidacion},
		{"tamano declarado", Archivo{Nombre: "grande.pdf", Tamano: 4096, Contenido: bytes.NewReader(contenidoPDF)}, ErrDemasiadoGrande},
		{"tamano real", Archivo{Nombre: "grande.pdf", Tamano: 10, Contenido: bytes.NewReader(append(append([]byte{}, contenidoPDF...), make([]byte, 2048)...))}, ErrDemasiadoGrande},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Subir(ctx, empleada, dto.SubirDocumentoForm{}, tt.archivo)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	ls, err := svc.Listar(ctx, empleada, "")
	require.NoError(t, err)
	assert.Empty(t, ls)
}

func TestSubirDocumento_ParaOtroUsuario(t *testing.T) {
	svc, _, _ := newDocumentoFixture(t)
	ctx := context.Background()

	_, err := svc.Subir(ctx, supervisor, dto.SubirDocumentoForm{UsuarioNIF: empleada.NIF}, archivo("n.pdf", contenidoPDF))
	assert.ErrorIs(t, err, ErrSinPermiso)
	_, err = svc.Subir(ctx, admin, dto.SubirDocumentoForm{UsuarioNIF: "99999999R"}, archivo("n.pdf", contenidoPDF))
	assert.ErrorIs(t, err, ErrNoEncontrado)

	nomina, err := svc.Subir(ctx, admin, dto.SubirDocumentoForm{UsuarioNIF: empleada.NIF, Categoria: "nomina"}, archivo("nomina.pdf", contenidoPDF))
	require.NoError(t, err)
	assert.Equal(t, empleada.NIF, nomina.UsuarioNIF)
	assert.Equal(t, admin.NIF, nomina.SubidoPor)

	id := uuid.MustParse(nomina.ID)
	_, _, err = svc.Abrir(ctx, empleada, id)
	assert.NoError(t, err)
	_, _, err = svc.Abrir(ctx, supervisor, id)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.ErrorIs(t, svc.Eliminar(ctx, empleada, id), ErrSinPermiso, "only the uploader or an admin deletes")

	_, err = svc.Listar(ctx, supervisor, empleada.NIF)
	assert.ErrorIs(t, err, ErrSinPermiso)
	ls, err := svc.Listar(ctx, admin, empleada.NIF)
	require.NoError(t, err)
	assert.Len(t, ls, 1)
}

func TestEliminarDocumento_BorraArchivo(t *testing.T) {
	svc, _, _ := newDocumentoFixture(t)
	ctx := context.Background()
	doc, err := svc.Subir(ctx, empleada, dto.SubirDocumentoForm{}, archivo("j.pdf", contenidoPDF))
	require.NoError(t, err)
	id := uuid.MustParse(doc.ID)
	_, ruta, err := svc.Abrir(ctx, empleada, id)
	require.NoError(t, err)

	require.NoError(t, svc.Eliminar(ctx, empleada, id))
	_, err = os.Stat(ruta)
	assert.True(t, os.IsNotExist(err))
	_, _, err = svc.Abrir(ctx, empleada, id)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestSubirDocumento_FalloDeBDNoDejaHuerfanos(t *testing.T) {
	svc, repo, dir := newDocumentoFixture(t)
	repo.err = errors.New("db caida")

	_, err := svc.Subir(context.Background(), empleada, dto.SubirDocumentoForm{}, archivo("j.pdf", contenidoPDF))
	require.Error(t, err)

	entradas, err := os.ReadDir(filepath.Join(dir, empleada.NIF))
	require.NoError(t, err)
	assert.Empty(t, entradas)
}
