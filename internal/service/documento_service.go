package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// tiposDocumento maps the accepted extensions to the stored mime type and the
// content types http.DetectContentType may report for them. Office formats
// sniff as zip (OOXML) or octet-stream (legacy .doc).
var tiposDocumento = map[string]struct {
	mime     string
	sniffers []string
}{
	".pdf":  {"application/pdf", []string{"application/pdf"}},
	".png":  {"image/png", []string{"image/png"}},
	".jpg":  {"image/jpeg", []string{"image/jpeg"}},
	".jpeg": {"image/jpeg", []string{"image/jpeg"}},
	".doc":  {"application/msword", []string{"application/octet-stream"}},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", []string{"application/zip"}},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []string{"application/zip"}},
}

// Archivo is an uploaded file as handed over by the transport layer.
type Archivo struct {
	Nombre    string
	Tamano    int64
	Contenido io.Reader
}

// Almacen is the file storage behind documents (infra.FileStore).
type Almacen interface {
	Save(rel string, r io.Reader) (int64, error)
	Remove(rel string) error
	Path(rel string) (string, error)
	MaxBytes() int64
}

type DocumentoService interface {
	Subir(ctx context.Context, actor Actor, form dto.SubirDocumentoForm, archivo Archivo) (*dto.DocumentoResponse, error)
	Listar(ctx context.Context, actor Actor, nif string) ([]dto.DocumentoResponse, error)
	// Abrir returns the document metadata and the absolute path of its file.
	Abrir(ctx context.Context, actor Actor, id uuid.UUID) (*dto.DocumentoResponse, string, error)
	Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error
}

type documentoService struct {
	repo        repository.DocumentoRepository
	usuarioRepo repository.UsuarioRepository
	almacen     Almacen
}

func NewDocumentoService(repo repository.DocumentoRepository, usuarioRepo repository.UsuarioRepository, almacen Almacen) DocumentoService {
	return &documentoService{repo: repo, usuarioRepo: usuarioRepo, almacen: almacen}
}

func (s *documentoService) Subir(ctx context.Context, actor Actor, form dto.SubirDocumentoForm, archivo Archivo) (*dto.DocumentoResponse, error) {
	propietario := actor.NIF
	if nif := NormalizarNIF(form.UsuarioNIF); nif != "" && nif != actor.NIF {
		if !actor.EsAdmin() {
			return nil, sinPermiso("solo un administrador puede subir documentos a otro usuario")
		}
		u, err := s.usuarioRepo.FindByNIF(ctx, nif)
		if err != nil {
			return nil, notFoundOr(err, "usuario", "buscar usuario")
		}
		propietario = u.NIF
	}

	if limite := s.almacen.MaxBytes(); limite > 0 && archivo.Tamano > limite {
		return nil, demasiadoGrande("el archivo supera el limite de %d MB", limite>>20)
	}
	ext := strings.ToLower(filepath.Ext(archivo.Nombre))
	tipo, ok := tiposDocumento[ext]
	if !ok {
		return nil, invalido("tipo de archivo no permitido (%s)", ext)
	}

	cabecera := make([]byte, 512)
	n, err := io.ReadFull(archivo.Contenido, cabecera)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if n == 0 {
		return nil, invalido("el archivo esta vacio")
	}
	detectado := http.DetectContentType(cabecera[:n])
	if !contiene(tipo.sniffers, detectado) {
		return nil, invalido("el contenido no corresponde a un archivo %s", ext)
	}

	id := uuid.New()
	rel := path.Join(propietario, id.String()+ext)
	tamano, err := s.almacen.Save(rel, io.MultiReader(bytes.NewReader(cabecera[:n]), archivo.Contenido))
	if err != nil {
		if errors.Is(err, infra.ErrArchivoGrande) {
			return nil, demasiadoGrande("el archivo supera el limite de %d MB", s.almacen.MaxBytes()>>20)
		}
		return nil, fmt.Errorf("guardar archivo: %w", err)
	}

	categoria := form.Categoria
	if categoria == "" {
		categoria = "general"
	}
	d := &model.Documento{
		ID:         id,
		UsuarioNIF: propietario,
		Nombre:     filepath.Base(archivo.Nombre),
		Ruta:       rel,
		Mime:       tipo.mime,
		Tamano:     tamano,
		Categoria:  categoria,
		SubidoPor:  actor.NIF,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if rmErr := s.almacen.Remove(rel); rmErr != nil {
			log.Error().Err(rmErr).Str("ruta", rel).Msg("documentos: no se pudo borrar el archivo huerfano")
		}
		return nil, fmt.Errorf("crear documento: %w", err)
	}
	resp := documentoToResponse(d)
	return &resp, nil
}

func (s *documentoService) Listar(ctx context.Context, actor Actor, nif string) ([]dto.DocumentoResponse, error) {
	nif = NormalizarNIF(nif)
	if nif == "" {
		nif = actor.NIF
	}
	if nif != actor.NIF && !actor.EsAdmin() {
		return nil, sinPermiso("no tienes acceso a los documentos de %s", nif)
	}
	ds, err := s.repo.ListByUsuario(ctx, nif)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	resp := make([]dto.DocumentoResponse, len(ds))
	for i := range ds {
		resp[i] = documentoToResponse(&ds[i])
	}
	return resp, nil
}

func (s *documentoService) cargar(ctx context.Context, actor Actor, id uuid.UUID) (*model.Documento, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "documento", "buscar documento")
	}
	if !actor.EsAdmin() && d.UsuarioNIF != actor.NIF && d.SubidoPor != actor.NIF {
		return nil, noEncontrado("documento no encontrado")
	}
	return d, nil
}

func (s *documentoService) Abrir(ctx context.Context, actor Actor, id uuid.UUID) (*dto.DocumentoResponse, string, error) {
	d, err := s.cargar(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if !actor.EsAdmin() && d.UsuarioNIF != actor.NIF {
		return nil, "", sinPermiso("solo el propietario o un administrador puede descargar el documento")
	}
	p, err := s.almacen.Path(d.Ruta)
	if err != nil {
		return nil, "", err
	}
	resp := documentoToResponse(d)
	return &resp, p, nil
}

func (s *documentoService) Eliminar(ctx context.Context, actor Actor, id uuid.UUID) error {
	d, err := s.cargar(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.EsAdmin() && d.SubidoPor != actor.NIF {
		return sinPermiso("solo quien subio el documento o un administrador puede eliminarlo")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFoundOr(err, "documento", "eliminar documento")
	}
	if err := s.almacen.Remove(d.Ruta); err != nil {
		log.Error().Err(err).Str("ruta", d.Ruta).Msg("documentos: no se pudo borrar el archivo")
	}
	return nil
}

func contiene(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func documentoToResponse(d *model.Documento) dto.DocumentoResponse {
	return dto.DocumentoResponse{
		ID:         d.ID.String(),
		UsuarioNIF: d.UsuarioNIF,
		Nombre:     d.Nombre,
		Mime:       d.Mime,
		Tamano:     d.Tamano,
		Categoria:  d.Categoria,
		SubidoPor:  d.SubidoPor,
		CreatedAt:  d.CreatedAt,
	}
}
