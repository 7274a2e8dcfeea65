package handler

import (
	"errors"
	"net/http"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/apierror"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for the form fields around the file.
const multipartOverhead = 1 << 20

type DocumentosHandler struct {
	svc      service.DocumentoService
	maxBytes int64
}

// NewDocumentosHandler caps request bodies at maxBytes plus the multipart
// overhead; zero disables the cap and leaves the limit to the service.
func NewDocumentosHandler(svc service.DocumentoService, maxBytes int64) *DocumentosHandler {
	return &DocumentosHandler{svc: svc, maxBytes: maxBytes}
}

// Subir expects multipart/form-data with the file in "archivo" and the
// optional usuario_nif and categoria fields.
func (h *DocumentosHandler) Subir(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}
	var form dto.SubirDocumentoForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("archivo demasiado grande"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("Formulario invalido: "+err.Error()))
		return
	}
	if !runValidation(c, &form) {
		return
	}
	fh, err := c.FormFile("archivo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, apierror.New("archivo demasiado grande"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New("falta el campo archivo"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	resp, err := h.svc.Subir(c.Request.Context(), middleware.GetActor(c), form, service.Archivo{
		Nombre:    fh.Filename,
		Tamano:    fh.Size,
		Contenido: f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar: ?nif= defaults to the caller.
func (h *DocumentosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), middleware.GetActor(c), c.Query("nif"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentosHandler) Descargar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	doc, path, err := h.svc.Abrir(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", doc.Mime)
	c.FileAttachment(path, doc.Nombre)
}

func (h *DocumentosHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
