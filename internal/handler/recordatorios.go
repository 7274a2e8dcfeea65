package handler

import (
	"net/http"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type RecordatoriosHandler struct {
	svc service.RecordatorioService
	now func() time.Time
}

func NewRecordatoriosHandler(svc service.RecordatorioService, clock service.Clock) *RecordatoriosHandler {
	return &RecordatoriosHandler{svc: svc, now: clock}
}

// Listar returns the reminders sent on ?fecha= (today by default).
func (h *RecordatoriosHandler) Listar(c *gin.Context) {
	var f dto.RecordatorioFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f.Fecha)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ejecutar runs one reminder pass on demand. An empty body runs it as of now
// for real.
func (h *RecordatoriosHandler) Ejecutar(c *gin.Context) {
	var req dto.EjecutarRecordatoriosRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	at := h.now()
	if req.At != nil {
		at = *req.At
	}
	resp, err := h.svc.Ejecutar(c.Request.Context(), at, service.RecordatorioOpts{DryRun: req.DryRun})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
