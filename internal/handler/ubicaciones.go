package handler

import (
	"net/http"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type UbicacionesHandler struct{ svc service.UbicacionService }

func NewUbicacionesHandler(svc service.UbicacionService) *UbicacionesHandler {
	return &UbicacionesHandler{svc: svc}
}

// ── Centros ──────────────────────────────────────────────────────────────────

func (h *UbicacionesHandler) CrearCentro(c *gin.Context) {
	var req dto.CrearCentroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCentro(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UbicacionesHandler) ListarCentros(c *gin.Context) {
	incluir := queryBool(c, "inactivos") && middleware.GetActor(c).EsAdmin()
	resp, err := h.svc.ListarCentros(c.Request.Context(), incluir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UbicacionesHandler) ActualizarCentro(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCentroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCentro(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Ubicaciones ──────────────────────────────────────────────────────────────

func (h *UbicacionesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarUbicacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UbicacionesHandler) Ultimas(c *gin.Context) {
	resp, err := h.svc.Ultimas(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UbicacionesHandler) Recorrido(c *gin.Context) {
	var q dto.RecorridoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Recorrido(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
