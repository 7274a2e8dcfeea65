package handler

import (
	"net/http"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type FichajesHandler struct{ svc service.FichajeService }

func NewFichajesHandler(svc service.FichajeService) *FichajesHandler {
	return &FichajesHandler{svc: svc}
}

// bindFichar accepts an empty body: coordinates are optional unless the
// geofence is enforced, which the service decides.
func bindFichar(c *gin.Context) (dto.FicharRequest, bool) {
	var req dto.FicharRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	return req, bindAndValidate(c, &req)
}

// Fichar registers entrada or salida depending on the current state and
// answers with every registro it wrote.
func (h *FichajesHandler) Fichar(c *gin.Context) {
	req, ok := bindFichar(c)
	if !ok {
		return
	}
	resp, err := h.svc.Fichar(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FichajesHandler) IniciarPausa(c *gin.Context) {
	req, ok := bindFichar(c)
	if !ok {
		return
	}
	resp, err := h.svc.IniciarPausa(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FichajesHandler) FinalizarPausa(c *gin.Context) {
	req, ok := bindFichar(c)
	if !ok {
		return
	}
	resp, err := h.svc.FinalizarPausa(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FichajesHandler) Estado(c *gin.Context) {
	resp, err := h.svc.Estado(c.Request.Context(), middleware.GetActor(c).NIF)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FichajesHandler) Historial(c *gin.Context) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FichajesHandler) Resumen(c *gin.Context) {
	var q dto.RangoQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.GetActor(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FichajesHandler) Manual(c *gin.Context) {
	var req dto.RegistroManualRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistroManual(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Equipo lists the registros of the actor's team for ?fecha= (today by default).
func (h *FichajesHandler) Equipo(c *gin.Context) {
	resp, err := h.svc.Equipo(c.Request.Context(), middleware.GetActor(c), c.Query("fecha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
