package handler

import (
	"net/http"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/dto"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type HorariosHandler struct{ svc service.HorarioService }

func NewHorariosHandler(svc service.HorarioService) *HorariosHandler {
	return &HorariosHandler{svc: svc}
}

func (h *HorariosHandler) Crear(c *gin.Context) {
	var req dto.CrearHorarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearHorario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HorariosHandler) Listar(c *gin.Context) {
	incluir := queryBool(c, "inactivos") && middleware.GetActor(c).EsAdmin()
	resp, err := h.svc.ListarHorarios(c.Request.Context(), incluir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HorariosHandler) Obtener(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerHorario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HorariosHandler) Actualizar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarHorarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarHorario(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HorariosHandler) Eliminar(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarHorario(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Turnos ───────────────────────────────────────────────────────────────────

func (h *HorariosHandler) CrearTurno(c *gin.Context) {
	var req dto.CrearTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTurno(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *HorariosHandler) ListarTurnos(c *gin.Context) {
	resp, err := h.svc.ListarTurnos(c.Request.Context(), middleware.GetActor(c), c.Query("nif"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HorariosHandler) ActualizarTurno(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarTurno(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HorariosHandler) EliminarTurno(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarTurno(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Calendario ───────────────────────────────────────────────────────────────

// Calendario: ?mes=YYYY-MM&nif= ; both optional.
func (h *HorariosHandler) Calendario(c *gin.Context) {
	resp, err := h.svc.Calendario(c.Request.Context(), middleware.GetActor(c), c.Query("nif"), c.Query("mes"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HorarioEfectivo: ?fecha=YYYY-MM-DD&nif= ; both optional.
func (h *HorariosHandler) HorarioEfectivo(c *gin.Context) {
	resp, err := h.svc.HorarioEfectivo(c.Request.Context(), middleware.GetActor(c), c.Query("nif"), c.Query("fecha"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
