package handler

import (
	"net/http"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type PanelHandler struct{ svc service.PanelService }

func NewPanelHandler(svc service.PanelService) *PanelHandler { return &PanelHandler{svc: svc} }

func (h *PanelHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
