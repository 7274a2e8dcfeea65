package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/apierror"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type InformesHandler struct{ svc service.InformeService }

func NewInformesHandler(svc service.InformeService) *InformesHandler {
	return &InformesHandler{svc: svc}
}

// Mensual serves GET /informes/:nif/:anio/:mes as JSON, or as a PDF download
// when :mes carries a ".pdf" suffix.
func (h *InformesHandler) Mensual(c *gin.Context) {
	mesParam := c.Param("mes")
	pdf := strings.HasSuffix(mesParam, ".pdf")
	mesParam = strings.TrimSuffix(mesParam, ".pdf")

	anio, err := strconv.Atoi(c.Param("anio"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("anio invalido"))
		return
	}
	mes, err := strconv.Atoi(mesParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("mes invalido"))
		return
	}
	actor := middleware.GetActor(c)
	nif := c.Param("nif")
	if nif == "me" {
		nif = actor.NIF
	}

	if !pdf {
		resp, err := h.svc.Mensual(c.Request.Context(), actor, nif, anio, mes)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	path, err := h.svc.MensualPDF(c.Request.Context(), actor, nif, anio, mes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, filepath.Base(path))
}
