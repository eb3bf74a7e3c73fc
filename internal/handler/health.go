package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/portal-controller/internal/dto"
)

// HandleHealthz はGET /healthz のハンドラー。
// バックエンドが落ちていても200で返し、本文のstatusで劣化を示す。
func (h *PortalHandler) HandleHealthz(c *gin.Context) {
	resp := h.service.Health(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

// HandleRoot はGET / のハンドラー。
func (h *PortalHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{Status: "ok"})
}
