package server

import (
	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/portal-controller/internal/handler"
)

// SetupRouter はルーティングを設定する。
func SetupRouter(engine *gin.Engine, h *handler.PortalHandler) {
	// 死活監視
	engine.GET("/", h.HandleRoot)
	engine.GET("/healthz", h.HandleHealthz)

	// セッションライフサイクル
	p := engine.Group("/portal")
	{
		p.POST("/login", h.HandleLogin)
		p.POST("/heartbeat", h.HandleHeartbeat)
		p.POST("/logout", h.HandleLogout)
		p.GET("/status/:mac", h.HandleStatus)
		p.POST("/batch_status", h.HandleBatchStatus)
	}
}
