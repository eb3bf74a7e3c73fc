// Package handler はHTTPリクエストハンドラーを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oyaguma3/portal-controller/internal/config"
	"github.com/oyaguma3/portal-controller/internal/dto"
	"github.com/oyaguma3/portal-controller/internal/logging"
	"github.com/oyaguma3/portal-controller/internal/mac"
	"github.com/oyaguma3/portal-controller/internal/portal"
	"github.com/oyaguma3/portal-controller/internal/store"
)

// TraceIDKey はコンテキストにTraceIDを格納するキー。
const TraceIDKey = "trace_id"

// PortalHandler はセッションライフサイクルAPIのハンドラー。
type PortalHandler struct {
	service portal.Service
	cfg     *config.Config
}

// NewPortalHandler は新しいPortalHandlerを生成する。
func NewPortalHandler(service portal.Service, cfg *config.Config) *PortalHandler {
	return &PortalHandler{
		service: service,
		cfg:     cfg,
	}
}

// HandleLogin はPOST /portal/login のハンドラー。
func (h *PortalHandler) HandleLogin(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, traceID, "LOGIN_ERR", "Invalid request body", err)
		return
	}

	resp, err := h.service.Login(ctx, req.MAC)
	if err != nil {
		h.handleError(c, traceID, "LOGIN_ERR", req.MAC, err)
		return
	}

	slog.Info("login accepted",
		"trace_id", traceID,
		"event_id", "LOGIN_OK",
		"mac", h.maskMAC(req.MAC),
		"http_status", http.StatusOK,
	)
	c.JSON(http.StatusOK, resp)
}

// HandleHeartbeat はPOST /portal/heartbeat のハンドラー。
func (h *PortalHandler) HandleHeartbeat(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()

	var req dto.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, traceID, "HB_ERR", "Invalid request body", err)
		return
	}

	resp, err := h.service.Heartbeat(ctx, req.MAC, req.Source)
	if err != nil {
		h.handleError(c, traceID, "HB_ERR", req.MAC, err)
		return
	}

	slog.Info("heartbeat processed",
		"trace_id", traceID,
		"event_id", "HB_OK",
		"mac", h.maskMAC(req.MAC),
		"authorized", resp.Authorized,
		"http_status", http.StatusOK,
	)
	c.JSON(http.StatusOK, resp)
}

// HandleLogout はPOST /portal/logout のハンドラー。
func (h *PortalHandler) HandleLogout(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()

	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, traceID, "LOGOUT_ERR", "Invalid request body", err)
		return
	}

	resp, err := h.service.Logout(ctx, req.MAC)
	if err != nil {
		h.handleError(c, traceID, "LOGOUT_ERR", req.MAC, err)
		return
	}

	slog.Info("logout processed",
		"trace_id", traceID,
		"event_id", "LOGOUT_OK",
		"mac", h.maskMAC(req.MAC),
		"http_status", http.StatusOK,
	)
	c.JSON(http.StatusOK, resp)
}

// HandleStatus はGET /portal/status/:mac のハンドラー。
func (h *PortalHandler) HandleStatus(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()

	rawMAC := c.Param("mac")
	resp, err := h.service.Status(ctx, rawMAC)
	if err != nil {
		h.handleError(c, traceID, "STATUS_ERR", rawMAC, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleBatchStatus はPOST /portal/batch_status のハンドラー。
func (h *PortalHandler) HandleBatchStatus(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()

	var req dto.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, traceID, "STATUS_ERR", "Invalid request body", err)
		return
	}

	resp, err := h.service.BatchStatus(ctx, req.Entries)
	if err != nil {
		h.handleError(c, traceID, "STATUS_ERR", "", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// badRequest はリクエスト不正のレスポンスを処理する。
func (h *PortalHandler) badRequest(c *gin.Context, traceID any, eventID, detail string, err error) {
	slog.Warn("invalid request body",
		"trace_id", traceID,
		"event_id", eventID,
		"error", err.Error(),
	)
	c.JSON(http.StatusBadRequest, dto.NewProblemDetail(
		http.StatusBadRequest,
		"Bad Request",
		detail,
	))
}

// handleError はサービス層エラーのレスポンスを処理する。
func (h *PortalHandler) handleError(c *gin.Context, traceID any, eventID, rawMAC string, err error) {
	switch {
	case errors.Is(err, mac.ErrInvalidMAC):
		slog.Warn("invalid MAC address format",
			"trace_id", traceID,
			"event_id", eventID,
			"mac", h.maskMAC(rawMAC),
			"http_status", http.StatusBadRequest,
		)
		c.JSON(http.StatusBadRequest, dto.NewProblemDetail(
			http.StatusBadRequest,
			"Bad Request",
			"MAC address must be in aa:bb:cc:dd:ee:ff format",
		))
	case errors.Is(err, store.ErrValkeyUnavailable):
		slog.Error("session store unavailable",
			"trace_id", traceID,
			"event_id", "STORE_ERR",
			"mac", h.maskMAC(rawMAC),
			"error", err.Error(),
			"http_status", http.StatusServiceUnavailable,
		)
		c.JSON(http.StatusServiceUnavailable, dto.NewProblemDetail(
			http.StatusServiceUnavailable,
			"Service Unavailable",
			"Session store is unavailable",
		))
	default:
		slog.Error("unexpected error",
			"trace_id", traceID,
			"event_id", eventID,
			"mac", h.maskMAC(rawMAC),
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, dto.NewProblemDetail(
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred",
		))
	}
}

// maskMAC はログ出力用にMACアドレスをマスクする。
func (h *PortalHandler) maskMAC(rawMAC string) string {
	return logging.MaskMAC(rawMAC, h.cfg.LogMaskMAC)
}
