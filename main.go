// Package main はポータルセッションコントローラーのエントリーポイント。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oyaguma3/portal-controller/internal/audit"
	"github.com/oyaguma3/portal-controller/internal/config"
	"github.com/oyaguma3/portal-controller/internal/handler"
	"github.com/oyaguma3/portal-controller/internal/policy"
	"github.com/oyaguma3/portal-controller/internal/portal"
	"github.com/oyaguma3/portal-controller/internal/server"
	"github.com/oyaguma3/portal-controller/internal/store"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	initLogger(cfg)

	slog.Info("starting portal-controller",
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel,
		"audit_enabled", cfg.AuditEnabled,
	)

	// 3. ポリシー読み込み
	pc, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		slog.Error("failed to load policy file", "path", cfg.PolicyFile, "error", err)
		os.Exit(1)
	}

	slog.Info("policy loaded",
		"path", cfg.PolicyFile,
		"roles", len(pc.Roles),
		"heartbeat_sources", len(pc.Heartbeat.Sources),
	)

	// 4. 監査署名器（有効時にシークレット未設定なら起動失敗）
	signer, err := audit.New(cfg.AuditEnabled, cfg.AuditSecret)
	if err != nil {
		slog.Error("failed to initialize audit signer", "error", err)
		os.Exit(1)
	}

	// 5. Valkey接続
	valkeyClient, err := store.NewValkeyClient(cfg)
	if err != nil {
		slog.Error("failed to connect to Valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	slog.Info("connected to Valkey", "addr", cfg.RedisAddr())

	// 6. 依存オブジェクト生成
	sessionStore := store.NewBreakerStore(store.NewSessionStore(valkeyClient, pc.Redis.Prefix))
	roleResolver := policy.NewRoleResolver(pc)
	heartbeatResolver := policy.NewHeartbeatResolver(pc)

	portalService := portal.New(sessionStore, roleResolver, heartbeatResolver, signer, pc)

	// ハンドラー
	portalHandler := handler.NewPortalHandler(portalService, cfg)

	// 7. サーバー起動
	srv := server.New(cfg, portalHandler)

	// 8. Graceful Shutdown設定
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 9. シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// initLogger はロガーを初期化する。
func initLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler).With("app", "portal-controller")
	slog.SetDefault(logger)
}
