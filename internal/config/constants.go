package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 3 * time.Second
	ValkeyCommandTimeout = 2 * time.Second
	ValkeyPoolSize       = 10
	ValkeyMinIdleConns   = 2
	ValkeyMaxRetries     = 3
	ValkeyMinRetryDelay  = 100 * time.Millisecond
	ValkeyMaxRetryDelay  = 1 * time.Second
)

// セッションTTLのデフォルト値（ポリシーファイル未指定時）
const (
	DefaultSessionTTL = 3600 * time.Second
	DefaultMaxTTL     = 24 * time.Hour
	DefaultRole       = "guest"
)

// ハートビート関連
const (
	// HeartbeatSourceUnknown は送信元未指定・未登録時のフォールバックキー
	HeartbeatSourceUnknown = "unknown"
)

// Circuit Breaker設定
const (
	CBName             = "valkey-session-store"
	CBMaxRequests      = 1
	CBInterval         = 60 * time.Second
	CBTimeout          = 30 * time.Second
	CBFailureThreshold = 5
)

// サーバーシャットダウン設定
const (
	ShutdownTimeout = 10 * time.Second
)
