// Package config は環境変数とポリシーファイルから設定を読み込む。
package config

import (
	"fmt"
	"net"

	"github.com/kelseyhightower/envconfig"
)

// Config はポータルコントローラーのプロセス設定を保持する。
type Config struct {
	// Valkey接続設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" required:"true"`
	RedisPass string `envconfig:"REDIS_PASS" required:"true"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// サーバー設定
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskMAC bool   `envconfig:"LOG_MASK_MAC" default:"true"`
	GinMode    string `envconfig:"GIN_MODE" default:"release"`

	// 監査ログ設定
	AuditEnabled bool   `envconfig:"AUDIT_ENABLED" default:"true"`
	AuditSecret  string `envconfig:"AUDIT_SECRET"`

	// ポリシーファイルパス
	PolicyFile string `envconfig:"POLICY_FILE" default:"/app/config/policy.yaml"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// RedisAddr はValkey接続文字列を返す。
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}
