package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PolicyConfig はポリシーファイルの内容を保持する。
// プロセス起動時に一度だけ読み込み、以後は不変として扱う。
type PolicyConfig struct {
	Session   SessionPolicy      `yaml:"session"`
	Redis     RedisPolicy        `yaml:"redis"`
	Roles     map[string]RoleDef `yaml:"roles"`
	Heartbeat HeartbeatPolicy    `yaml:"heartbeat"`
}

// SessionPolicy はセッションTTLとデフォルトロールの設定。
type SessionPolicy struct {
	DefaultTTL  int    `yaml:"default_ttl"`  // ログイン時のTTL（秒）
	MaxTTL      int    `yaml:"max_ttl"`      // TTLの上限（秒）
	DefaultRole string `yaml:"default_role"` // ログイン時に付与するロール
}

// RedisPolicy はセッションキーのネームスペース設定。
type RedisPolicy struct {
	Prefix string `yaml:"prefix"`
}

// RoleDef はロール定義。
type RoleDef struct {
	Network NetworkDef `yaml:"network"`
}

// NetworkDef はロールに紐づくネットワークポリシー定義。
type NetworkDef struct {
	VLAN   *int    `yaml:"vlan"`
	Policy *string `yaml:"policy"`
	IPSet  *string `yaml:"ipset"`
}

// HeartbeatPolicy はハートビート送信元ごとのTTLテーブル。
type HeartbeatPolicy struct {
	Sources map[string]int `yaml:"sources"` // 送信元ラベル → TTL（秒）
}

// LoadPolicy はYAMLポリシーファイルを読み込む。
// 省略された項目にはデフォルト値を適用する。
func LoadPolicy(path string) (*PolicyConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return ParsePolicy(b)
}

// ParsePolicy はYAMLバイト列からPolicyConfigを生成する。
func ParsePolicy(b []byte) (*PolicyConfig, error) {
	var pc PolicyConfig
	if err := yaml.Unmarshal(b, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if pc.Session.DefaultTTL <= 0 {
		pc.Session.DefaultTTL = int(DefaultSessionTTL / time.Second)
	}
	if pc.Session.MaxTTL <= 0 {
		pc.Session.MaxTTL = int(DefaultMaxTTL / time.Second)
	}
	if pc.Session.DefaultRole == "" {
		pc.Session.DefaultRole = DefaultRole
	}
	if pc.Redis.Prefix == "" {
		pc.Redis.Prefix = "session:"
	}

	if pc.Session.MaxTTL < pc.Session.DefaultTTL {
		return nil, fmt.Errorf("session.max_ttl (%d) must be >= session.default_ttl (%d)",
			pc.Session.MaxTTL, pc.Session.DefaultTTL)
	}

	return &pc, nil
}
