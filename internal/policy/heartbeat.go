// Package policy は静的設定に基づくポリシー解決を提供する。
package policy

import (
	"time"

	"github.com/oyaguma3/portal-controller/internal/config"
)

// HeartbeatResolver はハートビート送信元ごとのTTLを解決する。
// テーブルは構築時に受け取り、以後変更されない。
type HeartbeatResolver struct {
	sources    map[string]int
	defaultTTL time.Duration
}

// NewHeartbeatResolver は新しいHeartbeatResolverを生成する。
// defaultTTLはテーブルにunknownエントリすら無い場合の最終フォールバック。
func NewHeartbeatResolver(pc *config.PolicyConfig) *HeartbeatResolver {
	return &HeartbeatResolver{
		sources:    pc.Heartbeat.Sources,
		defaultTTL: time.Duration(pc.Session.DefaultTTL) * time.Second,
	}
}

// ResolveTTL は送信元ラベルからTTLを解決する。
// 解決順序: 送信元そのもの → テーブルのunknownエントリ → デフォルトTTL。
// sourceがnil・空の場合はunknownとして扱う。
func (r *HeartbeatResolver) ResolveTTL(source *string) time.Duration {
	label := config.HeartbeatSourceUnknown
	if source != nil && *source != "" {
		label = *source
	}

	if ttl, ok := r.sources[label]; ok && ttl > 0 {
		return time.Duration(ttl) * time.Second
	}
	if ttl, ok := r.sources[config.HeartbeatSourceUnknown]; ok && ttl > 0 {
		return time.Duration(ttl) * time.Second
	}
	return r.defaultTTL
}
