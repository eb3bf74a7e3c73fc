package portal

import (
	"context"

	"github.com/oyaguma3/portal-controller/internal/dto"
)

// Service はセッションライフサイクル操作を定義する。
// HTTP層はこのインターフェースにのみ依存する。
type Service interface {
	// Login はセッションを作成し認可レスポンスを返す
	Login(ctx context.Context, rawMAC string) (*dto.SessionResponse, error)
	// Heartbeat は既存セッションのTTLを送信元に応じた値で置き換える
	Heartbeat(ctx context.Context, rawMAC string, source *string) (*dto.SessionResponse, error)
	// Logout はセッションを削除する
	Logout(ctx context.Context, rawMAC string) (*dto.SessionResponse, error)
	// Status は現在のセッション状態を返す（監査対象外）
	Status(ctx context.Context, rawMAC string) (*dto.SessionResponse, error)
	// BatchStatus は複数MACの状態を一括で返す
	BatchStatus(ctx context.Context, entries []dto.BatchStatusEntry) (*dto.BatchStatusResponse, error)
	// Health はバックエンドの疎通状態を返す。エラーは返さず結果に含める
	Health(ctx context.Context) *dto.HealthResponse
}
