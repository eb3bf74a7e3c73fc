package dto

import "github.com/oyaguma3/portal-controller/internal/model"

// SessionResponse は認可判定の外部向けレスポンスを表す。
// 未認可の場合はauthorized以外のフィールドを出力しない。
type SessionResponse struct {
	Authorized bool                 `json:"authorized"`
	Role       *string              `json:"role,omitempty"`
	TTL        *int64               `json:"ttl,omitempty"`
	Network    *model.NetworkPolicy `json:"network,omitempty"`
}

// BatchStatusResult は一括照会の1エントリの結果を表す。
type BatchStatusResult struct {
	MAC string `json:"mac"`
	SessionResponse
}

// BatchStatusResponse は一括ステータス照会レスポンスを表す。
type BatchStatusResponse struct {
	Results []BatchStatusResult `json:"results"`
}

// ValkeyHealth はバックエンドの疎通状態を表す。
type ValkeyHealth struct {
	Ping  bool   `json:"ping"`
	Error string `json:"error,omitempty"`
}

// HealthResponse はヘルスチェックレスポンスを表す。
type HealthResponse struct {
	Status string       `json:"status"`
	Valkey ValkeyHealth `json:"valkey"`
}

// RootResponse はルートエンドポイントのレスポンスを表す。
type RootResponse struct {
	Status string `json:"status"`
}
