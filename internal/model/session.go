// Package model は共有データモデルを定義する。
package model

// Session は1クライアントMACに対する認可グラントを表す。
// Valkeyキー: session:{MAC}（プレフィックスは設定で変更可能）
// ハッシュフィールド: role, expires_at
// 有効期限の強制はValkeyのキーTTLに委譲し、expires_atは監査用の
// 絶対時刻として保持する。
type Session struct {
	MAC       string `json:"mac"`        // 正規化済みMACアドレス
	Role      string `json:"role"`       // 認可ロール
	ExpiresAt int64  `json:"expires_at"` // 失効時刻（Unix秒）
	TTL       int64  `json:"ttl"`        // 残り秒数（読み取り時にTTLコマンドから導出）
}

// NetworkPolicy はロールに紐づくネットワークポリシーを表す。
// 未設定のフィールドはnilのままJSONでnullとして出力される。
type NetworkPolicy struct {
	VLAN   *int    `json:"vlan"`   // VLAN ID
	Policy *string `json:"policy"` // ファイアウォールポリシーID
	IPSet  *string `json:"ipset"`  // ipset名
}
