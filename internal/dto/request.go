// Package dto はリクエスト・レスポンスのデータ転送オブジェクトを定義する。
package dto

import "encoding/json"

// LoginRequest はログインリクエストを表す。
type LoginRequest struct {
	MAC string `json:"mac" binding:"required"`
}

// LogoutRequest はログアウトリクエストを表す。
type LogoutRequest struct {
	MAC string `json:"mac" binding:"required"`
}

// HeartbeatRequest はハートビートリクエストを表す。
// アクセスデバイスのファームウェアは既知フィールド以外も送ってくるため、
// 未知のフィールドはExtraに分離して保持する（スキーマは崩さない）。
type HeartbeatRequest struct {
	MAC    string         `json:"mac" binding:"required"`
	Source *string        `json:"source"`
	Extra  map[string]any `json:"-"`
}

// UnmarshalJSON は既知フィールドを取り出し、残りをExtraへ退避する。
func (r *HeartbeatRequest) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if v, ok := raw["mac"]; ok {
		if err := json.Unmarshal(v, &r.MAC); err != nil {
			return err
		}
		delete(raw, "mac")
	}
	if v, ok := raw["source"]; ok {
		if err := json.Unmarshal(v, &r.Source); err != nil {
			return err
		}
		delete(raw, "source")
	}

	if len(raw) == 0 {
		return nil
	}
	r.Extra = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		r.Extra[k] = val
	}
	return nil
}

// BatchStatusRequest は一括ステータス照会リクエストを表す。
type BatchStatusRequest struct {
	Entries []BatchStatusEntry `json:"entries"`
}

// BatchStatusEntry は一括照会の1エントリを表す。
type BatchStatusEntry struct {
	MAC string `json:"mac"`
}
