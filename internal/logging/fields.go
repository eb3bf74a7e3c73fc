package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldTraceID    = "trace_id"
	FieldEventID    = "event_id"
	FieldError      = "error"
	FieldLatencyMs  = "latency_ms"
	FieldHTTPStatus = "http_status"
	FieldMAC        = "mac"
	FieldSource     = "source"
	FieldResult     = "result"
)

// WithTraceID はトレースIDのslog.Attrを返す。
func WithTraceID(traceID string) slog.Attr {
	return slog.String(FieldTraceID, traceID)
}

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithLatency はレイテンシ（ミリ秒）のslog.Attrを返す。
func WithLatency(ms int64) slog.Attr {
	return slog.Int64(FieldLatencyMs, ms)
}

// WithHTTPStatus はHTTPステータスコードのslog.Attrを返す。
func WithHTTPStatus(status int) slog.Attr {
	return slog.Int(FieldHTTPStatus, status)
}

// WithResult は処理結果のslog.Attrを返す。
func WithResult(result string) slog.Attr {
	return slog.String(FieldResult, result)
}

// CommonFields はマスキング設定を保持するログフィールド生成器。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields は新しいCommonFieldsを生成する。
func NewCommonFields(masker *Masker) *CommonFields {
	if masker == nil {
		masker = NewMasker(false)
	}
	return &CommonFields{masker: masker}
}

// WithMAC はマスキングされたMACアドレスのslog.Attrを返す。
func (cf *CommonFields) WithMAC(mac string) slog.Attr {
	return slog.String(FieldMAC, cf.masker.MAC(mac))
}

// SessionLogFields はセッション操作ログ用の共通フィールドを返す。
func (cf *CommonFields) SessionLogFields(traceID, eventID, mac string) []any {
	return []any{
		WithTraceID(traceID),
		WithEventID(eventID),
		cf.WithMAC(mac),
	}
}
