// Package audit はHMAC署名付き監査ログを提供する。
package audit

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// 監査イベント名
const (
	EventLogin     = "portal.login"
	EventHeartbeat = "portal.heartbeat"
	EventLogout    = "portal.logout"
)

// ErrMissingSecret は監査有効時にシークレットが未設定の場合のエラー。
// 署名なしで監査を続行してはならないため、起動時に致命的エラーとする。
var ErrMissingSecret = errors.New("audit secret is missing")

// Signer は監査レコードに署名して出力する。
// レコードは {ts, event, ...context, sig} のJSONで、sigはsig以外の
// 全フィールドの正規化JSON（キー昇順・余分な空白なし）に対する
// HMAC-SHA256の16進数ダイジェスト。
type Signer struct {
	enabled bool
	secret  []byte
	writer  io.Writer
	mu      sync.Mutex
	now     func() int64
}

// New は新しいSignerを生成する。出力先は標準出力。
// enabledがtrueでsecretが空の場合はErrMissingSecretを返す。
func New(enabled bool, secret string) (*Signer, error) {
	return NewWithWriter(enabled, secret, os.Stdout)
}

// NewWithWriter は指定されたWriterに出力するSignerを生成する。
func NewWithWriter(enabled bool, secret string, writer io.Writer) (*Signer, error) {
	if enabled && secret == "" {
		return nil, ErrMissingSecret
	}
	return &Signer{
		enabled: enabled,
		secret:  []byte(secret),
		writer:  writer,
		now:     func() int64 { return time.Now().Unix() },
	}, nil
}

// Enabled は監査が有効かどうかを返す。
func (s *Signer) Enabled() bool {
	return s.enabled
}

// Emit は監査レコードを1行のJSONとして出力する。
// 無効時は何もしない。署名はts含む全フィールド確定後に最後に計算する。
// 署名・出力の失敗はリクエストを失敗させないが、通常の監査出力と
// 区別できる形で運用ログに必ず残す。
func (s *Signer) Emit(event string, context map[string]any) {
	if !s.enabled {
		return
	}

	record := make(map[string]any, len(context)+3)
	for k, v := range context {
		record[k] = v
	}
	record["ts"] = s.now()
	record["event"] = event

	// encoding/jsonはマップのキーを昇順で出力するため、これが正規化
	// 表現となる
	payload, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to canonicalize audit record",
			"event_id", "AUDIT_ERR",
			"audit_event", event,
			"error", err.Error(),
		)
		return
	}

	record["sig"] = s.sign(payload)

	line, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to marshal audit record",
			"event_id", "AUDIT_ERR",
			"audit_event", event,
			"error", err.Error(),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(append(line, '\n')); err != nil {
		slog.Error("failed to write audit record",
			"event_id", "AUDIT_ERR",
			"audit_event", event,
			"error", err.Error(),
		)
	}
}

// sign はペイロードのHMAC-SHA256ダイジェストを返す。
func (s *Signer) sign(payload []byte) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write(payload)
	return hex.EncodeToString(m.Sum(nil))
}

// Verify は出力済みレコード1行の署名を検証する。
// 数値をjson.Numberとして保持したまま再正規化することで、署名時と
// 同一のバイト列を再現する。
func (s *Signer) Verify(line []byte) (bool, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return false, fmt.Errorf("failed to parse audit record: %w", err)
	}

	sig, ok := record["sig"].(string)
	if !ok {
		return false, errors.New("audit record has no sig field")
	}
	delete(record, "sig")

	payload, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to canonicalize audit record: %w", err)
	}

	want, err := hex.DecodeString(sig)
	if err != nil {
		return false, fmt.Errorf("invalid sig encoding: %w", err)
	}

	m := hmac.New(sha256.New, s.secret)
	m.Write(payload)
	return hmac.Equal(m.Sum(nil), want), nil
}
