// Package logging はログ関連のユーティリティを提供する。
package logging

import "strings"

// MaskMAC はMACアドレスをマスキングする。
// OUI（先頭8文字）と末尾2文字を残し、中間をマスクする。
// 例: aa:bb:cc:dd:ee:ff → aa:bb:cc:**:**:ff
// enabled=falseまたは文字列長が10以下の場合はそのまま返す。
func MaskMAC(mac string, enabled bool) string {
	if !enabled || len(mac) <= 10 {
		return mac
	}
	masked := []byte(mac[:8])
	for i := 8; i < len(mac)-2; i++ {
		if mac[i] == ':' {
			masked = append(masked, ':')
		} else {
			masked = append(masked, '*')
		}
	}
	return string(masked) + mac[len(mac)-2:]
}

// MaskSecret はシークレット文字列を完全にマスクする。
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

// Masker はマスキング設定を保持する構造体。
type Masker struct {
	enabled bool
}

// NewMasker は新しいMaskerを生成する。
func NewMasker(enabled bool) *Masker {
	return &Masker{enabled: enabled}
}

// MAC はMACアドレスをマスキングする。
func (m *Masker) MAC(mac string) string {
	return MaskMAC(mac, m.enabled)
}

// IsEnabled はマスキングが有効かどうかを返す。
func (m *Masker) IsEnabled() bool {
	return m.enabled
}
