// Package mac はMACアドレスの正規化を提供する。
package mac

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidMAC は不正なMACアドレス形式エラー
var ErrInvalidMAC = errors.New("invalid MAC address format")

// コロン区切り6オクテットの16進数表記のみを受け付ける
var macPattern = regexp.MustCompile(`^([0-9a-f]{2}:){5}[0-9a-f]{2}$`)

// Normalize はMACアドレスを正規化する。
// 前後の空白を除去し小文字化した結果がコロン区切り6オクテット形式で
// ない場合はErrInvalidMACを返す。
// セッションキーの構築は必ずこの関数の戻り値を使用すること。
func Normalize(input string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(input))
	if !macPattern.MatchString(m) {
		return "", ErrInvalidMAC
	}
	return m, nil
}
