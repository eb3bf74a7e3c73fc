package store

import (
	"context"
	"time"

	"github.com/oyaguma3/portal-controller/internal/model"
)

// SessionStore はMACキーのセッションデータへのアクセスを定義する。
// すべての操作は正規化済みMACを前提とする。
type SessionStore interface {
	// Create はセッションを作成する（既存セッションは無条件に上書き）
	// ttlが0以下の場合はErrInvalidTTLを返し、書き込みは行わない
	Create(ctx context.Context, mac, role string, ttl time.Duration) (*model.Session, error)
	// Get はセッションを取得する
	// キーが存在しない、または残りTTLが0以下の場合は(nil, nil)を返す
	Get(ctx context.Context, mac string) (*model.Session, error)
	// Refresh は既存セッションのTTLを置き換える（新規作成はしない）
	// existedはEXPIRE時点でのキーの存在を示す
	// existed=trueかつsess=nilは直後の再読み取りで失効していたことを示す
	Refresh(ctx context.Context, mac string, ttl time.Duration) (sess *model.Session, existed bool, err error)
	// Delete はセッションを削除し、削除前の存在有無を返す
	Delete(ctx context.Context, mac string) (bool, error)
	// Ping はバックエンドの疎通を確認する
	Ping(ctx context.Context) error
}
