package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/oyaguma3/portal-controller/internal/model"
	"github.com/redis/go-redis/v9"
)

// sessionStore はSessionStoreインターフェースの実装。
type sessionStore struct {
	vc     *ValkeyClient
	prefix string
	now    func() time.Time
}

// NewSessionStore は新しいSessionStoreを生成する。
// prefixが空の場合はDefaultKeyPrefixを使用する。
func NewSessionStore(vc *ValkeyClient, prefix string) SessionStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &sessionStore{vc: vc, prefix: prefix, now: time.Now}
}

func (s *sessionStore) key(mac string) string {
	return s.prefix + mac
}

// Create はセッションを作成する。
// roleとexpires_atの書き込みとEXPIREをMULTI/EXECで1バッチとして発行し、
// データだけが書かれて期限が付かない中途半端な状態を防ぐ。
func (s *sessionStore) Create(ctx context.Context, mac, role string, ttl time.Duration) (*model.Session, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	key := s.key(mac)
	expiresAt := s.now().Unix() + int64(ttl/time.Second)

	_, err := s.vc.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			FieldRole, role,
			FieldExpiresAt, strconv.FormatInt(expiresAt, 10),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	return &model.Session{
		MAC:       mac,
		Role:      role,
		ExpiresAt: expiresAt,
		TTL:       int64(ttl / time.Second),
	}, nil
}

// Get はセッションを取得する。
// ハッシュとTTLを同一バッチで読み取り、キー不在または残りTTLが0以下の
// 場合は存在しないものとして(nil, nil)を返す。バックエンドの追い出しが
// 遅延しているケースへの防御的チェックを兼ねる。
func (s *sessionStore) Get(ctx context.Context, mac string) (*model.Session, error) {
	key := s.key(mac)

	var dataCmd *redis.MapStringStringCmd
	var ttlCmd *redis.DurationCmd
	_, err := s.vc.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		dataCmd = pipe.HGetAll(ctx, key)
		ttlCmd = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	data := dataCmd.Val()
	ttl := ttlCmd.Val()
	if len(data) == 0 || ttl <= 0 {
		return nil, nil
	}

	role := data[FieldRole]
	if role == "" {
		role = "guest"
	}
	expiresAt, _ := strconv.ParseInt(data[FieldExpiresAt], 10, 64)

	return &model.Session{
		MAC:       mac,
		Role:      role,
		ExpiresAt: expiresAt,
		TTL:       int64(ttl / time.Second),
	}, nil
}

// Refresh は既存セッションのTTLを置き換える。
// EXPIREはキーが存在しない場合に作成を行わないため、refreshが新規
// セッションを生むことはない。EXPIRE成功後の再読み取りが空となるのは
// 失効との競合であり、existed=true, sess=nilとして呼び出し側に伝える。
func (s *sessionStore) Refresh(ctx context.Context, mac string, ttl time.Duration) (*model.Session, bool, error) {
	if ttl <= 0 {
		return nil, false, ErrInvalidTTL
	}

	key := s.key(mac)
	ok, err := s.vc.Client().Expire(ctx, key, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if !ok {
		return nil, false, nil
	}

	sess, err := s.Get(ctx, mac)
	if err != nil {
		return nil, true, err
	}
	return sess, true, nil
}

// Delete はセッションを削除し、削除前の存在有無を返す。
func (s *sessionStore) Delete(ctx context.Context, mac string) (bool, error) {
	n, err := s.vc.Client().Del(ctx, s.key(mac)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return n > 0, nil
}

// Ping はバックエンドの疎通を確認する。
func (s *sessionStore) Ping(ctx context.Context) error {
	if err := s.vc.Client().Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}
