package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oyaguma3/portal-controller/internal/config"
	"github.com/oyaguma3/portal-controller/internal/model"
	"github.com/sony/gobreaker"
)

// breakerStore はSessionStoreにCircuit Breakerを適用するデコレーター。
// バックエンド障害時にタイムアウトを待たず即座にfail-closedとするために
// 連続失敗でOpenに遷移する。
type breakerStore struct {
	inner SessionStore
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerStore はCircuit Breaker付きのSessionStoreを生成する。
func NewBreakerStore(inner SessionStore) SessionStore {
	settings := gobreaker.Settings{
		Name:        config.CBName,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	}

	return &breakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
	}
}

// refreshResult はRefreshの複数戻り値をExecute経由で運ぶ。
type refreshResult struct {
	sess    *model.Session
	existed bool
}

// mapErr はCircuit Breaker自体のエラーをストアエラーに変換する。
func mapErr(err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("%w: %w", ErrValkeyUnavailable, ErrCircuitOpen)
	}
	return err
}

func (b *breakerStore) Create(ctx context.Context, mac, role string, ttl time.Duration) (*model.Session, error) {
	// バリデーションエラーはCB失敗件数に含めない
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.Create(ctx, mac, role, ttl)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	sess, _ := v.(*model.Session)
	return sess, nil
}

func (b *breakerStore) Get(ctx context.Context, mac string) (*model.Session, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.Get(ctx, mac)
	})
	if err != nil {
		return nil, mapErr(err)
	}
	sess, _ := v.(*model.Session)
	return sess, nil
}

func (b *breakerStore) Refresh(ctx context.Context, mac string, ttl time.Duration) (*model.Session, bool, error) {
	if ttl <= 0 {
		return nil, false, ErrInvalidTTL
	}
	v, err := b.cb.Execute(func() (any, error) {
		sess, existed, err := b.inner.Refresh(ctx, mac, ttl)
		if err != nil {
			return nil, err
		}
		return refreshResult{sess: sess, existed: existed}, nil
	})
	if err != nil {
		return nil, false, mapErr(err)
	}
	res, _ := v.(refreshResult)
	return res.sess, res.existed, nil
}

func (b *breakerStore) Delete(ctx context.Context, mac string) (bool, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.inner.Delete(ctx, mac)
	})
	if err != nil {
		return false, mapErr(err)
	}
	existed, _ := v.(bool)
	return existed, nil
}

// Ping はBreakerを経由しない。ヘルスチェックは実際のバックエンド状態を
// 観測する必要があるため。
func (b *breakerStore) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}
