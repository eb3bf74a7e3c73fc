// Package portal はセッションライフサイクルのオーケストレーションを提供する。
package portal

import (
	"context"
	"time"

	"github.com/oyaguma3/portal-controller/internal/audit"
	"github.com/oyaguma3/portal-controller/internal/config"
	"github.com/oyaguma3/portal-controller/internal/dto"
	"github.com/oyaguma3/portal-controller/internal/mac"
	"github.com/oyaguma3/portal-controller/internal/model"
	"github.com/oyaguma3/portal-controller/internal/policy"
	"github.com/oyaguma3/portal-controller/internal/store"
)

// 監査レコードのresultフィールド値
const (
	ResultOK                  = "ok"
	ResultNotFound            = "not_found"
	ResultExpiredAfterRefresh = "expired_after_refresh"
	ResultError               = "error"
)

// Portal はServiceインターフェースの実装。
// リクエスト間で共有する可変状態を持たず、MACごとの同期はバックエンドに
// 委譲する。
type Portal struct {
	store       store.SessionStore
	roles       *policy.RoleResolver
	heartbeat   *policy.HeartbeatResolver
	signer      *audit.Signer
	defaultRole string
	defaultTTL  time.Duration
	maxTTL      time.Duration
}

// New は新しいPortalを生成する。
func New(
	st store.SessionStore,
	roles *policy.RoleResolver,
	heartbeat *policy.HeartbeatResolver,
	signer *audit.Signer,
	pc *config.PolicyConfig,
) *Portal {
	return &Portal{
		store:       st,
		roles:       roles,
		heartbeat:   heartbeat,
		signer:      signer,
		defaultRole: pc.Session.DefaultRole,
		defaultTTL:  time.Duration(pc.Session.DefaultTTL) * time.Second,
		maxTTL:      time.Duration(pc.Session.MaxTTL) * time.Second,
	}
}

// Login はセッションを作成する。
// 既存セッションの有無にかかわらず常に成功し、無条件に上書きする。
func (p *Portal) Login(ctx context.Context, rawMAC string) (*dto.SessionResponse, error) {
	m, err := mac.Normalize(rawMAC)
	if err != nil {
		return nil, err
	}

	sess, err := p.store.Create(ctx, m, p.defaultRole, p.clampTTL(p.defaultTTL))
	if err != nil {
		p.auditFailure(audit.EventLogin, m, nil, err)
		return nil, err
	}

	resp := p.buildResponse(sess)
	p.signer.Emit(audit.EventLogin, map[string]any{
		"mac":        m,
		"authorized": true,
		"role":       sess.Role,
		"ttl":        sess.TTL,
		"network":    networkContext(resp.Network),
		"result":     ResultOK,
	})
	return resp, nil
}

// Heartbeat は既存セッションのTTLを置き換える。
// セッションが無い場合は作成せず、否定結果も必ず監査に残す。
func (p *Portal) Heartbeat(ctx context.Context, rawMAC string, source *string) (*dto.SessionResponse, error) {
	m, err := mac.Normalize(rawMAC)
	if err != nil {
		return nil, err
	}

	ttl := p.clampTTL(p.heartbeat.ResolveTTL(source))

	sess, existed, err := p.store.Refresh(ctx, m, ttl)
	if err != nil {
		p.auditFailure(audit.EventHeartbeat, m, source, err)
		return nil, err
	}

	if !existed {
		p.signer.Emit(audit.EventHeartbeat, map[string]any{
			"mac":        m,
			"authorized": false,
			"source":     sourceContext(source),
			"result":     ResultNotFound,
		})
		return &dto.SessionResponse{Authorized: false}, nil
	}

	// EXPIRE成功直後の再読み取りで失効していた競合。欠陥ではなく
	// 想定内の結果として固有のresultで記録する
	if sess == nil {
		p.signer.Emit(audit.EventHeartbeat, map[string]any{
			"mac":        m,
			"authorized": false,
			"source":     sourceContext(source),
			"result":     ResultExpiredAfterRefresh,
		})
		return &dto.SessionResponse{Authorized: false}, nil
	}

	resp := p.buildResponse(sess)
	p.signer.Emit(audit.EventHeartbeat, map[string]any{
		"mac":        m,
		"authorized": true,
		"role":       sess.Role,
		"ttl":        sess.TTL,
		"network":    networkContext(resp.Network),
		"source":     sourceContext(source),
		"result":     ResultOK,
	})
	return resp, nil
}

// Logout はセッションを削除する。冪等であり、存在しない場合も成功する。
func (p *Portal) Logout(ctx context.Context, rawMAC string) (*dto.SessionResponse, error) {
	m, err := mac.Normalize(rawMAC)
	if err != nil {
		return nil, err
	}

	// 監査にロールとネットワークポリシーを残すため削除前に読み取る
	sess, err := p.store.Get(ctx, m)
	if err != nil {
		p.auditFailure(audit.EventLogout, m, nil, err)
		return nil, err
	}

	existed, err := p.store.Delete(ctx, m)
	if err != nil {
		p.auditFailure(audit.EventLogout, m, nil, err)
		return nil, err
	}

	result := ResultOK
	if !existed {
		result = ResultNotFound
	}

	auditCtx := map[string]any{
		"mac":        m,
		"authorized": false,
		"result":     result,
	}
	if sess != nil {
		np := p.roles.Resolve(sess.Role)
		auditCtx["role"] = sess.Role
		auditCtx["network"] = networkContext(&np)
	}
	p.signer.Emit(audit.EventLogout, auditCtx)

	return &dto.SessionResponse{Authorized: false}, nil
}

// Status は現在のセッション状態を返す。監査レコードは出力しない。
func (p *Portal) Status(ctx context.Context, rawMAC string) (*dto.SessionResponse, error) {
	m, err := mac.Normalize(rawMAC)
	if err != nil {
		return nil, err
	}

	sess, err := p.store.Get(ctx, m)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &dto.SessionResponse{Authorized: false}, nil
	}
	return p.buildResponse(sess), nil
}

// BatchStatus は複数MACの状態を一括照会する。
// MAC形式エラーはエントリ単位で未認可として報告し、バッチ全体は
// 失敗させない。ストア障害はバッチ全体のエラーとなる。
func (p *Portal) BatchStatus(ctx context.Context, entries []dto.BatchStatusEntry) (*dto.BatchStatusResponse, error) {
	results := make([]dto.BatchStatusResult, 0, len(entries))

	for _, e := range entries {
		m, err := mac.Normalize(e.MAC)
		if err != nil {
			results = append(results, dto.BatchStatusResult{
				MAC:             e.MAC,
				SessionResponse: dto.SessionResponse{Authorized: false},
			})
			continue
		}

		sess, err := p.store.Get(ctx, m)
		if err != nil {
			return nil, err
		}

		if sess == nil {
			results = append(results, dto.BatchStatusResult{
				MAC:             m,
				SessionResponse: dto.SessionResponse{Authorized: false},
			})
			continue
		}
		results = append(results, dto.BatchStatusResult{
			MAC:             m,
			SessionResponse: *p.buildResponse(sess),
		})
	}

	return &dto.BatchStatusResponse{Results: results}, nil
}

// Health はバックエンドの疎通状態を返す。
// 疎通障害はエラーとして伝播させず、結果のフィールドで報告する。
func (p *Portal) Health(ctx context.Context) *dto.HealthResponse {
	if err := p.store.Ping(ctx); err != nil {
		return &dto.HealthResponse{
			Status: "degraded",
			Valkey: dto.ValkeyHealth{Ping: false, Error: err.Error()},
		}
	}
	return &dto.HealthResponse{
		Status: "ok",
		Valkey: dto.ValkeyHealth{Ping: true},
	}
}

// clampTTL はTTLを設定上の上限に制限する。
func (p *Portal) clampTTL(ttl time.Duration) time.Duration {
	if ttl > p.maxTTL {
		return p.maxTTL
	}
	return ttl
}

// buildResponse はセッションからロール解決済みの外部向けレスポンスを組み立てる。
func (p *Portal) buildResponse(sess *model.Session) *dto.SessionResponse {
	np := p.roles.Resolve(sess.Role)
	role := sess.Role
	ttl := sess.TTL
	return &dto.SessionResponse{
		Authorized: true,
		Role:       &role,
		TTL:        &ttl,
		Network:    &np,
	}
}

// auditFailure はストア障害によるfail-closed判定を監査に残す。
func (p *Portal) auditFailure(event, m string, source *string, err error) {
	auditCtx := map[string]any{
		"mac":        m,
		"authorized": false,
		"result":     ResultError,
		"error":      err.Error(),
	}
	if event == audit.EventHeartbeat {
		auditCtx["source"] = sourceContext(source)
	}
	p.signer.Emit(event, auditCtx)
}

// networkContext は監査レコード用にネットワークポリシーをマップへ変換する。
// 正規化JSONの一貫性のため、ネストした値もすべてマップで表現する。
func networkContext(np *model.NetworkPolicy) map[string]any {
	if np == nil {
		return nil
	}
	return map[string]any{
		"vlan":   np.VLAN,
		"policy": np.Policy,
		"ipset":  np.IPSet,
	}
}

// sourceContext は送信元ラベルを監査レコード用の値に変換する。
func sourceContext(source *string) any {
	if source == nil {
		return nil
	}
	return *source
}
