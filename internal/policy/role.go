package policy

import (
	"github.com/oyaguma3/portal-controller/internal/config"
	"github.com/oyaguma3/portal-controller/internal/model"
)

// RoleResolver はロールからネットワークポリシーを解決する。
type RoleResolver struct {
	roles map[string]config.RoleDef
}

// NewRoleResolver は新しいRoleResolverを生成する。
func NewRoleResolver(pc *config.PolicyConfig) *RoleResolver {
	return &RoleResolver{roles: pc.Roles}
}

// Resolve はロールに紐づくネットワークポリシーを返す。
// 未定義のロールはエラーではなく全フィールドnilのポリシーとなる。
// ポリシー詳細が未設定でもセッション自体は認可済みとして報告できる。
func (r *RoleResolver) Resolve(role string) model.NetworkPolicy {
	def, ok := r.roles[role]
	if !ok {
		return model.NetworkPolicy{}
	}
	return model.NetworkPolicy{
		VLAN:   def.Network.VLAN,
		Policy: def.Network.Policy,
		IPSet:  def.Network.IPSet,
	}
}
