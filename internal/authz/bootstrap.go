package authz

import (
	"fmt"
	"strings"

	"github.com/wedding-candy/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// viewer 只能查看与导出，owner 拥有全部管理权限
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.AdminRoleViewer,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/logout", Action: "POST"},
				{Object: "/admin/session/extend", Action: "POST"},
			},
		},
		{
			Role:     constants.AdminRoleOwner,
			Inherits: []string{constants.AdminRoleViewer},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}

// SyncAccounts 按配置同步管理员角色：主管理员为 owner，查看账号为 viewer
// 配置中已移除的账号会被撤销全部角色
func (s *Service) SyncAccounts(owner string, viewers []string) error {
	owner = strings.TrimSpace(owner)
	if err := s.SetAdminRoles(owner, []string{constants.AdminRoleOwner}); err != nil {
		return err
	}
	keep := map[string]struct{}{owner: {}}
	for _, viewer := range viewers {
		viewer = strings.TrimSpace(viewer)
		if viewer == "" || viewer == owner {
			continue
		}
		if err := s.SetAdminRoles(viewer, []string{constants.AdminRoleViewer}); err != nil {
			return err
		}
		keep[viewer] = struct{}{}
	}

	existing, err := s.ListAdmins()
	if err != nil {
		return err
	}
	for _, username := range existing {
		if _, ok := keep[username]; ok {
			continue
		}
		if err := s.RevokeAdmin(username); err != nil {
			return err
		}
	}
	return nil
}
