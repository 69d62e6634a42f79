package authz

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiV1Prefix        = "/api/v1"
	casbinTableName    = "casbin_rule"
	adminSubjectPrefix = "admin:"
	rolePrefix         = "role:"
	roleAnchor         = "role:__anchor__"
)

const defaultRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// ErrUnavailable 授权服务未初始化
var ErrUnavailable = errors.New("authz service unavailable")

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service Casbin 授权服务
// 统一封装策略加载、授权判定与角色分配
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(defaultRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}

	return &Service{enforcer: enforcer}, nil
}

// Enforce 执行授权判断
func (s *Service) Enforce(sub, obj, act string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, ErrUnavailable
	}
	return s.enforcer.Enforce(strings.TrimSpace(sub), NormalizeObject(obj), NormalizeAction(act))
}

// EnforceAdmin 按管理员用户名判定授权
func (s *Service) EnforceAdmin(username, obj, act string) (bool, error) {
	return s.Enforce(SubjectForAdmin(username), obj, act)
}

// EnsureRole 确保角色存在
func (s *Service) EnsureRole(role string) (string, error) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if s == nil || s.enforcer == nil {
		return "", ErrUnavailable
	}
	if normalized == roleAnchor {
		return "", errors.New("reserved role is not allowed")
	}

	exists, err := s.enforcer.HasNamedGroupingPolicy("g", normalized, roleAnchor)
	if err != nil {
		return "", fmt.Errorf("check role failed: %w", err)
	}
	if exists {
		return normalized, nil
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", normalized, roleAnchor); err != nil {
		return "", fmt.Errorf("create role failed: %w", err)
	}
	return normalized, nil
}

// GrantRolePolicy 为角色授予策略
func (s *Service) GrantRolePolicy(role, object, action string) error {
	normalizedRole, err := s.EnsureRole(role)
	if err != nil {
		return err
	}
	normalizedAction := NormalizeAction(action)
	if normalizedAction == "" {
		return errors.New("action is required")
	}
	if _, err := s.enforcer.AddPolicy(normalizedRole, NormalizeObject(object), normalizedAction); err != nil {
		return fmt.Errorf("grant policy failed: %w", err)
	}
	return nil
}

// SetAdminRoles 覆盖设置管理员角色
func (s *Service) SetAdminRoles(username string, roles []string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("admin username is required")
	}
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	subject := SubjectForAdmin(username)

	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear admin roles failed: %w", err)
	}
	for _, role := range roles {
		normalizedRole, err := s.EnsureRole(role)
		if err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, normalizedRole); err != nil {
			return fmt.Errorf("assign admin role failed: %w", err)
		}
	}
	return nil
}

// GetAdminRoles 查询管理员角色
func (s *Service) GetAdminRoles(username string) ([]string, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("admin username is required")
	}
	if s == nil || s.enforcer == nil {
		return nil, ErrUnavailable
	}
	roles, err := s.enforcer.GetRolesForUser(SubjectForAdmin(username))
	if err != nil {
		return nil, fmt.Errorf("get admin roles failed: %w", err)
	}
	filtered := make([]string, 0, len(roles))
	for _, role := range roles {
		if !strings.HasPrefix(role, rolePrefix) || role == roleAnchor {
			continue
		}
		filtered = append(filtered, role)
	}
	slices.Sort(filtered)
	return filtered, nil
}

// GetAdminPolicies 查询管理员生效策略（角色 + 直连）
func (s *Service) GetAdminPolicies(username string) ([]Policy, error) {
	roles, err := s.GetAdminRoles(username)
	if err != nil {
		return nil, err
	}
	subject := SubjectForAdmin(username)
	policyMap := map[string]Policy{}
	appendRules := func(rules [][]string) {
		for _, item := range convertPolicies(rules) {
			policyMap[item.Subject+"|"+item.Object+"|"+item.Action] = item
		}
	}

	directRules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("get direct policies failed: %w", err)
	}
	appendRules(directRules)
	for _, role := range roles {
		rules, err := s.enforcer.GetFilteredPolicy(0, role)
		if err != nil {
			return nil, fmt.Errorf("get role policies failed: %w", err)
		}
		appendRules(rules)
	}

	result := make([]Policy, 0, len(policyMap))
	for _, item := range policyMap {
		result = append(result, item)
	}
	slices.SortFunc(result, func(a, b Policy) int {
		return cmp.Or(
			strings.Compare(a.Subject, b.Subject),
			strings.Compare(a.Object, b.Object),
			strings.Compare(a.Action, b.Action),
		)
	})
	return result, nil
}

func convertPolicies(rules [][]string) []Policy {
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{
			Subject: strings.TrimSpace(rule[0]),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		})
	}
	return policies
}

// ListAdmins 列出已分配角色的管理员用户名
func (s *Service) ListAdmins() ([]string, error) {
	if s == nil || s.enforcer == nil {
		return nil, ErrUnavailable
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 0)
	if err != nil {
		return nil, fmt.Errorf("list admin subjects failed: %w", err)
	}
	seen := make(map[string]struct{})
	for _, rule := range rules {
		if len(rule) == 0 {
			continue
		}
		if username, ok := strings.CutPrefix(rule[0], adminSubjectPrefix); ok && username != "" {
			seen[username] = struct{}{}
		}
	}
	admins := make([]string, 0, len(seen))
	for username := range seen {
		admins = append(admins, username)
	}
	slices.Sort(admins)
	return admins, nil
}

// RevokeAdmin 移除管理员全部角色
func (s *Service) RevokeAdmin(username string) error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, SubjectForAdmin(username)); err != nil {
		return fmt.Errorf("revoke admin roles failed: %w", err)
	}
	return nil
}

// SubjectForAdmin 生成管理员主体标识
func SubjectForAdmin(username string) string {
	return adminSubjectPrefix + strings.TrimSpace(username)
}

// NormalizeRole 统一角色名称
func NormalizeRole(role string) (string, error) {
	normalized := strings.TrimSpace(role)
	if normalized == "" {
		return "", errors.New("role is required")
	}
	normalized = strings.ReplaceAll(normalized, " ", "_")
	if !strings.HasPrefix(normalized, rolePrefix) {
		normalized = rolePrefix + normalized
	}
	if len(normalized) <= len(rolePrefix) {
		return "", errors.New("role is required")
	}
	return normalized, nil
}

// NormalizeObject 统一授权资源路径
func NormalizeObject(object string) string {
	normalized := strings.TrimSpace(object)
	if normalized == "" {
		return "/"
	}
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	if strings.HasPrefix(normalized, apiV1Prefix+"/") {
		return strings.TrimPrefix(normalized, apiV1Prefix)
	}
	if normalized == apiV1Prefix {
		return "/"
	}
	return normalized
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
