// Package authz decides which roles may perform which actions.
package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/yukikurage/field-report-api/internal/models"
	"gopkg.in/yaml.v3"
)

// Permissions, as "object:action".
const (
	AttendanceManage   = "attendance:manage"
	CatalogRead        = "catalog:read"
	CatalogManage      = "catalog:manage"
	ReportsRead        = "daily_reports:read"
	ReportsReadOwn     = "daily_reports:read_own"
	ReportsReview      = "daily_reports:review"
	TeamsManage        = "teams:manage"
	UsersManage        = "users:manage"
	OrganizationDelete = "organization:delete"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

//go:embed policy.yaml
var defaultPolicy []byte

// Policy is the YAML role definition.
type Policy struct {
	Roles map[string]RolePolicy `yaml:"roles"`
}

type RolePolicy struct {
	Inherits    []string `yaml:"inherits"`
	Permissions []string `yaml:"permissions"`
}

// ParsePolicy decodes a YAML policy and checks it only names known roles.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("authz: decode policy: %w", err)
	}
	if len(p.Roles) == 0 {
		return Policy{}, errors.New("authz: policy defines no roles")
	}
	for name, role := range p.Roles {
		if !models.UserRole(name).Valid() {
			return Policy{}, fmt.Errorf("authz: unknown role %q", name)
		}
		for _, parent := range role.Inherits {
			if _, ok := p.Roles[parent]; !ok {
				return Policy{}, fmt.Errorf("authz: role %q inherits undefined role %q", name, parent)
			}
		}
		for _, perm := range role.Permissions {
			if _, _, err := splitPermission(perm); err != nil {
				return Policy{}, err
			}
		}
	}
	return p, nil
}

// DefaultPolicy returns the embedded policy.
func DefaultPolicy() Policy {
	p, err := ParsePolicy(defaultPolicy)
	if err != nil {
		panic(err)
	}
	return p
}

// LoadPolicy reads a policy file, falling back to the embedded one when path is empty.
func LoadPolicy(path string) (Policy, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("authz: read policy: %w", err)
	}
	return ParsePolicy(data)
}

type Authorizer struct {
	enforcer *casbin.Enforcer
}

func NewAuthorizer(p Policy) (*Authorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(p.Roles))
	for name := range p.Roles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		role := p.Roles[name]
		for _, perm := range role.Permissions {
			obj, act, err := splitPermission(perm)
			if err != nil {
				return nil, err
			}
			if _, err := enforcer.AddPolicy(subject(name), obj, act); err != nil {
				return nil, err
			}
		}
		for _, parent := range role.Inherits {
			if _, err := enforcer.AddGroupingPolicy(subject(name), subject(parent)); err != nil {
				return nil, err
			}
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// NewDefaultAuthorizer builds an Authorizer from the embedded policy.
func NewDefaultAuthorizer() *Authorizer {
	a, err := NewAuthorizer(DefaultPolicy())
	if err != nil {
		panic(err)
	}
	return a
}

// Allowed reports whether role holds permission.
func (a *Authorizer) Allowed(role models.UserRole, permission string) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	obj, act, err := splitPermission(permission)
	if err != nil {
		return false, err
	}
	return a.enforcer.Enforce(subject(string(role)), obj, act)
}

func subject(role string) string {
	return "role:" + role
}

func splitPermission(perm string) (string, string, error) {
	obj, act, ok := strings.Cut(perm, ":")
	if !ok || obj == "" || act == "" {
		return "", "", fmt.Errorf("authz: malformed permission %q", perm)
	}
	return obj, act, nil
}
