// pkg/authorize/casbin.go
package authorize

import (
	"context"
	"errors"
	"fmt"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

var (
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidArgs = errors.New("invalid authorization arguments")
)

// modelText is the RBAC model: users are grouped into roles, roles carry
// allow/deny permissions, and a single deny wins.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act, eft

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = (r.sub == p.sub || g(r.sub, p.sub)) && r.obj == p.obj && r.act == p.act
`

// IAuthorization is the only thing services/middleware should depend on.
type IAuthorization interface {
	// Enforce answers: "Is subject allowed to act on object?"
	Enforce(ctx context.Context, subject Subject, object Resource, action Action) (bool, error)

	// MustEnforce is convenience for handlers: return ErrForbidden if not allowed.
	MustEnforce(ctx context.Context, subject Subject, object Resource, action Action) error

	AssignRole(ctx context.Context, subject Subject, role Role) (bool, error)
	RevokeRole(ctx context.Context, subject Subject, role Role) (bool, error)
	RolesFor(ctx context.Context, subject Subject) ([]Role, error)

	AddPermission(ctx context.Context, p PermissionPolicy) (bool, error)
}

// Authorization is a thin typed wrapper around casbin.SyncedEnforcer.
type Authorization struct {
	enforcer *casbin.SyncedEnforcer
}

// NewAuthorization builds an in-memory enforcer seeded with DefaultPolicies.
func NewAuthorization() (*Authorization, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authorize: model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authorize: enforcer: %w", err)
	}

	a := &Authorization{enforcer: e}
	for _, p := range DefaultPolicies {
		if _, err := a.AddPermission(context.Background(), p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Authorization) Enforce(ctx context.Context, subject Subject, object Resource, action Action) (bool, error) {
	_ = ctx // reserved for tracing

	if subject == "" {
		return false, fmt.Errorf("%w: subject is empty", ErrInvalidArgs)
	}
	if _, ok := KnownResources[object]; !ok {
		return false, fmt.Errorf("%w: unknown resource: %q", ErrInvalidArgs, object)
	}
	if _, ok := KnownActions[action]; !ok {
		return false, fmt.Errorf("%w: unknown action: %q", ErrInvalidArgs, action)
	}

	return a.enforcer.Enforce(string(subject), string(object), string(action))
}

func (a *Authorization) MustEnforce(ctx context.Context, subject Subject, object Resource, action Action) error {
	ok, err := a.Enforce(ctx, subject, object, action)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (a *Authorization) AssignRole(ctx context.Context, subject Subject, role Role) (bool, error) {
	if subject == "" || role == "" {
		return false, fmt.Errorf("%w: subject and role are required", ErrInvalidArgs)
	}
	return a.enforcer.AddGroupingPolicy(string(subject), string(role))
}

func (a *Authorization) RevokeRole(ctx context.Context, subject Subject, role Role) (bool, error) {
	return a.enforcer.RemoveGroupingPolicy(string(subject), string(role))
}

func (a *Authorization) RolesFor(ctx context.Context, subject Subject) ([]Role, error) {
	names, err := a.enforcer.GetRolesForUser(string(subject))
	if err != nil {
		return nil, err
	}
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, Role(n))
	}
	return roles, nil
}

func (a *Authorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	if p.Role == "" || p.Object == "" || p.Action == "" {
		return false, fmt.Errorf("%w: incomplete policy %+v", ErrInvalidArgs, p)
	}
	eft := p.Effect
	if eft == "" {
		eft = EffectAllow
	}
	return a.enforcer.AddPolicy(string(p.Role), string(p.Object), string(p.Action), string(eft))
}
