package authorize

import (
	"context"
	"log/slog"
	"time"
)

// AuditedAuthorization wraps an IAuthorization implementation with audit logging.
type AuditedAuthorization struct {
	inner  IAuthorization
	logger *slog.Logger
}

func NewAuditedAuthorization(inner IAuthorization, logger *slog.Logger) IAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditedAuthorization{
		inner:  inner,
		logger: logger,
	}
}

func (a *AuditedAuthorization) Enforce(ctx context.Context, subject Subject, object Resource, action Action) (bool, error) {
	start := time.Now()
	allowed, err := a.inner.Enforce(ctx, subject, object, action)
	duration := time.Since(start)

	attrs := []any{
		"subject", string(subject),
		"resource", string(object),
		"action", string(action),
		"allowed", allowed,
		"duration_ms", duration.Milliseconds(),
	}

	switch {
	case err != nil:
		attrs = append(attrs, "error", err.Error())
		a.logger.ErrorContext(ctx, "authz_decision", attrs...)
	case !allowed:
		a.logger.WarnContext(ctx, "authz_decision", attrs...)
	default:
		a.logger.InfoContext(ctx, "authz_decision", attrs...)
	}

	return allowed, err
}

func (a *AuditedAuthorization) MustEnforce(ctx context.Context, subject Subject, object Resource, action Action) error {
	allowed, err := a.Enforce(ctx, subject, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

func (a *AuditedAuthorization) AssignRole(ctx context.Context, subject Subject, role Role) (bool, error) {
	added, err := a.inner.AssignRole(ctx, subject, role)
	a.roleChange(ctx, "assign_role", subject, role, added, err)
	return added, err
}

func (a *AuditedAuthorization) RevokeRole(ctx context.Context, subject Subject, role Role) (bool, error) {
	removed, err := a.inner.RevokeRole(ctx, subject, role)
	a.roleChange(ctx, "revoke_role", subject, role, removed, err)
	return removed, err
}

func (a *AuditedAuthorization) RolesFor(ctx context.Context, subject Subject) ([]Role, error) {
	return a.inner.RolesFor(ctx, subject)
}

func (a *AuditedAuthorization) AddPermission(ctx context.Context, p PermissionPolicy) (bool, error) {
	added, err := a.inner.AddPermission(ctx, p)

	attrs := []any{
		"operation", "add_permission",
		"role", string(p.Role),
		"resource", string(p.Object),
		"action", string(p.Action),
		"effect", string(p.Effect),
		"added", added,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		a.logger.ErrorContext(ctx, "authz_permission_change", attrs...)
	} else {
		a.logger.InfoContext(ctx, "authz_permission_change", attrs...)
	}

	return added, err
}

func (a *AuditedAuthorization) roleChange(ctx context.Context, op string, subject Subject, role Role, changed bool, err error) {
	attrs := []any{
		"operation", op,
		"subject", string(subject),
		"role", string(role),
		"changed", changed,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		a.logger.ErrorContext(ctx, "authz_role_change", attrs...)
		return
	}
	a.logger.InfoContext(ctx, "authz_role_change", attrs...)
}
