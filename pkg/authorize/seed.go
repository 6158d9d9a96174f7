package authorize

import (
	"context"
	"fmt"

	"github.com/Alijeyrad/vlog_backend/config"
)

// New returns the enforcer used by the HTTP layer: default policies, the
// configured admin account bound to RoleAdmin, and optional audit logging.
func New(ctx context.Context, cfg *config.Config) (IAuthorization, error) {
	base, err := NewAuthorization()
	if err != nil {
		return nil, err
	}

	var auth IAuthorization = base
	if cfg.Authorization.EnableAudit {
		auth = NewAuditedAuthorization(base, nil)
	}

	if u := cfg.Admin.Username; u != "" {
		if _, err := auth.AssignRole(ctx, Subject(u), RoleAdmin); err != nil {
			return nil, fmt.Errorf("authorize: assign admin role: %w", err)
		}
	}
	return auth, nil
}
