package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Alijeyrad/vlog_backend/config"
	"github.com/Alijeyrad/vlog_backend/pkg/authorize"
	"github.com/Alijeyrad/vlog_backend/pkg/reqctx"
	pasetotoken "github.com/Alijeyrad/vlog_backend/pkg/paseto"
	"github.com/Alijeyrad/vlog_backend/pkg/session"
	"github.com/Alijeyrad/vlog_backend/pkg/util/password"
)

const (
	maxLoginAttempts = 5
	accountLockMins  = 15
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LoginRequest struct {
	Username string
	Password string
}

type AuthTokens struct {
	AccessToken string
	ExpiresIn   int64 // seconds until access token expires
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID string) error
	// Authenticate checks the token and that its session is still live.
	Authenticate(ctx context.Context, token string) (*reqctx.Principal, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	username   string
	credential password.Credential
	sessions   session.Store
	paseto     *pasetotoken.Manager
	sessionTTL time.Duration

	mu       sync.Mutex
	failures int
	locked   time.Time
	now      func() time.Time
}

func New(sessions session.Store, paseto *pasetotoken.Manager, cfg *config.Config) (Service, error) {
	username := cfg.Admin.Username
	if username == "" {
		return nil, ErrNotConfigured
	}
	cred, err := password.NewCredential(cfg.Admin.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: admin password: %w", err)
	}

	ttl := time.Duration(cfg.Authentication.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = paseto.AccessTTL()
	}

	return &authService{
		username:   username,
		credential: cred,
		sessions:   sessions,
		paseto:     paseto,
		sessionTTL: ttl,
		now:        time.Now,
	}, nil
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	if s.isLocked() {
		return nil, ErrAccountLocked
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(s.username)) == 1
	// Always run the hash so a wrong username costs the same as a wrong password.
	passOK := s.credential.Matches(req.Password)
	if !userOK || !passOK {
		s.recordFailedLogin(ctx)
		return nil, ErrInvalidCredentials
	}
	s.resetFailures()

	sess, err := s.sessions.Create(ctx, s.username, string(authorize.RoleAdmin), s.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	access, exp, err := s.paseto.IssueAccess(sess.Username, sess.Role, sess.ID)
	if err != nil {
		_ = s.sessions.Delete(ctx, sess.ID)
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	// The token may outlive the session; Authenticate checks both.
	return &AuthTokens{
		AccessToken: access,
		ExpiresIn:   int64(exp.Sub(s.now()).Seconds()),
	}, nil
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionNotFound
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Authenticate
// ---------------------------------------------------------------------------

func (s *authService) Authenticate(ctx context.Context, token string) (*reqctx.Principal, error) {
	claims, err := s.paseto.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Username != claims.Subject {
		slog.WarnContext(ctx, "auth: token subject does not match session", "session_id", sess.ID)
		return nil, ErrInvalidToken
	}

	return &reqctx.Principal{
		Username:  sess.Username,
		Role:      sess.Role,
		SessionID: sess.ID,
	}, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) isLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Before(s.locked)
}

func (s *authService) recordFailedLogin(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures++
	if s.failures >= maxLoginAttempts {
		s.locked = s.now().Add(accountLockMins * time.Minute)
		s.failures = 0
		slog.WarnContext(ctx, "auth: admin login locked after repeated failures", "until", s.locked)
	}
}

func (s *authService) resetFailures() {
	s.mu.Lock()
	s.failures = 0
	s.mu.Unlock()
}
