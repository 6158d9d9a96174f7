package pasetotoken

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"github.com/Alijeyrad/vlog_backend/config"
)

type Config struct {
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

// Manager issues and verifies v4.local (encrypted) admin tokens.
type Manager struct {
	cfg   Config
	key   paseto.V4SymmetricKey
	parse paseto.Parser
}

func New(cfg Config, key paseto.V4SymmetricKey) (*Manager, error) {
	if cfg.Issuer == "" {
		return nil, ErrConfig{Msg: "Issuer is required"}
	}
	if cfg.Audience == "" {
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 12 * time.Hour
	}

	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(cfg.Issuer))
	p.AddRule(paseto.ForAudience(cfg.Audience))

	return &Manager{cfg: cfg, key: key, parse: p}, nil
}

// NewPasetoManager builds the manager from application config.
func NewPasetoManager(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto

	key, generated, err := LoadLocalKey(p.LocalKeyHex)
	if err != nil {
		return nil, err
	}
	if generated {
		warnGenerated()
	}

	return New(Config{
		Issuer:    p.Issuer,
		Audience:  p.Audience,
		AccessTTL: time.Duration(p.AccessTTLMinutes) * time.Minute,
	}, key)
}

func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// IssueAccess returns a token bound to sessionID.
func (m *Manager) IssueAccess(subject, role, sessionID string) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, ErrConfig{Msg: "session id is required"}
	}

	now := time.Now()
	exp := now.Add(m.cfg.AccessTTL)

	tok := paseto.NewToken()
	tok.SetIssuer(m.cfg.Issuer)
	tok.SetAudience(m.cfg.Audience)
	tok.SetJti(randHex(16))
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(exp)
	tok.SetSubject(subject)
	tok.SetString("role", role)
	tok.SetString("sid", sessionID)

	return tok.V4Encrypt(m.key, nil), exp, nil
}

// Verify decrypts the token and checks issuer, audience and time bounds.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	tok, err := m.parse.ParseV4Local(m.key, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	claims, err := extractClaims(tok, m.cfg.Issuer, m.cfg.Audience)
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	now := time.Now()
	if now.After(claims.ExpiresAt) {
		return nil, ErrInvalidToken{Err: errExpired}
	}
	if nbf, err := tok.GetNotBefore(); err == nil && now.Before(nbf) {
		return nil, ErrInvalidToken{Err: errNotYetValid}
	}

	return claims, nil
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func extractClaims(tok *paseto.Token, iss, aud string) (*Claims, error) {
	jti, err := tok.GetJti()
	if err != nil {
		return nil, err
	}
	sub, err := tok.GetSubject()
	if err != nil {
		return nil, err
	}
	iat, err := tok.GetIssuedAt()
	if err != nil {
		return nil, err
	}
	exp, err := tok.GetExpiration()
	if err != nil {
		return nil, err
	}
	role, err := tok.GetString("role")
	if err != nil {
		return nil, err
	}
	sid, err := tok.GetString("sid")
	if err != nil {
		return nil, err
	}

	return &Claims{
		Subject:   sub,
		Role:      role,
		SessionID: sid,
		Issuer:    iss,
		Audience:  aud,
		TokenID:   jti,
		IssuedAt:  iat,
		ExpiresAt: exp,
	}, nil
}
