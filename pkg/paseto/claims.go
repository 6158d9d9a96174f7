package pasetotoken

import "time"

// Claims is the verified payload of an admin access token. The token is
// only a pointer to a server-side session: SessionID must still be looked
// up before the request is trusted.
type Claims struct {
	Subject   string
	Role      string
	SessionID string

	Issuer    string
	Audience  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
