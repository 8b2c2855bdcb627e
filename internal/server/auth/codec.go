package auth

import (
	"time"

	"github.com/dmitrijs2005/tweeter/internal/server/config"
)

// Profile is one token kind: its signing secret and lifetime.
type Profile struct {
	Secret []byte
	TTL    time.Duration
}

// Codec bundles the access and refresh profiles.
type Codec struct {
	Access  Profile
	Refresh Profile
}

// NewCodec builds the access and refresh profiles from cfg.
func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		Access:  Profile{Secret: []byte(cfg.AccessTokenSecret), TTL: cfg.AccessTokenValidityDuration},
		Refresh: Profile{Secret: []byte(cfg.RefreshTokenSecret), TTL: cfg.RefreshTokenValidityDuration},
	}
}

// IssueAccess signs a short-lived access token for claims.
func (c *Codec) IssueAccess(claims Claims) (string, error) {
	return Issue(claims, c.Access.Secret, c.Access.TTL)
}

// IssueRefresh signs a long-lived refresh token for claims.
func (c *Codec) IssueRefresh(claims Claims) (string, error) {
	return Issue(claims, c.Refresh.Secret, c.Refresh.TTL)
}

// VerifyAccess checks token against the access secret.
func (c *Codec) VerifyAccess(token string) (*Claims, error) {
	return Verify(token, c.Access.Secret)
}

// VerifyRefresh checks token against the refresh secret.
func (c *Codec) VerifyRefresh(token string) (*Claims, error) {
	return Verify(token, c.Refresh.Secret)
}
