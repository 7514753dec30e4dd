package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config carries the per-class secrets and lifetimes shared by the
// issuer and the verifier. It is built once at startup from explicit
// configuration and injected — the token core never reads ambient
// process state, which keeps tests deterministic with fixture secrets.
type Config struct {
	// AccessSecret and RefreshSecret are the symmetric HS256 keys, one
	// per token class. Rotation happens by redeploying configuration.
	AccessSecret  []byte
	RefreshSecret []byte

	// AccessTTL and RefreshTTL default to 2h and 7d.
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Issuer is stamped into the "iss" claim when non-empty.
	Issuer string

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

func (cfg *Config) withDefaults() (Config, error) {
	c := *cfg
	if len(c.AccessSecret) == 0 || len(c.RefreshSecret) == 0 {
		return c, errors.New("jwtx: both class secrets are required")
	}
	if c.AccessTTL <= 0 {
		c.AccessTTL = DefaultAccessTokenTTL
	}
	if c.RefreshTTL <= 0 {
		c.RefreshTTL = DefaultRefreshTokenTTL
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c, nil
}

func (cfg *Config) secret(class Class) ([]byte, error) {
	switch class {
	case ClassAccess:
		return cfg.AccessSecret, nil
	case ClassRefresh:
		return cfg.RefreshSecret, nil
	default:
		return nil, fmt.Errorf("jwtx: unknown token class %q", class)
	}
}

// Issuer mints signed access and refresh tokens. Issuance is a pure
// computation over the injected config; an Issuer is safe for
// concurrent use.
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) (*Issuer, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Issuer{cfg: c}, nil
}

// IssueAccess stamps timing fields and the access class tag onto a
// copy of claims and signs it with the access secret.
func (i *Issuer) IssueAccess(c Claims) (string, error) {
	return i.issue(c, ClassAccess, i.cfg.AccessTTL)
}

// IssueRefresh signs the reduced projection of claims as a refresh
// token. The full application payload never rides in a refresh token.
func (i *Issuer) IssueRefresh(c Claims) (string, error) {
	return i.issue(c.Reduced(), ClassRefresh, i.cfg.RefreshTTL)
}

func (i *Issuer) issue(c Claims, class Class, ttl time.Duration) (string, error) {
	secret, err := i.cfg.secret(class)
	if err != nil {
		return "", err
	}

	now := i.cfg.Now().UTC()
	c.Class = class
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if i.cfg.Issuer != "" {
		c.Issuer = i.cfg.Issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign %s token: %w", class, err)
	}
	return signed, nil
}
