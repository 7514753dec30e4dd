package jwtx

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. Access tokens are presented on every
// protected call and stay short; refresh tokens only ever mint new
// access tokens and may live for days.
const (
	DefaultAccessTokenTTL  = 2 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Class tags which kind of credential a token is. The class lives
// inside the claims so a refresh token can never be accepted where an
// access token is required, and vice versa.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

// Claims is the canonical claims schema carried inside every token.
// Claims are immutable once embedded; changing anything means minting
// a new token.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated identity.
	Email string `json:"email,omitempty"`

	// IsAdmin distinguishes elevated-privilege identities.
	IsAdmin bool `json:"isAdmin,omitempty"`

	// Class is the token class tag ("access" or "refresh").
	Class Class `json:"cls,omitempty"`
}

// NewClaims builds claims for a subject. Timing fields and the class
// tag are stamped by the issuer, not here.
func NewClaims(subject, email string, isAdmin bool) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Email:            email,
		IsAdmin:          isAdmin,
	}
}

// Reduced returns the minimal projection embedded in refresh tokens:
// subject, email and the admin flag. Anything else an access token
// carries is deliberately dropped so refresh tokens stay minimally
// privileged.
func (c Claims) Reduced() Claims {
	return NewClaims(c.Subject, c.Email, c.IsAdmin)
}

// UnmarshalJSON decodes claims and folds the historical subject-field
// aliases ("userId", then "id") into the canonical "sub". Older
// deployments stamped the class as "type"; that alias is folded into
// "cls" the same way. This is the only place alias handling lives —
// consumers above the verifier always see the canonical schema.
func (c *Claims) UnmarshalJSON(data []byte) error {
	type plain Claims
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Claims(p)

	if c.Subject != "" && c.Class != "" {
		return nil
	}

	var legacy struct {
		UserID string `json:"userId"`
		ID     string `json:"id"`
		Type   string `json:"type"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	if c.Subject == "" {
		if legacy.UserID != "" {
			c.Subject = legacy.UserID
		} else {
			c.Subject = legacy.ID
		}
	}
	if c.Class == "" && legacy.Type != "" {
		c.Class = Class(legacy.Type)
	}
	return nil
}
