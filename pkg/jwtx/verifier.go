package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Cryptographic / claims verification errors. Codec failures surface
// as ErrMalformed so callers have exactly three outcomes to map:
// malformed (never retry), bad signature (never retry) and expired
// (recoverable via refresh).
var (
	ErrBadSignature = errors.New("jwtx: invalid token signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrWrongClass   = fmt.Errorf("jwtx: token class mismatch: %w", ErrBadSignature)
)

// Verifier validates tokens against the class secrets. Verification is
// stateless and idempotent; a Verifier is safe for concurrent use.
type Verifier struct {
	cfg    Config
	parser *jwt.Parser
}

func NewVerifier(cfg Config) (*Verifier, error) {
	c, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Verifier{
		cfg: c,
		// Claims are validated by hand below so expiry keeps its exact
		// boundary semantics and its ordering after the class check.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Verify checks raw against the secret for class and returns its
// claims. Failures map onto exactly one of ErrMalformed,
// ErrBadSignature and ErrExpired; Verify never panics across its
// boundary. A token whose exp equals the current instant is already
// expired.
func (v *Verifier) Verify(raw string, class Class) (*Claims, error) {
	// Structural check first. Any codec failure is reported as
	// malformed — there is nothing to verify.
	seg, err := Parse(raw)
	if err != nil {
		if !errors.Is(err, ErrMalformed) {
			err = fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return nil, err
	}

	secret, err := v.cfg.secret(class)
	if err != nil {
		return nil, err
	}

	token, err := v.parser.ParseWithClaims(seg.Compact(), &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformed
	}

	// Class is checked before expiry: a token of the wrong class is
	// rejected outright, even when it has merely expired.
	if claims.Class != class {
		return nil, fmt.Errorf("%w: have %q, want %q", ErrWrongClass, claims.Class, class)
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, fmt.Errorf("jwtx: missing timing claims: %w", ErrMalformed)
	}

	// Strict boundary: exp == now is expired.
	if !v.cfg.Now().UTC().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	return claims, nil
}
