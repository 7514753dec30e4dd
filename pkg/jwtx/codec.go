package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Structural (non-cryptographic) errors reported by the codec.
var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrBadEncoding = errors.New("jwtx: bad token encoding")
	ErrBadPayload  = errors.New("jwtx: bad token payload")
)

// Segments is a structurally valid token split into its three raw
// base64url parts. Holding a Segments value guarantees the token is
// well-formed enough to attempt verification, nothing more.
type Segments struct {
	Header    string
	Payload   string
	Signature string
}

// Compact reassembles the canonical dotted form.
func (s *Segments) Compact() string {
	return s.Header + "." + s.Payload + "." + s.Signature
}

// Clean normalises a raw bearer credential as received from a header,
// a request body, or client storage. It strips surrounding whitespace
// and quoting, an optional case-insensitive "Bearer " prefix, and any
// interior whitespace a copy-paste may have introduced.
func Clean(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	token = strings.Trim(token, `"'`)

	switch {
	case len(token) >= 7 && strings.EqualFold(token[:7], "bearer "):
		token = strings.TrimSpace(token[7:])
	case strings.EqualFold(token, "bearer"):
		// A scheme with nothing after it is no credential at all.
		token = ""
	}

	// Interior whitespace is never valid in a compact token.
	token = strings.Join(strings.Fields(token), "")

	if token == "" {
		return "", fmt.Errorf("jwtx: empty token: %w", ErrMalformed)
	}
	return token, nil
}

// Parse cleans raw and splits it into its three segments, checking the
// structural constraints only: exactly three non-empty dot-separated
// parts, each in the base64url alphabet, with the header and payload
// decoding to JSON objects. No cryptographic check is performed and no
// state is touched; Parse is safe to call from anywhere.
func Parse(raw string) (*Segments, error) {
	token, err := Clean(raw)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("jwtx: expected 3 segments, got %d: %w", len(parts), ErrMalformed)
	}
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("jwtx: empty segment: %w", ErrMalformed)
		}
		if !isBase64URL(p) {
			return nil, fmt.Errorf("jwtx: segment outside base64url alphabet: %w", ErrBadEncoding)
		}
	}

	// Header and payload must carry structured data. The signature is
	// opaque bytes and only needs the alphabet check above.
	for _, p := range parts[:2] {
		decoded, err := base64.RawURLEncoding.DecodeString(p)
		if err != nil {
			return nil, fmt.Errorf("jwtx: segment not decodable: %w", ErrBadEncoding)
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(decoded, &obj); err != nil {
			return nil, fmt.Errorf("jwtx: segment not a JSON object: %w", ErrBadPayload)
		}
	}

	return &Segments{Header: parts[0], Payload: parts[1], Signature: parts[2]}, nil
}

func isBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
