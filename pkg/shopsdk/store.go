package shopsdk

import (
	"context"
	"sync"
)

// Tokens is a persisted token pair. Either both fields are set or the
// store is considered empty.
type Tokens struct {
	Access  string
	Refresh string
}

// IsZero reports whether the pair holds no credentials.
func (t Tokens) IsZero() bool { return t.Access == "" && t.Refresh == "" }

// TokenStore is the persistence boundary shared by the session mirror
// and any external writers. Implementations must be safe for
// concurrent use. Load on an empty store returns a zero Tokens value,
// not an error.
type TokenStore interface {
	Load(ctx context.Context) (Tokens, error)
	Save(ctx context.Context, t Tokens) error

	// SetAccess replaces only the access token, keeping the stored
	// refresh token. Used after a refresh rotates the access token.
	SetAccess(ctx context.Context, access string) error

	Clear(ctx context.Context) error
}

// MemoryStore is a process-local TokenStore. It is the default store
// for sessions that do not need persistence.
type MemoryStore struct {
	mu sync.RWMutex
	t  Tokens
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (Tokens, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.t, nil
}

func (m *MemoryStore) Save(ctx context.Context, t Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = t
	return nil
}

func (m *MemoryStore) SetAccess(ctx context.Context, access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t.Access = access
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.t = Tokens{}
	return nil
}
