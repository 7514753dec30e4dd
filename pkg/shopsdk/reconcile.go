package shopsdk

import (
	"context"
	"time"

	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/slogx"
)

// DefaultReconcileInterval is how often StartReconcile polls the
// token store when no interval is given.
const DefaultReconcileInterval = 5 * time.Second

// StartReconcile polls the token store and folds external changes into
// the live session: a logout performed by another process empties the
// mirror, and tokens rotated elsewhere replace it. The loop stops when
// ctx is cancelled. interval <= 0 uses DefaultReconcileInterval.
//
// Reconciliation only moves state from the store into the mirror; the
// session's own writes already go through the store.
func (s *Session) StartReconcile(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.reconcile(ctx)
			}
		}
	}()
}

// reconcile runs one poll round.
func (s *Session) reconcile(ctx context.Context) {
	log := slogx.FromContext(ctx)

	stored, err := s.store.Load(ctx)
	if err != nil {
		log.Warn("token store poll failed", "err", err)
		return
	}

	s.mu.RLock()
	current := s.tokens
	s.mu.RUnlock()

	if stored == current {
		return
	}

	if stored.IsZero() {
		// Logged out externally. The store is already empty, only the
		// mirror needs dropping.
		s.adoptTokens(Tokens{})
		log.Info("session logged out externally")
		return
	}

	// A stored pair that no longer parses is treated as absent. A
	// missing access token alone is refreshable, not corruption.
	if stored.Access != "" {
		if _, err := jwtx.Parse(stored.Access); err != nil {
			log.Warn("stored access token unusable, logging out", "err", err)
			_ = s.Logout(ctx)
			return
		}
	}
	if _, err := jwtx.Parse(stored.Refresh); err != nil {
		log.Warn("stored refresh token unusable, logging out", "err", err)
		_ = s.Logout(ctx)
		return
	}

	s.adoptTokens(stored)
}
