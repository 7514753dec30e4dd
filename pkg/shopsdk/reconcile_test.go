package shopsdk_test

import (
	"context"
	"testing"
	"time"

	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

func TestReconcilePicksUpExternalLogout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shop := newFakeShop(t)
	store := shopsdk.NewMemoryStore()
	session, err := shop.client().LoginWithStore(ctx, "u1@example.com", "password", store)
	require.NoError(t, err)

	session.StartReconcile(ctx, 10*time.Millisecond)

	// Another process clears the shared store.
	require.NoError(t, store.Clear(ctx))

	require.Eventually(t, func() bool {
		return !session.LoggedIn()
	}, time.Second, 10*time.Millisecond, "external logout should reach the mirror")
}

func TestReconcilePicksUpExternalRotation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shop := newFakeShop(t)
	store := shopsdk.NewMemoryStore()
	session, err := shop.client().LoginWithStore(ctx, "u1@example.com", "password", store)
	require.NoError(t, err)

	// Another process logged in as a different account and wrote a
	// fresh pair to the shared store.
	claims := jwtx.NewClaims("user-2", "u2@example.com", false)
	rotated, err := shop.iss.IssueAccess(claims)
	require.NoError(t, err)
	rotatedRefresh, err := shop.iss.IssueRefresh(claims)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, shopsdk.Tokens{Access: rotated, Refresh: rotatedRefresh}))

	session.StartReconcile(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		current, err := session.Token(ctx)
		return err == nil && current == rotated
	}, time.Second, 10*time.Millisecond, "rotated tokens should reach the mirror")
}

func TestReconcileLogsOutOnCorruptedStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shop := newFakeShop(t)
	store := shopsdk.NewMemoryStore()
	session, err := shop.client().LoginWithStore(ctx, "u1@example.com", "password", store)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, shopsdk.Tokens{Access: "corrupted", Refresh: "corrupted"}))

	session.StartReconcile(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return !session.LoggedIn()
	}, time.Second, 10*time.Millisecond, "a corrupted pair reads as logged out")

	// The corrupted pair was also purged from the store.
	stored, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, stored.IsZero())
}
