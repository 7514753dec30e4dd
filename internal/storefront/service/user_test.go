package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/pkg/jwtx"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.AdminConfig{})

	t.Run("happy path", func(t *testing.T) {
		user, pair, err := f.users.Register(ctx, "Alice", "Alice@Example.com", "long-enough")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "alice@example.com", user.Email, "emails are stored lowercased")
		require.False(t, user.IsAdmin)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := f.users.Register(ctx, "Alice2", "alice@example.com", "long-enough")
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("bad email", func(t *testing.T) {
		_, _, err := f.users.Register(ctx, "Bob", "not-an-email", "long-enough")
		require.ErrorIs(t, err, service.ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, _, err := f.users.Register(ctx, "Bob", "bob@example.com", "short")
		require.ErrorIs(t, err, service.ErrWeakPassword)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.AdminConfig{})

	_, _, err := f.users.Register(ctx, "Alice", "alice@example.com", "long-enough")
	require.NoError(t, err)

	t.Run("happy path", func(t *testing.T) {
		user, pair, err := f.users.Login(ctx, "ALICE@example.com", "long-enough")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", user.Email)
		require.NotEmpty(t, pair.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.users.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email reads the same as wrong password", func(t *testing.T) {
		_, _, err := f.users.Login(ctx, "nobody@example.com", "long-enough")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("without TOTP", func(t *testing.T) {
		f := newFixture(t, service.AdminConfig{
			Email:    "admin@example.com",
			Password: "admin-password",
		})

		admin, pair, err := f.users.AdminLogin(ctx, "admin@example.com", "admin-password", "")
		require.NoError(t, err)
		require.True(t, admin.IsAdmin)

		claims, err := f.verifier.Verify(pair.AccessToken, jwtx.ClassAccess)
		require.NoError(t, err)
		require.True(t, claims.IsAdmin)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newFixture(t, service.AdminConfig{
			Email:    "admin@example.com",
			Password: "admin-password",
		})

		_, _, err := f.users.AdminLogin(ctx, "admin@example.com", "wrong", "")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unconfigured admin always rejects", func(t *testing.T) {
		f := newFixture(t, service.AdminConfig{})

		_, _, err := f.users.AdminLogin(ctx, "", "", "")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("with TOTP", func(t *testing.T) {
		const secret = "JBSWY3DPEHPK3PXP"
		f := newFixture(t, service.AdminConfig{
			Email:      "admin@example.com",
			Password:   "admin-password",
			TOTPSecret: secret,
		})

		_, _, err := f.users.AdminLogin(ctx, "admin@example.com", "admin-password", "")
		require.ErrorIs(t, err, service.ErrInvalidOTP, "missing code must be rejected")

		_, _, err = f.users.AdminLogin(ctx, "admin@example.com", "admin-password", "000000")
		require.ErrorIs(t, err, service.ErrInvalidOTP)

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		admin, _, err := f.users.AdminLogin(ctx, "admin@example.com", "admin-password", code)
		require.NoError(t, err)
		require.True(t, admin.IsAdmin)
	})
}
