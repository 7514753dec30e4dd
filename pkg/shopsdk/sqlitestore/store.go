// Package sqlitestore persists a shopsdk token pair in a local SQLite
// database so sessions survive process restarts and can be shared with
// other processes on the same host.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/marketloft/storefront/pkg/shopsdk"
	"github.com/marketloft/storefront/pkg/shopsdk/sqlitestore/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "modernc.org/sqlite"
)

// Store implements shopsdk.TokenStore on a single-row tokens table.
type Store struct {
	db *sql.DB
}

var _ shopsdk.TokenStore = (*Store)(nil)

// New opens (or creates) the database at dsn and applies any pending
// schema migrations.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.applyMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) applyMigrations() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", src, "", driver)
	if err != nil {
		return err
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Load returns the stored pair, or a zero value when nothing is saved.
func (s *Store) Load(ctx context.Context) (shopsdk.Tokens, error) {
	var t shopsdk.Tokens
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token FROM tokens WHERE id = 1`,
	).Scan(&t.Access, &t.Refresh)
	if errors.Is(err, sql.ErrNoRows) {
		return shopsdk.Tokens{}, nil
	}
	if err != nil {
		return shopsdk.Tokens{}, err
	}
	return t, nil
}

func (s *Store) Save(ctx context.Context, t shopsdk.Tokens) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tokens (id, access_token, refresh_token) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		t.Access, t.Refresh)
	return err
}

// SetAccess replaces only the access token. A no-op when nothing is
// stored, matching a logout that raced the refresh.
func (s *Store) SetAccess(ctx context.Context, access string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tokens SET
			access_token = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = 1`,
		access)
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = 1`)
	return err
}
