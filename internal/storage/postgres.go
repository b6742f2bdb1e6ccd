package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresLocalStorage is the durable key-value store behind the refresh
// credential. Rows are scoped by profile so several clients can share a table.
type PostgresLocalStorage struct {
	DB      *sql.DB
	Profile string
}

func NewPostgresLocalStorage(db *sql.DB, profile string) *PostgresLocalStorage {
	return &PostgresLocalStorage{DB: db, Profile: profile}
}

func (s *PostgresLocalStorage) SetItem(ctx context.Context, key, value string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO local_storage (profile, key, value, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`, s.Profile, key, value)
	return err
}

func (s *PostgresLocalStorage) Item(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		"SELECT value FROM local_storage WHERE profile = $1 AND key = $2", s.Profile, key).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *PostgresLocalStorage) RemoveItem(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, "DELETE FROM local_storage WHERE profile = $1 AND key = $2", s.Profile, key)
	return err
}

func (s *PostgresLocalStorage) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS local_storage (
			profile TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, key)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

var _ LocalStorage = (*PostgresLocalStorage)(nil)
