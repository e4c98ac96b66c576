// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pgstore keeps the client's persisted keys in a PostgreSQL table so
// that shared counter terminals can resume a boutique session from any machine.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `CREATE TABLE IF NOT EXISTS needles_session (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// DB is the subset of *pgxpool.Pool used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store on a PostgreSQL table.
type Store struct {
	db        DB
	namespace string
	timeout   time.Duration
	close     func()
}

// Open connects to dsn, ensures the table exists and returns a Store scoped to namespace.
func Open(ctx context.Context, dsn, namespace string) (*Store, error) {
	dsn, err := NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse store dsn %s: %w", RedactDSN(dsn), err)
	}
	cfg.MaxConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}

	s := New(pool, namespace)
	s.close = pool.Close
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New returns a Store on an existing connection.
func New(db DB, namespace string) *Store {
	if namespace == "" {
		namespace = "default"
	}
	return &Store{db: db, namespace: namespace, timeout: 5 * time.Second}
}

// Migrate creates the session table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create session table: %w", err)
	}
	return nil
}

// Close releases the pool opened by Open.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

func (s *Store) Read(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM needles_session WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) Write(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`INSERT INTO needles_session (namespace, key, value) VALUES ($1, $2, $3)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.namespace, key, value,
	)
	return err
}

func (s *Store) Erase(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.db.Exec(ctx,
		`DELETE FROM needles_session WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	)
	return err
}
