// Package store persists the user's profile and the last scraped job offer
// in a local SQLite database. It is a two-key store with last-write-wins
// semantics; the companion application owns the data, this side only syncs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

const (
	keyProfile = "profile"
	keyOffer   = "offer"
)

var storeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

var _ schemas.ProfileStore = (*Store)(nil)

// Store is the SQLite implementation of schemas.ProfileStore.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens (creating if needed) the database at path and runs the schema
// migration. Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// The sqlite driver serializes writes at the file level; a single
	// connection avoids SQLITE_BUSY under concurrent syncs.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db, log: logger.Named("store")}, nil
}

// SaveProfile replaces the stored profile with the given one.
func (s *Store) SaveProfile(ctx context.Context, profile *schemas.UserProfileData) error {
	return s.put(ctx, keyProfile, profile)
}

// LoadProfile returns the stored profile, or nil when none has been synced.
func (s *Store) LoadProfile(ctx context.Context) (*schemas.UserProfileData, error) {
	var profile schemas.UserProfileData
	ok, err := s.get(ctx, keyProfile, &profile)
	if err != nil || !ok {
		return nil, err
	}
	return &profile, nil
}

// SaveOffer replaces the stored job offer with the given one.
func (s *Store) SaveOffer(ctx context.Context, offer *schemas.JobOffer) error {
	return s.put(ctx, keyOffer, offer)
}

// LoadOffer returns the stored job offer, or nil when none has been scraped.
func (s *Store) LoadOffer(ctx context.Context) (*schemas.JobOffer, error) {
	var offer schemas.JobOffer
	ok, err := s.get(ctx, keyOffer, &offer)
	if err != nil || !ok {
		return nil, err
	}
	return &offer, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(ctx context.Context, key string, value interface{}) error {
	payload, err := storeJSON.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	const upsert = `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
	if _, err := s.db.ExecContext(ctx, upsert, key, payload, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	s.log.Debug("Persisted record", zap.String("key", key), zap.Int("bytes", len(payload)))
	return nil
}

// get reports whether the key held a value; a missing key is not an error.
func (s *Store) get(ctx context.Context, key string, out interface{}) (bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := storeJSON.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
