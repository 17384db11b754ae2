package weather

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/klauspost/compress/zstd"

	"kjorefore/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx, so the
// store works inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgSchema creates the cache table. Forecast payloads are JSON compressed
// with zstd; a full series compresses to roughly a tenth of its raw size.
const pgSchema = `
CREATE TABLE IF NOT EXISTS weather_cache (
    key        TEXT PRIMARY KEY,
    payload    BYTEA NOT NULL,
    fetched_at TIMESTAMPTZ NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_cache_expires_at_idx ON weather_cache (expires_at);
`

// PGStore is a Postgres-backed Store for deployments where several API
// processes should share one forecast cache. Semantics match MemoryStore:
// expiry is still the client's concern on read, and Sweep does the
// periodic eviction.
type PGStore struct {
	db  DBTX
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewPGStore creates a PGStore over the given connection. Call
// EnsureSchema once at startup before first use.
func NewPGStore(db DBTX) (*PGStore, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalCache,
			"creating zstd encoder", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalCache,
			"creating zstd decoder", err)
	}
	return &PGStore{db: db, enc: enc, dec: dec}, nil
}

// EnsureSchema creates the cache table and index if they do not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, pgSchema); err != nil {
		return types.NewAppError(types.ErrCodeInternalCache,
			"creating weather_cache schema", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, key string) (*Entry, error) {
	var (
		payload   []byte
		fetchedAt time.Time
		expiresAt time.Time
	)

	row := s.db.QueryRow(ctx,
		`SELECT payload, fetched_at, expires_at FROM weather_cache WHERE key = $1`, key)
	if err := row.Scan(&payload, &fetchedAt, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, types.NewAppError(types.ErrCodeInternalCache,
			"reading weather cache entry", err)
	}

	raw, err := s.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalCache,
			"decompressing weather cache payload", err)
	}

	var series types.ForecastSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalCache,
			"unmarshaling weather cache payload", err)
	}

	return &Entry{
		Key:       key,
		Series:    series,
		FetchedAt: fetchedAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *PGStore) Set(ctx context.Context, e *Entry) error {
	raw, err := json.Marshal(e.Series)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalCache,
			"marshaling weather cache payload", err)
	}
	payload := s.enc.EncodeAll(raw, nil)

	_, err = s.db.Exec(ctx, `
		INSERT INTO weather_cache (key, payload, fetched_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    fetched_at = EXCLUDED.fetched_at,
		    expires_at = EXCLUDED.expires_at`,
		e.Key, payload, e.FetchedAt, e.ExpiresAt)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalCache,
			"writing weather cache entry", err)
	}
	return nil
}

func (s *PGStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM weather_cache WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalCache,
			"sweeping weather cache", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PGStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM weather_cache`); err != nil {
		return types.NewAppError(types.ErrCodeInternalCache,
			"clearing weather cache", err)
	}
	return nil
}
