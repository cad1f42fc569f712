// Package vecstore is a sqlite-backed implementation of the vector
// store contract the engine emits into: version-tagged fixed-length
// vectors in, nearest neighbours under a configurable metric out.
//
// The store is deliberately indexing-agnostic: search is a brute-force
// scan over one schema version, which is exact and fast enough for the
// corpus sizes design fingerprints run at.
package vecstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/leomorgan/dawn-dpartner-proto-sub002/vector"
)

// Store wraps one sqlite database holding fingerprint vectors.
type Store struct {
	DB *sql.DB
}

// Open opens (creating if needed) a vector store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("vecstore: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("vecstore: pragma: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("vecstore: schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// New wraps an already-opened database.
func New(db *sql.DB) (*Store, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, fmt.Errorf("vecstore: schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.DB.Close() }

// Record is one stored fingerprint.
type Record struct {
	ID        string
	URL       string
	Version   string
	Values    []float32
	Raw       []float64
	CreatedAt time.Time
}

// Put stores a vector and returns its row ID.
func (s *Store) Put(ctx context.Context, url string, v *vector.FeatureVector) (string, error) {
	id := uuid.NewString()
	rawJSON, err := json.Marshal(v.Raw)
	if err != nil {
		return "", fmt.Errorf("vecstore: marshal raw: %w", err)
	}
	vals := v.Float32s()
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO vectors (id, url, version, dims, embedding, raw_json, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		id, url, v.Version, len(vals), vector.Encode(vals), string(rawJSON),
		time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("vecstore: insert: %w", err)
	}
	return id, nil
}

// Get loads one record by ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, url, version, embedding, raw_json, created_at
		FROM vectors WHERE id = ?`, id)
	return scanRecord(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var r Record
	var blob []byte
	var rawJSON string
	var createdMs int64
	if err := row.Scan(&r.ID, &r.URL, &r.Version, &blob, &rawJSON, &createdMs); err != nil {
		return nil, err
	}
	vals, err := vector.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("vecstore: record %s: %w", r.ID, err)
	}
	r.Values = vals
	if err := json.Unmarshal([]byte(rawJSON), &r.Raw); err != nil {
		// Raw is diagnostic only; a corrupt raw payload does not make
		// the vector unusable.
		r.Raw = nil
	}
	r.CreatedAt = time.UnixMilli(createdMs)
	return &r, nil
}

// Delete removes one record.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM vectors WHERE id = ?`, id)
	return err
}

// Count returns the number of stored vectors for a schema version.
func (s *Store) Count(ctx context.Context, version string) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors WHERE version = ?`, version).Scan(&n)
	return n, err
}

// Vector reconstructs the FeatureVector of a record given its schema.
func (r *Record) Vector(schema *vector.Schema) (*vector.FeatureVector, error) {
	if r.Version != schema.Version {
		return nil, &vector.VersionMismatchError{A: r.Version, B: schema.Version}
	}
	if len(r.Values) != schema.N() {
		return nil, fmt.Errorf("vecstore: record %s has %d dims, schema %s has %d", r.ID, len(r.Values), schema.Version, schema.N())
	}
	vals := make([]float64, len(r.Values))
	for i, v := range r.Values {
		vals[i] = float64(v)
	}
	return &vector.FeatureVector{
		Version:      r.Version,
		FeatureNames: schema.Names(),
		Values:       vals,
		Raw:          r.Raw,
	}, nil
}
