package vecstore

import "database/sql"

// Schema is the vector store layout. Embeddings are little-endian
// float32 blobs; dims is stored denormalized so corrupt blobs are
// detectable without decoding.
const Schema = `
CREATE TABLE IF NOT EXISTS vectors (
    id          TEXT PRIMARY KEY,
    url         TEXT NOT NULL DEFAULT '',
    version     TEXT NOT NULL,
    dims        INTEGER NOT NULL,
    embedding   BLOB NOT NULL,
    raw_json    TEXT NOT NULL DEFAULT '{}',
    created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_vectors_version ON vectors(version, created_at DESC);
`

// EnsureSchema applies the store schema, idempotently.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
