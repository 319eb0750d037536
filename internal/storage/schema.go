package storage

// sqliteSchema creates the tables and indexes for SQLite.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS hronirs (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS paths (
	path_uuid TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	predecessor TEXT NOT NULL,
	current TEXT NOT NULL REFERENCES hronirs(id),
	status TEXT NOT NULL,
	mandate_id BLOB,
	is_canonical INTEGER NOT NULL DEFAULT 0,
	elo_rating REAL NOT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE(position, predecessor, current)
);

CREATE TABLE IF NOT EXISTS transactions (
	tx_id TEXT PRIMARY KEY,
	sequence INTEGER NOT NULL UNIQUE,
	prev_sequence INTEGER NOT NULL,
	prev_tx_hash BLOB NOT NULL,
	voting_token TEXT NOT NULL REFERENCES paths(path_uuid),
	content_hash BLOB NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
	vote_id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	voting_token TEXT NOT NULL REFERENCES paths(path_uuid),
	path_a TEXT NOT NULL REFERENCES paths(path_uuid),
	path_b TEXT NOT NULL REFERENCES paths(path_uuid),
	chosen_side TEXT NOT NULL,
	tx_id TEXT NOT NULL REFERENCES transactions(tx_id),
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS consumed_tokens (
	voting_token TEXT PRIMARY KEY REFERENCES paths(path_uuid)
);

CREATE INDEX IF NOT EXISTS idx_paths_cohort ON paths(position, predecessor);
CREATE INDEX IF NOT EXISTS idx_paths_status ON paths(status);
CREATE INDEX IF NOT EXISTS idx_tx_sequence ON transactions(sequence);
`

// postgresSchema creates the same tables for Postgres, with native boolean
// and bytea types in place of SQLite's INTEGER/BLOB affinities.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS hronirs (
	id UUID PRIMARY KEY,
	text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS paths (
	path_uuid UUID PRIMARY KEY,
	position INTEGER NOT NULL,
	predecessor UUID NOT NULL,
	current UUID NOT NULL REFERENCES hronirs(id),
	status TEXT NOT NULL,
	mandate_id BYTEA,
	is_canonical BOOLEAN NOT NULL DEFAULT FALSE,
	elo_rating DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE(position, predecessor, current)
);

CREATE TABLE IF NOT EXISTS transactions (
	tx_id UUID PRIMARY KEY,
	sequence BIGINT NOT NULL UNIQUE,
	prev_sequence BIGINT NOT NULL,
	prev_tx_hash BYTEA NOT NULL,
	voting_token UUID NOT NULL REFERENCES paths(path_uuid),
	content_hash BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
	vote_id UUID PRIMARY KEY,
	position INTEGER NOT NULL,
	voting_token UUID NOT NULL REFERENCES paths(path_uuid),
	path_a UUID NOT NULL REFERENCES paths(path_uuid),
	path_b UUID NOT NULL REFERENCES paths(path_uuid),
	chosen_side TEXT NOT NULL,
	tx_id UUID NOT NULL REFERENCES transactions(tx_id),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS consumed_tokens (
	voting_token UUID PRIMARY KEY REFERENCES paths(path_uuid)
);

CREATE INDEX IF NOT EXISTS idx_paths_cohort ON paths(position, predecessor);
CREATE INDEX IF NOT EXISTS idx_paths_status ON paths(status);
CREATE INDEX IF NOT EXISTS idx_tx_sequence ON transactions(sequence);
`
