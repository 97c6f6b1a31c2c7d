package db

// Schema is the DDL for the digest archive database.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    date          TEXT NOT NULL,
    generated_at  TEXT NOT NULL,
    sections      INTEGER NOT NULL DEFAULT 0,
    errored       INTEGER NOT NULL DEFAULT 0,
    recipient     TEXT,
    sent          INTEGER NOT NULL DEFAULT 0,
    file_path     TEXT
);

CREATE TABLE IF NOT EXISTS entries (
    run_id      TEXT NOT NULL,
    position    INTEGER NOT NULL,
    subject     TEXT NOT NULL,
    from_addr   TEXT,
    date        TEXT,
    summary     TEXT,
    errored     INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, position),
    FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(date DESC);
`
