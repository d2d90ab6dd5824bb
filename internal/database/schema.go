package database

// Schema is the full current schema, for creating in-memory test
// databases without running migrations. It must stay in sync with
// internal/database/migrations/files.
const Schema = `
CREATE TABLE dir_props (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE dir_file_props (
    id TEXT PRIMARY KEY,
    dir_id TEXT NOT NULL REFERENCES dir_props(id),
    name TEXT NOT NULL,
    cached_date TIMESTAMP NOT NULL,
    created_date TIMESTAMP NOT NULL,
    modified_date TIMESTAMP NOT NULL,
    UNIQUE(dir_id, name)
);

CREATE INDEX idx_dir_file_props_capture ON dir_file_props(dir_id, cached_date);

CREATE TABLE dir_actions_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    dir_id TEXT NOT NULL REFERENCES dir_props(id),
    action_type INTEGER NOT NULL,
    cached_date TIMESTAMP NOT NULL
);

CREATE INDEX idx_dir_actions_log_dir ON dir_actions_log(dir_id, cached_date);
`
