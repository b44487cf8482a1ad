package store

import "github.com/nhle/quicktasks/internal/model"

const schemaVersionTable = `CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
)`

// migration holds a single schema migration with its target version and
// the statements for each dialect. MySQL cannot run several statements in
// one Exec, so every statement is listed separately.
type migration struct {
	version    int
	statements map[string][]string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		statements: map[string][]string{
			model.DriverSQLite: {
				`CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL CHECK(length(trim(text)) > 0),
	completed  INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at DATETIME NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks(created_at)`,
			},
			model.DriverPostgres: {
				`CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL CHECK (length(btrim(text)) > 0),
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
)`,
				`CREATE INDEX IF NOT EXISTS idx_tasks_created_at ON tasks (created_at)`,
			},
			model.DriverMySQL: {
				`CREATE TABLE IF NOT EXISTS tasks (
	id         VARCHAR(36) NOT NULL PRIMARY KEY,
	text       TEXT NOT NULL,
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at DATETIME(6) NOT NULL,
	INDEX idx_tasks_created_at (created_at)
) CHARACTER SET utf8mb4`,
			},
		},
	},
}
