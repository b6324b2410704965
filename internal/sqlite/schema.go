// Package sqlite records watch sessions in a SQLite database so they can be
// listed, replayed and exported later.
package sqlite

// Schema DDL. Tables are created on first attach and kept across runs.
const (
	createSessions = `CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    driver TEXT NOT NULL,
    source TEXT NOT NULL,
    started_at TEXT NOT NULL
);`

	createRecords = `CREATE TABLE IF NOT EXISTS records (
    session_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    stamp TEXT NOT NULL,
    robot_id INTEGER NOT NULL,
    x INTEGER NOT NULL,
    y INTEGER NOT NULL,
    received_at TEXT NOT NULL,
    PRIMARY KEY (session_id, seq)
);`

	createRecordsRobotIndex = `CREATE INDEX IF NOT EXISTS idx_records_robot ON records(session_id, robot_id);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createSessions,
	createRecords,
	createRecordsRobotIndex,
}

// dbFileName is the database file inside the data directory.
const dbFileName = "trailplot.db"
