package types

import "time"

// Session describes one recorded run of the watch loop.
type Session struct {
	SessionID string    `json:"session_id"`
	Driver    string    `json:"driver"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	Records   int       `json:"records"`
}

// SessionStore persists recorded sessions. A store must be attached to a
// data directory before use and detached when done.
type SessionStore interface {
	Attach(dataDir string) error
	Detach() error
	DataDir() string

	// BeginSession starts a new session; records passed to Record belong
	// to it until the next BeginSession.
	BeginSession(driver, source string) (Session, error)
	Record(rec Record) error

	// Sessions lists sessions newest first.
	Sessions() ([]Session, error)
	// FindSession resolves a full session ID or a unique prefix of one.
	FindSession(idOrPrefix string) (Session, error)
	Records(sessionID string) ([]Record, error)
	ExportJSONL(sessionID, path string) (int, error)
}
