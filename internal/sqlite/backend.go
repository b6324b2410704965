package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Backend stores sessions and their records. It implements the session
// recorder: after BeginSession every Record call appends to that session.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	dataDir  string
	db       *sql.DB

	current string // session receiving Record calls
	seq     int    // last sequence number written for current
}

var _ types.SessionStore = (*Backend)(nil)

// NewBackend creates a detached backend. Call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (creating if needed) the database in dataDir.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(dataDir string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	b.db = db
	b.dataDir = dataDir
	b.attached = true
	b.current = ""
	b.seq = 0
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	b.current = ""
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// DataDir returns the directory the backend is attached to.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dataDir
}

// BeginSession creates a new session with a UUID v7 id and makes it the
// target of subsequent Record calls.
func (b *Backend) BeginSession(driver, source string) (types.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Session{}, types.ErrRecorderDetached
	}

	id, err := uuid.NewV7()
	if err != nil {
		return types.Session{}, fmt.Errorf("generating UUID v7: %w", err)
	}
	s := types.Session{
		SessionID: id.String(),
		Driver:    driver,
		Source:    source,
		StartedAt: time.Now().UTC(),
	}

	_, err = b.db.Exec(
		"INSERT INTO sessions (session_id, driver, source, started_at) VALUES (?, ?, ?, ?)",
		s.SessionID, s.Driver, s.Source, s.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return types.Session{}, fmt.Errorf("inserting session: %w", err)
	}

	b.current = s.SessionID
	b.seq = 0
	return s, nil
}

// Record appends rec to the current session.
func (b *Backend) Record(rec types.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrRecorderDetached
	}
	if b.current == "" {
		return types.ErrNoSession
	}

	next := b.seq + 1
	_, err := b.db.Exec(
		"INSERT INTO records (session_id, seq, stamp, robot_id, x, y, received_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.current, next, rec.Stamp, rec.RobotID, rec.X, rec.Y, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	b.seq = next
	return nil
}

// Sessions lists all sessions, newest first, with their record counts.
func (b *Backend) Sessions() ([]types.Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRecorderDetached
	}

	rows, err := b.db.Query(`SELECT s.session_id, s.driver, s.source, s.started_at, COUNT(r.seq)
FROM sessions s LEFT JOIN records r ON r.session_id = s.session_id
GROUP BY s.session_id
ORDER BY s.started_at DESC, s.session_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []types.Session{}
	for rows.Next() {
		var s types.Session
		var startedAt string
		if err := rows.Scan(&s.SessionID, &s.Driver, &s.Source, &startedAt, &s.Records); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		s.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}

// FindSession resolves a full session id or a unique prefix of one.
func (b *Backend) FindSession(idOrPrefix string) (types.Session, error) {
	if idOrPrefix == "" {
		return types.Session{}, types.ErrSessionNotFound
	}
	sessions, err := b.Sessions()
	if err != nil {
		return types.Session{}, err
	}

	var found []types.Session
	for _, s := range sessions {
		if s.SessionID == idOrPrefix {
			return s, nil
		}
		if strings.HasPrefix(s.SessionID, idOrPrefix) {
			found = append(found, s)
		}
	}
	switch len(found) {
	case 0:
		return types.Session{}, fmt.Errorf("%w: %s", types.ErrSessionNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return types.Session{}, fmt.Errorf("%w: %s", types.ErrSessionAmbiguous, idOrPrefix)
	}
}

// Records returns the records of a session in arrival order.
func (b *Backend) Records(sessionID string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrRecorderDetached
	}

	var exists int
	err := b.db.QueryRow("SELECT 1 FROM sessions WHERE session_id = ?", sessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", types.ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}

	rows, err := b.db.Query(
		"SELECT stamp, robot_id, x, y FROM records WHERE session_id = ? ORDER BY seq",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		var r types.Record
		if err := rows.Scan(&r.Stamp, &r.RobotID, &r.X, &r.Y); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
