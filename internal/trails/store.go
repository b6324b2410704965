// Package trails accumulates decoded telemetry records into one trail per
// robot. Trails are created on first sighting, kept in first-seen order and
// never evicted: memory grows with the number of accepted lines for as long
// as the store lives.
package trails

import (
	"sync"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// Store holds the trails of every robot seen so far. It is safe for
// concurrent use; the session loop appends while a window may snapshot.
type Store struct {
	mu     sync.RWMutex
	order  []int
	trails map[int][]types.Point
	points int
}

// New returns an empty store.
func New() *Store {
	return &Store{trails: make(map[int][]types.Point)}
}

// Append adds the record's position to the trail of its robot and reports
// whether that trail was created by this call.
func (s *Store) Append(rec types.Record) (created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pts, ok := s.trails[rec.RobotID]
	if !ok {
		s.order = append(s.order, rec.RobotID)
	}
	s.trails[rec.RobotID] = append(pts, rec.Point())
	s.points++
	return !ok
}

// Load appends records in order, as a replay of a recorded session.
func (s *Store) Load(records []types.Record) {
	for _, rec := range records {
		s.Append(rec)
	}
}

// Snapshot returns a copy of all trails in first-seen order. The result
// shares no memory with the store.
func (s *Store) Snapshot() []types.Trail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Trail, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, types.Trail{RobotID: id, Points: clonePoints(s.trails[id])})
	}
	return out
}

// Trail returns a copy of one robot's trail.
func (s *Store) Trail(robotID int) (types.Trail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pts, ok := s.trails[robotID]
	if !ok {
		return types.Trail{}, false
	}
	return types.Trail{RobotID: robotID, Points: clonePoints(pts)}, true
}

// IDs returns robot identifiers in first-seen order.
func (s *Store) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of trails.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Points returns the total number of points across all trails.
func (s *Store) Points() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.points
}

func clonePoints(pts []types.Point) []types.Point {
	out := make([]types.Point, len(pts))
	copy(out, pts)
	return out
}
