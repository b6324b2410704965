package trails

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/trailplot/internal/telemetry"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

func rec(id, x, y int) types.Record {
	return types.Record{Stamp: "12:00:00.000", RobotID: id, X: x, Y: y}
}

func TestStore_AccumulatesInArrivalOrder(t *testing.T) {
	s := New()

	assert.True(t, s.Append(rec(1, 10, 11)))
	assert.True(t, s.Append(rec(2, 20, 21)))
	assert.False(t, s.Append(rec(1, 30, 31)))

	one, ok := s.Trail(1)
	require.True(t, ok)
	assert.Equal(t, []types.Point{{X: 10, Y: 11}, {X: 30, Y: 31}}, one.Points)

	two, ok := s.Trail(2)
	require.True(t, ok)
	assert.Equal(t, []types.Point{{X: 20, Y: 21}}, two.Points)

	assert.Equal(t, []int{1, 2}, s.IDs())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Points())
}

func TestStore_NewIdentifierCreatesSinglePointTrail(t *testing.T) {
	s := New()
	s.Append(rec(1, 0, 0))

	_, ok := s.Trail(7)
	require.False(t, ok)

	created := s.Append(rec(7, -3, 4))
	assert.True(t, created)

	tr, ok := s.Trail(7)
	require.True(t, ok)
	assert.Equal(t, types.Trail{RobotID: 7, Points: []types.Point{{X: -3, Y: 4}}}, tr)
}

func TestStore_MalformedLinesLeaveStateUnchanged(t *testing.T) {
	s := New()
	s.Append(rec(1, 1, 1))
	before := s.Snapshot()

	for _, line := range []string{"", "\x00\x01\x02", "12:00:01.500 -> 2; -15"} {
		if r, ok := telemetry.Parse(line); ok {
			s.Append(r)
		}
	}

	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, s.Points())
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	s := New()
	s.Append(rec(5, 1, 2))

	snap := s.Snapshot()
	snap[0].Points[0] = types.Point{X: 99, Y: 99}
	s.Append(rec(5, 3, 4))

	tr, _ := s.Trail(5)
	assert.Equal(t, []types.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, tr.Points)
	assert.Len(t, snap[0].Points, 1)
}

func TestStore_SnapshotKeepsFirstSeenOrder(t *testing.T) {
	s := New()
	s.Load([]types.Record{rec(9, 0, 0), rec(3, 0, 0), rec(9, 1, 1), rec(5, 0, 0)})

	var ids []int
	for _, tr := range s.Snapshot() {
		ids = append(ids, tr.RobotID)
	}
	assert.Equal(t, []int{9, 3, 5}, ids)
}

func TestStore_ConcurrentAppendAndSnapshot(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Append(rec(id, i, -i))
				_ = s.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 400, s.Points())
	for _, tr := range s.Snapshot() {
		assert.Len(t, tr.Points, 100)
	}
}
