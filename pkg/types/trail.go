package types

// Trail is the ordered sequence of positions reported for one robot, oldest
// first. A trail is created on the first record for its robot and only ever
// grows.
type Trail struct {
	RobotID int     `json:"robot_id"`
	Points  []Point `json:"points"`
}

// Last returns the newest point of the trail. ok is false for an empty trail.
func (t Trail) Last() (p Point, ok bool) {
	if len(t.Points) == 0 {
		return Point{}, false
	}
	return t.Points[len(t.Points)-1], true
}

// Len returns the number of points in the trail.
func (t Trail) Len() int {
	return len(t.Points)
}
