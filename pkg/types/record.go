package types

import "fmt"

// Point is one robot position in the plane of the tracking system.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Record is the decoded content of one telemetry line. Stamp is kept as the
// device sent it; it is a wall-clock time of day without a date and is never
// interpreted.
type Record struct {
	Stamp   string `json:"stamp"`
	RobotID int    `json:"robot_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// Point returns the position carried by the record.
func (r Record) Point() Point {
	return Point{X: r.X, Y: r.Y}
}
