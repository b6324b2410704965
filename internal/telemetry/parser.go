// Package telemetry decodes the position lines robots send over the serial
// link. A line looks like
//
//	12:00:01.500 -> 2; -15; 42
//
// that is a time of day, the robot identifier and its x and y coordinates.
// Anything else is noise (boot banners, partial lines after a reset, line
// noise) and is ignored without error.
package telemetry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

var linePattern = regexp.MustCompile(
	`^(\d{2}:\d{2}:\d{2}\.\d+)\s*->\s*(\d+)\s*;\s*([+-]?\d+)\s*;\s*([+-]?\d+)$`,
)

// Parse decodes one telemetry line. ok is false when the line does not have
// the expected shape or a number does not fit in an int.
func Parse(line string) (rec types.Record, ok bool) {
	m := linePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return types.Record{}, false
	}

	id, err := strconv.Atoi(m[2])
	if err != nil {
		return types.Record{}, false
	}
	x, err := strconv.Atoi(m[3])
	if err != nil {
		return types.Record{}, false
	}
	y, err := strconv.Atoi(m[4])
	if err != nil {
		return types.Record{}, false
	}

	return types.Record{Stamp: m[1], RobotID: id, X: x, Y: y}, true
}

// ParseBytes is Parse for raw bytes read from a port.
func ParseBytes(line []byte) (types.Record, bool) {
	return Parse(string(line))
}
