// Package render turns trails into a chart: one line with point markers per
// robot, axis labels, a legend and a grid. The chart is built as a plain
// model first so that redraws can be compared, then drawn with gonum/plot.
package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot/plotter"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// Series is the plotted path of one robot.
type Series struct {
	RobotID int
	Label   string
	Color   color.Color
	Points  plotter.XYs
}

// Chart is everything needed to draw one frame.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

// Points returns the total number of points across all series.
func (c Chart) Points() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}

// SeriesLabel is the legend text for a robot.
func SeriesLabel(robotID int) string {
	return fmt.Sprintf("Robot %d", robotID)
}

func toXYs(pts []types.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, p := range pts {
		xys[i].X = float64(p.X)
		xys[i].Y = float64(p.Y)
	}
	return xys
}
