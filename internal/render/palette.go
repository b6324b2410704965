package render

import (
	"image/color"
	"sync"

	"gonum.org/v1/plot/plotutil"
)

// Palette hands out one color per robot. The first robot asked for gets the
// first color, the second the next one and so on, cycling when the palette
// runs out. A robot keeps its color for the life of the palette.
type Palette struct {
	mu       sync.Mutex
	colors   []color.Color
	assigned map[int]color.Color
	next     int
}

// NewPalette returns a palette cycling through colors, or through
// plotutil.SoftColors when none are given.
func NewPalette(colors ...color.Color) *Palette {
	if len(colors) == 0 {
		colors = plotutil.SoftColors
	}
	return &Palette{
		colors:   colors,
		assigned: make(map[int]color.Color),
	}
}

// Color returns the color of robotID, assigning the next free one on first use.
func (p *Palette) Color(robotID int) color.Color {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.assigned[robotID]; ok {
		return c
	}
	c := p.colors[p.next%len(p.colors)]
	p.next++
	p.assigned[robotID] = c
	return c
}

// Len returns how many robots have been assigned a color.
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.assigned)
}
