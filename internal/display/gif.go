package display

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"sync"
	"time"
)

// GIFRecorder collects frames and writes them as an animated GIF on Close.
// Frames beyond maxFrames are counted and dropped.
type GIFRecorder struct {
	mu      sync.Mutex
	path    string
	max     int
	delay   int
	frames  []*image.Paletted
	dropped int
	closed  bool
}

// NewGIFRecorder returns a recorder writing to path on Close. interval is the
// time between frames and becomes the GIF frame delay.
func NewGIFRecorder(path string, maxFrames int, interval time.Duration) *GIFRecorder {
	delay := int(interval / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}
	return &GIFRecorder{path: path, max: maxFrames, delay: delay}
}

// Show quantizes frame to the Plan9 palette and keeps it.
func (g *GIFRecorder) Show(frame image.Image) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.max > 0 && len(g.frames) >= g.max {
		g.dropped++
		return nil
	}
	p := image.NewPaletted(frame.Bounds(), palette.Plan9)
	draw.Draw(p, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	g.frames = append(g.frames, p)
	return nil
}

// Frames returns the number of frames kept and dropped so far.
func (g *GIFRecorder) Frames() (kept, dropped int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.frames), g.dropped
}

// Close writes the animation. Nothing is written when no frame was shown.
// Close is idempotent.
func (g *GIFRecorder) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || len(g.frames) == 0 {
		g.closed = true
		return nil
	}
	g.closed = true

	delays := make([]int, len(g.frames))
	for i := range delays {
		delays[i] = g.delay
	}

	f, err := os.Create(g.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", g.path, err)
	}
	if err := gif.EncodeAll(f, &gif.GIF{Image: g.frames, Delay: delays}); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", g.path, err)
	}
	return f.Close()
}
