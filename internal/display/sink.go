// Package display delivers rendered chart frames: to a PNG file rewritten on
// every frame, to an animated GIF written on close, or to several sinks at
// once. The desktop window lives in package window so that this package
// builds without a graphics stack.
package display

import (
	"errors"
	"image"
	"io"
	"sync"
)

// Sink receives every rendered frame.
type Sink interface {
	Show(frame image.Image) error
}

// Tee fans a frame out to several sinks.
type Tee []Sink

// Show passes the frame to every sink, even when an earlier one fails.
func (t Tee) Show(frame image.Image) error {
	var errs []error
	for _, s := range t {
		if err := s.Show(frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that implements io.Closer.
func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Latest keeps the most recent frame for a consumer that draws at its own
// pace. Gen increases with every Show, so a consumer can skip frames it has
// already uploaded.
type Latest struct {
	mu    sync.Mutex
	frame image.Image
	gen   uint64
}

// Show stores frame as the current one.
func (l *Latest) Show(frame image.Image) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frame = frame
	l.gen++
	return nil
}

// Frame returns the current frame and its generation. The frame is nil
// before the first Show.
func (l *Latest) Frame() (image.Image, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame, l.gen
}
