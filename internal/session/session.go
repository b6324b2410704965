// Package session runs the watch loop: on every tick it reads one line from
// the source, folds a matching line into the trails and redraws the chart.
// Reading and drawing share the one timer, so a silent source holds the loop
// on its blocking read and the last frame stays up.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mesh-intelligence/trailplot/internal/display"
	"github.com/mesh-intelligence/trailplot/internal/render"
	"github.com/mesh-intelligence/trailplot/internal/telemetry"
	"github.com/mesh-intelligence/trailplot/internal/trails"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// Recorder persists accepted records.
type Recorder interface {
	Record(rec types.Record) error
}

// Config wires a session. Store, Renderer and Sink are required; Recorder
// is optional.
type Config struct {
	Store    *trails.Store
	Renderer *render.Renderer
	Sink     display.Sink
	Recorder Recorder
	Interval time.Duration
}

// Stats counts what a session has seen.
type Stats struct {
	Lines   int `json:"lines"`
	Matched int `json:"matched"`
	Dropped int `json:"dropped"`
	Frames  int `json:"frames"`
}

// Session is one run of the watch loop against one source.
type Session struct {
	src   io.Closer
	lines *telemetry.LineReader
	cfg   Config

	closeOnce sync.Once
	closeErr  error

	mu    sync.Mutex
	stats Stats
}

// New returns a session reading from src. The session owns src and closes
// it in Close or when Run returns.
func New(src io.ReadCloser, cfg Config) *Session {
	if cfg.Interval <= 0 {
		cfg.Interval = types.DefaultInterval
	}
	return &Session{
		src:   src,
		lines: telemetry.NewLineReader(src),
		cfg:   cfg,
	}
}

// Run draws an initial empty chart and then performs one Step per tick until
// the source ends, a read fails, or ctx is done. The source is closed when
// Run returns. Cancellation closes it early to release a blocked read and is
// not an error. The end of a file
// or websocket source is reported as types.ErrSourceClosed.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	stop := context.AfterFunc(ctx, func() { s.Close() })
	defer stop()

	slog.Info("session started", "interval", s.cfg.Interval)
	defer func() {
		st := s.Stats()
		slog.Info("session ended", "lines", st.Lines, "matched", st.Matched, "dropped", st.Dropped, "frames", st.Frames)
	}()

	if err := s.Redraw(); err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := s.Step(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Step reads one line, accumulates it when it matches, and redraws. It
// blocks for as long as the source has no complete line.
func (s *Session) Step() error {
	line, err := s.lines.ReadLine()
	tooLong := errors.Is(err, telemetry.ErrLineTooLong)
	if err != nil && !tooLong {
		if errors.Is(err, io.EOF) {
			return types.ErrSourceClosed
		}
		return fmt.Errorf("%w: %w", types.ErrSourceRead, err)
	}

	var (
		rec types.Record
		ok  bool
	)
	if !tooLong {
		rec, ok = telemetry.Parse(line)
	}
	s.mu.Lock()
	s.stats.Lines++
	if ok {
		s.stats.Matched++
	} else {
		s.stats.Dropped++
	}
	s.mu.Unlock()

	if ok {
		if s.cfg.Store.Append(rec) {
			slog.Debug("new robot", "robot_id", rec.RobotID)
		}
		if s.cfg.Recorder != nil {
			if err := s.cfg.Recorder.Record(rec); err != nil {
				return fmt.Errorf("recording line: %w", err)
			}
		}
	}

	return s.Redraw()
}

// Redraw renders the current trails and hands the frame to the sink.
func (s *Session) Redraw() error {
	frame, err := s.cfg.Renderer.Image(s.cfg.Store.Snapshot())
	if err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	if err := s.cfg.Sink.Show(frame); err != nil {
		return fmt.Errorf("showing frame: %w", err)
	}
	s.mu.Lock()
	s.stats.Frames++
	s.mu.Unlock()
	return nil
}

// Stats returns the counters so far.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close closes the source. It is safe to call more than once and from
// another goroutine than Run.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.src.Close()
	})
	return s.closeErr
}
