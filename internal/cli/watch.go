package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/trailplot/internal/display"
	"github.com/mesh-intelligence/trailplot/internal/render"
	"github.com/mesh-intelligence/trailplot/internal/session"
	"github.com/mesh-intelligence/trailplot/internal/source"
	"github.com/mesh-intelligence/trailplot/internal/trails"
	"github.com/mesh-intelligence/trailplot/internal/window"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Read telemetry and plot robot trails live",
		Long: `Watch opens the telemetry source, reads one line per interval and redraws
the chart of every robot's trail. The chart is shown in a window unless
--headless is given; --output and --gif also write it to files.`,
		Example: `  trailplot watch --port /dev/ttyUSB0 --baud 9600
  trailplot watch --driver file --port run.log --headless --output trails.png
  trailplot watch --record --gif run.gif`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	fs := cmd.Flags()
	fs.String("driver", "", "source driver: serial, tarm, file, websocket")
	fs.String("port", "", "serial port, log file path or websocket URL")
	fs.Int("baud", 0, "serial baud rate")
	fs.Duration("settle", 0, "wait after opening a serial port")
	fs.Duration("interval", 0, "time between reads and redraws")
	fs.Bool("headless", false, "do not open a window")
	fs.String("output", "", "write every frame to this image file")
	fs.String("gif", "", "record frames into an animated GIF")
	fs.Bool("record", false, "record accepted lines into the session database")
	addChartFlags(cmd)
	return cmd
}

// addChartFlags registers the flags that shape the rendered chart.
func addChartFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.String("title", "", "chart title")
	fs.Int("width", 0, "chart width in pixels")
	fs.Int("height", 0, "chart height in pixels")
}

// watchResult is printed when a watch ends.
type watchResult struct {
	SessionID string        `json:"session_id,omitempty"`
	Robots    int           `json:"robots"`
	Points    int           `json:"points"`
	Stats     session.Stats `json:"stats"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("invalid configuration: %w", err))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return sysError(err)
	}

	sinks, win, closeSinks := buildSinks(cfg)

	var (
		recorder session.Recorder
		result   watchResult
	)
	if cfg.Record {
		backend, err := openStore(cfg.DataDir)
		if err != nil {
			src.Close()
			return err
		}
		defer backend.Detach()

		rec, err := backend.BeginSession(cfg.Source.Driver, cfg.Source.Port)
		if err != nil {
			src.Close()
			return sysError(fmt.Errorf("begin session: %w", err))
		}
		slog.Info("recording session", "session", rec.SessionID, "data_dir", cfg.DataDir)
		recorder = backend
		result.SessionID = rec.SessionID
	}

	store := trails.New()
	sess := session.New(src, session.Config{
		Store:    store,
		Renderer: render.New(cfg.Chart),
		Sink:     sinks,
		Recorder: recorder,
		Interval: cfg.Interval,
	})
	defer sess.Close()

	runErr := runSession(ctx, stop, sess, win)
	closeErr := closeSinks()

	result.Robots = store.Len()
	result.Points = store.Points()
	result.Stats = sess.Stats()
	if err := printWatchResult(cmd.OutOrStdout(), result); err != nil {
		return sysError(err)
	}

	if runErr != nil {
		return sysError(runErr)
	}
	if closeErr != nil {
		return sysError(fmt.Errorf("close outputs: %w", closeErr))
	}
	return nil
}

// buildSinks assembles the frame sinks for cfg. The returned window is nil
// in headless mode.
func buildSinks(cfg types.Config) (display.Tee, *window.Window, func() error) {
	var (
		sinks display.Tee
		win   *window.Window
	)
	if !cfg.Output.Headless {
		win = window.New(cfg.Chart.Title, cfg.Chart.Width, cfg.Chart.Height)
		sinks = append(sinks, win)
	}
	if cfg.Output.Output != "" {
		sinks = append(sinks, display.NewFileSink(cfg.Output.Output))
	}
	var gif *display.GIFRecorder
	if cfg.Output.GIF != "" {
		gif = display.NewGIFRecorder(cfg.Output.GIF, cfg.Output.GIFFrames, cfg.Interval)
		sinks = append(sinks, gif)
	}
	return sinks, win, func() error {
		err := sinks.Close()
		if gif != nil {
			kept, dropped := gif.Frames()
			slog.Info("gif written", "path", cfg.Output.GIF, "frames", kept, "dropped", dropped)
		}
		return err
	}
}

// runSession runs the session loop alongside the window, if any. The window
// runs on the calling goroutine; closing it stops the session. A source that
// ends leaves the window up with the final chart.
func runSession(ctx context.Context, stop context.CancelFunc, sess *session.Session, win *window.Window) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sess.Run(gctx)
		if errors.Is(err, types.ErrSourceClosed) {
			slog.Info("source closed")
			return nil
		}
		return err
	})

	var winErr error
	if win != nil {
		winErr = win.Run(gctx)
		stop()
	}
	return errors.Join(g.Wait(), winErr)
}

func printWatchResult(w io.Writer, r watchResult) error {
	if flags.jsonMode {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	if r.SessionID != "" {
		fmt.Fprintf(w, "Session %s\n", r.SessionID)
	}
	fmt.Fprintf(w, "%d robots, %d points (%d lines, %d dropped, %d frames)\n",
		r.Robots, r.Points, r.Stats.Lines, r.Stats.Dropped, r.Stats.Frames)
	return nil
}
