package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/trailplot/internal/render"
	"github.com/mesh-intelligence/trailplot/internal/sqlite"
	"github.com/mesh-intelligence/trailplot/internal/telemetry"
	"github.com/mesh-intelligence/trailplot/internal/trails"
	"github.com/mesh-intelligence/trailplot/internal/window"
	"github.com/mesh-intelligence/trailplot/pkg/types"
)

var replayOut string

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <session-id|file.jsonl|file.log>",
		Short: "Draw the trails of a recorded session or log",
		Long: `Replay draws the final chart of a recorded session, an exported JSONL file
or a raw telemetry log. A session may be named by a unique prefix of its ID.
With --out the chart is written to a file; otherwise it is shown in a window.`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}
	cmd.Flags().StringVar(&replayOut, "out", "", "write the chart to this file (.png, .svg, .pdf, ...)")
	addChartFlags(cmd)
	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if replayOut != "" {
		if _, err := render.FormatOf(replayOut); err != nil {
			return userError(err)
		}
	}

	records, err := loadReplay(args[0], cfg.DataDir)
	if err != nil {
		return err
	}

	store := trails.New()
	store.Load(records)
	slog.Debug("replay loaded", "records", len(records), "robots", store.Len())

	renderer := render.New(cfg.Chart)
	snapshot := store.Snapshot()

	if replayOut != "" {
		if err := renderer.Save(snapshot, replayOut); err != nil {
			return sysError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d robots, %d points)\n", replayOut, store.Len(), store.Points())
		return nil
	}

	img, err := renderer.Image(snapshot)
	if err != nil {
		return sysError(err)
	}
	win := window.New(cfg.Chart.Title, cfg.Chart.Width, cfg.Chart.Height)
	if err := win.Show(img); err != nil {
		return sysError(err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := win.Run(ctx); err != nil {
		return sysError(err)
	}
	return nil
}

// loadReplay returns the records named by arg. An existing file is read as
// JSONL when its extension is .jsonl and as a raw telemetry log otherwise;
// anything else is looked up as a session ID or prefix.
func loadReplay(arg, dataDir string) ([]types.Record, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		if strings.EqualFold(filepath.Ext(arg), ".jsonl") {
			records, err := sqlite.LoadJSONL(arg)
			if err != nil {
				return nil, sysError(err)
			}
			return records, nil
		}
		records, err := readLog(arg)
		if err != nil {
			return nil, sysError(err)
		}
		return records, nil
	}

	backend, err := openStore(dataDir)
	if err != nil {
		return nil, err
	}
	defer backend.Detach()

	sess, err := backend.FindSession(arg)
	if err != nil {
		return nil, userError(err)
	}
	records, err := backend.Records(sess.SessionID)
	if err != nil {
		return nil, sysError(err)
	}
	return records, nil
}

// readLog parses every line of a raw telemetry log, skipping lines that do
// not match.
func readLog(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var records []types.Record
	lr := telemetry.NewLineReader(f)
	for {
		line, err := lr.ReadLine()
		if errors.Is(err, telemetry.ErrLineTooLong) {
			continue
		}
		if rec, ok := telemetry.Parse(line); ok {
			records = append(records, rec)
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
	}
}
