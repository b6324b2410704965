// Package source opens the byte stream telemetry lines are read from: a
// serial port (through one of two drivers), a recorded log file, or a
// websocket bridge.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// Open opens the source described by cfg. Serial sources wait cfg.Settle
// after opening, giving the board time to come out of the reset the port
// open triggers. A failed open is reported as types.ErrSourceOpen.
func Open(ctx context.Context, cfg types.SourceConfig) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch cfg.Driver {
	case types.DriverSerial:
		rc, err = openSerial(cfg)
	case types.DriverTarm:
		rc, err = openTarm(cfg)
	case types.DriverFile:
		rc, err = os.Open(cfg.Port)
	case types.DriverWebsocket:
		rc, err = openWebsocket(ctx, cfg.Port)
	default:
		return nil, fmt.Errorf("%w: %w %q", types.ErrSourceOpen, types.ErrDriverUnknown, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s (%s): %w", types.ErrSourceOpen, cfg.Port, cfg.Driver, err)
	}

	slog.Info("source opened", "driver", cfg.Driver, "port", cfg.Port, "baud", cfg.Baud)

	if isSerial(cfg.Driver) && cfg.Settle > 0 {
		if err := settle(ctx, cfg.Settle); err != nil {
			rc.Close()
			return nil, err
		}
	}
	return rc, nil
}

func isSerial(driver string) bool {
	return driver == types.DriverSerial || driver == types.DriverTarm
}

func settle(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
