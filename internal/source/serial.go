package source

import (
	"fmt"
	"io"

	tarm "github.com/tarm/serial"
	bugst "go.bug.st/serial"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// openSerial opens the port 8N1 through go.bug.st/serial.
func openSerial(cfg types.SourceConfig) (io.ReadCloser, error) {
	mode := &bugst.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}
	return bugst.Open(cfg.Port, mode)
}

// openTarm opens the port through github.com/tarm/serial, which some
// USB adapters handle better.
func openTarm(cfg types.SourceConfig) (io.ReadCloser, error) {
	return tarm.OpenPort(&tarm.Config{
		Name: cfg.Port,
		Baud: cfg.Baud,
	})
}

// Ports lists the serial ports present on this machine.
func Ports() ([]string, error) {
	ports, err := bugst.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("listing serial ports: %w", err)
	}
	return ports, nil
}
