package types

import (
	"errors"
	"runtime"
	"time"
)

// Source drivers accepted by SourceConfig.Driver.
const (
	DriverSerial    = "serial"
	DriverTarm      = "tarm"
	DriverFile      = "file"
	DriverWebsocket = "websocket"
)

// Defaults for a freshly written config.yaml. The baud rate, interval and
// settle delay match the Arduino sketches that emit the telemetry.
const (
	DefaultBaud      = 9600
	DefaultInterval  = time.Second
	DefaultSettle    = 2 * time.Second
	DefaultTitle     = "Robot positions"
	DefaultWidth     = 960
	DefaultHeight    = 720
	DefaultGIFFrames = 600
)

// Config validation errors.
var (
	ErrDriverUnknown   = errors.New("unknown source driver")
	ErrPortEmpty       = errors.New("port must not be empty")
	ErrBaudInvalid     = errors.New("baud rate must be positive")
	ErrIntervalInvalid = errors.New("interval must be positive")
	ErrSettleInvalid   = errors.New("settle delay must not be negative")
	ErrSizeInvalid     = errors.New("chart size must be positive")
	ErrOutputMissing   = errors.New("headless mode needs an output or gif path")
)

// SourceConfig selects where telemetry lines come from.
type SourceConfig struct {
	Driver string        `json:"driver" yaml:"driver"`
	Port   string        `json:"port" yaml:"port"`
	Baud   int           `json:"baud" yaml:"baud"`
	Settle time.Duration `json:"settle" yaml:"settle"`
}

// ChartConfig describes the rendered figure.
type ChartConfig struct {
	Title  string `json:"title" yaml:"title"`
	XLabel string `json:"x_label" yaml:"x_label"`
	YLabel string `json:"y_label" yaml:"y_label"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// OutputConfig selects where frames go. Without Headless the chart is shown
// in a window; Output and GIF are written in addition when set.
type OutputConfig struct {
	Headless  bool   `json:"headless" yaml:"headless"`
	Output    string `json:"output" yaml:"output"`
	GIF       string `json:"gif" yaml:"gif"`
	GIFFrames int    `json:"gif_frames" yaml:"gif_frames"`
}

// Config holds everything a watch session needs.
type Config struct {
	Source   SourceConfig  `json:"source" yaml:"source"`
	Chart    ChartConfig   `json:"chart" yaml:"chart"`
	Output   OutputConfig  `json:"output" yaml:"output"`
	Interval time.Duration `json:"interval" yaml:"interval"`
	Record   bool          `json:"record" yaml:"record"`
	DataDir  string        `json:"data_dir" yaml:"data_dir"`
}

var knownDrivers = map[string]bool{
	DriverSerial:    true,
	DriverTarm:      true,
	DriverFile:      true,
	DriverWebsocket: true,
}

// DefaultPort returns the serial device used when none is configured.
func DefaultPort() string {
	if runtime.GOOS == "windows" {
		return "COM1"
	}
	return "/dev/ttyUSB0"
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		Source: SourceConfig{
			Driver: DriverSerial,
			Port:   DefaultPort(),
			Baud:   DefaultBaud,
			Settle: DefaultSettle,
		},
		Chart: ChartConfig{
			Title:  DefaultTitle,
			XLabel: "X",
			YLabel: "Y",
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Output: OutputConfig{
			GIFFrames: DefaultGIFFrames,
		},
		Interval: DefaultInterval,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if !knownDrivers[c.Source.Driver] {
		return ErrDriverUnknown
	}
	if c.Source.Port == "" {
		return ErrPortEmpty
	}
	isSerial := c.Source.Driver == DriverSerial || c.Source.Driver == DriverTarm
	if isSerial && c.Source.Baud <= 0 {
		return ErrBaudInvalid
	}
	if c.Source.Settle < 0 {
		return ErrSettleInvalid
	}
	if c.Interval <= 0 {
		return ErrIntervalInvalid
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return ErrSizeInvalid
	}
	if c.Output.Headless && c.Output.Output == "" && c.Output.GIF == "" {
		return ErrOutputMissing
	}
	return nil
}
