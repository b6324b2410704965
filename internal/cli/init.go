package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Source   sourceSection `yaml:"source"`
	Chart    chartSection  `yaml:"chart"`
	Output   outputSection `yaml:"output"`
	Interval string        `yaml:"interval"`
	Record   bool          `yaml:"record"`
	DataDir  string        `yaml:"data_dir,omitempty"`
}

type sourceSection struct {
	Driver string `yaml:"driver"`
	Port   string `yaml:"port"`
	Baud   int    `yaml:"baud"`
	Settle string `yaml:"settle"`
}

type chartSection struct {
	Title  string `yaml:"title"`
	XLabel string `yaml:"x_label,omitempty"`
	YLabel string `yaml:"y_label,omitempty"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type outputSection struct {
	Headless  bool   `yaml:"headless"`
	Output    string `yaml:"output,omitempty"`
	GIF       string `yaml:"gif,omitempty"`
	GIFFrames int    `yaml:"gif_frames"`
}

func newConfigFile(cfg types.Config) configFile {
	return configFile{
		Source: sourceSection{
			Driver: cfg.Source.Driver,
			Port:   cfg.Source.Port,
			Baud:   cfg.Source.Baud,
			Settle: cfg.Source.Settle.String(),
		},
		Chart: chartSection{
			Title:  cfg.Chart.Title,
			XLabel: cfg.Chart.XLabel,
			YLabel: cfg.Chart.YLabel,
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
		},
		Output: outputSection{
			Headless:  cfg.Output.Headless,
			Output:    cfg.Output.Output,
			GIF:       cfg.Output.GIF,
			GIFFrames: cfg.Output.GIFFrames,
		},
		Interval: cfg.Interval.String(),
		Record:   cfg.Record,
		DataDir:  cfg.DataDir,
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize trailplot configuration and storage",
		Long:  "Create the configuration and data directories, write a default config.yaml and initialize the session database.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadCommandConfig(nil)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(configPath, types.DefaultConfig())
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	backend, err := openStore(cfg.DataDir)
	if err != nil {
		return err
	}
	if err := backend.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "Data directory: %s\n", cfg.DataDir)
	fmt.Fprintln(out, "trailplot initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether a file was written.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(newConfigFile(cfg))
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
