package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/trailplot/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "TRAILPLOT"
)

// Config keys. Nested keys map to nested YAML sections and to
// TRAILPLOT_SECTION_KEY environment variables.
const (
	cfgKeyDriver    = "source.driver"
	cfgKeyPort      = "source.port"
	cfgKeyBaud      = "source.baud"
	cfgKeySettle    = "source.settle"
	cfgKeyTitle     = "chart.title"
	cfgKeyXLabel    = "chart.x_label"
	cfgKeyYLabel    = "chart.y_label"
	cfgKeyWidth     = "chart.width"
	cfgKeyHeight    = "chart.height"
	cfgKeyHeadless  = "output.headless"
	cfgKeyOutput    = "output.output"
	cfgKeyGIF       = "output.gif"
	cfgKeyGIFFrames = "output.gif_frames"
	cfgKeyInterval  = "interval"
	cfgKeyRecord    = "record"
	cfgKeyDataDir   = "data_dir"
)

// flagKeys maps command flags to the config keys they override.
var flagKeys = map[string]string{
	"driver":   cfgKeyDriver,
	"port":     cfgKeyPort,
	"baud":     cfgKeyBaud,
	"settle":   cfgKeySettle,
	"title":    cfgKeyTitle,
	"width":    cfgKeyWidth,
	"height":   cfgKeyHeight,
	"headless": cfgKeyHeadless,
	"output":   cfgKeyOutput,
	"gif":      cfgKeyGIF,
	"interval": cfgKeyInterval,
	"record":   cfgKeyRecord,
}

// loadConfig reads config.yaml from configDir using Viper, layering
// environment variables and the command's flags on top. A missing
// config.yaml is not an error.
func loadConfig(configDir string, fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", filepath.Join(configDir, configFileExt), err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault(cfgKeyDriver, d.Source.Driver)
	v.SetDefault(cfgKeyPort, d.Source.Port)
	v.SetDefault(cfgKeyBaud, d.Source.Baud)
	v.SetDefault(cfgKeySettle, d.Source.Settle)
	v.SetDefault(cfgKeyTitle, d.Chart.Title)
	v.SetDefault(cfgKeyXLabel, d.Chart.XLabel)
	v.SetDefault(cfgKeyYLabel, d.Chart.YLabel)
	v.SetDefault(cfgKeyWidth, d.Chart.Width)
	v.SetDefault(cfgKeyHeight, d.Chart.Height)
	v.SetDefault(cfgKeyHeadless, d.Output.Headless)
	v.SetDefault(cfgKeyOutput, d.Output.Output)
	v.SetDefault(cfgKeyGIF, d.Output.GIF)
	v.SetDefault(cfgKeyGIFFrames, d.Output.GIFFrames)
	v.SetDefault(cfgKeyInterval, d.Interval)
	v.SetDefault(cfgKeyRecord, d.Record)
	v.SetDefault(cfgKeyDataDir, "")
}

// configFromViper builds a types.Config from the layered settings.
func configFromViper(v *viper.Viper) types.Config {
	return types.Config{
		Source: types.SourceConfig{
			Driver: v.GetString(cfgKeyDriver),
			Port:   v.GetString(cfgKeyPort),
			Baud:   v.GetInt(cfgKeyBaud),
			Settle: v.GetDuration(cfgKeySettle),
		},
		Chart: types.ChartConfig{
			Title:  v.GetString(cfgKeyTitle),
			XLabel: v.GetString(cfgKeyXLabel),
			YLabel: v.GetString(cfgKeyYLabel),
			Width:  v.GetInt(cfgKeyWidth),
			Height: v.GetInt(cfgKeyHeight),
		},
		Output: types.OutputConfig{
			Headless:  v.GetBool(cfgKeyHeadless),
			Output:    v.GetString(cfgKeyOutput),
			GIF:       v.GetString(cfgKeyGIF),
			GIFFrames: v.GetInt(cfgKeyGIFFrames),
		},
		Interval: v.GetDuration(cfgKeyInterval),
		Record:   v.GetBool(cfgKeyRecord),
		DataDir:  v.GetString(cfgKeyDataDir),
	}
}

// loadCommandConfig resolves the config directory, loads the layered
// settings for cmd and returns the resulting Config with DataDir resolved.
func loadCommandConfig(fs *pflag.FlagSet) (types.Config, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir, fs)
	if err != nil {
		return types.Config{}, userError(fmt.Errorf("load config: %w", err))
	}
	cfg := configFromViper(v)
	cfg.DataDir, err = resolveDataDir(cfg.DataDir)
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	return cfg, nil
}
