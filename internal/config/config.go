package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/boxoffice-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`

	// Analysis tuning
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	TopN             int     `mapstructure:"top_n" yaml:"top_n"`
	TopStudios       int     `mapstructure:"top_studios" yaml:"top_studios"`
	HistogramBins    int     `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	PageSize         int     `mapstructure:"page_size" yaml:"page_size"`

	// HTTP server
	ServerAddr  string `mapstructure:"server_addr" yaml:"server_addr"`
	WatchSource bool   `mapstructure:"watch_source" yaml:"watch_source"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_path", "sheet_name", "log_level",
	"outlier_threshold", "top_n", "top_studios", "histogram_bins", "page_size",
	"server_addr", "watch_source",
}

// Dir returns ~/.boxoffice.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".boxoffice"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.boxoffice/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BOXOFFICE")
	v.AutomaticEnv()

	v.SetDefault("data_path", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("outlier_threshold", 3.0)
	v.SetDefault("top_n", 10)
	v.SetDefault("top_studios", 40)
	v.SetDefault("histogram_bins", 50)
	v.SetDefault("page_size", 10)
	v.SetDefault("server_addr", ":8050")
	v.SetDefault("watch_source", false)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns key from its string form.
func (c *Global) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case "data_path":
		c.DataPath = value
	case "sheet_name":
		c.SheetName = value
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", value)
		}
	case "server_addr":
		c.ServerAddr = value
	case "outlier_threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("outlier_threshold must be a positive number, got %q", value)
		}
		c.OutlierThreshold = f
	case "top_n", "top_studios", "histogram_bins", "page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		switch key {
		case "top_n":
			c.TopN = n
		case "top_studios":
			c.TopStudios = n
		case "histogram_bins":
			c.HistogramBins = n
		default:
			c.PageSize = n
		}
	case "watch_source":
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			c.WatchSource = true
		case "false", "0", "no", "off":
			c.WatchSource = false
		default:
			return fmt.Errorf("watch_source must be true or false, got %q", value)
		}
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns key as a display string.
func (c *Global) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "data_path":
		return c.DataPath, nil
	case "sheet_name":
		return c.SheetName, nil
	case "log_level":
		return c.LogLevel, nil
	case "outlier_threshold":
		return fmt.Sprintf("%g", c.OutlierThreshold), nil
	case "top_n":
		return fmt.Sprint(c.TopN), nil
	case "top_studios":
		return fmt.Sprint(c.TopStudios), nil
	case "histogram_bins":
		return fmt.Sprint(c.HistogramBins), nil
	case "page_size":
		return fmt.Sprint(c.PageSize), nil
	case "server_addr":
		return c.ServerAddr, nil
	case "watch_source":
		return fmt.Sprint(c.WatchSource), nil
	}
	return "", fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
}
