package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
	QueuePrefill    int           `mapstructure:"queue_prefill"`
	ExportEnabled   bool          `mapstructure:"export_enabled"`
	ExportFile      string        `mapstructure:"export_file"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// New returns a viper instance with defaults and env binding set up. Callers may
// bind flags onto it before passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("allowed_origin", "*")
	v.SetDefault("ping_interval", 25*time.Second)
	v.SetDefault("ping_timeout", 60*time.Second)
	v.SetDefault("queue_prefill", 10)
	v.SetDefault("export_enabled", false)
	v.SetDefault("export_file", "./red-tetris-results.txt")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), then the optional config file, then the
// environment. Later sources win.
func Load(v *viper.Viper, path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.QueuePrefill < 2 {
		return fmt.Errorf("queue_prefill must be at least 2, got %d", c.QueuePrefill)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}
	if c.ExportEnabled && c.ExportFile == "" {
		return errors.New("export_file is required when export is enabled")
	}
	return nil
}
