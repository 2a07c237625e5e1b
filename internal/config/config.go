package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/daddylive/m3u8hunt/internal/models"
	"github.com/daddylive/m3u8hunt/internal/utils"
)

// Config is the application configuration.
type Config struct {
	Extract ExtractSettings `mapstructure:"extract"`
	Logging LoggingConfig   `mapstructure:"logging"`
	Output  OutputConfig    `mapstructure:"output"`
}

// ExtractSettings holds the extraction knobs as they appear in the config
// file. Durations are milliseconds.
type ExtractSettings struct {
	TimeoutMs   int      `mapstructure:"timeout_ms"`
	GraceMs     int      `mapstructure:"grace_ms"`
	Concurrency int      `mapstructure:"concurrency"`
	Retries     int      `mapstructure:"retries"`
	Headless    bool     `mapstructure:"headless"`
	Patterns    []string `mapstructure:"patterns"`
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log rotation.
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig configures report output.
type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// LoadConfig reads the config file. An absent file is not an error; the
// defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".m3u8hunt"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("extract.timeout_ms", int(models.DefaultTimeout/time.Millisecond))
	v.SetDefault("extract.grace_ms", int(models.DefaultGrace/time.Millisecond))
	v.SetDefault("extract.concurrency", models.DefaultConcurrency)
	v.SetDefault("extract.retries", models.DefaultRetries)
	v.SetDefault("extract.headless", true)
	v.SetDefault("extract.patterns", models.DefaultPatterns)

	logDefaults := utils.DefaultLogConfig()
	v.SetDefault("logging.level", logDefaults.Level)
	v.SetDefault("logging.log_dir", logDefaults.LogDir)
	v.SetDefault("logging.rotation.max_size", logDefaults.MaxSize)
	v.SetDefault("logging.rotation.max_backups", logDefaults.MaxBackups)
	v.SetDefault("logging.rotation.max_age", logDefaults.MaxAge)
	v.SetDefault("logging.rotation.compress", logDefaults.Compress)

	v.SetDefault("output.base_dir", "output")
}

// ExtractConfig converts the file settings into the runtime extraction
// configuration.
func (c *Config) ExtractConfig() models.ExtractConfig {
	cfg := models.ExtractConfig{
		Timeout:     time.Duration(c.Extract.TimeoutMs) * time.Millisecond,
		Grace:       time.Duration(c.Extract.GraceMs) * time.Millisecond,
		Concurrency: c.Extract.Concurrency,
		Retries:     c.Extract.Retries,
		Headless:    c.Extract.Headless,
		Patterns:    c.Extract.Patterns,
	}
	cfg.Normalize()
	return cfg
}

// LogConfig converts the file settings into the logger configuration.
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}
