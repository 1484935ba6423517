// Package config loads the application configuration from YAML with
// environment overrides.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Workdir string `yaml:"workdir" json:"workdir"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type DBConfig struct {
	Filename string `yaml:"filename" json:"filename"`
}

type ScannerConfig struct {
	// DebounceMs suppresses repeats of the identical barcode after an
	// accepted scan. CooldownMs is the minimum gap between any two scans.
	DebounceMs int `yaml:"debounce_ms" json:"debounce_ms"`
	CooldownMs int `yaml:"cooldown_ms" json:"cooldown_ms"`
}

type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Cron    string `yaml:"cron" json:"cron"`
	Keep    int    `yaml:"keep" json:"keep"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
	Database DBConfig       `yaml:"database" json:"database"`
	Scanner  ScannerConfig  `yaml:"scanner" json:"scanner"`
	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Workdir: "/var/stockpos",
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/stockpos/stockpos.log",
		},
		Database: DBConfig{
			Filename: "stockpos.db",
		},
		Scanner: ScannerConfig{
			DebounceMs: 1500,
			CooldownMs: 500,
		},
		Snapshot: SnapshotConfig{
			Enabled: true,
			Cron:    "0 3 * * *",
			Keep:    7,
		},
	}
}

// LoadConfig reads path over the defaults; a missing file is not an error.
// STOCKPOS_* environment variables win over both.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvString("STOCKPOS_WORKDIR", &cfg.System.Workdir)
	setEnvString("STOCKPOS_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("STOCKPOS_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvString("STOCKPOS_LOGGER_FILENAME", &cfg.Logger.Filename)
	setEnvString("STOCKPOS_DB_FILENAME", &cfg.Database.Filename)
	setEnvInt("STOCKPOS_SCANNER_DEBOUNCE_MS", &cfg.Scanner.DebounceMs)
	setEnvInt("STOCKPOS_SCANNER_COOLDOWN_MS", &cfg.Scanner.CooldownMs)
	setEnvBool("STOCKPOS_SNAPSHOT_ENABLED", &cfg.Snapshot.Enabled)
	setEnvString("STOCKPOS_SNAPSHOT_CRON", &cfg.Snapshot.Cron)
	setEnvInt("STOCKPOS_SNAPSHOT_KEEP", &cfg.Snapshot.Keep)
}

func setEnvString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func setEnvInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		*dst = cast.ToInt(v)
	}
}

func setEnvBool(name string, dst *bool) {
	if v := os.Getenv(name); v != "" {
		*dst = cast.ToBool(v)
	}
}

// DBPath resolves the database file inside the workdir.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.System.Workdir, c.Database.Filename)
}

// BackupDir resolves the snapshot directory inside the workdir.
func (c *AppConfig) BackupDir() string {
	return filepath.Join(c.System.Workdir, "backups")
}

// DebounceWindow returns the scanner debounce as a duration.
func (c *AppConfig) DebounceWindow() time.Duration {
	return time.Duration(c.Scanner.DebounceMs) * time.Millisecond
}

// CooldownWindow returns the scanner cooldown as a duration.
func (c *AppConfig) CooldownWindow() time.Duration {
	return time.Duration(c.Scanner.CooldownMs) * time.Millisecond
}
