// Package config provides unified configuration loading from stepsql.ini,
// with STEPSQL_* environment overrides and a DATABASE_URL fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/stepsql/stepsql/inifile"
)

// ConfigFilename is the name of the unified config file.
const ConfigFilename = "stepsql.ini"

// Config holds the complete configuration from stepsql.ini.
type Config struct {
	// ConfigDir is the directory containing stepsql.ini (the project root).
	ConfigDir string

	Project    ProjectConfig
	Migrations MigrationsConfig
	DB         DBConfig
	Snapshot   SnapshotConfig
}

// ProjectConfig holds project-level settings from the [project] section.
type ProjectConfig struct {
	Name string
}

// MigrationsConfig holds settings from the [migrations] section.
type MigrationsConfig struct {
	Dir string
}

// DBConfig holds database settings from the [db] section.
type DBConfig struct {
	URL string
}

// SnapshotConfig holds settings from the [snapshot] section.
type SnapshotConfig struct {
	Path   string // where schema.json is written
	Bucket string // S3 bucket for publish, empty disables publishing
	Prefix string // S3 key prefix
	Region string // S3 region
}

// envOverrides are the settings the environment may supply. Environment
// values beat stepsql.ini; flags beat both and are applied by the CLI.
type envOverrides struct {
	DBURL          string `env:"STEPSQL_DB_URL"`
	MigrationsDir  string `env:"STEPSQL_MIGRATIONS_DIR"`
	SnapshotPath   string `env:"STEPSQL_SNAPSHOT_PATH"`
	SnapshotBucket string `env:"STEPSQL_SNAPSHOT_BUCKET"`
	SnapshotPrefix string `env:"STEPSQL_SNAPSHOT_PREFIX"`
	SnapshotRegion string `env:"STEPSQL_SNAPSHOT_REGION"`
	DatabaseURL    string `env:"DATABASE_URL"`
}

// Load reads stepsql.ini from the given directory (or CWD if empty).
// Returns an error if stepsql.ini is not found.
func Load(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	iniPath := filepath.Join(dir, ConfigFilename)
	if _, err := os.Stat(iniPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found in %s\n"+
			"  Hint: Run 'stepsql init' to create a new project, or ensure you're in the project root directory",
			ConfigFilename, dir)
	}

	f, err := inifile.ParseFile(iniPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFilename, err)
	}

	cfg := defaultConfig(dir)

	if v := f.Get("project", "name"); v != "" {
		cfg.Project.Name = v
	}
	if v := f.Get("migrations", "dir"); v != "" {
		cfg.Migrations.Dir = v
	}
	if v := f.Get("db", "url"); v != "" {
		cfg.DB.URL = v
	}
	if v := f.Get("snapshot", "path"); v != "" {
		cfg.Snapshot.Path = v
	}
	cfg.Snapshot.Bucket = f.Get("snapshot", "bucket")
	cfg.Snapshot.Prefix = f.Get("snapshot", "prefix")
	cfg.Snapshot.Region = f.Get("snapshot", "region")

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load, except a missing stepsql.ini yields defaults plus
// environment overrides instead of an error. Commands that can run without
// a project file use this.
func LoadOrDefault(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, ConfigFilename)); os.IsNotExist(err) {
		cfg := defaultConfig(dir)
		if err := applyEnv(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(dir)
}

func defaultConfig(dir string) *Config {
	return &Config{
		ConfigDir:  dir,
		Project:    ProjectConfig{Name: filepath.Base(dir)},
		Migrations: MigrationsConfig{Dir: "migrations"},
		Snapshot:   SnapshotConfig{Path: "schema.json"},
	}
}

func applyEnv(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if ov.DBURL != "" {
		cfg.DB.URL = ov.DBURL
	}
	if ov.MigrationsDir != "" {
		cfg.Migrations.Dir = ov.MigrationsDir
	}
	if ov.SnapshotPath != "" {
		cfg.Snapshot.Path = ov.SnapshotPath
	}
	if ov.SnapshotBucket != "" {
		cfg.Snapshot.Bucket = ov.SnapshotBucket
	}
	if ov.SnapshotPrefix != "" {
		cfg.Snapshot.Prefix = ov.SnapshotPrefix
	}
	if ov.SnapshotRegion != "" {
		cfg.Snapshot.Region = ov.SnapshotRegion
	}

	// DATABASE_URL is the conventional fallback, beaten by everything else.
	if cfg.DB.URL == "" {
		cfg.DB.URL = ov.DatabaseURL
	}

	return nil
}

// MigrationsPath resolves the migrations directory relative to the project
// root.
func (c *Config) MigrationsPath() string {
	if filepath.IsAbs(c.Migrations.Dir) {
		return c.Migrations.Dir
	}
	return filepath.Join(c.ConfigDir, c.Migrations.Dir)
}

// SnapshotPath resolves the snapshot file path relative to the project root.
func (c *Config) SnapshotPath() string {
	if filepath.IsAbs(c.Snapshot.Path) {
		return c.Snapshot.Path
	}
	return filepath.Join(c.ConfigDir, c.Snapshot.Path)
}

// RequireDBURL returns the database URL or a hint-carrying error when no
// source provided one.
func (c *Config) RequireDBURL() (string, error) {
	if c.DB.URL == "" {
		return "", fmt.Errorf("no database URL configured\n" +
			"  Hint: Set url under [db] in stepsql.ini, pass --db-url, or export DATABASE_URL")
	}
	return c.DB.URL, nil
}
