package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a PesaPeak data directory.
const FileName = "pesapeak.yaml"

// DefaultMaxFileSize caps uploaded statements at 10 MiB.
const DefaultMaxFileSize int64 = 10 << 20

// Config represents the top-level pesapeak.yaml configuration.
type Config struct {
	Profile ProfileConfig `yaml:"profile"`
	Import  ImportConfig  `yaml:"import"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Log     LogConfig     `yaml:"log"`
	Git     GitConfig     `yaml:"git"`
}

// ProfileConfig identifies the owner of the data directory.
type ProfileConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"` // ISO 4217, e.g. "KES"
}

// ImportConfig controls statement ingestion.
type ImportConfig struct {
	Dir            string `yaml:"dir"`
	MaxFileSize    int64  `yaml:"max_file_size"`             // bytes
	DefaultAccount int    `yaml:"default_account,omitempty"` // 0 = none
}

// LedgerConfig controls where imported transactions are stored.
type LedgerConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Format string `yaml:"format"` // "console" or "json"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a pesapeak.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new data directory.
func Default(name string) *Config {
	return &Config{
		Profile: ProfileConfig{
			Name:     name,
			Currency: "KES",
		},
		Import: ImportConfig{
			Dir:         "import",
			MaxFileSize: DefaultMaxFileSize,
		},
		Ledger: LedgerConfig{
			Dir: "ledger",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "PesaPeak",
			AuthorEmail: "import@pesapeak.app",
		},
	}
}

// Validate checks values that would otherwise fail deep inside an import.
func (c *Config) Validate() error {
	var errs []error
	if c.Import.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("import.max_file_size must not be negative, got %d", c.Import.MaxFileSize))
	}
	if c.Import.DefaultAccount < 0 {
		errs = append(errs, fmt.Errorf("import.default_account must not be negative, got %d", c.Import.DefaultAccount))
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		errs = append(errs, errors.New("git.auto_commit requires author_name and author_email"))
	}
	return errors.Join(errs...)
}

// MaxFileSize returns the configured limit, falling back to DefaultMaxFileSize.
func (c *Config) MaxFileSize() int64 {
	if c.Import.MaxFileSize == 0 {
		return DefaultMaxFileSize
	}
	return c.Import.MaxFileSize
}

// ImportDir returns the import directory relative to the data directory.
func (c *Config) ImportDir() string {
	if c.Import.Dir == "" {
		return "import"
	}
	return c.Import.Dir
}

// LedgerDir returns the ledger directory relative to the data directory.
func (c *Config) LedgerDir() string {
	if c.Ledger.Dir == "" {
		return "ledger"
	}
	return c.Ledger.Dir
}
