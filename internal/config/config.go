package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/language"
)

// DefaultSessionTTL is how long an admin stays signed in.
const DefaultSessionTTL = "12h"

// Config represents the main configuration for journal.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Locale     string           `toml:"locale"`
	Goals      []string         `toml:"goals"`
	Server     ServerConfig     `toml:"server"`
	Auth       AuthConfig       `toml:"auth"`
	Database   DatabaseConfig   `toml:"database"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// ServerConfig holds settings for `journal serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	CookieName   string   `toml:"cookie_name"`
	SecureCookie bool     `toml:"secure_cookie"`
	AllowOrigins []string `toml:"allow_origins,omitempty"` // CORS origins for /api
}

// AuthConfig holds the shared admin password and the session signing key.
type AuthConfig struct {
	PasswordHash string `toml:"password_hash"` // bcrypt
	SigningKey   string `toml:"signing_key"`   // at least 32 bytes
	SessionTTL   string `toml:"session_ttl"`   // Go duration, e.g. "12h"
}

// EncryptionConfig holds paths to the age key pair used for backups.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default), "test" or "none"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// VaultConfig represents configuration for a vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket       string `toml:"s3_bucket,omitempty"`
	S3Prefix       string `toml:"s3_prefix,omitempty"`
	S3Region       string `toml:"s3_region,omitempty"`
	S3Endpoint     string `toml:"s3_endpoint,omitempty"`   // S3-compatible services such as MinIO
	S3AccessKey    string `toml:"s3_access_key,omitempty"` // empty uses the default AWS credential chain
	S3SecretKey    string `toml:"s3_secret_key,omitempty"`
	S3UsePathStyle bool   `toml:"s3_use_path_style,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the entry database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// NewConfig creates a new Config with the provided values and defaults.
func NewConfig(hostID, baseDir string) *Config {
	return &Config{
		HostID:  hostID,
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Locale:  "da",
		Server: ServerConfig{
			Addr:       "127.0.0.1:8080",
			CookieName: "journal_session",
		},
		Auth: AuthConfig{
			SessionTTL: DefaultSessionTTL,
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "journal.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "journal.key"),
		},
	}
}

// Language returns the parsed locale, defaulting to Danish.
func (c *Config) Language() language.Tag {
	if c.Locale == "" {
		return language.Danish
	}
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Danish
	}
	return tag
}

// SessionTTL returns the parsed session lifetime.
func (c *Config) SessionTTL() (time.Duration, error) {
	s := c.Auth.SessionTTL
	if s == "" {
		s = DefaultSessionTTL
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid session_ttl %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("session_ttl must be positive, got %s", s)
	}
	return d, nil
}

// ExpandPaths replaces a leading ~ in every configured path with the home
// directory.
func (c *Config) ExpandPaths() error {
	paths := []*string{
		&c.BaseDir,
		&c.LogDir,
		&c.Database.DataDir,
		&c.Encryption.PublicKeyPath,
		&c.Encryption.PrivateKeyPath,
	}
	for i := range c.Vaults {
		paths = append(paths, &c.Vaults[i].FSVaultRoot)
	}
	for _, p := range paths {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.HostID == "" {
		errs = append(errs, errors.New("host_id is required"))
	}
	if _, err := language.Parse(c.Locale); c.Locale != "" && err != nil {
		errs = append(errs, fmt.Errorf("invalid locale %q: %w", c.Locale, err))
	}
	if c.Auth.PasswordHash == "" {
		errs = append(errs, errors.New("auth.password_hash is required"))
	}
	if len(c.Auth.SigningKey) < 32 {
		errs = append(errs, errors.New("auth.signing_key must be at least 32 bytes"))
	}
	if _, err := c.SessionTTL(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path and expands ~ in
// its paths.
func ReadFromFile(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path. The file holds the
// signing key, so it is only readable by its owner.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
