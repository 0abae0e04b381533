package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// DefaultTarget is the protected file pwrite modifies unless configured otherwise.
const DefaultTarget = "/etc/hosts"

// DefaultMarker is the comment appended by `pwrite apply`.
const DefaultMarker = "# No-op comment added by pwrite"

// Config represents the main configuration for pwrite.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Target     TargetConfig     `toml:"target"`
	Backup     BackupConfig     `toml:"backup"`
	Encryption EncryptionConfig `toml:"encryption"`
	Staging    StagingConfig    `toml:"staging"`
	Privilege  PrivilegeConfig  `toml:"privilege"`
	Database   DatabaseConfig   `toml:"database"`
}

// TargetConfig describes the protected file.
type TargetConfig struct {
	Path   string `toml:"path"`
	Marker string `toml:"marker"`
}

// BackupConfig represents configuration for the single-slot backup store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type BackupConfig struct {
	Type      string `toml:"type"` // "filesystem", "memory" or "s3"
	Name      string `toml:"name"` // logical slot name, e.g. "hosts"
	Encrypted bool   `toml:"encrypted"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	Dir string `toml:"dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for sealed backups.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// StagingConfig represents configuration for the staging area.
type StagingConfig struct {
	Type    string `toml:"type"`          // "filesystem" or "memory"
	Dir     string `toml:"dir,omitempty"` // defaults to the OS temp dir
	MaxSize int64  `toml:"max_size"`      // max content size in bytes; defaults to 1MB
}

// PrivilegeConfig selects the privilege-elevation helper and the
// diagnostics used to interpret its result.
type PrivilegeConfig struct {
	Facility string   `toml:"facility"` // "osascript", "sudo", "pkexec", "doas" or "custom"
	Command  string   `toml:"command,omitempty"`
	Args     []string `toml:"args,omitempty"` // may contain {src} and {dst}

	// Extra markers appended to the facility preset, or replacing it
	// when ReplaceMarkers is set.
	ReplaceMarkers  bool     `toml:"replace_markers,omitempty"`
	AuthMarkers     []string `toml:"auth_markers,omitempty"`
	CancelMarkers   []string `toml:"cancel_markers,omitempty"`
	AuthExitCodes   []int    `toml:"auth_exit_codes,omitempty"`
	CancelExitCodes []int    `toml:"cancel_exit_codes,omitempty"`

	// Display message overrides keyed by outcome: success, auth_failed,
	// user_cancelled or other_failure.
	Messages map[string]string `toml:"messages,omitempty"`
}

// DatabaseConfig represents configuration for the operation history database.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// DefaultFacility returns the privilege helper normally available on goos.
func DefaultFacility(goos string) string {
	if goos == "darwin" {
		return "osascript"
	}
	return "pkexec"
}

// NewConfig creates a new Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Target: TargetConfig{
			Path:   DefaultTarget,
			Marker: DefaultMarker,
		},
		Backup: BackupConfig{
			Type: "filesystem",
			Name: "hosts",
			Dir:  filepath.Join(baseDir, "backups"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "pwrite.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "pwrite.key"),
		},
		Staging: StagingConfig{
			Type:    "filesystem",
			MaxSize: 1024 * 1024,
		},
		Privilege: PrivilegeConfig{
			Facility: DefaultFacility(runtime.GOOS),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
	}
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	if c.Target.Path == "" {
		return fmt.Errorf("target.path must be set")
	}
	if !filepath.IsAbs(c.Target.Path) {
		return fmt.Errorf("target.path must be absolute: %s", c.Target.Path)
	}
	if c.Backup.Name == "" {
		return fmt.Errorf("backup.name must be set")
	}
	if c.Privilege.Facility == "" {
		return fmt.Errorf("privilege.facility must be set")
	}
	return nil
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

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
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
