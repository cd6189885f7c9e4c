package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the configuration file.
const (
	EnvAPIKey       = "YOUTUBE_API_KEY"
	EnvPlaylistID   = "PLSYNC_PLAYLIST_ID"
	EnvPlaylistName = "PLSYNC_PLAYLIST_NAME"
	EnvCSVFilename  = "PLSYNC_CSV_FILENAME"
	EnvOutputDir    = "PLSYNC_OUTPUT_DIR"
	EnvHistoryPath  = "PLSYNC_HISTORY_PATH"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Playlist    PlaylistConfig    `toml:"playlist"`
	Output      OutputConfig      `toml:"output"`
	History     HistoryConfig     `toml:"history"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	YouTube YouTubeConfig `toml:"youtube"`
}

// YouTubeConfig contains YouTube Data API settings.
type YouTubeConfig struct {
	APIKey            string  `toml:"api_key"`
	Endpoint          string  `toml:"endpoint"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// PlaylistConfig identifies the playlist to synchronize.
type PlaylistConfig struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// OutputConfig locates the CSV output log.
type OutputConfig struct {
	Dir      string `toml:"dir"`
	Filename string `toml:"filename"`
}

// HistoryConfig contains the run history database settings.
type HistoryConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// LoadSettings resolves the effective configuration for a run.
//
// Variables from envFile (usually .env) are loaded into the process environment without overriding existing ones.
// A missing or malformed configuration file falls back to the defaults with a warning.
// Environment variables take precedence over file values.
func LoadSettings(path, envFile string, logger *log.Logger) *Config {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to load env file", "path", envFile, "error", err)
		}
	}

	config, err := LoadConfig(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("config file not found, using defaults", "path", path)
		} else {
			logger.Warn("config file is invalid, using defaults", "path", path, "error", err)
		}
		config = DefaultConfig()
	}

	config.ApplyEnv(os.LookupEnv)
	return config
}

// ApplyEnv overrides configuration values with non-empty environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, o := range []struct {
		key    string
		target *string
	}{
		{EnvAPIKey, &c.Credentials.YouTube.APIKey},
		{EnvPlaylistID, &c.Playlist.ID},
		{EnvPlaylistName, &c.Playlist.Name},
		{EnvCSVFilename, &c.Output.Filename},
		{EnvOutputDir, &c.Output.Dir},
		{EnvHistoryPath, &c.History.Path},
	} {
		if v, ok := lookup(o.key); ok && strings.TrimSpace(v) != "" {
			*o.target = strings.TrimSpace(v)
		}
	}
}

// Validate checks that everything a sync needs is present.
func (c *Config) Validate() error {
	if c.Credentials.YouTube.APIKey == "" {
		return fmt.Errorf("%w: set %s in the environment or .env", ErrMissingCredentials, EnvAPIKey)
	}

	var missing []string
	if c.Playlist.ID == "" {
		missing = append(missing, "playlist.id")
	}
	if c.Playlist.Name == "" {
		missing = append(missing, "playlist.name")
	}
	if c.Output.Filename == "" {
		missing = append(missing, "output.filename")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	if c.Credentials.YouTube.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}

// OutputPath returns the path of the CSV output log.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Output.Dir, c.Output.Filename)
}

// EnsureOutputDir creates the output directory if it does not exist.
func (c *Config) EnsureOutputDir() error {
	if c.Output.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
