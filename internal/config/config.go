// Package config provides persistent configuration for horaires-shabbat.
//
// Configuration is stored as YAML at ~/.config/horaires-shabbat/config.yaml
// (XDG-compliant). The merge priority is: CLI flags > config file > defaults.
// Secrets (Telegram token, S3 endpoint overrides) come from the environment
// or a .env file and are never written to the config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

const (
	configDirName  = "horaires-shabbat"
	configFileName = "config.yaml"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"location.name", "location.geonameid", "location.timezone",
	"location.latitude", "location.longitude",
	"time_format",
	"cache_dir",
	"log.level", "log.file",
	"store.dsn",
	"server.addr", "server.refresh",
	"telegram.chat_id",
	"upload.bucket", "upload.endpoint", "upload.region", "upload.prefix", "upload.path_style",
	"render.width", "render.height",
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	Location   LocationConfig `yaml:"location,omitempty"`
	TimeFormat string         `yaml:"time_format,omitempty"` // "12h" or "24h"
	CacheDir   string         `yaml:"cache_dir,omitempty"`
	Log        LogConfig      `yaml:"log,omitempty"`
	Store      StoreConfig    `yaml:"store,omitempty"`
	Server     ServerConfig   `yaml:"server,omitempty"`
	Telegram   TelegramConfig `yaml:"telegram,omitempty"`
	Upload     UploadConfig   `yaml:"upload,omitempty"`
	Render     RenderConfig   `yaml:"render,omitempty"`
}

// LocationConfig identifies the community the schedule is computed for.
type LocationConfig struct {
	Name      string  `yaml:"name,omitempty"`
	GeonameID int     `yaml:"geonameid,omitempty"`
	Timezone  string  `yaml:"timezone,omitempty"`
	Latitude  float64 `yaml:"latitude,omitempty"`
	Longitude float64 `yaml:"longitude,omitempty"`
}

// LogConfig selects the log level and optional JSON log file.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// StoreConfig selects the schedule archive backend by DSN.
type StoreConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}

// ServerConfig holds the HTTP API settings. Refresh is a five-field cron
// expression evaluated in the configured timezone.
type ServerConfig struct {
	Addr    string `yaml:"addr,omitempty"`
	Refresh string `yaml:"refresh,omitempty"`
}

// TelegramConfig holds the delivery target. The bot token is read from the
// environment only.
type TelegramConfig struct {
	Token  string `yaml:"-"`
	ChatID int64  `yaml:"chat_id,omitempty"`
}

// UploadConfig holds the S3/MinIO artifact store settings. PathStyle is a
// pointer so "not set" (auto: on when an endpoint is configured) can be
// distinguished from an explicit false.
type UploadConfig struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	PathStyle *bool  `yaml:"path_style,omitempty"`
}

// RenderConfig holds the board image dimensions.
type RenderConfig struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		Location: LocationConfig{
			Name:      "Ramat Gan",
			GeonameID: 293397,
			Timezone:  "Asia/Jerusalem",
			Latitude:  32.0680,
			Longitude: 34.8248,
		},
		TimeFormat: "24h",
		Log:        LogConfig{Level: "info"},
		Server:     ServerConfig{Addr: ":8392", Refresh: "0 6 * * THU"},
		Render:     RenderConfig{Width: 900, Height: 1200},
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk and overlays environment secrets.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Effective is Load with defaults filled in, the view most commands want.
func Effective() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset values from Defaults. Explicit settings win.
func (c *Config) ApplyDefaults() {
	d := Defaults()
	if c.Location.Name == "" {
		c.Location.Name = d.Location.Name
	}
	if c.Location.GeonameID == 0 {
		c.Location.GeonameID = d.Location.GeonameID
	}
	if c.Location.Timezone == "" {
		c.Location.Timezone = d.Location.Timezone
	}
	if c.Location.Latitude == 0 {
		c.Location.Latitude = d.Location.Latitude
	}
	if c.Location.Longitude == 0 {
		c.Location.Longitude = d.Location.Longitude
	}
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.Refresh == "" {
		c.Server.Refresh = d.Server.Refresh
	}
	if c.Render.Width == 0 {
		c.Render.Width = d.Render.Width
	}
	if c.Render.Height == 0 {
		c.Render.Height = d.Render.Height
	}
}

// LoadFrom reads the config from a specific file path without touching the
// environment.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv loads a .env file when present and overlays secret values from
// the environment.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("HORAIRES_DB_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("HORAIRES_S3_BUCKET"); v != "" {
		c.Upload.Bucket = v
	}
	if v := os.Getenv("HORAIRES_S3_ENDPOINT"); v != "" {
		c.Upload.Endpoint = v
	}
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "location.name":
		c.Location.Name = value
	case "location.geonameid":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid geonameid %q: must be a positive integer", value)
		}
		c.Location.GeonameID = v
	case "location.timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", value, err)
		}
		c.Location.Timezone = value
	case "location.latitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: must be a number", value)
		}
		if v < -90 || v > 90 {
			return fmt.Errorf("invalid latitude %q: must be between -90 and 90", value)
		}
		c.Location.Latitude = v
	case "location.longitude":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: must be a number", value)
		}
		if v < -180 || v > 180 {
			return fmt.Errorf("invalid longitude %q: must be between -180 and 180", value)
		}
		c.Location.Longitude = v
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "cache_dir":
		c.CacheDir = value
	case "log.level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid log level %q: must be trace, debug, info, warn or error", value)
		}
		c.Log.Level = value
	case "log.file":
		c.Log.File = value
	case "store.dsn":
		c.Store.DSN = value
	case "server.addr":
		c.Server.Addr = value
	case "server.refresh":
		c.Server.Refresh = value
	case "telegram.chat_id":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid chat_id %q: must be an integer", value)
		}
		c.Telegram.ChatID = v
	case "upload.bucket":
		c.Upload.Bucket = value
	case "upload.endpoint":
		c.Upload.Endpoint = value
	case "upload.region":
		c.Upload.Region = value
	case "upload.prefix":
		c.Upload.Prefix = value
	case "upload.path_style":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid path_style %q: must be true or false", value)
		}
		c.Upload.PathStyle = &v
	case "render.width":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid width %q: must be a positive integer", value)
		}
		c.Render.Width = v
	case "render.height":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid height %q: must be a positive integer", value)
		}
		c.Render.Height = v
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "location.name":
		return c.Location.Name, nil
	case "location.geonameid":
		if c.Location.GeonameID == 0 {
			return "", nil
		}
		return strconv.Itoa(c.Location.GeonameID), nil
	case "location.timezone":
		return c.Location.Timezone, nil
	case "location.latitude":
		if c.Location.Latitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Location.Latitude, 'f', -1, 64), nil
	case "location.longitude":
		if c.Location.Longitude == 0 {
			return "", nil
		}
		return strconv.FormatFloat(c.Location.Longitude, 'f', -1, 64), nil
	case "time_format":
		return c.TimeFormat, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "log.level":
		return c.Log.Level, nil
	case "log.file":
		return c.Log.File, nil
	case "store.dsn":
		return c.Store.DSN, nil
	case "server.addr":
		return c.Server.Addr, nil
	case "server.refresh":
		return c.Server.Refresh, nil
	case "telegram.chat_id":
		if c.Telegram.ChatID == 0 {
			return "", nil
		}
		return strconv.FormatInt(c.Telegram.ChatID, 10), nil
	case "upload.bucket":
		return c.Upload.Bucket, nil
	case "upload.endpoint":
		return c.Upload.Endpoint, nil
	case "upload.region":
		return c.Upload.Region, nil
	case "upload.prefix":
		return c.Upload.Prefix, nil
	case "upload.path_style":
		if c.Upload.PathStyle == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.Upload.PathStyle), nil
	case "render.width":
		if c.Render.Width == 0 {
			return "", nil
		}
		return strconv.Itoa(c.Render.Width), nil
	case "render.height":
		if c.Render.Height == 0 {
			return "", nil
		}
		return strconv.Itoa(c.Render.Height), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "warning": true, "error": true,
}

func isValidLogLevel(level string) bool {
	return validLogLevels[strings.ToLower(level)]
}

// Timezone resolves the configured timezone, falling back to the default.
func (c *Config) Timezone() (*time.Location, error) {
	tz := c.Location.Timezone
	if tz == "" {
		tz = Defaults().Location.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// GeonameIDOrDefault returns the geoname ID, falling back to the given default.
func (c *Config) GeonameIDOrDefault(def int) int {
	if c.Location.GeonameID != 0 {
		return c.Location.GeonameID
	}
	return def
}
