package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.yaml")
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Location.Name != "Ramat Gan" {
		t.Errorf("Defaults().Location.Name = %q, want %q", d.Location.Name, "Ramat Gan")
	}
	if d.Location.GeonameID != 293397 {
		t.Errorf("Defaults().Location.GeonameID = %d, want 293397", d.Location.GeonameID)
	}
	if d.Location.Timezone != "Asia/Jerusalem" {
		t.Errorf("Defaults().Location.Timezone = %q, want %q", d.Location.Timezone, "Asia/Jerusalem")
	}
	if d.Location.Latitude != 32.0680 {
		t.Errorf("Defaults().Location.Latitude = %f, want 32.0680", d.Location.Latitude)
	}
	if d.Location.Longitude != 34.8248 {
		t.Errorf("Defaults().Location.Longitude = %f, want 34.8248", d.Location.Longitude)
	}
	if d.TimeFormat != "24h" {
		t.Errorf("Defaults().TimeFormat = %q, want %q", d.TimeFormat, "24h")
	}
	if d.Log.Level != "info" {
		t.Errorf("Defaults().Log.Level = %q, want %q", d.Log.Level, "info")
	}
	if d.Server.Addr != ":8392" {
		t.Errorf("Defaults().Server.Addr = %q, want %q", d.Server.Addr, ":8392")
	}
	if d.Server.Refresh != "0 6 * * THU" {
		t.Errorf("Defaults().Server.Refresh = %q, want %q", d.Server.Refresh, "0 6 * * THU")
	}
	if d.Render.Width != 900 || d.Render.Height != 1200 {
		t.Errorf("Defaults().Render = %dx%d, want 900x1200", d.Render.Width, d.Render.Height)
	}

	// Everything else should be zero.
	if d.CacheDir != "" {
		t.Errorf("Defaults().CacheDir = %q, want empty", d.CacheDir)
	}
	if d.Store.DSN != "" {
		t.Errorf("Defaults().Store.DSN = %q, want empty", d.Store.DSN)
	}
	if d.Telegram.ChatID != 0 {
		t.Errorf("Defaults().Telegram.ChatID = %d, want 0", d.Telegram.ChatID)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Location: LocationConfig{GeonameID: 281184, Timezone: "UTC"}}
	cfg.ApplyDefaults()

	// Explicit settings survive.
	if cfg.Location.GeonameID != 281184 {
		t.Errorf("GeonameID = %d, want 281184", cfg.Location.GeonameID)
	}
	if cfg.Location.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Location.Timezone)
	}

	// Unset values come from Defaults.
	if cfg.Server.Addr != ":8392" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":8392")
	}
	if cfg.Server.Refresh != "0 6 * * THU" {
		t.Errorf("Server.Refresh = %q, want %q", cfg.Server.Refresh, "0 6 * * THU")
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("TimeFormat = %q, want 24h", cfg.TimeFormat)
	}
	if cfg.Render.Width != 900 || cfg.Render.Height != 1200 {
		t.Errorf("Render = %dx%d, want 900x1200", cfg.Render.Width, cfg.Render.Height)
	}

	// Secrets and optional integrations stay unset.
	if cfg.Store.DSN != "" || cfg.Telegram.ChatID != 0 || cfg.Upload.Bucket != "" {
		t.Error("ApplyDefaults should not invent store, telegram or upload settings")
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "horaires-shabbat")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestDir_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".config", "horaires-shabbat")
	if dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestPath_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error: %v", err)
	}

	want := filepath.Join("/tmp/xdg-test", "horaires-shabbat", "config.yaml")
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

// --- LoadFrom ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.yaml")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	// Should return an empty Config.
	if cfg.Location.Name != "" || cfg.Location.GeonameID != 0 {
		t.Error("LoadFrom non-existent should return empty config")
	}
}

func TestLoadFrom_ValidYAML(t *testing.T) {
	path := tempConfigPath(t)

	raw := []byte(`location:
  name: Jerusalem
  geonameid: 281184
  timezone: Asia/Jerusalem
time_format: 12h
telegram:
  chat_id: -1001234
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.Location.Name != "Jerusalem" {
		t.Errorf("Location.Name = %q, want %q", cfg.Location.Name, "Jerusalem")
	}
	if cfg.Location.GeonameID != 281184 {
		t.Errorf("Location.GeonameID = %d, want 281184", cfg.Location.GeonameID)
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, "12h")
	}
	if cfg.Telegram.ChatID != -1001234 {
		t.Errorf("Telegram.ChatID = %d, want -1001234", cfg.Telegram.ChatID)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("location: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom with invalid YAML should error")
	}
}

func TestLoadFrom_EmptyFile(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Location.Name != "" || cfg.TimeFormat != "" {
		t.Error("LoadFrom empty file should return empty config")
	}
}

// --- ApplyEnv ---

func TestApplyEnv_Overlays(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "12345:secret-token")
	t.Setenv("TELEGRAM_CHAT_ID", "-1009876")
	t.Setenv("HORAIRES_DB_DSN", "postgres://localhost/horaires")
	t.Setenv("HORAIRES_S3_BUCKET", "boards")
	t.Setenv("HORAIRES_S3_ENDPOINT", "http://127.0.0.1:9000")

	cfg := &Config{}
	cfg.ApplyEnv()

	if cfg.Telegram.Token != "12345:secret-token" {
		t.Errorf("Telegram.Token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Telegram.ChatID != -1009876 {
		t.Errorf("Telegram.ChatID = %d, want -1009876", cfg.Telegram.ChatID)
	}
	if cfg.Store.DSN != "postgres://localhost/horaires" {
		t.Errorf("Store.DSN = %q, want env value", cfg.Store.DSN)
	}
	if cfg.Upload.Bucket != "boards" {
		t.Errorf("Upload.Bucket = %q, want %q", cfg.Upload.Bucket, "boards")
	}
	if cfg.Upload.Endpoint != "http://127.0.0.1:9000" {
		t.Errorf("Upload.Endpoint = %q, want env value", cfg.Upload.Endpoint)
	}
}

func TestApplyEnv_BadChatIDIgnored(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	cfg := &Config{Telegram: TelegramConfig{ChatID: 42}}
	cfg.ApplyEnv()

	if cfg.Telegram.ChatID != 42 {
		t.Errorf("Telegram.ChatID = %d, want unchanged 42", cfg.Telegram.ChatID)
	}
}

// --- SaveTo ---

func TestSaveTo_CreatesDirectoryAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.yaml")

	cfg := &Config{
		Location: LocationConfig{Name: "Ramat Gan", GeonameID: 293397},
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	// Verify file exists and is valid YAML.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved file has invalid YAML: %v", err)
	}
	if loaded.Location.Name != "Ramat Gan" {
		t.Errorf("loaded Location.Name = %q, want %q", loaded.Location.Name, "Ramat Gan")
	}
	if loaded.Location.GeonameID != 293397 {
		t.Errorf("loaded Location.GeonameID = %d, want 293397", loaded.Location.GeonameID)
	}
}

func TestSaveTo_TokenNeverPersisted(t *testing.T) {
	path := tempConfigPath(t)
	cfg := &Config{
		Telegram: TelegramConfig{Token: "12345:secret-token", ChatID: -100},
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "secret-token") {
		t.Error("bot token must not be written to the config file")
	}
	if !strings.Contains(string(data), "chat_id") {
		t.Error("chat_id should be written to the config file")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := tempConfigPath(t)

	pathStyle := true
	original := &Config{
		Location: LocationConfig{
			Name:      "Jerusalem",
			GeonameID: 281184,
			Timezone:  "Asia/Jerusalem",
			Latitude:  31.7683,
			Longitude: 35.2137,
		},
		TimeFormat: "12h",
		CacheDir:   "/tmp/cache",
		Log:        LogConfig{Level: "debug", File: "/tmp/horaires.log"},
		Store:      StoreConfig{DSN: "file:/tmp/horaires.db"},
		Server:     ServerConfig{Addr: ":9000"},
		Telegram:   TelegramConfig{ChatID: -100123},
		Upload:     UploadConfig{Bucket: "boards", Endpoint: "http://127.0.0.1:9000", Region: "us-east-1", Prefix: "weekly/", PathStyle: &pathStyle},
		Render:     RenderConfig{Width: 800, Height: 1000},
	}

	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if loaded.Location != original.Location {
		t.Errorf("Location = %+v, want %+v", loaded.Location, original.Location)
	}
	if loaded.TimeFormat != original.TimeFormat {
		t.Errorf("TimeFormat = %q, want %q", loaded.TimeFormat, original.TimeFormat)
	}
	if loaded.CacheDir != original.CacheDir {
		t.Errorf("CacheDir = %q, want %q", loaded.CacheDir, original.CacheDir)
	}
	if loaded.Log != original.Log {
		t.Errorf("Log = %+v, want %+v", loaded.Log, original.Log)
	}
	if loaded.Store != original.Store {
		t.Errorf("Store = %+v, want %+v", loaded.Store, original.Store)
	}
	if loaded.Server != original.Server {
		t.Errorf("Server = %+v, want %+v", loaded.Server, original.Server)
	}
	if loaded.Telegram.ChatID != original.Telegram.ChatID {
		t.Errorf("Telegram.ChatID = %d, want %d", loaded.Telegram.ChatID, original.Telegram.ChatID)
	}
	if loaded.Upload.Bucket != original.Upload.Bucket ||
		loaded.Upload.Endpoint != original.Upload.Endpoint ||
		loaded.Upload.Region != original.Upload.Region ||
		loaded.Upload.Prefix != original.Upload.Prefix {
		t.Errorf("Upload = %+v, want %+v", loaded.Upload, original.Upload)
	}
	if loaded.Upload.PathStyle == nil || !*loaded.Upload.PathStyle {
		t.Errorf("Upload.PathStyle = %v, want true", loaded.Upload.PathStyle)
	}
	if loaded.Render != original.Render {
		t.Errorf("Render = %+v, want %+v", loaded.Render, original.Render)
	}
}

// --- ResetAt ---

func TestResetAt_DeletesFile(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{Location: LocationConfig{Name: "Ramat Gan"}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ResetAt should have deleted the file")
	}
}

func TestResetAt_NonExistentFile(t *testing.T) {
	// Resetting a non-existent file should not error.
	err := ResetAt("/no/such/file.yaml")
	if err != nil {
		t.Errorf("ResetAt on non-existent file should not error, got: %v", err)
	}
}

// --- Set ---

func TestSet_GeonameID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"valid", "293397", 293397, false},
		{"another valid", "281184", 281184, false},
		{"zero", "0", 0, true},
		{"negative", "-5", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("location.geonameid", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(location.geonameid, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Location.GeonameID != tt.want {
				t.Errorf("GeonameID = %d, want %d", cfg.Location.GeonameID, tt.want)
			}
		})
	}
}

func TestSet_Timezone(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Set("location.timezone", "UTC"); err != nil {
		t.Fatalf("Set(location.timezone, UTC) error: %v", err)
	}
	if cfg.Location.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want %q", cfg.Location.Timezone, "UTC")
	}

	if err := cfg.Set("location.timezone", "Not/AZone"); err == nil {
		t.Error("Set with invalid timezone should error")
	}
}

func TestSet_Latitude(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{"valid positive", "32.0680", 32.0680, false},
		{"valid negative", "-33.8688", -33.8688, false},
		{"zero", "0", 0, false},
		{"boundary 90", "90", 90, false},
		{"boundary -90", "-90", -90, false},
		{"too high", "91", 0, true},
		{"too low", "-91", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("location.latitude", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(location.latitude, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Location.Latitude != tt.want {
				t.Errorf("Latitude = %f, want %f", cfg.Location.Latitude, tt.want)
			}
		})
	}
}

func TestSet_Longitude(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    float64
		wantErr bool
	}{
		{"valid positive", "34.8248", 34.8248, false},
		{"valid negative", "-73.5674", -73.5674, false},
		{"boundary 180", "180", 180, false},
		{"boundary -180", "-180", -180, false},
		{"too high", "181", 0, true},
		{"too low", "-181", 0, true},
		{"not a number", "xyz", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("location.longitude", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(location.longitude, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Location.Longitude != tt.want {
				t.Errorf("Longitude = %f, want %f", cfg.Location.Longitude, tt.want)
			}
		})
	}
}

func TestSet_TimeFormat(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"12h", false},
		{"24h", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("time_format", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(time_format, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && cfg.TimeFormat != tt.value {
				t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, tt.value)
			}
		})
	}
}

func TestSet_LogLevel(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"trace", false},
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"WARNING", false},
		{"error", false},
		{"verbose", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set("log.level", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(log.level, %q) error = %v, wantErr = %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSet_ChatID(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Set("telegram.chat_id", "-1001234"); err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.ChatID != -1001234 {
		t.Errorf("ChatID = %d, want -1001234", cfg.Telegram.ChatID)
	}

	if err := cfg.Set("telegram.chat_id", "not-a-number"); err == nil {
		t.Error("Set with invalid chat_id should error")
	}
}

func TestSet_PathStyle(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Set("upload.path_style", "true"); err != nil {
		t.Fatal(err)
	}
	if cfg.Upload.PathStyle == nil || !*cfg.Upload.PathStyle {
		t.Errorf("PathStyle = %v, want true", cfg.Upload.PathStyle)
	}

	if err := cfg.Set("upload.path_style", "false"); err != nil {
		t.Fatal(err)
	}
	if cfg.Upload.PathStyle == nil || *cfg.Upload.PathStyle {
		t.Errorf("PathStyle = %v, want false", cfg.Upload.PathStyle)
	}

	if err := cfg.Set("upload.path_style", "maybe"); err == nil {
		t.Error("Set with invalid path_style should error")
	}
}

func TestSet_RenderDimensions(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"render.width", "800", false},
		{"render.height", "1200", false},
		{"render.width", "0", true},
		{"render.height", "-10", true},
		{"render.width", "wide", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set(%q, %q) error = %v, wantErr = %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestSet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	err := cfg.Set("unknown_key", "value")
	if err == nil {
		t.Fatal("Set with unknown key should error")
	}
	if !strings.Contains(err.Error(), "valid keys") {
		t.Errorf("error should list valid keys, got: %v", err)
	}
}

// --- Get ---

func TestGet_AllKeys(t *testing.T) {
	pathStyle := true
	cfg := &Config{
		Location: LocationConfig{
			Name:      "Ramat Gan",
			GeonameID: 293397,
			Timezone:  "Asia/Jerusalem",
			Latitude:  32.0680,
			Longitude: 34.8248,
		},
		TimeFormat: "24h",
		CacheDir:   "/tmp/cache",
		Log:        LogConfig{Level: "info", File: "/tmp/h.log"},
		Store:      StoreConfig{DSN: "file:/tmp/h.db"},
		Server:     ServerConfig{Addr: ":8392"},
		Telegram:   TelegramConfig{ChatID: -100123},
		Upload:     UploadConfig{Bucket: "boards", Endpoint: "http://127.0.0.1:9000", Region: "us-east-1", Prefix: "weekly/", PathStyle: &pathStyle},
		Render:     RenderConfig{Width: 900, Height: 1200},
	}

	tests := []struct {
		key  string
		want string
	}{
		{"location.name", "Ramat Gan"},
		{"location.geonameid", "293397"},
		{"location.timezone", "Asia/Jerusalem"},
		{"location.latitude", "32.068"},
		{"location.longitude", "34.8248"},
		{"time_format", "24h"},
		{"cache_dir", "/tmp/cache"},
		{"log.level", "info"},
		{"log.file", "/tmp/h.log"},
		{"store.dsn", "file:/tmp/h.db"},
		{"server.addr", ":8392"},
		{"telegram.chat_id", "-100123"},
		{"upload.bucket", "boards"},
		{"upload.endpoint", "http://127.0.0.1:9000"},
		{"upload.region", "us-east-1"},
		{"upload.prefix", "weekly/"},
		{"upload.path_style", "true"},
		{"render.width", "900"},
		{"render.height", "1200"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGet_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	// All values should be empty strings for an empty config.
	for _, key := range ValidKeys {
		got, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
		if got != "" {
			t.Errorf("Get(%q) = %q, want empty for empty config", key, got)
		}
	}
}

func TestGet_UnknownKey(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.Get("unknown_key")
	if err == nil {
		t.Fatal("Get with unknown key should error")
	}
}

// --- ValidKeys ---

func TestValidKeys_AllSettable(t *testing.T) {
	// Every valid key must be accepted by Set with a suitable value.
	values := map[string]string{
		"location.name":      "Ramat Gan",
		"location.geonameid": "293397",
		"location.timezone":  "UTC",
		"location.latitude":  "32.068",
		"location.longitude": "34.8248",
		"time_format":        "24h",
		"cache_dir":          "/tmp/cache",
		"log.level":          "info",
		"log.file":           "/tmp/h.log",
		"store.dsn":          "file:/tmp/h.db",
		"server.addr":        ":8392",
		"server.refresh":     "0 6 * * THU",
		"telegram.chat_id":   "-100123",
		"upload.bucket":      "boards",
		"upload.endpoint":    "http://127.0.0.1:9000",
		"upload.region":      "us-east-1",
		"upload.prefix":      "weekly/",
		"upload.path_style":  "true",
		"render.width":       "900",
		"render.height":      "1200",
	}

	if len(values) != len(ValidKeys) {
		t.Fatalf("test covers %d keys, ValidKeys has %d", len(values), len(ValidKeys))
	}

	for _, key := range ValidKeys {
		value, ok := values[key]
		if !ok {
			t.Errorf("no test value for valid key %q", key)
			continue
		}
		cfg := &Config{}
		if err := cfg.Set(key, value); err != nil {
			t.Errorf("Set(%q, %q) error: %v", key, value, err)
		}
		got, err := cfg.Get(key)
		if err != nil {
			t.Errorf("Get(%q) error: %v", key, err)
		}
		if got != value {
			t.Errorf("Set/Get round-trip for %q: got %q, want %q", key, got, value)
		}
	}
}

// --- Timezone ---

func TestTimezone_Configured(t *testing.T) {
	cfg := &Config{Location: LocationConfig{Timezone: "UTC"}}
	loc, err := cfg.Timezone()
	if err != nil {
		t.Fatalf("Timezone() error: %v", err)
	}
	if loc != nil && loc.String() != "UTC" {
		t.Errorf("Timezone() = %q, want %q", loc.String(), "UTC")
	}
}

func TestTimezone_Invalid(t *testing.T) {
	cfg := &Config{Location: LocationConfig{Timezone: "Not/AZone"}}
	if _, err := cfg.Timezone(); err == nil {
		t.Error("Timezone() with invalid zone should error")
	}
}

// --- GeonameIDOrDefault ---

func TestGeonameIDOrDefault(t *testing.T) {
	cfg := &Config{Location: LocationConfig{GeonameID: 281184}}
	if got := cfg.GeonameIDOrDefault(293397); got != 281184 {
		t.Errorf("GeonameIDOrDefault = %d, want 281184", got)
	}

	empty := &Config{}
	if got := empty.GeonameIDOrDefault(293397); got != 293397 {
		t.Errorf("GeonameIDOrDefault = %d, want 293397 (default)", got)
	}
}

// --- OmitEmpty YAML behavior ---

func TestConfig_OmitEmpty_YAML(t *testing.T) {
	// An empty config should produce minimal YAML.
	cfg := &Config{}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}

	got := strings.TrimSpace(string(data))
	if got != "{}" {
		t.Errorf("empty config YAML = %s, want {}", got)
	}
}

// --- Full integration: Set -> SaveTo -> LoadFrom -> Get ---

func TestSetSaveLoadGet_Integration(t *testing.T) {
	path := tempConfigPath(t)

	cfg := &Config{}
	cfg.Set("location.name", "Jerusalem")
	cfg.Set("location.geonameid", "281184")
	cfg.Set("time_format", "12h")
	cfg.Set("log.level", "debug")

	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		key, want string
	}{
		{"location.name", "Jerusalem"},
		{"location.geonameid", "281184"},
		{"time_format", "12h"},
		{"log.level", "debug"},
	}

	for _, c := range checks {
		got, _ := loaded.Get(c.key)
		if got != c.want {
			t.Errorf("After save/load: Get(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}
