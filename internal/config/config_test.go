package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Ning0612/pcclean/internal/core/checksum"
	"github.com/Ning0612/pcclean/internal/domain"
	"github.com/Ning0612/pcclean/internal/logger"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	set := cfg.CategorySet()
	want := []string{"Images", "Documents", "Videos", "Music", "Archives", "Others"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("category names = %v, want %v", got, want)
	}
	if cfg.HashAlgorithm() != checksum.MD5 {
		t.Errorf("default algorithm = %s, want md5", cfg.HashAlgorithm())
	}
}

func TestLoadFromString_Full(t *testing.T) {
	yaml := `
categories:
  - name: Photos
    extensions: [".JPG", "heic"]
  - name: Books
    extensions: [".epub"]
temp_locations:
  linux: ["/var/tmp/pcclean-test"]
hash:
  algorithm: xxhash
  buffer_size: 65536
schedule:
  interval: 6h
logging:
  level: debug
  format: json
  file:
    enabled: false
state:
  dir: /var/lib/pcclean
  history: false
`
	cfg, err := LoadFromString(yaml)
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	set := cfg.CategorySet()
	if got := set.Lookup(".heic"); got != "Photos" {
		t.Errorf("Lookup(.heic) = %q, want Photos", got)
	}
	if got := set.Lookup(".jpg"); got != "Photos" {
		t.Errorf("Lookup(.jpg) = %q, want Photos", got)
	}
	if got := set.Lookup(".pdf"); got != domain.OthersCategory {
		t.Errorf("Lookup(.pdf) = %q, want Others", got)
	}

	if cfg.HashAlgorithm() != checksum.XXHash || cfg.Hash.BufferSize != 65536 {
		t.Errorf("hash = %+v", cfg.Hash)
	}
	if cfg.Schedule.Interval != 6*time.Hour {
		t.Errorf("interval = %v, want 6h", cfg.Schedule.Interval)
	}

	locs, ok := cfg.TempLocationOverride(domain.OSLinux)
	if !ok || !reflect.DeepEqual(locs, []string{"/var/tmp/pcclean-test"}) {
		t.Errorf("linux override = %v, %v", locs, ok)
	}
	if _, ok := cfg.TempLocationOverride(domain.OSDarwin); ok {
		t.Error("darwin should have no override")
	}

	dir, err := cfg.StateDir()
	if err != nil || dir != "/var/lib/pcclean" {
		t.Errorf("StateDir() = %q, %v", dir, err)
	}
	if cfg.State.History {
		t.Error("history should be disabled")
	}

	lc := cfg.LoggerConfig()
	if lc.Level != logger.LevelDebug || lc.Format != logger.FormatJSON || lc.File.Enabled {
		t.Errorf("LoggerConfig() = %+v", lc)
	}
}

func TestLoadFromString_DefaultsApplied(t *testing.T) {
	cfg, err := LoadFromString("logging:\n  level: warn\n")
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}

	if !reflect.DeepEqual(cfg.Categories, domain.DefaultCategories()) {
		t.Errorf("categories = %v, want defaults", cfg.Categories)
	}
	if cfg.Hash.Algorithm != "md5" || cfg.Hash.BufferSize != checksum.DefaultBufferSize {
		t.Errorf("hash = %+v, want defaults", cfg.Hash)
	}
	if cfg.Schedule.Interval != 24*time.Hour {
		t.Errorf("interval = %v, want 24h", cfg.Schedule.Interval)
	}
	if !cfg.Logging.File.Enabled || cfg.Logging.File.Path != "pcclean.log" {
		t.Errorf("log file = %+v, want enabled pcclean.log", cfg.Logging.File)
	}
	if !cfg.State.History {
		t.Error("history should default to enabled")
	}
}

func TestLoadFromString_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty category name", "categories:\n  - name: \"\"\n    extensions: [.a]\n"},
		{"duplicate category", "categories:\n  - name: A\n    extensions: [.a]\n  - name: A\n    extensions: [.b]\n"},
		{"path in category", "categories:\n  - name: ../up\n    extensions: [.a]\n"},
		{"others with extensions", "categories:\n  - name: Others\n    extensions: [.a]\n"},
		{"unknown family", "temp_locations:\n  beos: [/tmp]\n"},
		{"bad algorithm", "hash:\n  algorithm: crc32\n"},
		{"zero buffer", "hash:\n  buffer_size: 0\n"},
		{"zero interval", "schedule:\n  interval: 0s\n"},
		{"log file without path", "logging:\n  file:\n    enabled: true\n    path: \"\"\n"},
		{"malformed yaml", "categories: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromString(tt.yaml)
			if !errors.Is(err, domain.ErrConfigInvalid) {
				t.Errorf("error = %v, want ErrConfigInvalid", err)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcclean.yaml")
	content := "hash:\n  algorithm: sha256\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HashAlgorithm() != checksum.SHA256 {
		t.Errorf("algorithm = %s, want sha256", cfg.HashAlgorithm())
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, domain.ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PCCLEAN_SCHEDULE_INTERVAL", "90m")

	cfg, err := LoadFromString("hash:\n  algorithm: md5\n")
	if err != nil {
		t.Fatalf("LoadFromString() error = %v", err)
	}
	if cfg.Schedule.Interval != 90*time.Minute {
		t.Errorf("interval = %v, want 90m", cfg.Schedule.Interval)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("PCCLEAN_TEST_DIR", "/opt/x")

	if got := ExpandPath("~"); got != filepath.Clean(home) {
		t.Errorf("ExpandPath(~) = %q, want %q", got, home)
	}
	if got := ExpandPath("~/.cache"); got != filepath.Join(home, ".cache") {
		t.Errorf("ExpandPath(~/.cache) = %q", got)
	}
	if got := ExpandPath("$PCCLEAN_TEST_DIR/tmp"); !strings.HasSuffix(filepath.ToSlash(got), "/opt/x/tmp") {
		t.Errorf("ExpandPath($PCCLEAN_TEST_DIR/tmp) = %q", got)
	}
}
