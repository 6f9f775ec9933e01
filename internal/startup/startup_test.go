package startup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	// Check that all fields are populated
	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion == "" {
		t.Error("Expected GoVersion to be set")
	}
	if info.OS == "" {
		t.Error("Expected OS to be set")
	}
	if info.Arch == "" {
		t.Error("Expected Arch to be set")
	}

	// Verify that runtime values are correct
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
			setEnv:       false,
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
				t.Cleanup(func() {
					os.Unsetenv(tt.key)
				})
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestLoadConfigResolvesAndValidates(t *testing.T) {
	assetDir := t.TempDir()
	dataDir := t.TempDir()
	t.Setenv("DATA_DIR", dataDir)
	t.Setenv("SETTLE_DELAY", "250ms")
	t.Setenv("SCAN_WORKERS", "3")

	cfg, err := LoadConfig(assetDir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !filepath.IsAbs(cfg.AssetDir) {
		t.Errorf("AssetDir %s is not absolute", cfg.AssetDir)
	}
	if cfg.SettleDelay != 250*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 250ms", cfg.SettleDelay)
	}
	if cfg.ScanWorkers != 3 {
		t.Errorf("ScanWorkers = %d, want 3", cfg.ScanWorkers)
	}
	if cfg.DatabasePath != filepath.Join(cfg.DataDir, "catalog.db") {
		t.Errorf("DatabasePath = %s, want it under DATA_DIR", cfg.DatabasePath)
	}
}

func TestLoadConfigArgumentWinsOverEnv(t *testing.T) {
	argDir := t.TempDir()
	t.Setenv("ASSET_DIR", t.TempDir())
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := LoadConfig(argDir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want, _ := filepath.Abs(argDir)
	if cfg.AssetDir != want {
		t.Errorf("AssetDir = %s, want the argument %s", cfg.AssetDir, want)
	}
}

func TestLoadConfigRejectsMissingAssetDir(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Error("LoadConfig accepted a nonexistent asset directory")
	}
}

func TestLoadConfigRejectsFileAsAssetDir(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadConfig(file); err == nil {
		t.Error("LoadConfig accepted a regular file as asset directory")
	}
}

func TestLoadConfigRequiresAssetDir(t *testing.T) {
	os.Unsetenv("ASSET_DIR")
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := LoadConfig(""); err == nil {
		t.Error("LoadConfig accepted an empty asset directory")
	}
}

func TestLoadConfigInvalidSettleDelayFallsBack(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("SETTLE_DELAY", "soon")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SettleDelay != 500*time.Millisecond {
		t.Errorf("SettleDelay = %v, want the 500ms default", cfg.SettleDelay)
	}
}

func TestRouteInfo(t *testing.T) {
	route := RouteInfo{
		Method: "GET",
		Path:   "/api/test",
		Name:   "TestRoute",
	}

	if route.Method != "GET" {
		t.Errorf("Expected Method=GET, got %s", route.Method)
	}
	if route.Path != "/api/test" {
		t.Errorf("Expected Path=/api/test, got %s", route.Path)
	}
	if route.Name != "TestRoute" {
		t.Errorf("Expected Name=TestRoute, got %s", route.Name)
	}
}
