package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"EINK_LOG_LEVEL", "EINK_DEFAULT_ALGORITHM", "EINK_DEFAULT_DEPTH", "EINK_JPEG_QUALITY", "NO_COLOR", "EINK_LOG_SOURCE"} {
		t.Setenv(k, "")
	}

	got := FromEnv()
	if got != Default() {
		t.Errorf("got %+v, want %+v", got, Default())
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("EINK_LOG_LEVEL", "debug")
	t.Setenv("EINK_DEFAULT_ALGORITHM", "atkinson")
	t.Setenv("EINK_DEFAULT_DEPTH", "4")
	t.Setenv("EINK_JPEG_QUALITY", "80")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("EINK_LOG_SOURCE", "yes")

	got := FromEnv()
	want := Config{
		LogLevel:         "debug",
		DefaultAlgorithm: "atkinson",
		DefaultDepth:     4,
		JPEGQuality:      80,
		NoColor:          true,
		LogSource:        true,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGet_FileIndirection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "algo")
	if err := os.WriteFile(path, []byte("  sierra\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("EINK_TEST_ALGO", "")
	t.Setenv("EINK_TEST_ALGO_FILE", path)

	if got := Get("EINK_TEST_ALGO", "x"); got != "sierra" {
		t.Errorf("got %q, want sierra", got)
	}
}

func TestGetInt_Invalid(t *testing.T) {
	t.Setenv("EINK_TEST_INT", "eight")
	if got := GetInt("EINK_TEST_INT", 3); got != 3 {
		t.Errorf("got %d, want fallback 3", got)
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"Y", false, true},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Setenv("EINK_TEST_BOOL", tt.val)
		if got := GetBool("EINK_TEST_BOOL", tt.def); got != tt.want {
			t.Errorf("GetBool(%q, %v) = %v, want %v", tt.val, tt.def, got, tt.want)
		}
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EINK_DEFAULT_DEPTH=2\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	// godotenv does not override variables that are already present, so
	// make sure the key is absent rather than empty.
	t.Setenv("EINK_DEFAULT_DEPTH", "")
	os.Unsetenv("EINK_DEFAULT_DEPTH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultDepth != 2 {
		t.Errorf("DefaultDepth: got %d, want 2", cfg.DefaultDepth)
	}
}

func TestLoad_NoDotEnv(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	if _, err := Load(); err != nil {
		t.Errorf("Load without .env failed: %v", err)
	}
}
