package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nALD_TEST_NEW=\"from-file\"\nALD_TEST_KEEP=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ALD_TEST_KEEP", "from-env")
	t.Setenv("ALD_TEST_NEW", "")
	_ = os.Unsetenv("ALD_TEST_NEW")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("ALD_TEST_NEW"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("ALD_TEST_KEEP"); got != "from-env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}

func TestLoadEnvFileMissingOrEmptyPath(t *testing.T) {
	if err := LoadEnvFile(""); err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}
}
