package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("FINANCE_FILE_PATH=/tmp/from-dotenv.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FINANCE_FILE_PATH", "")
	os.Unsetenv("FINANCE_FILE_PATH")

	LoadEnvFile(path)

	if got := os.Getenv("FINANCE_FILE_PATH"); got != "/tmp/from-dotenv.json" {
		t.Fatalf("FINANCE_FILE_PATH = %q", got)
	}
}

func TestLoadEnvFileMissingIsIgnored(t *testing.T) {
	LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("FINANCE_BACKEND", "sqlite")
	t.Setenv("FINANCE_SQLITE_PATH", "/tmp/finance.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.SQLiteDBPath != "/tmp/finance.db" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	logger := SetupLogger(cfg)
	if logger.Component() != "cli" {
		t.Fatalf("component = %q", logger.Component())
	}
}

func TestLoadAndValidateConfigRejectsInvalid(t *testing.T) {
	t.Setenv("FINANCE_BACKEND", "sheets")
	t.Setenv("LOG_LEVEL", "info")

	if _, err := LoadAndValidateConfig(); err == nil {
		t.Fatal("expected validation error")
	}
}
