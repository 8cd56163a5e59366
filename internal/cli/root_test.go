package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDotEnvFeedsFlagDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CONFIG_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=9191\nCONFIG_PATH=/etc/academy.yaml\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	loadDotEnv(path)
	cmd := newRootCmd()

	if got := cmd.PersistentFlags().Lookup("port").DefValue; got != "9191" {
		t.Fatalf("expected port from .env, got %q", got)
	}
	if got := cmd.PersistentFlags().Lookup("config").DefValue; got != "/etc/academy.yaml" {
		t.Fatalf("expected config path from .env, got %q", got)
	}
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("PORT", "7000")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=9191\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	loadDotEnv(path)
	if got := newRootCmd().PersistentFlags().Lookup("port").DefValue; got != "7000" {
		t.Fatalf("expected exported PORT to win, got %q", got)
	}
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	loadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
}
