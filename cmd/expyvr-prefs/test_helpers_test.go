package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expyvr/internal/configspec"
)

type cliTestEnv struct {
	homeDir    string
	installDir string
	prefsDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("USER", "cli-tester")
	t.Setenv("EXPYVR_HOME", "")
	t.Setenv("EXPYVR_LOG_LEVEL", "error")
	t.Setenv("HTTP_PROXY", "")
	t.Setenv("http_proxy", "")

	installDir := filepath.Join(base, "install")
	if _, err := configspec.InstallDefaults(installDir, false); err != nil {
		t.Fatalf("install schemas: %v", err)
	}

	return &cliTestEnv{
		homeDir:    homeDir,
		installDir: installDir,
		prefsDir:   filepath.Join(homeDir, ".expyvr"),
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--install-dir", env.installDir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
