package prefs_test

import (
	"os"
	"path/filepath"
	"testing"
)

const testSchema = `minimum = "float(default=0.0)"

[display]
fullscreen = "boolean(default=False)"

[general]
units = "option('norm', 'cm', default='norm')"
count = "integer(1, 10, default=3)"
name = "string(default='anon')"
sizes = "int_list(default=list(1, 2))"
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, filepath.Join(t.TempDir(), "test.spec"), content)
}
