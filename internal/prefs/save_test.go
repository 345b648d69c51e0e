package prefs_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"expyvr/internal/prefs"
)

func TestSaveThenLoadValidates(t *testing.T) {
	schema := writeSchema(t, testSchema)
	dataPath := writeFile(t, filepath.Join(t.TempDir(), "prefs.cfg"), "minimum = \"abc\"\n[general]\nunits = 'cm'\ncount = 99\n")

	doc, err := prefs.LoadDocument(schema, dataPath, prefs.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	repaired, _ := prefs.ValidateAndRepair(doc, nil)
	if err := prefs.Save(repaired, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := prefs.LoadDocument(schema, dataPath, prefs.LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if result := prefs.Validate(reloaded); !result.OK() {
		t.Fatalf("expected saved document to validate, got %+v", result.Discrepancies)
	}
	if got, _ := reloaded.Lookup("general.units"); got != "cm" {
		t.Fatalf("units = %#v, want cm", got)
	}
	if got, _ := reloaded.Lookup("display.fullscreen"); got != false {
		t.Fatalf("save should write every schema key, fullscreen = %#v", got)
	}
}

func TestSaveWritesCommentsAndKeepsTables(t *testing.T) {
	schema := writeSchema(t, testSchema)
	dataPath := filepath.Join(t.TempDir(), "prefs.cfg")
	doc, err := prefs.LoadDocument(schema, dataPath, prefs.LoadOptions{
		InitialComment: []string{"### header", "plain line"},
		FinalComment:   []string{"", "### footer"},
	})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	general, _ := doc.Section("general")

	if err := prefs.Save(doc, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if general["units"] != "norm" {
		t.Fatalf("table held before save should see saved values, got %v", general)
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "### header\n# plain line\n") {
		t.Fatalf("missing header: %q", content)
	}
	if !strings.HasSuffix(content, "\n### footer\n") {
		t.Fatalf("missing footer: %q", content)
	}

	entries, err := os.ReadDir(filepath.Dir(dataPath))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestResetThenLoadGivesDefaults(t *testing.T) {
	schema := writeSchema(t, testSchema)
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "prefs.cfg")
	derived := filepath.Join(dir, "keys.cfg")

	doc, err := prefs.LoadDocument(schema, dataPath, prefs.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if err := doc.SetValue("general.count", "8"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := prefs.Save(doc, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	removed, err := prefs.Reset(dataPath, derived)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(removed) != 1 || removed[0] != dataPath {
		t.Fatalf("removed = %v, want [%s]", removed, dataPath)
	}
	if _, err := os.Stat(dataPath + ".lock"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected lock file to be removed, stat err = %v", err)
	}

	reloaded, err := prefs.LoadDocument(schema, dataPath, prefs.LoadOptions{})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	repaired, _ := prefs.ValidateAndRepair(reloaded, nil)
	if !reflect.DeepEqual(repaired.Data, repaired.Schema.Defaults()) {
		t.Fatalf("expected defaults after reset, got %#v", repaired.Data)
	}

	if removed, err := prefs.Reset(dataPath, derived); err != nil || len(removed) != 0 {
		t.Fatalf("second reset should be a no-op, removed=%v err=%v", removed, err)
	}
}
