package configspec_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"expyvr/internal/configspec"
)

const testSchema = `
minimum = "float(default=0.0)"

[display]
fullscreen = "boolean(default=false)"
size = "int_list(default=list(800, 600))"

[display.advanced]
vsync = "boolean(default=True)"
label = "string"
`

func TestParseSchemaTree(t *testing.T) {
	schema, err := configspec.Parse([]byte(testSchema))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := schema.Root.KeyNames(); !reflect.DeepEqual(got, []string{"minimum"}) {
		t.Fatalf("root keys = %v", got)
	}
	if got := schema.Root.SectionNames(); !reflect.DeepEqual(got, []string{"display"}) {
		t.Fatalf("root sections = %v", got)
	}
	check, ok := schema.Check([]string{"display", "advanced"}, "vsync")
	if !ok || check.Kind != configspec.KindBoolean || check.Default != true {
		t.Fatalf("unexpected vsync check %#v (ok=%v)", check, ok)
	}
	if _, ok := schema.Check([]string{"missing"}, "x"); ok {
		t.Fatal("expected lookup in unknown section to fail")
	}
}

func TestDefaultsAndSkeleton(t *testing.T) {
	schema, err := configspec.Parse([]byte(testSchema))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := map[string]any{
		"minimum": 0.0,
		"display": map[string]any{
			"fullscreen": false,
			"size":       []any{int64(800), int64(600)},
			"advanced":   map[string]any{"vsync": true},
		},
	}
	if got := schema.Defaults(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Defaults = %#v, want %#v", got, want)
	}

	skeleton := map[string]any{"display": map[string]any{"advanced": map[string]any{}}}
	if got := schema.Skeleton(); !reflect.DeepEqual(got, skeleton) {
		t.Fatalf("Skeleton = %#v, want %#v", got, skeleton)
	}

	defaults := schema.Defaults()
	defaults["display"].(map[string]any)["size"].([]any)[0] = int64(1)
	again := schema.Defaults()
	if again["display"].(map[string]any)["size"].([]any)[0] != int64(800) {
		t.Fatal("Defaults must return independent copies")
	}
}

func TestParseSchemaRejectsNonStringLeaf(t *testing.T) {
	if _, err := configspec.Parse([]byte("[general]\nunits = 3\n")); err == nil {
		t.Fatal("expected error for non-string check")
	}
	if _, err := configspec.Parse([]byte("[general]\nunits = \"nonsense(\"\n")); err == nil {
		t.Fatal("expected error for malformed check")
	}
}

func TestLoadMissingSchema(t *testing.T) {
	_, err := configspec.Load(filepath.Join(t.TempDir(), "Linux.spec"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestBundledSchemasParse(t *testing.T) {
	for _, name := range []string{"Linux.spec", "Darwin.spec", "Windows.spec", "appData.spec"} {
		data, err := configspec.Bundled(name)
		if err != nil {
			t.Fatalf("Bundled(%s): %v", name, err)
		}
		schema, err := configspec.Parse(data)
		if err != nil {
			t.Fatalf("Parse(%s): %v", name, err)
		}
		if len(schema.Root.Sections) == 0 {
			t.Fatalf("%s declares no sections", name)
		}
	}
}

func TestInstallDefaults(t *testing.T) {
	install := t.TempDir()
	written, err := configspec.InstallDefaults(install, false)
	if err != nil {
		t.Fatalf("InstallDefaults returned error: %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("expected 4 schemas written, got %v", written)
	}
	schema, err := configspec.Load(filepath.Join(install, "preferences", "Linux.spec"))
	if err != nil {
		t.Fatalf("Load installed schema: %v", err)
	}
	if schema.Path == "" {
		t.Fatal("expected schema path to be recorded")
	}

	custom := filepath.Join(install, "app", "appData.spec")
	if err := os.WriteFile(custom, []byte("[builder]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	written, err = configspec.InstallDefaults(install, false)
	if err != nil {
		t.Fatalf("second InstallDefaults returned error: %v", err)
	}
	if len(written) != 0 {
		t.Fatalf("expected existing schemas to be kept, wrote %v", written)
	}
	if _, err := configspec.InstallDefaults(install, true); err != nil {
		t.Fatalf("overwrite InstallDefaults returned error: %v", err)
	}
	data, _ := os.ReadFile(custom)
	if string(data) == "[builder]\n" {
		t.Fatal("expected overwrite to replace the custom schema")
	}
}
