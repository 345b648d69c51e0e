package configspec

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed specs/*.spec
var bundled embed.FS

// bundledTargets maps bundled schema files to their location below the
// install directory.
var bundledTargets = []struct {
	name   string
	target string
}{
	{"Linux.spec", filepath.Join("preferences", "Linux.spec")},
	{"Darwin.spec", filepath.Join("preferences", "Darwin.spec")},
	{"Windows.spec", filepath.Join("preferences", "Windows.spec")},
	{"appData.spec", filepath.Join("app", "appData.spec")},
}

// Bundled returns the contents of a schema shipped with the binary.
func Bundled(name string) ([]byte, error) {
	return bundled.ReadFile("specs/" + name)
}

// InstallDefaults writes the bundled schemas below installDir and returns the
// paths written. Existing files are kept unless overwrite is set.
func InstallDefaults(installDir string, overwrite bool) ([]string, error) {
	var written []string
	for _, entry := range bundledTargets {
		target := filepath.Join(installDir, entry.target)
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}
		data, err := Bundled(entry.name)
		if err != nil {
			return written, fmt.Errorf("read bundled schema %s: %w", entry.name, err)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, fmt.Errorf("create schema directory: %w", err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("write schema %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
