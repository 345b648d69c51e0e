package prefs

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"expyvr/internal/configspec"
	"expyvr/internal/fileutil"
	"expyvr/internal/logging"
)

// Save validates doc with every schema default copied in, then writes it
// atomically to doc.Path under an advisory lock on doc.Path+".lock". On
// success doc holds the saved values; existing tables keep their identity.
func Save(doc *Document, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldDocument, doc.Name))

	filled := doc.Clone()
	copyDefaults(filled.Data, filled.Schema.Defaults())
	repaired, _ := ValidateAndRepair(filled, logger)

	data, err := Encode(repaired)
	if err != nil {
		return Wrap(ErrValidation, "encode", doc.Path, err)
	}

	dir := filepath.Dir(doc.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Wrap(ErrStorageUnwritable, "create directory", dir, err)
	}
	if err := writeLocked(doc.Path, data); err != nil {
		return Wrap(ErrStorageUnwritable, "write", doc.Path, err)
	}

	repaired.StorageErr = nil
	adopt(doc, repaired)
	logger.Info("configuration saved", logging.String(logging.FieldPath, doc.Path))
	return nil
}

// writeLocked replaces path with data while holding path+".lock".
func writeLocked(path string, data []byte) error {
	return fileutil.WithLock(path+".lock", func() error {
		return fileutil.WriteFileAtomic(path, data, 0o644)
	})
}

// copyDefaults adds every default missing from data, including whole
// sections. Present values are left alone.
func copyDefaults(data, defaults map[string]any) {
	for key, def := range defaults {
		current, present := data[key]
		defTable, defIsTable := def.(map[string]any)
		if !present {
			data[key] = configspec.CloneValue(def)
			continue
		}
		if table, ok := current.(map[string]any); ok && defIsTable {
			copyDefaults(table, defTable)
		}
	}
}

// Encode renders doc as TOML framed by its initial and final comments.
func Encode(doc *Document) ([]byte, error) {
	body, err := toml.Marshal(doc.Data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writeComments(&buf, doc.InitialComment)
	buf.Write(body)
	writeComments(&buf, doc.FinalComment)
	return buf.Bytes(), nil
}

func writeComments(buf *bytes.Buffer, lines []string) {
	for _, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(strings.TrimSpace(line), "#"):
			buf.WriteString(line)
		default:
			buf.WriteString("# ")
			buf.WriteString(line)
		}
		buf.WriteByte('\n')
	}
}

// Reset deletes the given backing files and their lock files so the next
// load starts from schema defaults. Files that do not exist are skipped.
// It returns the backing files actually removed.
func Reset(paths ...string) ([]string, error) {
	var removed []string
	var errs []error
	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		switch err := os.Remove(path); {
		case err == nil:
			removed = append(removed, path)
		case !errors.Is(err, fs.ErrNotExist):
			errs = append(errs, Wrap(ErrStorageUnwritable, "reset", path, err))
		}
		if err := os.Remove(path + ".lock"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, Wrap(ErrStorageUnwritable, "reset", path+".lock", err))
		}
	}
	return removed, errors.Join(errs...)
}
