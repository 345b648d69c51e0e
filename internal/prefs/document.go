package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"expyvr/internal/configspec"
	"expyvr/internal/fileutil"
	"expyvr/internal/logging"
	"expyvr/internal/platform"
)

// Document is one configuration file held in memory together with the
// schema it is validated against.
type Document struct {
	Name           string
	Path           string
	Schema         *configspec.Schema
	Data           map[string]any
	InitialComment []string
	FinalComment   []string
	// StorageErr is non-nil when the directory holding Path could not be
	// created or is not writable. It wraps ErrStorageUnwritable.
	StorageErr error
	// Report is the outcome of the most recent validation pass.
	Report Report
}

// LoadOptions tunes LoadDocument.
type LoadOptions struct {
	// Name labels the document in log records; defaults to the file's base name.
	Name string
	// Copy fills schema defaults into the document at load time.
	Copy           bool
	InitialComment []string
	FinalComment   []string
	Logger         *slog.Logger
}

// LoadDocument reads the schema at schemaPath and the document at dataPath.
//
// A missing or unparseable schema is returned as ErrPackaging with no
// document. Everything else is recovered from: a missing data file yields
// an empty document holding only the declared sections, a malformed one is
// backed up to dataPath+".bak" and treated as missing, and a directory that
// cannot be created is recorded in Document.StorageErr without logging;
// callers sharing a directory report it once.
func LoadDocument(schemaPath, dataPath string, opts LoadOptions) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	name := opts.Name
	if name == "" {
		name = filepath.Base(dataPath)
	}
	logger = logger.With(logging.String(logging.FieldDocument, name))

	schema, err := configspec.Load(schemaPath)
	if err != nil {
		return nil, Wrap(ErrPackaging, "load schema", schemaPath, err)
	}

	doc := &Document{
		Name:           name,
		Path:           dataPath,
		Schema:         schema,
		InitialComment: slices.Clone(opts.InitialComment),
		FinalComment:   slices.Clone(opts.FinalComment),
	}

	dir := filepath.Dir(dataPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		doc.StorageErr = Wrap(ErrStorageUnwritable, "create directory", dir, err)
	} else if err := platform.Writable(dir); err != nil {
		doc.StorageErr = Wrap(ErrStorageUnwritable, "check directory", dir, err)
	}

	doc.Data = readData(dataPath, schema, logger)

	if opts.Copy {
		repaired, _ := ValidateAndRepair(doc, logger)
		return repaired, nil
	}
	return doc, nil
}

func readData(path string, schema *configspec.Schema, logger *slog.Logger) map[string]any {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("configuration file not found; using defaults", logging.String(logging.FieldPath, path))
		return schema.Skeleton()
	}
	if err != nil {
		logging.WarnWithContext(logger, "configuration file unreadable; using defaults",
			"config_unreadable",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return schema.Skeleton()
	}

	data := map[string]any{}
	if err := toml.Unmarshal(raw, &data); err != nil {
		backup := path + ".bak"
		attrs := []logging.Attr{
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix or remove the file; a copy was kept at "+backup),
			logging.String(logging.FieldImpact, "settings from this file are ignored"),
		}
		if copyErr := fileutil.CopyFileVerified(path, backup); copyErr != nil {
			attrs = append(attrs, logging.String("backup_error", copyErr.Error()))
		}
		logging.WarnWithContext(logger, "configuration file is malformed; using defaults", "config_malformed", attrs...)
		return schema.Skeleton()
	}
	return data
}

// Clone returns a deep copy of doc.
func (d *Document) Clone() *Document {
	out := *d
	out.Data, _ = configspec.CloneValue(d.Data).(map[string]any)
	if out.Data == nil {
		out.Data = map[string]any{}
	}
	out.InitialComment = slices.Clone(d.InitialComment)
	out.FinalComment = slices.Clone(d.FinalComment)
	out.Report = Report{
		Found:      Result{Discrepancies: slices.Clone(d.Report.Found.Discrepancies)},
		Unresolved: slices.Clone(d.Report.Unresolved),
	}
	return &out
}

// Section returns the table at path, or false when any part of it is
// absent or not a table.
func (d *Document) Section(path ...string) (map[string]any, bool) {
	return lookupSection(d.Data, path)
}

// Lookup returns the value at a dotted location such as "general.units".
// A location naming a section returns the section table.
func (d *Document) Lookup(dotted string) (any, bool) {
	path, key, err := splitDotted(dotted)
	if err != nil {
		return nil, false
	}
	sec, ok := lookupSection(d.Data, path)
	if !ok {
		return nil, false
	}
	value, ok := sec[key]
	return value, ok
}

// SetValue parses raw as a TOML value, converts it through the schema check
// for the location and stores it. Missing sections along the way are
// created. Undeclared keys are rejected.
func (d *Document) SetValue(dotted, raw string) error {
	path, key, err := splitDotted(dotted)
	if err != nil {
		return Wrap(ErrValidation, "set", dotted, err)
	}
	check, ok := d.Schema.Check(path, key)
	if !ok {
		return Wrap(ErrValidation, "set", fmt.Sprintf("%s is not declared in %s", dotted, d.Schema.Path), nil)
	}
	value, err := check.Coerce(parseRaw(check, raw))
	if err != nil {
		return Wrap(ErrValidation, "set", dotted, err)
	}

	sec := d.Data
	for _, name := range path {
		next, ok := sec[name].(map[string]any)
		if !ok {
			next = map[string]any{}
			sec[name] = next
		}
		sec = next
	}
	sec[key] = value
	return nil
}

func parseRaw(check configspec.Check, raw string) any {
	trimmed := strings.TrimSpace(raw)
	var parsed struct {
		V any `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+trimmed), &parsed); err != nil || parsed.V == nil {
		return raw
	}
	switch check.Kind {
	case configspec.KindString, configspec.KindOption, configspec.KindIPAddr:
		if _, isString := parsed.V.(string); !isString {
			return raw
		}
	}
	return parsed.V
}

func splitDotted(dotted string) ([]string, string, error) {
	parts := strings.Split(strings.TrimSpace(dotted), ".")
	for _, p := range parts {
		if p == "" {
			return nil, "", fmt.Errorf("invalid location %q", dotted)
		}
	}
	return parts[:len(parts)-1], parts[len(parts)-1], nil
}

func lookupSection(data map[string]any, path []string) (map[string]any, bool) {
	sec := data
	for _, name := range path {
		next, ok := sec[name].(map[string]any)
		if !ok {
			return nil, false
		}
		sec = next
	}
	return sec, sec != nil
}

// adopt replaces dst's contents with src's while keeping every table that
// exists in both at the same identity, so references handed out earlier
// observe the new values.
func adopt(dst, src *Document) {
	dst.Data = mergeInto(dst.Data, src.Data)
	dst.Schema = src.Schema
	dst.StorageErr = src.StorageErr
	dst.Report = src.Report
}

func mergeInto(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for key := range dst {
		if _, ok := src[key]; !ok {
			delete(dst, key)
		}
	}
	for key, value := range src {
		srcTable, srcIsTable := value.(map[string]any)
		dstTable, dstIsTable := dst[key].(map[string]any)
		if srcIsTable && dstIsTable {
			dst[key] = mergeInto(dstTable, srcTable)
			continue
		}
		dst[key] = configspec.CloneValue(value)
	}
	return dst
}

// SortedKeys returns the keys of a table in order.
func SortedKeys(table map[string]any) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
