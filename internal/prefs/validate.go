package prefs

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"expyvr/internal/configspec"
	"expyvr/internal/logging"
)

// Kind classifies a discrepancy between a document and its schema.
type Kind string

const (
	KindMissing        Kind = "missing"
	KindWrongType      Kind = "wrong_type"
	KindOutOfRange     Kind = "out_of_range"
	KindNotOption      Kind = "not_option"
	KindCoerced        Kind = "coerced"
	KindSectionMissing Kind = "section_missing"
)

// Discrepancy is one location that does not satisfy the schema. Key is nil
// when a whole declared section is absent. For KindCoerced, Value holds the
// converted value; otherwise it holds the value found in the document.
type Discrepancy struct {
	Path   []string
	Key    *string
	Kind   Kind
	Value  any
	Detail string
}

// Location renders the discrepancy as "section.key" or "[section]".
func (d Discrepancy) Location() string {
	section := strings.Join(d.Path, ".")
	if d.Key == nil {
		return "[" + section + "]"
	}
	if section == "" {
		return *d.Key
	}
	return section + "." + *d.Key
}

// Result lists every discrepancy found by Validate, in schema order.
type Result struct {
	Discrepancies []Discrepancy
}

// OK reports whether the document matched its schema everywhere.
func (r Result) OK() bool {
	return len(r.Discrepancies) == 0
}

// Keyed returns the discrepancies that name a key.
func (r Result) Keyed() []Discrepancy {
	var out []Discrepancy
	for _, d := range r.Discrepancies {
		if d.Key != nil {
			out = append(out, d)
		}
	}
	return out
}

// Report pairs what validation found with what repair could not fix.
type Report struct {
	Found      Result
	Unresolved []Discrepancy
}

// Repaired returns the number of discrepancies repair fixed.
func (r Report) Repaired() int {
	return len(r.Found.Discrepancies) - len(r.Unresolved)
}

// Validate walks the schema and checks every declared key of doc. All
// failures are collected. Sections missing from the document are reported
// once and not descended into; undeclared keys are ignored.
func Validate(doc *Document) Result {
	var out []Discrepancy
	walkSection(doc.Schema.Root, doc.Data, nil, &out)
	return Result{Discrepancies: out}
}

func walkSection(sec *configspec.Section, data map[string]any, path []string, out *[]Discrepancy) {
	for _, key := range sec.KeyNames() {
		check := sec.Keys[key]
		value, ok := data[key]
		if !ok {
			*out = append(*out, newDiscrepancy(path, key, KindMissing, nil, "not set"))
			continue
		}
		converted, err := check.Coerce(value)
		if err != nil {
			*out = append(*out, newDiscrepancy(path, key, failureKind(err), value, err.Error()))
			continue
		}
		if !reflect.DeepEqual(converted, value) {
			*out = append(*out, newDiscrepancy(path, key, KindCoerced, converted, "stored as "+string(check.Kind)))
		}
	}
	for _, name := range sec.SectionNames() {
		childPath := append(append([]string(nil), path...), name)
		raw, present := data[name]
		child, ok := raw.(map[string]any)
		if !ok {
			detail := "section missing"
			if present {
				detail = "not a table"
			}
			*out = append(*out, Discrepancy{Path: childPath, Kind: KindSectionMissing, Value: raw, Detail: detail})
			continue
		}
		walkSection(sec.Sections[name], child, childPath, out)
	}
}

func newDiscrepancy(path []string, key string, kind Kind, value any, detail string) Discrepancy {
	return Discrepancy{
		Path:   append([]string(nil), path...),
		Key:    &key,
		Kind:   kind,
		Value:  value,
		Detail: detail,
	}
}

func failureKind(err error) Kind {
	var checkErr *configspec.CheckError
	if !errors.As(err, &checkErr) {
		return KindWrongType
	}
	switch checkErr.Failure {
	case configspec.FailTooSmall, configspec.FailTooBig:
		return KindOutOfRange
	case configspec.FailNotOption:
		return KindNotOption
	default:
		return KindWrongType
	}
}

// Repair returns a copy of doc with every keyed discrepancy in result fixed:
// coerced values take their converted form and everything else takes the
// schema default. doc is not modified. Section-level discrepancies and keys
// without a default are returned as unresolved.
func Repair(doc *Document, result Result) (*Document, []Discrepancy) {
	out := doc.Clone()
	var unresolved []Discrepancy
	for _, d := range result.Discrepancies {
		if d.Key == nil {
			unresolved = append(unresolved, d)
			continue
		}
		sec, ok := lookupSection(out.Data, d.Path)
		if !ok {
			unresolved = append(unresolved, d)
			continue
		}
		if d.Kind == KindCoerced {
			sec[*d.Key] = configspec.CloneValue(d.Value)
			continue
		}
		check, ok := out.Schema.Check(d.Path, *d.Key)
		if !ok || !check.HasDefault {
			unresolved = append(unresolved, d)
			continue
		}
		sec[*d.Key] = configspec.CloneValue(check.Default)
	}
	return out, unresolved
}

// ValidateAndRepair validates doc, repairs it, and logs each repair at info
// level and each missing section at warn level. The returned document
// carries the report in its Report field.
func ValidateAndRepair(doc *Document, logger *slog.Logger) (*Document, Report) {
	if logger == nil {
		logger = logging.NewNop()
	}
	found := Validate(doc)
	repaired, unresolved := Repair(doc, found)

	skipped := make(map[string]struct{}, len(unresolved))
	for _, d := range unresolved {
		skipped[d.Location()] = struct{}{}
		if d.Key == nil {
			logging.WarnWithContext(logger, "section missing from configuration file",
				"section_missing",
				logging.String(logging.FieldSection, strings.Join(d.Path, ".")),
				logging.String(logging.FieldPath, doc.Path),
				logging.String("detail", d.Detail),
				logging.String(logging.FieldErrorHint, "save preferences to write the section with defaults"),
				logging.String(logging.FieldImpact, "section left unset"),
			)
			continue
		}
		logging.WarnWithContext(logger, "invalid preference has no default",
			"no_default",
			logging.String(logging.FieldSection, strings.Join(d.Path, ".")),
			logging.String(logging.FieldKey, *d.Key),
			logging.String("kind", string(d.Kind)),
			logging.String("detail", d.Detail),
		)
	}
	for _, d := range found.Discrepancies {
		if _, ok := skipped[d.Location()]; ok {
			continue
		}
		value, _ := repaired.Lookup(d.Location())
		logger.Info("preference repaired",
			logging.String(logging.FieldSection, strings.Join(d.Path, ".")),
			logging.String(logging.FieldKey, *d.Key),
			logging.String("kind", string(d.Kind)),
			logging.String("detail", d.Detail),
			logging.Any("value", value),
		)
	}

	report := Report{Found: found, Unresolved: unresolved}
	repaired.Report = report
	return repaired, report
}
