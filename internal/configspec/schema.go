package configspec

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Section is one table of a schema.
type Section struct {
	Keys     map[string]Check
	Sections map[string]*Section
}

// KeyNames returns the declared keys in sorted order.
func (s *Section) KeyNames() []string {
	names := make([]string, 0, len(s.Keys))
	for name := range s.Keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SectionNames returns the declared sub-sections in sorted order.
func (s *Section) SectionNames() []string {
	names := make([]string, 0, len(s.Sections))
	for name := range s.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema is a parsed spec file.
type Schema struct {
	Path string
	Root *Section
}

// Load reads and parses the schema at path. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	schema, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	schema.Path = path
	return schema, nil
}

// Parse builds a schema from TOML source.
func Parse(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	root, err := buildSection(raw, nil)
	if err != nil {
		return nil, err
	}
	return &Schema{Root: root}, nil
}

func buildSection(raw map[string]any, path []string) (*Section, error) {
	sec := &Section{Keys: map[string]Check{}, Sections: map[string]*Section{}}
	for name, value := range raw {
		switch v := value.(type) {
		case map[string]any:
			child, err := buildSection(v, append(append([]string{}, path...), name))
			if err != nil {
				return nil, err
			}
			sec.Sections[name] = child
		case string:
			check, err := ParseCheck(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", dotted(path, name), err)
			}
			sec.Keys[name] = check
		default:
			return nil, fmt.Errorf("%s: check must be a string, got %T", dotted(path, name), value)
		}
	}
	return sec, nil
}

func dotted(path []string, key string) string {
	if len(path) == 0 {
		return key
	}
	return strings.Join(path, ".") + "." + key
}

// Section returns the schema section at path; an empty path is the root.
func (s *Schema) Section(path []string) (*Section, bool) {
	sec := s.Root
	for _, name := range path {
		next, ok := sec.Sections[name]
		if !ok {
			return nil, false
		}
		sec = next
	}
	return sec, true
}

// Check returns the check declared for key inside the section at path.
func (s *Schema) Check(path []string, key string) (Check, bool) {
	sec, ok := s.Section(path)
	if !ok {
		return Check{}, false
	}
	check, ok := sec.Keys[key]
	return check, ok
}

// Defaults returns the all-defaults document: every declared section and
// every key that declares a default.
func (s *Schema) Defaults() map[string]any {
	return fillSection(s.Root, true)
}

// Skeleton returns every declared section as an empty table.
func (s *Schema) Skeleton() map[string]any {
	return fillSection(s.Root, false)
}

func fillSection(sec *Section, withDefaults bool) map[string]any {
	out := make(map[string]any, len(sec.Keys)+len(sec.Sections))
	if withDefaults {
		for name, check := range sec.Keys {
			if check.HasDefault {
				out[name] = CloneValue(check.Default)
			}
		}
	}
	for name, child := range sec.Sections {
		out[name] = fillSection(child, withDefaults)
	}
	return out
}
