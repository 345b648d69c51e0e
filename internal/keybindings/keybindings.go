package keybindings

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	modifierPatterns = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`(?i)ctrl[+-]`), "Ctrl+"},
		{regexp.MustCompile(`(?i)cmd[+-]`), "Ctrl+"},
		{regexp.MustCompile(`(?i)shift[+-]`), "Shift+"},
		{regexp.MustCompile(`(?i)alt[+-]`), "Alt+"},
	}
	comboPattern = regexp.MustCompile(`(?i)^(F\d{1,2}|Ctrl\+|Alt\+|Shift\+)+(.|F\d{1,2}|Home|Tab)?$`)
)

// Reason explains why a binding was discarded.
type Reason string

const (
	ReasonBadCombo    Reason = "bad_combo"
	ReasonUnknownItem Reason = "unknown_item"
	ReasonDuplicate   Reason = "duplicate"
)

// Problem describes one discarded binding.
type Problem struct {
	Item    string
	Binding string
	Reason  Reason
}

func (p Problem) String() string {
	switch p.Reason {
	case ReasonUnknownItem:
		return fmt.Sprintf("unrecognized menu item %q", p.Item)
	case ReasonDuplicate:
		return fmt.Sprintf("duplicate key %s (menu item %s)", p.Binding, p.Item)
	default:
		return fmt.Sprintf("bad key %s (menu item %s)", p.Binding, p.Item)
	}
}

// Normalize rewrites combo into canonical form, for example "ctrl-shift-s"
// becomes "Ctrl+Shift+S" and "Cmd+O" becomes "Ctrl+O".
func Normalize(combo string) (string, error) {
	out := strings.TrimSpace(combo)
	if out == "" {
		return "", fmt.Errorf("empty key combination")
	}
	for _, p := range modifierPatterns {
		out = p.re.ReplaceAllString(out, p.repl)
	}
	caser := cases.Title(language.Und)
	parts := strings.Split(out, "+")
	for i, part := range parts {
		parts[i] = caser.String(part)
	}
	out = strings.Join(parts, "+")
	if !comboPattern.MatchString(out) {
		return "", fmt.Errorf("invalid key combination %q", combo)
	}
	return out, nil
}

// Resolve merges user bindings over defaults. A binding that does not
// normalise falls back to its default. An unknown menu item or a combo bound
// twice discards the user map entirely; only the "switchTo..." items may
// share a combo. Problems are returned sorted by item.
func Resolve(bindings, defaults map[string]string) (map[string]string, []Problem) {
	var problems []Problem
	resolved := make(map[string]string, len(defaults))
	useDefaults := false

	items := make([]string, 0, len(bindings))
	for item := range bindings {
		items = append(items, item)
	}
	sort.Strings(items)

	used := make(map[string]string, len(bindings))
	for _, item := range items {
		raw := bindings[item]
		if _, known := defaults[item]; !known {
			problems = append(problems, Problem{Item: item, Binding: raw, Reason: ReasonUnknownItem})
			useDefaults = true
			continue
		}
		combo, err := Normalize(raw)
		if err != nil {
			problems = append(problems, Problem{Item: item, Binding: raw, Reason: ReasonBadCombo})
			continue
		}
		if owner, taken := used[combo]; taken && !(isSwitch(item) && isSwitch(owner)) {
			problems = append(problems, Problem{Item: item, Binding: combo, Reason: ReasonDuplicate})
			useDefaults = true
			continue
		}
		used[combo] = item
		resolved[item] = combo
	}

	if useDefaults {
		resolved = make(map[string]string, len(defaults))
	}
	for item, def := range defaults {
		if _, ok := resolved[item]; ok {
			continue
		}
		if combo, err := Normalize(def); err == nil {
			resolved[item] = combo
		} else {
			resolved[item] = def
		}
	}
	return resolved, problems
}

func isSwitch(item string) bool {
	return strings.Contains(item, "switchTo")
}

// Encode renders bindings as the derived key-bindings file.
func Encode(bindings map[string]string, header string) ([]byte, error) {
	body, err := toml.Marshal(bindings)
	if err != nil {
		return nil, fmt.Errorf("encode key bindings: %w", err)
	}
	var buf bytes.Buffer
	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			buf.WriteString("# ")
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	buf.Write(body)
	return buf.Bytes(), nil
}

// Decode parses a derived key-bindings file.
func Decode(data []byte) (map[string]string, error) {
	out := map[string]string{}
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode key bindings: %w", err)
	}
	return out, nil
}
