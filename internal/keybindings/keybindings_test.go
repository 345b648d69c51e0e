package keybindings_test

import (
	"strings"
	"testing"

	"expyvr/internal/keybindings"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ctrl-s", "Ctrl+S"},
		{"Cmd+O", "Ctrl+O"},
		{"ctrl+shift+z", "Ctrl+Shift+Z"},
		{"ALT-F4", "Alt+F4"},
		{"F5", "F5"},
		{"Ctrl+.", "Ctrl+."},
		{"ctrl+home", "Ctrl+Home"},
		{" shift-tab ", "Shift+Tab"},
	}
	for _, tt := range tests {
		got, err := keybindings.Normalize(tt.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, in := range []string{"", "S", "Ctrl+Space", "Meta+S", "Ctrl+SS"} {
		if got, err := keybindings.Normalize(in); err == nil {
			t.Fatalf("Normalize(%q) = %q, expected error", in, got)
		}
	}
}

var defaults = map[string]string{
	"open":               "Ctrl+O",
	"save":               "Ctrl+S",
	"quit":               "Ctrl+Q",
	"switchToBuilder":    "Ctrl+L",
	"switchToController": "Ctrl+L",
}

func TestResolveMergesUserBindings(t *testing.T) {
	got, problems := keybindings.Resolve(map[string]string{"open": "cmd-p", "save": "ctrl-s"}, defaults)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if got["open"] != "Ctrl+P" {
		t.Fatalf("open = %q, want Ctrl+P", got["open"])
	}
	if got["quit"] != "Ctrl+Q" {
		t.Fatalf("quit = %q, want default", got["quit"])
	}
	if len(got) != len(defaults) {
		t.Fatalf("expected %d bindings, got %d", len(defaults), len(got))
	}
}

func TestResolveBadComboFallsBackPerItem(t *testing.T) {
	got, problems := keybindings.Resolve(map[string]string{"open": "banana", "save": "Ctrl+Shift+S"}, defaults)
	if len(problems) != 1 || problems[0].Reason != keybindings.ReasonBadCombo || problems[0].Item != "open" {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if got["open"] != "Ctrl+O" {
		t.Fatalf("open = %q, want default", got["open"])
	}
	if got["save"] != "Ctrl+Shift+S" {
		t.Fatalf("save = %q, want user value kept", got["save"])
	}
}

func TestResolveDuplicateUsesDefaults(t *testing.T) {
	got, problems := keybindings.Resolve(map[string]string{"open": "Ctrl+Q", "quit": "ctrl-q"}, defaults)
	if len(problems) != 1 || problems[0].Reason != keybindings.ReasonDuplicate {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if got["open"] != "Ctrl+O" || got["quit"] != "Ctrl+Q" {
		t.Fatalf("expected defaults, got %v", got)
	}
}

func TestResolveAllowsSharedSwitchBinding(t *testing.T) {
	got, problems := keybindings.Resolve(map[string]string{
		"switchToBuilder":    "Ctrl+K",
		"switchToController": "ctrl-k",
	}, defaults)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if got["switchToBuilder"] != "Ctrl+K" || got["switchToController"] != "Ctrl+K" {
		t.Fatalf("unexpected bindings: %v", got)
	}
}

func TestResolveUnknownItemUsesDefaults(t *testing.T) {
	got, problems := keybindings.Resolve(map[string]string{"open": "Ctrl+P", "teleport": "Ctrl+T"}, defaults)
	if len(problems) != 1 || problems[0].Reason != keybindings.ReasonUnknownItem {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if !strings.Contains(problems[0].String(), "teleport") {
		t.Fatalf("problem text should name the item: %s", problems[0])
	}
	if got["open"] != "Ctrl+O" {
		t.Fatalf("open = %q, want default after unknown item", got["open"])
	}
	if _, ok := got["teleport"]; ok {
		t.Fatal("unknown item must not be kept")
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := keybindings.Encode(map[string]string{"open": "Ctrl+O", "stopExp": "Ctrl+."}, "derived file\ndo not edit")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(data), "# derived file\n# do not edit\n") {
		t.Fatalf("missing header: %q", data)
	}
	got, err := keybindings.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got["stopExp"] != "Ctrl+." {
		t.Fatalf("stopExp = %q", got["stopExp"])
	}
}
