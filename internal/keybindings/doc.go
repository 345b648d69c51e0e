// Package keybindings normalises and checks the menu shortcuts stored in
// the [keyBindings] section of the user preferences.
//
// Users type combos loosely ("ctrl-s", "cmd+shift+z"). Normalize rewrites
// them into the canonical "Ctrl+Shift+Z" form; Resolve merges a user map
// with the schema defaults and reports anything it had to discard.
package keybindings
