// Package configspec parses and evaluates ExpyVR schema ("spec") files.
//
// A schema is a TOML document that mirrors the layout of the configuration
// file it describes: tables declare sections and every leaf is a check
// expression such as
//
//	units = "option('norm', 'cm', 'deg', 'pix', default='norm')"
//	maxRecentFiles = "integer(1, 30, default=10)"
//	winSize = "int_list(min=2, max=2, default=list(800, 600))"
//
// ParseCheck turns an expression into a Check; Check.Coerce converts a raw
// value read from a configuration file into the declared type and enforces
// declared bounds. Schemas are read-only: nothing in this package writes a
// configuration document.
package configspec
