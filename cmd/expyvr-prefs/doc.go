// Package main hosts the expyvr-prefs CLI, a command-line front end for the
// ExpyVR preferences manager.
//
// Commands inspect the resolved path set, print and edit user preferences
// and application data, report what validation repaired, and reset or
// re-install the bundled schemas. Loading and repair live in internal/prefs;
// this package only resolves flags, builds the manager once per invocation
// and renders results.
package main
