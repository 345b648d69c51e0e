// Package paths resolves the filesystem locations ExpyVR depends on.
//
// Resolve turns a platform.Env into a Set keyed by logical names such as
// UserPrefsDir or PrefsSpecFile. The set is computed once per process; Add
// lets the preferences loader register derived file paths without
// overwriting anything already resolved.
package paths
