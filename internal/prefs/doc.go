// Package prefs loads, validates, repairs and saves the two ExpyVR
// configuration documents: the user preferences (userPrefs.cfg) and the
// application runtime data (appData.cfg).
//
// Each document is checked against a schema from the install tree. Values
// that are missing or fail their check are replaced with the schema default
// and logged at info level; they are never returned as errors. Only two
// conditions reach callers: a missing or broken schema (ErrPackaging), and
// a preferences directory that cannot be written (ErrStorageUnwritable),
// which leaves the documents usable in memory.
//
// Manager ties the documents to the resolved path set and exposes the
// simplified namespace used by the rest of the application.
package prefs
