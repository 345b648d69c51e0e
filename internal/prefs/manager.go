package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"expyvr/internal/keybindings"
	"expyvr/internal/logging"
	"expyvr/internal/paths"
	"expyvr/internal/platform"
)

const (
	userPrefsFileName   = "userPrefs.cfg"
	appDataFileName     = "appData.cfg"
	keyBindingsFileName = "keyBindings.cfg"

	sectionGeneral     = "general"
	sectionKeyBindings = "keyBindings"
)

// Options configures a Manager.
type Options struct {
	Env    platform.Env
	Logger *slog.Logger
}

// Manager owns the user preferences and application data documents for
// one process.
type Manager struct {
	env       platform.Env
	logger    *slog.Logger
	paths     paths.Set
	userPrefs *Document
	appData   *Document
	keys      map[string]string
	keyIssues []keybindings.Problem

	storageWarned bool
}

// New resolves the path set for opts.Env and loads, validates and repairs
// both documents. It fails only when paths cannot be resolved or a schema is
// missing (ErrPackaging); an unwritable preferences directory is reported by
// StorageError instead.
func New(opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	set, err := paths.Resolve(opts.Env)
	if err != nil {
		return nil, fmt.Errorf("resolve paths: %w", err)
	}
	dir := set[paths.UserPrefsDir]
	set.Add(paths.UserPrefsFile, filepath.Join(dir, userPrefsFileName))
	set.Add(paths.AppDataFile, filepath.Join(dir, appDataFileName))
	set.Add(paths.KeyBindingsFile, filepath.Join(dir, keyBindingsFileName))

	m := &Manager{
		env:    opts.Env,
		logger: logging.NewComponentLogger(logger, "prefs"),
		paths:  set,
	}
	if err := m.loadAll(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) loadAll() error {
	userPrefs, err := m.loadUserPrefs()
	if err != nil {
		return err
	}
	appData, err := LoadDocument(m.paths[paths.AppDataSpecFile], m.paths[paths.AppDataFile], LoadOptions{
		Name:   "appData",
		Copy:   true,
		Logger: m.logger,
	})
	if err != nil {
		return err
	}

	if m.appData == nil {
		m.appData = appData
	} else {
		adopt(m.appData, appData)
	}
	if m.userPrefs == nil {
		m.userPrefs = userPrefs
	} else {
		adopt(m.userPrefs, userPrefs)
	}
	m.warnStorage()
	m.Validate()
	return nil
}

// warnStorage logs the first storage failure seen by this manager. Both
// documents live in the same directory, so later loads stay quiet.
func (m *Manager) warnStorage() {
	err := m.StorageError()
	if err == nil || m.storageWarned {
		return
	}
	m.storageWarned = true
	logging.WarnWithContext(m.logger, "preferences directory unavailable; settings are read-only",
		"storage_unwritable",
		logging.String(logging.FieldPath, m.paths[paths.UserPrefsDir]),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions on the preferences directory"),
		logging.String(logging.FieldImpact, "changes cannot be saved"),
	)
}

func (m *Manager) loadUserPrefs() (*Document, error) {
	file := m.paths[paths.UserPrefsFile]
	return LoadDocument(m.paths[paths.PrefsSpecFile], file, LoadOptions{
		Name: "userPrefs",
		InitialComment: []string{
			"###",
			fmt.Sprintf("###     USER PREFERENCES for '%s'", m.env.User),
			"###    ---------------------------------------------------------------------",
			"",
		},
		FinalComment: []string{"", "", fmt.Sprintf("### [this page is stored at %s]", file)},
		Logger:       m.logger,
	})
}

// Validate re-validates the user preferences and repairs them in place.
// Tables previously returned by General or UserPrefs stay live.
func (m *Manager) Validate() Report {
	repaired, report := ValidateAndRepair(m.userPrefs, m.logger)
	adopt(m.userPrefs, repaired)
	m.applyKeyBindings()
	return report
}

func (m *Manager) applyKeyBindings() {
	defaults := map[string]string{}
	if sec, ok := m.userPrefs.Schema.Section([]string{sectionKeyBindings}); ok {
		for item, check := range sec.Keys {
			if s, ok := check.Default.(string); ok && check.HasDefault {
				defaults[item] = s
			}
		}
	}
	bindings := map[string]string{}
	if sec, ok := m.userPrefs.Section(sectionKeyBindings); ok {
		for item, value := range sec {
			bindings[item] = fmt.Sprint(value)
		}
	} else {
		bindings = m.readKeyBindingsFile()
	}

	m.keys, m.keyIssues = keybindings.Resolve(bindings, defaults)
	for _, problem := range m.keyIssues {
		m.logger.Info("key binding ignored",
			logging.String(logging.FieldKey, problem.Item),
			logging.String("binding", problem.Binding),
			logging.String("reason", string(problem.Reason)),
		)
	}
}

// readKeyBindingsFile returns the bindings last written to keyBindings.cfg.
// It is consulted only when the user preferences have no [keyBindings]
// section, so a userPrefs.cfg edited by hand does not lose the bindings.
func (m *Manager) readKeyBindingsFile() map[string]string {
	file := m.paths[paths.KeyBindingsFile]
	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Debug("key bindings file unreadable", logging.String(logging.FieldPath, file), logging.Error(err))
		}
		return map[string]string{}
	}
	bindings, err := keybindings.Decode(data)
	if err != nil {
		logging.WarnWithContext(m.logger, "key bindings file invalid; using defaults",
			"keybindings_invalid",
			logging.String(logging.FieldPath, file),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file or save the preferences again"),
			logging.String(logging.FieldImpact, "default key bindings are used"),
		)
		return map[string]string{}
	}
	m.logger.Debug("key bindings read from derived file", logging.String(logging.FieldPath, file))
	return bindings
}

// General returns the live [general] table of the user preferences.
func (m *Manager) General() map[string]any {
	sec, _ := m.userPrefs.Section(sectionGeneral)
	return sec
}

// KeyBindings returns the normalised key bindings.
func (m *Manager) KeyBindings() map[string]string {
	return maps.Clone(m.keys)
}

// KeyBindingProblems returns the bindings discarded by the last validation.
func (m *Manager) KeyBindingProblems() []keybindings.Problem {
	return append([]keybindings.Problem(nil), m.keyIssues...)
}

func (m *Manager) AppData() *Document   { return m.appData }
func (m *Manager) UserPrefs() *Document { return m.userPrefs }

// Paths returns a copy of the resolved path set.
func (m *Manager) Paths() paths.Set {
	return maps.Clone(m.paths)
}

// Get reads a dotted location from the user preferences.
func (m *Manager) Get(dotted string) (any, bool) {
	return m.userPrefs.Lookup(dotted)
}

// Set stores raw at a dotted location of the user preferences after
// converting it through the schema check. Nothing is written to disk.
func (m *Manager) Set(dotted, raw string) error {
	if err := m.userPrefs.SetValue(dotted, raw); err != nil {
		return err
	}
	m.applyKeyBindings()
	return nil
}

// SaveUserPrefs writes the user preferences and the derived key-bindings
// file.
func (m *Manager) SaveUserPrefs() error {
	if err := Save(m.userPrefs, m.logger); err != nil {
		return err
	}
	m.applyKeyBindings()

	file := m.paths[paths.KeyBindingsFile]
	data, err := keybindings.Encode(m.keys, "key bindings derived from "+userPrefsFileName+"; regenerated on save")
	if err != nil {
		return Wrap(ErrValidation, "encode key bindings", file, err)
	}
	if err := writeLocked(file, data); err != nil {
		return Wrap(ErrStorageUnwritable, "write key bindings", file, err)
	}
	return nil
}

// SaveAppData writes the application data document.
func (m *Manager) SaveAppData() error {
	return Save(m.appData, m.logger)
}

// ResetUserPrefs deletes the user preferences and the derived key-bindings
// file, then reloads the user preferences from schema defaults.
func (m *Manager) ResetUserPrefs() ([]string, error) {
	removed, err := Reset(m.paths[paths.UserPrefsFile], m.paths[paths.KeyBindingsFile])
	if err != nil {
		return removed, err
	}
	m.logger.Info("user preferences reset to defaults", logging.Int("files_removed", len(removed)))

	userPrefs, err := m.loadUserPrefs()
	if err != nil {
		return removed, err
	}
	adopt(m.userPrefs, userPrefs)
	m.warnStorage()
	m.Validate()
	return removed, nil
}

// Reload discards in-memory changes and reads both documents again.
func (m *Manager) Reload() error {
	return m.loadAll()
}

// StorageError returns the reason the preferences directory is read-only,
// or nil.
func (m *Manager) StorageError() error {
	if m.userPrefs.StorageErr != nil {
		return m.userPrefs.StorageErr
	}
	return m.appData.StorageErr
}

// ReadOnly reports whether saves are expected to fail.
func (m *Manager) ReadOnly() bool {
	return m.StorageError() != nil
}

// AutoProxy returns the HTTP proxy configured in the environment, or "".
func (m *Manager) AutoProxy() string {
	return AutoProxy(m.env.Lookup)
}
