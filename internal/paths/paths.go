package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"expyvr/internal/platform"
)

// Logical path names.
const (
	InstallDir      = "installDir"
	AppDir          = "appDir"
	AppFile         = "appFile"
	Resources       = "resources"
	PrefsSpecFile   = "prefsSpecFile"
	AppDataSpecFile = "appDataSpecFile"
	UserPrefsDir    = "userPrefsDir"
	DefaultSavePath = "defaultSavePath"
	TmpDir          = "tmpDir"

	UserPrefsFile   = "userPrefsFile"
	AppDataFile     = "appDataFile"
	KeyBindingsFile = "keyBindingsFile"
)

const appName = "expyvr"

// Set maps logical names to absolute paths.
type Set map[string]string

// Resolve computes the path set for env. Only directory existence is
// inspected; nothing is created.
func Resolve(env platform.Env) (Set, error) {
	install := strings.TrimSpace(env.InstallDir)
	if install == "" {
		return nil, errors.New("resolve paths: install directory is not set")
	}
	install, err := filepath.Abs(install)
	if err != nil {
		return nil, fmt.Errorf("resolve install directory: %w", err)
	}

	appDir := filepath.Join(install, "app")
	resources := appDir
	if info, err := os.Stat(filepath.Join(appDir, "resources")); err == nil && info.IsDir() {
		resources = filepath.Join(appDir, "resources")
	}
	appFile := filepath.Join(appDir, appName)
	if env.IsWindows() {
		appFile += ".exe"
	}

	set := Set{
		InstallDir:      install,
		AppDir:          appDir,
		AppFile:         appFile,
		Resources:       resources,
		PrefsSpecFile:   filepath.Join(install, "preferences", env.SystemName()+".spec"),
		AppDataSpecFile: filepath.Join(appDir, "appData.spec"),
		TmpDir:          env.TempDir,
	}

	if env.IsWindows() {
		if strings.TrimSpace(env.AppData) == "" {
			return nil, errors.New("resolve paths: roaming application data directory (APPDATA) is not set")
		}
		set[UserPrefsDir] = filepath.Join(env.AppData, appName)
		set[DefaultSavePath] = env.UserProfile
	} else {
		if strings.TrimSpace(env.Home) == "" {
			return nil, errors.New("resolve paths: home directory is not set")
		}
		set[UserPrefsDir] = filepath.Join(env.Home, "."+appName)
		set[DefaultSavePath] = env.Home
	}
	if strings.TrimSpace(set[TmpDir]) == "" {
		return nil, errors.New("resolve paths: temporary directory is not set")
	}
	return set, nil
}

// Get returns the path registered under name.
func (s Set) Get(name string) (string, bool) {
	p, ok := s[name]
	return p, ok
}

// Add registers a derived path. Existing entries are never replaced; the
// return value reports whether name was added.
func (s Set) Add(name, path string) bool {
	if _, exists := s[name]; exists {
		return false
	}
	s[name] = path
	return true
}

// Names returns the registered names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
