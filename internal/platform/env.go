package platform

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// Env describes the host the application runs on.
type Env struct {
	GOOS        string
	User        string
	Home        string
	AppData     string
	UserProfile string
	InstallDir  string
	TempDir     string
	Getenv      func(string) string
}

// SystemName returns the platform family name used for per-platform schema
// files, e.g. "Windows", "Darwin", "Linux".
func (e Env) SystemName() string {
	switch e.GOOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	case "":
		return "Unknown"
	}
	return strings.ToUpper(e.GOOS[:1]) + e.GOOS[1:]
}

// IsWindows reports whether the environment is a Windows host.
func (e Env) IsWindows() bool {
	return e.GOOS == "windows"
}

// Lookup reads an environment variable through Getenv; a nil Getenv behaves
// like an empty environment.
func (e Env) Lookup(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// Detect builds an Env from the running process.
//
// The install directory comes from EXPYVR_HOME when set, otherwise from the
// directory holding the executable.
func Detect() (Env, error) {
	env := Env{
		GOOS:        runtime.GOOS,
		TempDir:     os.TempDir(),
		UserProfile: os.Getenv("USERPROFILE"),
		AppData:     roamingAppData(),
		Getenv:      os.Getenv,
	}

	env.User = strings.TrimSpace(os.Getenv(userEnvVar()))
	if env.User == "" {
		if current, err := user.Current(); err == nil {
			env.User = current.Username
		}
	}

	home, err := os.UserHomeDir()
	if err != nil && !env.IsWindows() {
		return Env{}, fmt.Errorf("resolve home directory: %w", err)
	}
	env.Home = home

	install, err := detectInstallDir()
	if err != nil {
		return Env{}, err
	}
	env.InstallDir = install
	return env, nil
}

func detectInstallDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("EXPYVR_HOME")); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve EXPYVR_HOME %q: %w", dir, err)
		}
		return abs, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ErrNotWritable is returned by Writable when a directory exists but the
// current user cannot create files in it.
var ErrNotWritable = errors.New("directory is not writable")
