//go:build windows

package platform

import (
	"os"

	"golang.org/x/sys/windows"
)

func roamingAppData() string {
	if dir, err := windows.KnownFolderPath(windows.FOLDERID_RoamingAppData, 0); err == nil && dir != "" {
		return dir
	}
	return os.Getenv("APPDATA")
}

func userEnvVar() string {
	return "USERNAME"
}
