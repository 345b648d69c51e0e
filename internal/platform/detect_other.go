//go:build !windows

package platform

import "os"

func roamingAppData() string {
	return os.Getenv("APPDATA")
}

func userEnvVar() string {
	return "USER"
}
