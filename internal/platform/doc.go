// Package platform captures the host facts ExpyVR needs to locate its files.
//
// Env is a plain value: operating-system family, active user, home and
// roaming application-data directories, install location, temp directory and
// an environment lookup. Detect is the only function that reads ambient
// process state; everything downstream receives an Env so tests can simulate
// Windows, macOS and Linux hosts from any machine.
package platform
