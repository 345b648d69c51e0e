// Package fileutil holds small file helpers shared by the preferences code:
// verified copies for backups, atomic replace-by-rename writes and advisory
// locking around writers.
package fileutil
