//go:build unix

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Writable reports whether files can be created in dir.
func Writable(dir string) error {
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	return nil
}
