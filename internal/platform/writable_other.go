//go:build !unix

package platform

import (
	"fmt"
	"os"
)

// Writable reports whether files can be created in dir by creating and
// removing a scratch file.
func Writable(dir string) error {
	scratch, err := os.CreateTemp(dir, ".expyvr-write-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := scratch.Name()
	_ = scratch.Close()
	_ = os.Remove(name)
	return nil
}
