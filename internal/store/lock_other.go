//go:build !unix

package store

import "os"

// Without flock only the in-process lock applies.
func tryFlock(f *os.File, exclusive bool) (bool, error) {
	return true, nil
}

func unflock(f *os.File) error {
	return nil
}
