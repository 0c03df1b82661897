package main

import (
	"os"
	"path/filepath"
)

// dataDirPath holds the directory settings and logs live in. It resolves
// relative to the executable so the viewer behaves the same regardless of
// the current working directory.
var dataDirPath = func() string {
	if exe, err := os.Executable(); err == nil {
		if dir, err := filepath.Abs(filepath.Dir(exe)); err == nil {
			return filepath.Join(dir, "data")
		}
	}
	// Fallback to relative path.
	return "data"
}()
