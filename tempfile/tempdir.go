package tempfile

import (
	"fmt"
)

// ResolveDir returns the directory scratch files are written to.
// An empty dir means the current working directory. Any other directory is
// created if it does not exist yet.
func ResolveDir(fsys FS, dir string) (string, error) {
	if dir == "" {
		return ".", nil
	}
	if err := fsys.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("scratch dir %s: %w", dir, err)
	}
	return dir, nil
}
