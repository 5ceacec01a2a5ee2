package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootMarkers identify the root of a site, in order of precedence within a
// single directory.
var rootMarkers = []string{ConfigFile, "_config.yml", "_posts", ".git"}

// FindRoot looks upwards from startDir for a site root and returns its
// absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range rootMarkers {
			if hasFile(dir, marker) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no site root found above %s", abs)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
