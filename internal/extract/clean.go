package extract

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultArtifacts are the files intltool-update leaves behind.
var DefaultArtifacts = []string{"po/*.pot", "po/missing", "po/notexist", "po/.intltool-merge-cache"}

// Cleaner purges extraction artifacts from a working directory.
type Cleaner interface {
	Clean(dir string) error
}

// GlobCleaner removes every path matching its patterns, relative to the cleaned directory.
type GlobCleaner struct {
	Patterns []string
}

var _ Cleaner = (*GlobCleaner)(nil)

func NewGlobCleaner(patterns ...string) *GlobCleaner {
	if len(patterns) == 0 {
		patterns = DefaultArtifacts
	}

	return &GlobCleaner{Patterns: patterns}
}

func (c *GlobCleaner) Clean(dir string) error {
	var errs []error
	for _, pattern := range c.Patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, match := range matches {
			if err := os.RemoveAll(match); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}
