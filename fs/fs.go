// Package fs resolves upload arguments on the local file system. Patterns
// support ** for recursive matching.
package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/humdesk"
)

// Expand resolves each argument to regular files. An argument naming an
// existing file is taken literally; anything else is matched as a glob.
// Results keep argument order, are sorted within a pattern and contain no
// duplicates. A pattern matching nothing is an error.
func Expand(patterns ...string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil {
			if info.IsDir() {
				return nil, fmt.Errorf("%s is a directory: %w", pattern, humdesk.ErrValidation)
			}
			add(filepath.Clean(pattern))
			continue
		}

		matches, err := glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s: %w", pattern, humdesk.ErrValidation)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func glob(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("invalid glob pattern %s: %w", pattern, humdesk.ErrValidation)
	}
	base, rest := doublestar.SplitPattern(slashed)

	var matches []string
	err := doublestar.GlobWalk(os.DirFS(filepath.FromSlash(base)), rest, func(p string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.FromSlash(path.Join(base, p)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("match %s: %w", pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

// Files is a set of opened upload sources. Close releases them.
type Files []humdesk.UploadFile

// Open opens every path for upload. Names are base names; sizes come from
// the file system so uploads report progress.
func Open(paths ...string) (Files, error) {
	files := make(Files, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			_ = files.Close()
			return nil, fmt.Errorf("open: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			_ = files.Close()
			return nil, fmt.Errorf("stat: %w", err)
		}
		files = append(files, humdesk.UploadFile{
			Name: filepath.Base(p),
			Body: f,
			Size: info.Size(),
		})
	}
	return files, nil
}

// Resolve expands patterns and opens the matching files.
func Resolve(patterns ...string) (Files, error) {
	paths, err := Expand(patterns...)
	if err != nil {
		return nil, err
	}
	return Open(paths...)
}

// Close closes every body that is an io.Closer.
func (fs Files) Close() error {
	var errs []error
	for _, f := range fs {
		if c, ok := f.Body.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
