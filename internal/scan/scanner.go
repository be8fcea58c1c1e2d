package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fsim/internal/models"
	"fsim/internal/similarity"
)

// ErrNotDirectory is returned when the scan root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// Scanner lists the files of a folder as FileEntry values
type Scanner struct {
	recursive  bool
	exclude    map[string]bool
	prefixes   []string
	progressFn func(scanned int, current string)
}

// Option configures a Scanner
type Option func(*Scanner)

// WithRecursive enables descending into subdirectories
func WithRecursive(recursive bool) Option {
	return func(s *Scanner) {
		s.recursive = recursive
	}
}

// WithExclude skips files with any of the given base names
func WithExclude(names ...string) Option {
	return func(s *Scanner) {
		for _, n := range names {
			if n != "" {
				s.exclude[n] = true
			}
		}
	}
}

// WithExcludePrefix skips files whose base name starts with any of the given prefixes
func WithExcludePrefix(prefixes ...string) Option {
	return func(s *Scanner) {
		for _, p := range prefixes {
			if p != "" {
				s.prefixes = append(s.prefixes, p)
			}
		}
	}
}

// WithProgress sets a progress callback
func WithProgress(fn func(scanned int, current string)) Option {
	return func(s *Scanner) {
		s.progressFn = fn
	}
}

// NewScanner creates a new Scanner
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		exclude: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the files of folder in lexical order.
// Keys are slash-separated paths relative to folder.
func (s *Scanner) Scan(folder string) ([]models.FileEntry, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("folder not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, folder)
	}

	if !s.recursive {
		return s.scanFlat(folder)
	}
	return s.scanTree(folder)
}

func (s *Scanner) scanFlat(folder string) ([]models.FileEntry, error) {
	dirEntries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var files []models.FileEntry
	for _, d := range dirEntries {
		if d.IsDir() || s.excluded(d.Name()) {
			continue
		}
		files = s.add(files, d.Name())
	}
	return files, nil
}

func (s *Scanner) scanTree(folder string) ([]models.FileEntry, error) {
	var files []models.FileEntry
	err := filepath.WalkDir(folder, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == folder {
				return err
			}
			// Skip unreadable subtrees
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || s.excluded(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(folder, p)
		if err != nil {
			return err
		}
		files = s.add(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk folder: %w", err)
	}
	return files, nil
}

func (s *Scanner) add(files []models.FileEntry, key string) []models.FileEntry {
	files = append(files, models.FileEntry{
		Key:         key,
		CompareName: similarity.CompareKey(path.Base(key)),
	})
	if s.progressFn != nil {
		s.progressFn(len(files), key)
	}
	return files
}

func (s *Scanner) excluded(name string) bool {
	if s.exclude[name] {
		return true
	}
	for _, p := range s.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
