// Package ignore parses ignore files that declare groups of files which must
// never be reported as similar to each other.
//
// An ignore file lists file keys one per line. A line containing exactly the
// separator closes the current group:
//
//	Report.txt
//	Report.pdf
//	--
//
// A trailing group that is not closed by a separator line is discarded.
package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// DefaultFileName is the ignore file looked up inside the scanned directory
const DefaultFileName = ".fsimignore"

// Map maps a file key to the keys it must never be paired with
type Map map[string][]string

// Ignores reports whether other is in key's ignore group
func (m Map) Ignores(key, other string) bool {
	for _, k := range m[key] {
		if k == other {
			return true
		}
	}
	return false
}

// Groups returns the distinct groups in the order their first member was declared.
// A key declared in several groups is only mapped to the last one.
func (m Map) Groups(order []string) [][]string {
	var groups [][]string
	seen := make(map[*string]bool)
	for _, key := range order {
		g, ok := m[key]
		if !ok || len(g) == 0 || seen[&g[0]] {
			continue
		}
		seen[&g[0]] = true
		groups = append(groups, g)
	}
	return groups
}

// Build parses ignore groups from lines
func Build(lines []string, separator string) Map {
	m, _ := build(lines, separator)
	return m
}

// build also returns the declared keys in order
func build(lines []string, separator string) (Map, []string) {
	m := make(Map)
	var order []string
	var current []string

	for _, line := range lines {
		clean := strings.TrimSpace(line)
		switch {
		case clean == separator:
			for _, key := range current {
				m[key] = current
			}
			current = nil
		case clean != "":
			current = append(current, clean)
			order = append(order, clean)
		}
	}

	return m, order
}

// Parse reads ignore groups from r
func Parse(r io.Reader, separator string) (Map, error) {
	m, _, err := parse(r, separator)
	return m, err
}

func parse(r io.Reader, separator string) (Map, []string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read ignore file: %w", err)
	}

	m, order := build(lines, separator)
	return m, order, nil
}

// Load reads an ignore file. An empty path or a missing file yields an empty map.
func Load(path, separator string) (Map, error) {
	m, _, err := LoadOrdered(path, separator)
	return m, err
}

// LoadOrdered is Load, also returning the declared keys in file order
func LoadOrdered(path, separator string) (Map, []string, error) {
	if path == "" {
		return Map{}, nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Map{}, nil, nil
		}
		return Map{}, nil, fmt.Errorf("failed to open ignore file: %w", err)
	}
	defer file.Close()

	m, order, err := parse(file, separator)
	if err != nil {
		return Map{}, nil, err
	}
	return m, order, nil
}
