package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileError ties a load failure to its file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// ParseNamed parses data using the format implied by name, defaulting to
// JSON. The file stem is the fallback ID.
func ParseNamed(name string, data []byte) ([]Sequence, error) {
	format, ok := FormatFromName(name)
	if !ok {
		format = FormatJSON
	}
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Parse(data, format, stem)
}

// ReadDir parses every recognized file directly inside dir, in name order.
// Files that fail to parse are skipped and reported as FileErrors. A single
// file path is accepted too.
func ReadDir(dir string) ([]Sequence, []error, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("stat sequences: %w", err)
	}
	if !info.IsDir() {
		seqs, err := readFile(dir)
		if err != nil {
			return nil, nil, err
		}
		return seqs, nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read sequences dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if _, ok := FormatFromName(entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var (
		out      []Sequence
		problems []error
	)
	for _, name := range names {
		seqs, err := readFile(filepath.Join(dir, name))
		if err != nil {
			problems = append(problems, err)
			continue
		}
		out = append(out, seqs...)
	}
	return out, problems, nil
}

func readFile(path string) ([]Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	seqs, err := ParseNamed(path, data)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return seqs, nil
}
