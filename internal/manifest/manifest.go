package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"yogaseq/internal/plate"
)

// DefaultImagesBase is the prefix applied to relative manifest paths.
const DefaultImagesBase = "images"

// Entry is one image from the manifest.
type Entry struct {
	Plate        plate.ID `json:"plate,omitempty"`
	PrimaryAsana plate.ID `json:"primary_asana,omitempty"`
	URL          string   `json:"url"`
}

// Options controls path normalization.
type Options struct {
	// ImagesBase prefixes relative paths. Empty uses DefaultImagesBase.
	ImagesBase string
}

// Result carries the parsed entries plus the name of the matched shape.
type Result struct {
	Entries []Entry
	Shape   string
	Skipped int
}

var (
	platePattern        = regexp.MustCompile(`(?i)_Plate(\d+(?:\.\d+)?[a-z]?)\.[a-z0-9]+$`)
	primaryAsanaPattern = regexp.MustCompile(`^(\d+[a-zA-Z]?)_`)
	imageExtensions     = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}}
)

// Parse flattens a manifest document into entries. Invalid JSON is an error;
// an unrecognized layout yields no entries.
func Parse(doc []byte, opts Options) ([]Entry, error) {
	res, err := ParseResult(doc, opts)
	return res.Entries, err
}

// ParseResult is Parse with shape and skip accounting.
func ParseResult(doc []byte, opts Options) (Result, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(doc, []byte("\xEF\xBB\xBF")))
	if len(trimmed) == 0 {
		return Result{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return Result{}, fmt.Errorf("decode manifest: %w", err)
	}

	base := strings.TrimRight(strings.TrimSpace(opts.ImagesBase), "/")
	if opts.ImagesBase == "" {
		base = DefaultImagesBase
	}

	for _, s := range shapes {
		raws, ok := s.extract(value)
		if !ok {
			continue
		}
		res := Result{Shape: s.name}
		for _, raw := range raws {
			entry, ok := buildEntry(raw, base)
			if !ok {
				res.Skipped++
				continue
			}
			res.Entries = append(res.Entries, entry)
		}
		return res, nil
	}
	return Result{}, nil
}

func buildEntry(raw rawEntry, base string) (Entry, bool) {
	url := NormalizePath(raw.path, base)
	if url == "" || !IsImage(url) {
		return Entry{}, false
	}
	name := fileName(url)
	entry := Entry{URL: url}
	if m := platePattern.FindStringSubmatch(name); m != nil {
		entry.Plate = plate.Normalize(m[1])
	} else if raw.plate != "" {
		entry.Plate = plate.Normalize(raw.plate)
	}
	if m := primaryAsanaPattern.FindStringSubmatch(name); m != nil {
		entry.PrimaryAsana = plate.Normalize(m[1])
	}
	return entry, true
}

// NormalizePath converts backslashes, strips leading "./" and prefixes
// relative paths with base. Absolute http(s) URLs and rooted paths pass
// through. A rooted base keeps its leading slash.
func NormalizePath(raw, base string) string {
	p := strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	if p == "" {
		return ""
	}
	lower := strings.ToLower(p)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(p, "/") {
		return p
	}
	if base == "" {
		return p
	}
	if rel := strings.TrimLeft(base, "/"); rel != "" && (p == rel || strings.HasPrefix(p, rel+"/")) {
		return strings.TrimSuffix(base, rel) + p
	}
	return base + "/" + p
}

// IsImage reports whether the path has a supported image extension.
func IsImage(p string) bool {
	_, ok := imageExtensions[strings.ToLower(path.Ext(fileName(p)))]
	return ok
}

func fileName(p string) string {
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p = p[:idx]
	}
	return path.Base(p)
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
