package manifest

import (
	"regexp"
	"sort"
	"strings"
)

// rawEntry is a manifest item before path normalization and filename
// extraction.
type rawEntry struct {
	path  string
	plate string
}

// shape is one accepted manifest layout: a pure predicate plus extractor.
// Matchers are tried in order and the first match wins.
type shape struct {
	name    string
	extract func(doc any) ([]rawEntry, bool)
}

// numericKeyRatio is the share of keys that must be digit-only for an
// object to be treated as a plate-keyed map.
const numericKeyRatio = 0.7

var (
	numericKeyPattern = regexp.MustCompile(`^\d+$`)

	// pathFields lists object keys that may carry the image path, in
	// priority order.
	pathFields = []string{"main", "path", "file", "name", "relpath", "relative_path"}

	// listFields lists the named arrays tried by the fallback shape.
	listFields = []string{"files", "images", "items", "main", "paths", "list", "variants.main", "variants.files"}
)

var shapes = []shape{
	{name: "list", extract: extractRootList},
	{name: "images-map", extract: extractImagesMap},
	{name: "root-map", extract: extractRootMap},
	{name: "named-list", extract: extractNamedList},
}

func extractRootList(doc any) ([]rawEntry, bool) {
	items, ok := doc.([]any)
	if !ok {
		return nil, false
	}
	return entriesFromList(items, ""), true
}

func extractImagesMap(doc any) ([]rawEntry, bool) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	images, ok := root["images"].(map[string]any)
	if !ok || !isPlateKeyed(images) {
		return nil, false
	}
	return entriesFromPlateMap(images), true
}

func extractRootMap(doc any) ([]rawEntry, bool) {
	root, ok := doc.(map[string]any)
	if !ok || !isPlateKeyed(root) {
		return nil, false
	}
	return entriesFromPlateMap(root), true
}

func extractNamedList(doc any) ([]rawEntry, bool) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, field := range listFields {
		items, ok := lookupPath(root, field).([]any)
		if !ok || len(items) == 0 {
			continue
		}
		return entriesFromList(items, ""), true
	}
	return nil, false
}

func isPlateKeyed(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	numeric := 0
	for key := range m {
		if numericKeyPattern.MatchString(key) {
			numeric++
		}
	}
	return float64(numeric)/float64(len(m)) >= numericKeyRatio
}

func entriesFromPlateMap(m map[string]any) []rawEntry {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []rawEntry
	for _, key := range keys {
		switch value := m[key].(type) {
		case []any:
			out = append(out, entriesFromList(value, key)...)
		default:
			if entry, ok := entryFromValue(value, key); ok {
				out = append(out, entry)
			}
		}
	}
	return out
}

func entriesFromList(items []any, plateKey string) []rawEntry {
	out := make([]rawEntry, 0, len(items))
	for _, item := range items {
		if entry, ok := entryFromValue(item, plateKey); ok {
			out = append(out, entry)
		}
	}
	return out
}

// entryFromValue accepts a bare path string or a path-bearing object. An
// object without its own plate field inherits plateKey.
func entryFromValue(value any, plateKey string) (rawEntry, bool) {
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return rawEntry{}, false
		}
		return rawEntry{path: v, plate: plateKey}, true
	case map[string]any:
		path := firstString(v, pathFields)
		if path == "" {
			return rawEntry{}, false
		}
		plateValue := scalarString(v["plate"])
		if plateValue == "" {
			plateValue = plateKey
		}
		return rawEntry{path: path, plate: plateValue}, true
	default:
		return rawEntry{}, false
	}
}

func firstString(m map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// lookupPath resolves a dotted field path such as "variants.main".
func lookupPath(root map[string]any, dotted string) any {
	var current any = root
	for _, part := range strings.Split(dotted, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}
