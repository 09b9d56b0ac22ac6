package overrides

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"yogaseq/internal/plate"
)

// Override is one stored replacement value.
type Override struct {
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Map holds overrides keyed by normalized asana number.
type Map map[plate.ID]Override

// Lookup normalizes key before reading.
func (m Map) Lookup(key string) (Override, bool) {
	o, ok := m[plate.Normalize(key)]
	return o, ok
}

// With returns a copy of m with key set. The receiver is left untouched.
func (m Map) With(key string, o Override) Map {
	out := m.Clone()
	out[plate.Normalize(key)] = o
	return out
}

// Without returns a copy of m without key.
func (m Map) Without(key string) Map {
	out := m.Clone()
	delete(out, plate.Normalize(key))
	return out
}

// Clone copies the map; a nil map clones to an empty one.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	maps.Copy(out, m)
	return out
}

// timeLayouts lists accepted timestamp formats, RFC 3339 first.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC 3339, a space separated date-time, a bare date or
// unix seconds. Unparseable input yields the zero time.
func ParseTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// DecodeMap reads an override document. Each value may be a bare string or
// an object carrying value (or text) and updated_at. Entries with any other
// value type are dropped, as are blank keys.
func DecodeMap(data []byte) (Map, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF")))
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("[]")) {
		return Map{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	out := make(Map, len(raw))
	for key, value := range raw {
		id := plate.Normalize(key)
		if id.Empty() {
			continue
		}
		if o, ok := decodeValue(value); ok {
			out[id] = o
		}
	}
	return out, nil
}

func decodeValue(value any) (Override, bool) {
	switch v := value.(type) {
	case string:
		return Override{Value: v}, true
	case map[string]any:
		var text string
		found := false
		for _, field := range []string{"value", "text"} {
			if s, ok := v[field].(string); ok {
				text, found = s, true
				break
			}
		}
		if !found {
			return Override{}, false
		}
		o := Override{Value: text}
		switch ts := v["updated_at"].(type) {
		case string:
			o.UpdatedAt = ParseTime(ts)
		case json.Number:
			o.UpdatedAt = ParseTime(ts.String())
		}
		return o, true
	default:
		return Override{}, false
	}
}
