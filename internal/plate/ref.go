package plate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ref is the plate field of a pose: either one identifier or an explicit
// ordered list. Explicit lists always resolve to exactly the listed plates.
type Ref struct {
	ids   []ID
	multi bool
}

// Single builds a reference to one plate.
func Single(raw string) Ref {
	id := Normalize(raw)
	if id.Empty() {
		return Ref{}
	}
	return Ref{ids: []ID{id}}
}

// Multi builds an explicit plate list. Blank entries are skipped; order is
// preserved.
func Multi(raw ...string) Ref {
	ids := make([]ID, 0, len(raw))
	for _, value := range raw {
		if id := Normalize(value); !id.Empty() {
			ids = append(ids, id)
		}
	}
	return Ref{ids: ids, multi: true}
}

// IDs returns a copy of the referenced identifiers.
func (r Ref) IDs() []ID {
	out := make([]ID, len(r.ids))
	copy(out, r.ids)
	return out
}

// IsMulti reports whether the reference was authored as a list.
func (r Ref) IsMulti() bool { return r.multi }

// IsZero reports whether the reference names no plate at all.
func (r Ref) IsZero() bool { return len(r.ids) == 0 }

// First returns the first referenced identifier or "".
func (r Ref) First() ID {
	if len(r.ids) == 0 {
		return ""
	}
	return r.ids[0]
}

func (r Ref) String() string {
	parts := make([]string, len(r.ids))
	for i, id := range r.ids {
		parts[i] = string(id)
	}
	if r.multi {
		return "[" + strings.Join(parts, ",") + "]"
	}
	return strings.Join(parts, ",")
}

// RefFromValue converts a decoded JSON, TOML or YAML value into a Ref.
// Strings and numbers become Single; slices become Multi.
func RefFromValue(value any) (Ref, error) {
	switch v := value.(type) {
	case nil:
		return Ref{}, nil
	case string:
		return Single(v), nil
	case []any:
		raw := make([]string, 0, len(v))
		for i, item := range v {
			text, err := scalarText(item)
			if err != nil {
				return Ref{}, fmt.Errorf("plate list element %d: %w", i, err)
			}
			raw = append(raw, text)
		}
		return Multi(raw...), nil
	case []string:
		return Multi(v...), nil
	default:
		text, err := scalarText(v)
		if err != nil {
			return Ref{}, err
		}
		return Single(text), nil
	}
}

func scalarText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), nil
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported plate value %T", value)
	}
}

// MarshalJSON encodes Single as a string and Multi as an array.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.multi {
		return json.Marshal(r.IDs())
	}
	return json.Marshal(string(r.First()))
}

// UnmarshalJSON accepts a string, a number or an array of either.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	ref, err := RefFromValue(value)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
