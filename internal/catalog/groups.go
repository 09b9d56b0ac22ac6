package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"yogaseq/internal/plate"
)

// ParsePlateGroups decodes a plate-group document: an object mapping a plate
// to the plates shown together with it. Members may be a list of strings or
// numbers, or a single plate field such as "3|4" or "12-14".
func ParsePlateGroups(doc []byte) (map[plate.ID][]plate.ID, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(doc, []byte("\xEF\xBB\xBF")))
	if len(trimmed) == 0 {
		return map[plate.ID][]plate.ID{}, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode plate groups: %w", err)
	}
	out := make(map[plate.ID][]plate.ID, len(raw))
	for key, value := range raw {
		id := plate.Normalize(key)
		if id.Empty() {
			continue
		}
		var members []plate.ID
		switch v := value.(type) {
		case string:
			members = plate.ParseField(v)
		case json.Number:
			members = []plate.ID{plate.Normalize(v.String())}
		case []any:
			ref, err := plate.RefFromValue(v)
			if err != nil {
				continue
			}
			members = ref.IDs()
		}
		if len(members) > 0 {
			out[id] = members
		}
	}
	return out, nil
}
