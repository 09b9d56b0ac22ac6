package audio

import (
	"strings"

	"yogaseq/internal/plate"
	"yogaseq/internal/textutil"
)

// Extension is appended to every cue name.
const Extension = ".mp3"

// PadID left-pads the leading digit run of id to three digits and keeps
// any suffix: "5" becomes "005", "172a" stays "172a", "5a" becomes "005a".
func PadID(id plate.ID) string {
	raw := strings.TrimSpace(string(id))
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return raw
	}
	digits := raw[:end]
	if len(digits) < 3 {
		digits = strings.Repeat("0", 3-len(digits)) + digits
	}
	return digits + raw[end:]
}

// Candidates lists the cue names to try for an asana, full identifier
// first. An empty identifier or a name without letters or digits yields
// nothing.
func Candidates(asanaNo plate.ID, displayName string) []string {
	name := textutil.AlnumName(displayName)
	id := plate.Normalize(string(asanaNo))
	if id.Empty() || name == "" {
		return nil
	}
	out := []string{PadID(id) + "_" + name + Extension}
	if base := plate.BaseNumber(id); !base.Empty() && base != id {
		out = append(out, PadID(base)+"_"+name+Extension)
	}
	return out
}
