package plate

import (
	"regexp"
	"strconv"
	"strings"
)

// ID is a normalized plate or asana identifier. Compare IDs only after
// passing raw input through Normalize.
type ID string

// maxRangeWidth bounds "A-B" expansion so a typo such as "1-10000" does not
// explode a single CSV cell into thousands of plates.
const maxRangeWidth = 500

// maxAsanaNumberLen is the longest asana number accepted from the index.
const maxAsanaNumberLen = 8

var asanaNumberPattern = regexp.MustCompile(`^\d+[a-zA-Z]?$`)

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// Empty reports whether the identifier carries no text.
func (id ID) Empty() bool { return id == "" }

// Normalize canonicalizes raw identifier text. Digit-only input loses its
// leading zeros ("001" becomes "1"); anything else is returned trimmed but
// otherwise verbatim so suffixed and decimal forms ("172a", "471.1") survive.
func Normalize(raw string) ID {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !isDigits(trimmed) {
		return ID(trimmed)
	}
	stripped := strings.TrimLeft(trimmed, "0")
	if stripped == "" {
		return "0"
	}
	return ID(stripped)
}

// IsAsanaNumber reports whether id is digits with at most one trailing letter
// and no longer than eight characters.
func IsAsanaNumber(id ID) bool {
	if len(id) == 0 || len(id) > maxAsanaNumberLen {
		return false
	}
	return asanaNumberPattern.MatchString(string(id))
}

// BaseNumber returns the leading digit run of id, normalized. "172a" yields
// "172"; an identifier without leading digits yields "".
func BaseNumber(id ID) ID {
	s := string(id)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return ""
	}
	return Normalize(s[:end])
}

// ParseField splits a plate cell into identifiers. Tokens are separated by
// "|"; a token "A-B" with digit-only bounds expands inclusively. Decimal and
// suffixed tokens pass through untouched. The result is de-duplicated in
// first-occurrence order.
func ParseField(raw string) []ID {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []ID
	seen := make(map[ID]struct{})
	add := func(id ID) {
		if id.Empty() {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, token := range strings.Split(raw, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if ids, ok := expandRange(token); ok {
			for _, id := range ids {
				add(id)
			}
			continue
		}
		add(Normalize(token))
	}
	return out
}

func expandRange(token string) ([]ID, bool) {
	lo, hi, found := strings.Cut(token, "-")
	if !found {
		return nil, false
	}
	lo = strings.TrimSpace(lo)
	hi = strings.TrimSpace(hi)
	if !isDigits(lo) || !isDigits(hi) {
		return nil, false
	}
	start, err := strconv.Atoi(lo)
	if err != nil {
		return nil, false
	}
	end, err := strconv.Atoi(hi)
	if err != nil {
		return nil, false
	}
	step := 1
	width := end - start
	if width < 0 {
		step = -1
		width = -width
	}
	if width > maxRangeWidth {
		return nil, false
	}
	ids := make([]ID, 0, width+1)
	for n := start; ; n += step {
		ids = append(ids, ID(strconv.Itoa(n)))
		if n == end {
			break
		}
	}
	return ids, true
}

// Less orders identifiers by their numeric base, then by the remaining
// suffix text, so "9" < "10" < "10a" < "11".
func Less(a, b ID) bool {
	baseA, baseB := BaseNumber(a), BaseNumber(b)
	if baseA != baseB {
		if baseA == "" || baseB == "" {
			return baseB == ""
		}
		if len(baseA) != len(baseB) {
			return len(baseA) < len(baseB)
		}
		return baseA < baseB
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
