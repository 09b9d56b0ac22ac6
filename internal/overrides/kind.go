package overrides

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names an override family.
type Kind string

const (
	KindDescription Kind = "description"
	KindCategory    Kind = "category"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindDescription, KindCategory}

// ErrInvalidKind is returned for an unknown override kind.
var ErrInvalidKind = errors.New("invalid override kind")

// ParseKind accepts a kind name case-insensitively; plural forms such as
// "descriptions" are accepted too.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "description", "descriptions":
		return KindDescription, nil
	case "category", "categories":
		return KindCategory, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, raw)
}

// Accepts reports whether value is well-formed for the kind. Descriptions
// accept any string including the empty one; categories must be non-blank.
func (k Kind) Accepts(value string) bool {
	if k == KindCategory {
		return strings.TrimSpace(value) != ""
	}
	return true
}
