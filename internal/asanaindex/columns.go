package asanaindex

import "strings"

type field int

const (
	fieldAsanaNo field = iota
	fieldEnglish
	fieldIAST
	fieldIntermediate
	fieldFinal
	fieldPages
	fieldIntensity
	fieldDescription
	fieldCount
)

// columnLabels lists the accepted header labels per field, most specific
// first. Matching is case-insensitive.
var columnLabels = [fieldCount][]string{
	fieldAsanaNo:      {"asana #", "asana no", "asana number", "#"},
	fieldEnglish:      {"english name", "english"},
	fieldIAST:         {"iast name", "iast", "sanskrit"},
	fieldIntermediate: {"intermediate plate", "intermediate plates", "intermediate"},
	fieldFinal:        {"final plate", "final plates", "final"},
	fieldPages:        {"page", "pages"},
	fieldIntensity:    {"intensity", "difficulty"},
	fieldDescription:  {"description", "notes"},
}

// columns maps each field to a header index, or -1 when absent.
type columns [fieldCount]int

// bindColumns resolves header positions: an exact label match anywhere in
// the header wins over a substring match. A header cell binds at most once.
func bindColumns(header []string) columns {
	normalized := make([]string, len(header))
	for i, cell := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	var cols columns
	used := make(map[int]bool, len(header))
	for f := range cols {
		cols[f] = -1
	}

	for f := field(0); f < fieldCount; f++ {
		if idx := findExact(normalized, columnLabels[f], used); idx >= 0 {
			cols[f] = idx
			used[idx] = true
		}
	}
	for f := field(0); f < fieldCount; f++ {
		if cols[f] >= 0 {
			continue
		}
		if idx := findContains(normalized, columnLabels[f], used); idx >= 0 {
			cols[f] = idx
			used[idx] = true
		}
	}
	return cols
}

func findExact(header []string, labels []string, used map[int]bool) int {
	for _, label := range labels {
		for i, cell := range header {
			if !used[i] && cell == label {
				return i
			}
		}
	}
	return -1
}

func findContains(header []string, labels []string, used map[int]bool) int {
	for _, label := range labels {
		for i, cell := range header {
			if !used[i] && cell != "" && strings.Contains(cell, label) {
				return i
			}
		}
	}
	return -1
}

func (c columns) value(row []string, f field) string {
	idx := c[f]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
