package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"yogaseq/internal/plate"
)

var categoryPattern = regexp.MustCompile(`(?:^|/)(?:main|w800)/([^/?#]+)/`)

// CategoryFromURL returns the directory following "main/" or "w800/" in an
// image path, or "" when there is none. The segment must be a directory, so
// "main/foo.webp" yields nothing.
func CategoryFromURL(url string) string {
	m := categoryPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// categoryForPlates resolves plates in order and returns the first non-empty
// category. A resolution's category comes from its first image only.
func (c *Catalog) categoryForPlates(plates []plate.ID) string {
	for _, id := range plates {
		urls := c.Resolve(plate.Single(string(id)))
		if len(urls) == 0 {
			continue
		}
		if category := CategoryFromURL(urls[0]); category != "" {
			return category
		}
	}
	return ""
}

var titleCaser = cases.Title(language.English)

// DisplayCategory renders a category directory name for humans:
// "forward_bends" becomes "Forward Bends".
func DisplayCategory(category string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(category))
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(strings.Join(strings.Fields(cleaned), " "))
}
