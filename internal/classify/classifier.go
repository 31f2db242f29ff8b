package classify

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Rules holds the immutable extension-to-category mapping for one watch
// session. Keys are lowercase extensions with the leading dot; lookups are
// case-insensitive. Unmapped extensions resolve to the fallback category.
type Rules struct {
	categories map[string]string
	fallback   string
}

// NewRules builds classification rules from an extension map and a fallback
// category. Extension keys are lowercased and category folder names are
// normalized so "documents" and "Documents" in configuration yield a single
// folder.
func NewRules(extensions map[string]string, fallback string) *Rules {
	normalized := make(map[string]string, len(extensions))
	for ext, category := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		category = NormalizeCategory(category)
		if ext == "" || ext == "." || category == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = category
	}
	fallback = NormalizeCategory(fallback)
	if fallback == "" {
		fallback = "Other"
	}
	return &Rules{categories: normalized, fallback: fallback}
}

// Classify returns the category for the file at path. Unknown and missing
// extensions are a handled case, not a failure: they map to the fallback.
func (r *Rules) Classify(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || ext == "." {
		return r.fallback
	}
	if category, ok := r.categories[ext]; ok {
		return category
	}
	return r.fallback
}

// Fallback returns the category used for unmapped extensions.
func (r *Rules) Fallback() string {
	return r.fallback
}

// Categories returns the distinct category names, fallback included, sorted.
// The engine pre-creates these folders when a watch session starts.
func (r *Rules) Categories() []string {
	seen := map[string]struct{}{r.fallback: {}}
	for _, category := range r.categories {
		seen[category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// Len reports how many extensions are mapped.
func (r *Rules) Len() int {
	return len(r.categories)
}

// NormalizeCategory trims a category name, collapses separator runs to
// single spaces, and title-cases the result so it is usable as a folder name.
func NormalizeCategory(name string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	normalized := strings.TrimSpace(cleaned.String())
	if normalized == "" {
		return ""
	}
	return titleCaser.String(normalized)
}
