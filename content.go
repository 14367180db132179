package curate

import (
	"sort"
	"strings"
)

// Category classifies what a product image shows.
type Category int

const (
	CategoryUnknown   Category = iota // analysis failed or inconclusive
	CategoryMain                      // hero / primary product shot
	CategoryDetail                    // close-up of material, texture, feature
	CategoryLifestyle                 // product in use / in context
	CategoryPackaging                 // box, label, unboxing
)

func (c Category) String() string {
	switch c {
	case CategoryMain:
		return "main"
	case CategoryDetail:
		return "detail"
	case CategoryLifestyle:
		return "lifestyle"
	case CategoryPackaging:
		return "packaging"
	default:
		return "unknown"
	}
}

// ContentFeatures is the normalized, comparable view of one image's content
// analysis. Attributes are lowercased, deduped, and sorted so set operations
// over them are deterministic.
type ContentFeatures struct {
	Category   Category
	Attributes []string
	Confidence float64 // [0,1]; 0 means the analysis failed or was absent
}

// categorySynonyms maps normalized analyzer vocabulary to categories.
// Analyzer backends are free-form; this list covers the labels seen in
// practice plus the canonical names. Order matters for substring fallback:
// more specific labels come first.
var categorySynonyms = []struct {
	label string
	cat   Category
}{
	{"lifestyle", CategoryLifestyle},
	{"in use", CategoryLifestyle},
	{"context", CategoryLifestyle},
	{"scene", CategoryLifestyle},
	{"closeup", CategoryDetail},
	{"close-up", CategoryDetail},
	{"close up", CategoryDetail},
	{"macro", CategoryDetail},
	{"texture", CategoryDetail},
	{"detail", CategoryDetail},
	{"packaging", CategoryPackaging},
	{"package", CategoryPackaging},
	{"unboxing", CategoryPackaging},
	{"box", CategoryPackaging},
	{"hero", CategoryMain},
	{"main", CategoryMain},
	{"primary", CategoryMain},
	{"product", CategoryMain},
}

// DescribeContent normalizes an external analysis result into comparable
// content features. This is the single degradation point for the vision
// backend: a nil result, an error, or a malformed payload all yield
// {CategoryUnknown, no attributes, confidence 0}, never an error.
// Downstream stages treat that as a normal low-priority signal.
func DescribeContent(res *ContentAnalysis, err error) ContentFeatures {
	if err != nil || res == nil {
		return ContentFeatures{Category: CategoryUnknown}
	}

	conf := clamp01(res.Confidence)
	cat := ParseCategory(res.Category)
	if cat == CategoryUnknown {
		// Unrecognized label: keep the tags but do not assert a category.
		conf = 0
	}

	return ContentFeatures{
		Category:   cat,
		Attributes: normalizeTags(res.Tags),
		Confidence: conf,
	}
}

// ParseCategory maps a free-form analyzer label to a Category.
// Case-insensitive; unrecognized labels map to CategoryUnknown.
func ParseCategory(label string) Category {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return CategoryUnknown
	}
	for _, s := range categorySynonyms {
		if key == s.label {
			return s.cat
		}
	}
	// Loose match: "hero shot", "detail view", etc.
	for _, s := range categorySynonyms {
		if strings.Contains(key, s.label) {
			return s.cat
		}
	}
	return CategoryUnknown
}

// normalizeTags lowercases, trims, dedupes, and sorts attribute tags.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
