package curate

import "strings"

// Product-image URLs frequently encode the shot's role in the filename
// ("_main", "swatch", "lifestyle-2.jpg"). These lists map URL substrings to
// a category used as a last-resort fallback when both the analyzer and the
// embedded metadata yield nothing.
var categoryHintPatterns = []struct {
	pattern string
	cat     Category
}{
	{"lifestyle", CategoryLifestyle},
	{"in-use", CategoryLifestyle},
	{"scene", CategoryLifestyle},
	{"closeup", CategoryDetail},
	{"close-up", CategoryDetail},
	{"detail", CategoryDetail},
	{"macro", CategoryDetail},
	{"swatch", CategoryDetail},
	{"texture", CategoryDetail},
	{"zoom", CategoryDetail},
	{"packaging", CategoryPackaging},
	{"package", CategoryPackaging},
	{"unbox", CategoryPackaging},
	{"hero", CategoryMain},
	{"main", CategoryMain},
	{"primary", CategoryMain},
	{"front", CategoryMain},
}

// CategoryHint guesses a content category from role markers in the image
// URL. Returns CategoryUnknown when the URL carries no recognizable marker.
func CategoryHint(rawURL string) Category {
	lower := strings.ToLower(rawURL)
	for _, h := range categoryHintPatterns {
		if strings.Contains(lower, h.pattern) {
			return h.cat
		}
	}
	return CategoryUnknown
}

// LogoBannerPatterns are URL substrings indicating non-product images that
// should never enter a curation batch.
var LogoBannerPatterns = []string{
	"favicon", "logo", "icon", "banner", "sprite",
	"badge", "button", "widget", "avatar",
}

// IsLogoOrBanner checks if a lowercased URL contains logo/banner patterns.
// Intended as an intake prefilter before batch processing.
func IsLogoOrBanner(lower string) bool {
	for _, p := range LogoBannerPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
