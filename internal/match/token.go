package match

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// categoryKeywords marks listing pages (categories, brands, collections).
// Persian terms appear because the slugs this tool was built for are often
// Persian storefront paths.
var categoryKeywords = []string{
	"category", "categories", "brand", "brands", "collection", "collections",
	"product-category", "product-brand", "دسته", "برند", "مجموعه",
}

// Normalize produces the canonical form of a URL used as a duplicate
// detection key: trimmed, percent-decoded, NFC-folded, without a trailing
// slash. Case is preserved since path slugs are case-sensitive.
func Normalize(raw string) string {
	s := decode(strings.TrimSpace(raw))
	s = norm.NFC.String(s)
	if len(s) > 1 && strings.HasSuffix(s, "/") {
		s = s[:len(s)-1]
	}
	return s
}

// PathSegments returns the lowercase, percent-decoded path segments of a
// URL. Empty segments from doubled, leading or trailing slashes are
// dropped.
func PathSegments(raw string) []string {
	path := pathOf(strings.TrimSpace(raw))
	path = norm.NFC.String(decode(path))

	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		segments = append(segments, strings.ToLower(part))
	}
	return segments
}

// WordTokens splits segments further on dash and underscore separators and
// collects the distinct words.
func WordTokens(segments []string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, segment := range segments {
		clean := strings.NewReplacer("-", " ", "_", " ").Replace(segment)
		for _, tok := range strings.Fields(clean) {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// IsCategory reports whether the segments look like a listing page rather
// than an individual product or post. A keyword match in any segment counts,
// and so does a two or three level path, which is usually a category level.
func IsCategory(segments []string) bool {
	for _, segment := range segments {
		for _, keyword := range categoryKeywords {
			if strings.Contains(segment, keyword) {
				return true
			}
		}
	}
	return len(segments) >= 2 && len(segments) <= 3
}

// pathOf extracts the path portion of raw, tolerating bare paths and
// unparseable input.
func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Path
}

// decode reverses percent-encoding. Malformed escapes leave the input
// unchanged rather than failing.
func decode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

func primaryOf(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}
