package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	// Trailing slash, surrounding whitespace and percent-encoding all fold
	// away; case is kept because slugs are case-sensitive.
	assert.Equal(t, "https://new.example.com/shop/laptops",
		Normalize("  https://new.example.com/shop/laptops/  "))
	assert.Equal(t, "https://new.example.com/دسته/کتاب",
		Normalize("https://new.example.com/%D8%AF%D8%B3%D8%AA%D9%87/%DA%A9%D8%AA%D8%A7%D8%A8"))
	assert.Equal(t, "https://new.example.com/Shop", Normalize("https://new.example.com/Shop"))

	// A bare slash is already canonical.
	assert.Equal(t, "/", Normalize("/"))
	assert.Equal(t, "", Normalize("   "))
}

func TestNormalizeAgreesAcrossEncodings(t *testing.T) {
	// The encoded and decoded spellings of the same URL must share one key,
	// otherwise duplicate detection would miss them.
	encoded := "https://new.example.com/%D8%A8%D8%B1%D9%86%D8%AF/nike/"
	decoded := "https://new.example.com/برند/nike"
	assert.Equal(t, Normalize(decoded), Normalize(encoded))
}

func TestPathSegments(t *testing.T) {
	assert.Equal(t, []string{"product", "apple-iphone-14"},
		PathSegments("https://old.example.com/product/Apple-iPhone-14/"))
	assert.Equal(t, []string{"a", "b"}, PathSegments("/a//b/"))
	assert.Equal(t, []string{"blog", "post-one"}, PathSegments("blog/post-one"))
	assert.Equal(t, []string{"برند", "nike"},
		PathSegments("/%D8%A8%D8%B1%D9%86%D8%AF/nike"))

	// A host-only URL has no path segments.
	assert.Empty(t, PathSegments("https://old.example.com"))
	assert.Empty(t, PathSegments(""))
}

func TestWordTokens(t *testing.T) {
	tokens := WordTokens([]string{"apple-iphone-14", "shop_items"})
	assert.Len(t, tokens, 5)
	for _, want := range []string{"apple", "iphone", "14", "shop", "items"} {
		assert.Contains(t, tokens, want)
	}

	// Words repeating across segments collapse.
	assert.Len(t, WordTokens([]string{"a-b", "b_a"}), 2)
	assert.Empty(t, WordTokens(nil))
}

func TestIsCategory(t *testing.T) {
	// Keyword match wins at any depth.
	assert.True(t, IsCategory([]string{"product-category", "phones"}))
	assert.True(t, IsCategory([]string{"shop", "mobile", "apple", "brand-nike"}))
	assert.True(t, IsCategory([]string{"دسته", "kitchen"}))

	// Without a keyword, two or three levels read as a listing page.
	assert.True(t, IsCategory([]string{"shop", "mobile"}))
	assert.True(t, IsCategory([]string{"shop", "mobile", "apple"}))
	assert.False(t, IsCategory([]string{"shop", "mobile", "apple", "iphone-14"}))
	assert.False(t, IsCategory([]string{"about"}))
	assert.False(t, IsCategory(nil))
}

func TestNewOldURL(t *testing.T) {
	old := NewOldURL(3, "  https://old.example.com/blog/Cooking-Tips/  ")

	assert.Equal(t, 3, old.Row)
	assert.Equal(t, "https://old.example.com/blog/Cooking-Tips/", old.Raw)
	assert.Equal(t, "https://old.example.com/blog/Cooking-Tips", old.Norm)
	assert.Equal(t, []string{"blog", "cooking-tips"}, old.Segments)
	assert.Equal(t, "blog", old.Primary())
	assert.Contains(t, old.Tokens, "cooking")

	assert.Equal(t, "", NewOldURL(0, "https://old.example.com").Primary())
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate("https://new.example.com/shop/mobile")
	assert.True(t, c.Category)
	assert.Equal(t, []string{"shop", "mobile"}, c.Segments)

	deep := NewCandidate("https://new.example.com/shop/mobile/apple/iphone-14-pro")
	assert.False(t, deep.Category)
}
