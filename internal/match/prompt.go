package match

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a URL migration assistant for SEO redirects. Match legacy URLs to their best new URL " +
	"based on topic/meaning and URL structure. Slugs may be in Persian. " +
	"Always respond in JSON format with the required keys."

// BuildPrompt renders the system and user messages for one decision call.
// Scores stay internal; the provider sees only the ranked candidate URLs.
func BuildPrompt(old OldURL, candidates []ScoredCandidate) (system, user string) {
	lines := make([]string, 0, len(candidates))
	categoryCount := 0
	for _, sc := range candidates {
		lines = append(lines, "- "+sc.Candidate.URL)
		if sc.Candidate.Category {
			categoryCount++
		}
	}

	primary := old.Primary()
	if primary == "" {
		primary = "none"
	}

	user = fmt.Sprintf(
		"Old URL: %s\n"+
			"Primary segment: %s\n"+
			"Path depth: %d\n\n"+
			"Candidate new URLs (pre-scored by segment similarity):\n%s\n\n"+
			"**Matching Priority Rules:**\n"+
			"1. **Exact Match**: Same topic/product/post in the same primary segment (e.g., blog→blog, shop→shop)\n"+
			"2. **Category/Brand Fallback**: If exact match not found, prefer category or brand pages in same segment\n"+
			"3. **Segment Root Fallback**: If no category found, use the main segment root (e.g., /shop, /blog)\n"+
			"4. **Cross-segment**: Only as last resort, use different segment\n\n"+
			"Additional considerations:\n"+
			"- **Prioritize category/brand pages** over individual products/posts when uncertain\n"+
			"- Consider semantic similarity (Persian-aware)\n"+
			"- Match URL depth when possible (product→product, not product→category unless no alternative)\n\n"+
			"Category/brand URLs in candidates: %d\n\n"+
			"Return your response as a JSON object with exactly these keys:\n"+
			"- best_new_url: (string) the selected URL from candidates\n"+
			"- confidence: (number) 0 to 1\n"+
			"- rationale: (string) explain which matching level was used and why",
		old.Norm, primary, len(old.Segments), strings.Join(lines, "\n"), categoryCount,
	)
	return systemPrompt, user
}
