package match

import (
	"sort"
	"strings"
)

// Scoring weights. Token overlap dominates, leading-segment agreement
// rewards staying in the same site hierarchy, and listing pages get a boost
// so the provider always sees a category fallback near the top.
const (
	jaccardWeight = 0.7
	prefixWeight  = 0.3
	categoryBoost = 0.25
	overlapBoost  = 0.1

	// sectionRootLimit caps how many bare section roots (for example /shop)
	// are forced into a candidate list as a last-resort fallback.
	sectionRootLimit = 2
)

// Pool holds every destination URL of the new site, indexed for candidate
// pruning. It is built once per run and shared read-only by all workers.
type Pool struct {
	candidates []Candidate

	// index maps a word token to the candidates containing it, so scoring
	// touches only candidates sharing at least one token instead of the
	// whole pool.
	index map[string][]int

	// fallback lists all candidate indices in deterministic tie-break order
	// (shorter path first, then lexical URL). It pads candidate lists when
	// token overlap alone finds too few.
	fallback []int

	// roots maps a primary segment to its bare section pages (path depth 1).
	roots map[string][]int

	byURL map[string]int
}

// NewPool builds the candidate pool from the sitemap URL list. Exact
// duplicate URLs collapse to the first occurrence.
func NewPool(urls []string) *Pool {
	p := &Pool{
		index: make(map[string][]int),
		roots: make(map[string][]int),
		byURL: make(map[string]int),
	}
	for _, raw := range urls {
		u := strings.TrimSpace(raw)
		if u == "" {
			continue
		}
		if _, seen := p.byURL[u]; seen {
			continue
		}
		c := NewCandidate(u)
		idx := len(p.candidates)
		p.candidates = append(p.candidates, c)
		p.byURL[u] = idx
		for tok := range c.Tokens {
			p.index[tok] = append(p.index[tok], idx)
		}
		if len(c.Segments) == 1 {
			p.roots[c.Segments[0]] = append(p.roots[c.Segments[0]], idx)
		}
	}

	p.fallback = make([]int, len(p.candidates))
	for i := range p.fallback {
		p.fallback[i] = i
	}
	sort.Slice(p.fallback, func(i, j int) bool {
		return p.less(p.fallback[i], p.fallback[j])
	})
	for _, indices := range p.roots {
		sort.Slice(indices, func(i, j int) bool {
			return p.less(indices[i], indices[j])
		})
	}
	return p
}

// Size returns the number of distinct candidates in the pool.
func (p *Pool) Size() int {
	return len(p.candidates)
}

// TopK returns at most k candidates for old, sorted by descending score with
// deterministic tie-breaks, so identical inputs always produce identical
// output. An empty pool yields an empty list; a pool with no token overlap
// still yields k candidates in tie-break order so the provider has context
// to decline.
func (p *Pool) TopK(old OldURL, k int) []ScoredCandidate {
	if k <= 0 || len(p.candidates) == 0 {
		return nil
	}

	seen := make(map[int]struct{})
	var picked []int
	for tok := range old.Tokens {
		for _, idx := range p.index[tok] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			picked = append(picked, idx)
		}
	}
	// Pad from the deterministic fallback order when overlap finds fewer
	// than k, which also covers the all-scores-zero case.
	if len(picked) < k {
		for _, idx := range p.fallback {
			if len(picked) >= k {
				break
			}
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			picked = append(picked, idx)
		}
	}

	scored := make([]ScoredCandidate, 0, len(picked))
	for _, idx := range picked {
		c := &p.candidates[idx]
		scored = append(scored, ScoredCandidate{Candidate: c, Score: p.score(old, c)})
	}
	sortScored(scored)
	if len(scored) > k {
		scored = scored[:k]
	}
	return p.withSectionRoots(old, scored, k)
}

// withSectionRoots guarantees that up to sectionRootLimit bare roots of the
// old URL's section appear among the candidates, replacing the lowest
// ranked entries when the list is already full. The roots give the provider
// a safe landing page when nothing specific matches.
func (p *Pool) withSectionRoots(old OldURL, scored []ScoredCandidate, k int) []ScoredCandidate {
	primary := old.Primary()
	if primary == "" {
		return scored
	}
	roots := p.roots[primary]
	if len(roots) > sectionRootLimit {
		roots = roots[:sectionRootLimit]
	}

	injected := make(map[string]bool)
	for _, idx := range roots {
		c := &p.candidates[idx]
		if hasURL(scored, c.URL) {
			continue
		}
		sc := ScoredCandidate{Candidate: c, Score: p.score(old, c)}
		if len(scored) < k {
			scored = append(scored, sc)
		} else {
			pos := len(scored) - 1
			for pos >= 0 && injected[scored[pos].Candidate.URL] {
				pos--
			}
			if pos < 0 {
				break
			}
			scored[pos] = sc
		}
		injected[c.URL] = true
	}
	if len(injected) > 0 {
		sortScored(scored)
	}
	return scored
}

func (p *Pool) score(old OldURL, c *Candidate) float64 {
	score := jaccardWeight*jaccard(old.Tokens, c.Tokens) +
		prefixWeight*prefixAgreement(old.Segments, c.Segments)
	if c.Category {
		score += categoryBoost
	}
	if n := sharedSegments(old.Segments, c.Segments); n > 1 {
		score += overlapBoost * float64(n)
	}
	if score > 1 {
		score = 1
	}
	return score
}

// less is the deterministic candidate tie-break: shorter path first, then
// lexical URL order.
func (p *Pool) less(i, j int) bool {
	a, b := &p.candidates[i], &p.candidates[j]
	if len(a.Segments) != len(b.Segments) {
		return len(a.Segments) < len(b.Segments)
	}
	return a.URL < b.URL
}

func sortScored(scored []ScoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Candidate.Segments) != len(b.Candidate.Segments) {
			return len(a.Candidate.Segments) < len(b.Candidate.Segments)
		}
		return a.Candidate.URL < b.Candidate.URL
	})
}

func hasURL(scored []ScoredCandidate, url string) bool {
	for _, sc := range scored {
		if sc.Candidate.URL == url {
			return true
		}
	}
	return false
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// prefixAgreement measures how many leading path segments match in order,
// relative to the longer path.
func prefixAgreement(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return float64(n) / float64(max(len(a), len(b)))
}

// sharedSegments counts distinct segments present in both paths, at any
// position.
func sharedSegments(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inA := make(map[string]struct{}, len(a))
	for _, s := range a {
		inA[s] = struct{}{}
	}
	n := 0
	counted := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := inA[s]; !ok {
			continue
		}
		if _, dup := counted[s]; dup {
			continue
		}
		counted[s] = struct{}{}
		n++
	}
	return n
}
