package match

import "strings"

// OldURL is one legacy URL read from the input sheet. Row is the zero-based
// position among the data rows and stays stable through the whole run.
type OldURL struct {
	Row      int
	Raw      string
	Norm     string
	Segments []string
	Tokens   map[string]struct{}
}

func NewOldURL(row int, raw string) OldURL {
	segments := PathSegments(raw)
	return OldURL{
		Row:      row,
		Raw:      strings.TrimSpace(raw),
		Norm:     Normalize(raw),
		Segments: segments,
		Tokens:   WordTokens(segments),
	}
}

// Primary returns the first path segment, the site section the URL lives in.
func (o OldURL) Primary() string {
	return primaryOf(o.Segments)
}

// Candidate is one destination URL from the new site. The pool shares
// candidates read-only across every old URL in the run; a candidate is never
// consumed by being matched.
type Candidate struct {
	URL      string
	Segments []string
	Tokens   map[string]struct{}
	Category bool
}

func NewCandidate(rawURL string) Candidate {
	segments := PathSegments(rawURL)
	return Candidate{
		URL:      strings.TrimSpace(rawURL),
		Segments: segments,
		Tokens:   WordTokens(segments),
		Category: IsCategory(segments),
	}
}

// ScoredCandidate pairs a pool candidate with its similarity score for one
// old URL. Instances are ephemeral, produced by the pruner and consumed by
// the decider.
type ScoredCandidate struct {
	Candidate *Candidate
	Score     float64
}

// Decision is the validated answer for one old URL. An empty BestNewURL
// marks the row unresolved; Candidates records the URLs that were presented
// to the provider, in order.
type Decision struct {
	BestNewURL string
	Confidence float64
	Rationale  string
	Candidates []string
}

// Unresolved reports whether no destination was selected for the row.
func (d Decision) Unresolved() bool {
	return d.BestNewURL == ""
}
