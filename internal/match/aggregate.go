package match

import (
	"fmt"
	"strings"
)

// RowClass is the presentation class of a result row. When several
// conditions hold at once the strongest wins: duplicate source over
// duplicate destination over low confidence.
type RowClass int

const (
	ClassNormal RowClass = iota
	ClassLowConfidence
	ClassDestDup
	ClassSourceDup
)

func (c RowClass) String() string {
	switch c {
	case ClassSourceDup:
		return "duplicate-source"
	case ClassDestDup:
		return "duplicate-destination"
	case ClassLowConfidence:
		return "low-confidence"
	default:
		return "normal"
	}
}

// RowOutcome pairs one old URL with its decision, ready for aggregation.
type RowOutcome struct {
	Old      OldURL
	Decision Decision
}

// MatchResult is the final record for one input row. SourceDupOf and
// DestDupOf hold the row index of the first earlier row sharing the same
// normalized URL, and -1 when the row is the first or only occurrence.
type MatchResult struct {
	OldURL        string
	OldSegment    string
	BestNewURL    string
	NewSegment    string
	IsCategory    bool
	Confidence    float64
	LowConfidence bool
	Rationale     string
	Candidates    []string
	SourceDupOf   int
	DestDupOf     int
}

// Unresolved reports whether no destination was selected for the row.
func (r MatchResult) Unresolved() bool {
	return r.BestNewURL == ""
}

func (r MatchResult) Class() RowClass {
	switch {
	case r.SourceDupOf >= 0:
		return ClassSourceDup
	case r.DestDupOf >= 0:
		return ClassDestDup
	case r.LowConfidence:
		return ClassLowConfidence
	}
	return ClassNormal
}

// Aggregate finalizes a run once every decision is in: it flags rows below
// the confidence floor and resolves duplicate old URLs and duplicate chosen
// destinations across the whole set. Duplicate detection is whole-run by
// nature, so outcomes must be complete and ordered by row. The first
// occurrence of a URL never carries a duplicate reference; later rows point
// back at it.
func Aggregate(outcomes []RowOutcome, minConfidence float64) []MatchResult {
	results := make([]MatchResult, 0, len(outcomes))
	firstOld := make(map[string]int)
	firstNew := make(map[string]int)

	for _, oc := range outcomes {
		decision := oc.Decision
		lowConf := decision.Confidence < minConfidence
		rationale := decision.Rationale
		if lowConf {
			rationale = strings.TrimSpace(rationale + fmt.Sprintf(" | below_min_confidence<%g>", minConfidence))
		}

		r := MatchResult{
			OldURL:        oc.Old.Norm,
			OldSegment:    oc.Old.Primary(),
			BestNewURL:    decision.BestNewURL,
			Confidence:    decision.Confidence,
			LowConfidence: lowConf,
			Rationale:     rationale,
			Candidates:    decision.Candidates,
			SourceDupOf:   -1,
			DestDupOf:     -1,
		}
		if !decision.Unresolved() {
			segments := PathSegments(decision.BestNewURL)
			r.NewSegment = primaryOf(segments)
			r.IsCategory = IsCategory(segments)
		}

		if first, seen := firstOld[oc.Old.Norm]; seen {
			r.SourceDupOf = first
		} else {
			firstOld[oc.Old.Norm] = oc.Old.Row
		}
		// Unresolved rows never join the destination map; an empty selection
		// is not a shared destination.
		if !decision.Unresolved() {
			newKey := Normalize(decision.BestNewURL)
			if first, seen := firstNew[newKey]; seen {
				r.DestDupOf = first
			} else {
				firstNew[newKey] = oc.Old.Row
			}
		}

		results = append(results, r)
	}
	return results
}

// Summary counts the reportable conditions across one run.
type Summary struct {
	Total         int
	Resolved      int
	Unresolved    int
	LowConfidence int
	SourceDups    int
	DestDups      int
}

func Summarize(results []MatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Unresolved() {
			s.Unresolved++
		} else {
			s.Resolved++
		}
		if r.LowConfidence {
			s.LowConfidence++
		}
		if r.SourceDupOf >= 0 {
			s.SourceDups++
		}
		if r.DestDupOf >= 0 {
			s.DestDups++
		}
	}
	return s
}
