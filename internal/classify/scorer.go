package classify

import (
	"sort"
	"strings"

	"github.com/oseilabs/econdocs/internal/taxonomy"
	"github.com/oseilabs/econdocs/pkg/document"
)

// Score weights. Phrases mark the documents the research cares most about,
// year tokens are cumulative so multi-year titles rank ahead of single-year
// ones, and every taxonomy keyword adds a small amount regardless of which
// theme finally claims the document.
const (
	phraseWeight  = 10
	yearWeight    = 5
	keywordWeight = 2
)

// Scorer assigns a research-priority score to a (text, URL) pair. Scores
// only order candidates within a batch; nothing is ever filtered out by
// score. Order still matters: the first fetch under a destination name wins
// the slot, so higher-value titles must reach the fetcher first.
type Scorer struct {
	tax *taxonomy.Taxonomy
}

// NewScorer builds a scorer over the given taxonomy.
func NewScorer(tax *taxonomy.Taxonomy) *Scorer {
	return &Scorer{tax: tax}
}

// Score computes the priority of a candidate. Always >= 0.
func (s *Scorer) Score(text, url string) int {
	combined := combine(text, url)
	score := 0

	for _, phrase := range s.tax.PriorityPhrases {
		if strings.Contains(combined, phrase) {
			score += phraseWeight
		}
	}

	for _, year := range s.tax.Years {
		if strings.Contains(combined, year) {
			score += yearWeight
		}
	}

	for _, theme := range s.tax.Themes {
		for _, kw := range theme.Keywords {
			if strings.Contains(combined, kw) {
				score += keywordWeight
			}
		}
	}

	return score
}

// ScoredCandidate pairs a candidate with its assigned category and score.
type ScoredCandidate struct {
	Candidate document.LinkCandidate
	Category  document.Category
	Score     int
}

// SortByScore orders candidates by descending score. The sort is stable so
// ties keep their discovery order, which keeps dedup outcomes reproducible
// run to run.
func SortByScore(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
