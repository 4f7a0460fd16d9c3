package crawl

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oseilabs/econdocs/pkg/document"
)

// fixtureInspector serves canned anchors per URL and records every visit.
type fixtureInspector struct {
	pages    map[string][]Anchor
	failures map[string]error
	visits   []string
	current  string
}

func (f *fixtureInspector) Navigate(_ context.Context, url string) error {
	f.visits = append(f.visits, url)
	if err, ok := f.failures[url]; ok {
		return err
	}
	f.current = url
	return nil
}

func (f *fixtureInspector) QueryAnchors(_ context.Context, _ string) ([]Anchor, error) {
	return f.pages[f.current], nil
}

func TestWalkFiltersAndSurvivesBrokenPages(t *testing.T) {
	inspector := &fixtureInspector{
		pages: map[string][]Anchor{
			"https://mofep.gov.gh/budget-statements": {
				{URL: "https://mofep.gov.gh/files/2021-budget.pdf", Text: " 2021 Budget Statement "},
				{URL: "https://mofep.gov.gh/files/photo.jpg", Text: "Minister portrait"},
				{URL: "https://mofep.gov.gh/files/revenue.xlsx", Text: "Revenue tables"},
				{URL: "https://mofep.gov.gh/contact", Text: "Budget hotline"},
			},
		},
		failures: map[string]error{
			"https://mofep.gov.gh/broken": fmt.Errorf("%w: never ready", ErrNavigationTimeout),
		},
	}

	walker := NewWalker(inspector)
	got := walker.Walk(context.Background(), Section{
		Name: "budget",
		// broken page first: the walk must carry on to the good one
		URLs:       []string{"https://mofep.gov.gh/broken", "https://mofep.gov.gh/budget-statements"},
		Filter:     KeywordFilter("budget", "revenue"),
		SourceType: document.SourceRenderedPage,
	})

	require.Len(t, got, 2)
	assert.Equal(t, "https://mofep.gov.gh/files/2021-budget.pdf", got[0].URL)
	assert.Equal(t, "2021 Budget Statement", got[0].Text, "anchor text is trimmed")
	assert.Equal(t, "https://mofep.gov.gh/files/revenue.xlsx", got[1].URL)
	assert.Equal(t, document.SourceRenderedPage, got[0].SourceType)
}

func TestWalkEmptyPageIsNotAnError(t *testing.T) {
	inspector := &fixtureInspector{pages: map[string][]Anchor{}}
	walker := NewWalker(inspector)

	got := walker.Walk(context.Background(), Section{
		Name: "empty",
		URLs: []string{"https://bog.gov.gh/nothing-here"},
	})

	assert.Empty(t, got)
	assert.Equal(t, []string{"https://bog.gov.gh/nothing-here"}, inspector.visits)
}

func TestWalkYearsShortCircuitsPerYear(t *testing.T) {
	inspector := &fixtureInspector{
		pages: map[string][]Anchor{
			// 2020: the first shape already has documents
			"https://mofep.gov.gh/budgets/2020": {
				{URL: "https://mofep.gov.gh/files/2020.pdf", Text: "2020 Budget"},
			},
			// 2021: first shape is empty, second one delivers
			"https://mofep.gov.gh/archive?year=2021": {
				{URL: "https://mofep.gov.gh/files/2021.pdf", Text: "2021 Budget"},
			},
		},
	}

	walker := NewWalker(inspector)
	got := walker.WalkYears(context.Background(), YearSection{
		Name:  "backfill",
		Years: []string{"2020", "2021"},
		Shapes: []string{
			"https://mofep.gov.gh/budgets/%s",
			"https://mofep.gov.gh/archive?year=%s",
		},
		SourceType: document.SourceRenderedPage,
	})

	require.Len(t, got, 2)

	// 2020 stopped after its first shape; 2021 fell through to the second.
	assert.Equal(t, []string{
		"https://mofep.gov.gh/budgets/2020",
		"https://mofep.gov.gh/budgets/2021",
		"https://mofep.gov.gh/archive?year=2021",
	}, inspector.visits)
}

func TestHasDocumentExtension(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://x/doc.pdf", true},
		{"https://x/doc.PDF", true},
		{"https://x/sheet.xlsx", true},
		{"https://x/sheet.xls", true},
		{"https://x/data.csv", true},
		{"https://x/data.csv?download=1", true},
		{"https://x/page.html", false},
		{"https://x/photo.jpg", false},
		{"https://x/", false},
		{"", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, HasDocumentExtension(tc.url), tc.url)
	}
}
