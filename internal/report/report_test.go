package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oseilabs/econdocs/pkg/document"
)

func seedCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(category, name string) {
		dir := filepath.Join(root, category)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	write("budget_statements", "2021-budget.pdf")
	write("budget_statements", "2022-budget.pdf")
	write("budget_statements", "revenue-tables.xlsx")
	write("inflation_data", "cpi-series.csv")
	write("inflation_data", "notes.txt") // not a document type, ignored
	return root
}

func TestScanCorpus(t *testing.T) {
	root := seedCorpus(t)

	scan, err := ScanCorpus(root)
	require.NoError(t, err)

	assert.Equal(t, 4, scan.TotalFiles)

	budget := scan.Categories["budget_statements"]
	require.NotNil(t, budget)
	assert.Equal(t, 2, budget.PDF)
	assert.Equal(t, 1, budget.Excel)
	assert.Equal(t, 3, budget.Total)
	assert.False(t, budget.Empty)

	inflation := scan.Categories["inflation_data"]
	require.NotNil(t, inflation)
	assert.Equal(t, 1, inflation.CSV)
	assert.Equal(t, 1, inflation.Total, "non-document files are not counted")

	// Every category appears, even ones with no directory yet.
	for _, category := range document.AllCategories() {
		require.Contains(t, scan.Categories, string(category))
	}
	assert.True(t, scan.Categories["debt_reports"].Empty)
}

func TestGenerateWritesReportAndGuide(t *testing.T) {
	root := seedCorpus(t)

	summary := NewRunSummary()
	pr := summary.StartPhase("budget_statements")
	summary.Record(pr, document.CategoryBudgetStatements, document.FetchDownloaded, "2021-budget.pdf")
	summary.Record(pr, document.CategoryBudgetStatements, document.FetchSkipped, "")
	broken := summary.StartPhase("economic_reports")
	broken.Error = "navigation timed out"

	require.NoError(t, Generate(root, summary))

	data, err := os.ReadFile(filepath.Join(root, JSONFileName))
	require.NoError(t, err)

	var rpt Report
	require.NoError(t, json.Unmarshal(data, &rpt))
	assert.Equal(t, summary.RunID, rpt.RunID)
	require.Len(t, rpt.Phases, 2)
	assert.Equal(t, 1, rpt.Phases[0].Downloaded)
	assert.Equal(t, "navigation timed out", rpt.Phases[1].Error)
	assert.Equal(t, 4, rpt.Corpus.TotalFiles)

	guide, err := os.ReadFile(filepath.Join(root, GuideFileName))
	require.NoError(t, err)
	text := string(guide)
	assert.Contains(t, text, "# Economic Research Collection Guide")
	assert.Contains(t, text, "economic_reports (incomplete)")
	assert.Contains(t, text, "`budget_statements/`: 3 files")
	assert.Contains(t, text, "Suggested next steps")
}

func TestRunSummaryTallies(t *testing.T) {
	summary := NewRunSummary()
	assert.NotEmpty(t, summary.RunID)

	pr := summary.StartPhase("p")
	summary.Record(pr, document.CategoryDebtReports, document.FetchDownloaded, "a.pdf")
	summary.Record(pr, document.CategoryDebtReports, document.FetchFailed, "")
	summary.Record(pr, document.CategoryMonetaryReports, document.FetchDownloaded, "b.pdf")

	assert.Equal(t, 2, summary.TotalDownloaded())
	assert.Equal(t, 1, summary.Categories[document.CategoryDebtReports].Downloaded)
	assert.Equal(t, 1, summary.Categories[document.CategoryDebtReports].Failed)
	assert.Equal(t, []string{"a.pdf"}, summary.Categories[document.CategoryDebtReports].Files)
	assert.Empty(t, summary.FailedPhases())
}
