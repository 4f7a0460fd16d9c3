package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oseilabs/econdocs/pkg/document"
	"github.com/oseilabs/econdocs/pkg/logging"
)

const (
	// JSONFileName is the structured summary written at the download root.
	JSONFileName = "research_analysis_report.json"
	// GuideFileName is the human-readable next-steps digest.
	GuideFileName = "research_analysis_guide.md"
)

// CategoryFiles counts the document types sitting in one category
// directory.
type CategoryFiles struct {
	PDF   int  `json:"pdf"`
	Excel int  `json:"excel"`
	CSV   int  `json:"csv"`
	Total int  `json:"total"`
	Empty bool `json:"empty"`
}

// CorpusScan is a walk of the download root: what is actually on disk,
// including files left over from earlier runs.
type CorpusScan struct {
	TotalFiles int                       `json:"total_files"`
	Categories map[string]*CategoryFiles `json:"categories"`
}

// ScanCorpus counts PDF/Excel/CSV files per category directory. Categories
// with no directory yet are reported as empty rather than omitted.
func ScanCorpus(root string) (*CorpusScan, error) {
	scan := &CorpusScan{Categories: make(map[string]*CategoryFiles)}

	for _, category := range document.AllCategories() {
		files := &CategoryFiles{}
		scan.Categories[string(category)] = files

		entries, err := os.ReadDir(filepath.Join(root, string(category)))
		if err != nil {
			if os.IsNotExist(err) {
				files.Empty = true
				continue
			}
			return nil, fmt.Errorf("scanning %s: %w", category, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".pdf":
				files.PDF++
			case ".xlsx", ".xls":
				files.Excel++
			case ".csv":
				files.CSV++
			default:
				continue
			}
			files.Total++
			scan.TotalFiles++
		}
		files.Empty = files.Total == 0
	}

	return scan, nil
}

// Report is the structured summary serialized to JSON at the download
// root.
type Report struct {
	RunID       string                               `json:"run_id"`
	GeneratedAt time.Time                            `json:"generated_at"`
	StartedAt   time.Time                            `json:"started_at"`
	Phases      []*PhaseResult                       `json:"phases"`
	Categories  map[document.Category]*CategoryTally `json:"categories"`
	Corpus      *CorpusScan                          `json:"corpus"`
}

// Generate writes the JSON report and the Markdown guide at the download
// root. It never leaves a half-written run unreported: the corpus scan runs
// against whatever is on disk.
func Generate(root string, summary *RunSummary) error {
	log := logging.GetLogger("report")

	corpus, err := ScanCorpus(root)
	if err != nil {
		return fmt.Errorf("corpus scan: %w", err)
	}

	rpt := &Report{
		RunID:       summary.RunID,
		GeneratedAt: time.Now(),
		StartedAt:   summary.StartedAt,
		Phases:      summary.Phases,
		Categories:  summary.Categories,
		Corpus:      corpus,
	}

	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}
	jsonPath := filepath.Join(root, JSONFileName)
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", JSONFileName, err)
	}

	guidePath := filepath.Join(root, GuideFileName)
	if err := os.WriteFile(guidePath, []byte(renderGuide(rpt)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", GuideFileName, err)
	}

	log.Info().
		Str("report", jsonPath).
		Str("guide", guidePath).
		Int("files_on_disk", corpus.TotalFiles).
		Msg("Run report generated")

	return nil
}

// renderGuide builds the human-readable digest.
func renderGuide(rpt *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Economic Research Collection Guide\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", rpt.RunID, rpt.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "## Collection phases\n\n")
	fmt.Fprintf(&b, "| Phase | Downloaded | Skipped | Failed |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	for _, pr := range rpt.Phases {
		name := pr.Name
		if pr.Error != "" {
			name += " (incomplete)"
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", name, pr.Downloaded, pr.Skipped, pr.Failed)
	}

	fmt.Fprintf(&b, "\n## Corpus on disk\n\n")
	for _, category := range document.AllCategories() {
		files := rpt.Corpus.Categories[string(category)]
		if files == nil {
			continue
		}
		if files.Empty {
			fmt.Fprintf(&b, "- `%s/`: empty — consider re-running or checking the source site\n", category)
			continue
		}
		fmt.Fprintf(&b, "- `%s/`: %d files (%d PDF, %d Excel, %d CSV)\n",
			category, files.Total, files.PDF, files.Excel, files.CSV)
	}

	fmt.Fprintf(&b, "\n## Suggested next steps\n\n")
	fmt.Fprintf(&b, "1. Extract tables and text from the PDFs in `budget_statements/` and `economic_reports/`.\n")
	fmt.Fprintf(&b, "2. Normalize currency series (old cedis before 2007 divide by 10,000).\n")
	fmt.Fprintf(&b, "3. Cross-check fiscal aggregates against the files in `revenue_reports/` and `debt_reports/`.\n")
	fmt.Fprintf(&b, "4. Build year-indexed indicator series from `quarterly_reports/` and `inflation_data/`.\n")

	return b.String()
}
