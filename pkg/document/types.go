package document

import (
	"fmt"
	"time"
)

// Category is one of the fixed research-theme buckets a collected document
// is filed under. The set is closed; classification always lands in it.
type Category string

const (
	CategoryBudgetStatements Category = "budget_statements"
	CategoryEconomicReports  Category = "economic_reports"
	CategoryRevenueReports   Category = "revenue_reports"
	CategoryDebtReports      Category = "debt_reports"
	CategoryMonetaryReports  Category = "monetary_reports"
	CategoryInflationData    Category = "inflation_data"
	CategoryQuarterlyReports Category = "quarterly_reports"
	CategoryAnnualReports    Category = "annual_reports"
	CategoryPolicyDocuments  Category = "policy_documents"
)

// DefaultCategory is where a candidate lands when no taxonomy rule matches.
const DefaultCategory = CategoryEconomicReports

// AllCategories returns the fixed category set in directory order.
func AllCategories() []Category {
	return []Category{
		CategoryBudgetStatements,
		CategoryEconomicReports,
		CategoryRevenueReports,
		CategoryDebtReports,
		CategoryMonetaryReports,
		CategoryInflationData,
		CategoryQuarterlyReports,
		CategoryAnnualReports,
		CategoryPolicyDocuments,
	}
}

// Valid reports whether c belongs to the fixed category set.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// SourceType describes which kind of page scan produced a candidate.
type SourceType string

const (
	SourceRenderedPage SourceType = "rendered_page"
	SourceStaticPage   SourceType = "static_page"
)

// LinkCandidate is a discovered document link that has not been classified
// or fetched yet. Candidates are immutable and live only within one crawl
// pass.
type LinkCandidate struct {
	URL        string     `json:"url"`
	Text       string     `json:"text"`
	SourceType SourceType `json:"source_type"`
}

// Validate checks that a candidate carries enough to be fetched.
func (lc LinkCandidate) Validate() error {
	if lc.URL == "" {
		return fmt.Errorf("link candidate must have a URL")
	}
	return nil
}

// DownloadRecord is created when a document is persisted. Its presence on
// the filesystem (category directory + destination name) is the only dedup
// signal the collector keeps between runs.
type DownloadRecord struct {
	Category        Category  `json:"category"`
	DestinationName string    `json:"destination_name"`
	URL             string    `json:"url"`
	Bytes           int64     `json:"bytes"`
	FetchedAt       time.Time `json:"fetched_at"`
}

// FetchStatus is the per-candidate outcome of a fetch attempt.
type FetchStatus string

const (
	FetchDownloaded FetchStatus = "downloaded"
	FetchSkipped    FetchStatus = "skipped"
	FetchFailed     FetchStatus = "failed"
)
