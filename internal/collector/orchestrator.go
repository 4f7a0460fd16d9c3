package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oseilabs/econdocs/internal/classify"
	"github.com/oseilabs/econdocs/internal/crawl"
	"github.com/oseilabs/econdocs/internal/fetch"
	"github.com/oseilabs/econdocs/internal/report"
	"github.com/oseilabs/econdocs/internal/taxonomy"
	"github.com/oseilabs/econdocs/pkg/config"
	"github.com/oseilabs/econdocs/pkg/document"
	"github.com/oseilabs/econdocs/pkg/logging"
)

// Orchestrator runs the full collection sequence: a fixed, ordered list of
// phases over one browser session, one static inspector, and one output
// tree. Everything is single-threaded; the only synchronization primitive
// in the whole run is the fetcher's file-existence probe.
type Orchestrator struct {
	tax        *taxonomy.Taxonomy
	classifier *classify.Classifier
	scorer     *classify.Scorer
	rendered   *crawl.Walker
	static     *crawl.Walker
	fetcher    *fetch.Fetcher
	log        zerolog.Logger
	summary    *report.RunSummary
}

// New wires an orchestrator. The rendered inspector is the browser session;
// the static inspector handles plain server-rendered pages; the transport
// performs document downloads.
func New(cfg *config.CollectorConfig, rendered, static crawl.PageInspector, transport fetch.Transport) *Orchestrator {
	tax := taxonomy.Default()
	return &Orchestrator{
		tax:        tax,
		classifier: classify.NewClassifier(tax),
		scorer:     classify.NewScorer(tax),
		rendered:   crawl.NewWalker(rendered),
		static:     crawl.NewWalker(static),
		fetcher:    fetch.NewFetcher(cfg.DownloadRoot, transport, cfg.InterDownloadDelay),
		log:        logging.GetLogger("collector"),
		summary:    report.NewRunSummary(),
	}
}

// phase is one step of the fixed collection sequence.
type phase struct {
	name string
	run  func(ctx context.Context, pr *report.PhaseResult) error
}

func (o *Orchestrator) phases() []phase {
	return []phase{
		{"budget_statements", o.collectBudgetStatements},
		{"historical_backfill", o.collectHistoricalBackfill},
		{"economic_reports", o.collectEconomicReports},
		{"quarterly_reports", o.collectQuarterlyReports},
		{"monetary_inflation", o.collectMonetaryInflation},
		{"statistical_service", o.collectStatisticalService},
		{"revenue_reports", o.collectRevenueReports},
		{"debt_reports", o.collectDebtReports},
		{"international_references", o.collectInternationalReferences},
		{"financial_sector", o.collectFinancialSector},
		{"raw_data_sweep", o.sweepRawDataFiles},
	}
}

// RunAll executes every phase in order and finishes with report
// generation. A failure inside one phase is absorbed at the phase boundary:
// it is logged, recorded in the summary, and the next phase still runs. A
// cancelled context stops new phases from starting. Either way the run
// reaches the report, covering whatever landed on disk.
func (o *Orchestrator) RunAll(ctx context.Context) (*report.RunSummary, error) {
	o.log.Info().Str("run_id", o.summary.RunID).Msg("Collection run starting")

	for _, p := range o.phases() {
		if ctx.Err() != nil {
			o.log.Warn().Err(ctx.Err()).Msg("Run cancelled, skipping remaining phases")
			break
		}
		o.runPhase(ctx, p)
	}

	o.summary.FinishedAt = time.Now()

	if err := report.Generate(o.fetcher.Root(), o.summary); err != nil {
		o.log.Error().Err(err).Msg("Report generation failed")
		return o.summary, err
	}

	o.log.Info().
		Str("run_id", o.summary.RunID).
		Int("downloaded", o.summary.TotalDownloaded()).
		Strs("failed_phases", o.summary.FailedPhases()).
		Msg("Collection run finished")

	return o.summary, nil
}

// runPhase is the fault-isolation boundary. Panics and returned errors both
// end up as a recorded phase failure, never as a run abort.
func (o *Orchestrator) runPhase(ctx context.Context, p phase) {
	pr := o.summary.StartPhase(p.name)
	log := logging.GetPhaseLogger(p.name)
	log.Info().Msg("Phase starting")

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("phase panicked: %v", r)
			}
		}()
		return p.run(ctx, pr)
	}()

	if err != nil {
		pr.Error = err.Error()
		log.Warn().Err(err).Msg("Phase failed, continuing with next phase")
		return
	}

	log.Info().
		Int("downloaded", pr.Downloaded).
		Int("skipped", pr.Skipped).
		Int("failed", pr.Failed).
		Msg("Phase complete")
}

// collectSections walks each section and processes its candidates. An empty
// pinned category means candidates are classified individually.
func (o *Orchestrator) collectSections(ctx context.Context, pr *report.PhaseResult, walker *crawl.Walker, sections []crawl.Section, pinned document.Category) error {
	for _, sec := range sections {
		o.process(ctx, pr, walker.Walk(ctx, sec), pinned)
	}
	return nil
}

// process classifies, scores, orders, and fetches one batch of candidates.
// Scoring never filters: every candidate is fetched, just in descending
// score order, so higher-value titles claim contested destination names.
func (o *Orchestrator) process(ctx context.Context, pr *report.PhaseResult, candidates []document.LinkCandidate, pinned document.Category) {
	scored := make([]classify.ScoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		category := pinned
		if category == "" {
			category = o.classifier.Classify(cand.Text, cand.URL)
		}
		scored = append(scored, classify.ScoredCandidate{
			Candidate: cand,
			Category:  category,
			Score:     o.scorer.Score(cand.Text, cand.URL),
		})
	}

	classify.SortByScore(scored)

	for _, sc := range scored {
		if ctx.Err() != nil {
			return
		}
		outcome := o.fetcher.Fetch(ctx, sc.Candidate, sc.Category)
		file := ""
		if outcome.Record != nil {
			file = outcome.Record.DestinationName
		}
		o.summary.Record(pr, sc.Category, outcome.Status, file)
	}
}

func (o *Orchestrator) collectBudgetStatements(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, budgetStatementSections(), "")
}

// collectHistoricalBackfill walks the year-indexed budget archive for every
// year in the taxonomy's range, trying each URL shape until one yields
// documents for that year.
func (o *Orchestrator) collectHistoricalBackfill(ctx context.Context, pr *report.PhaseResult) error {
	candidates := o.rendered.WalkYears(ctx, crawl.YearSection{
		Name:       "budget archive backfill",
		Years:      o.tax.Years,
		Shapes:     historicalBudgetShapes(),
		Filter:     crawl.KeywordFilter("budget", "statement", "appropriation"),
		SourceType: document.SourceRenderedPage,
	})
	o.process(ctx, pr, candidates, document.CategoryBudgetStatements)
	return nil
}

func (o *Orchestrator) collectEconomicReports(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, economicReportSections(), "")
}

func (o *Orchestrator) collectQuarterlyReports(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, quarterlySections(), "")
}

func (o *Orchestrator) collectMonetaryInflation(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, monetaryInflationSections(), "")
}

func (o *Orchestrator) collectStatisticalService(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, statisticalServiceSections(), "")
}

// The revenue and debt phases pin their categories: those sites publish a
// single kind of document, and the rule chain has no revenue rule at all.
func (o *Orchestrator) collectRevenueReports(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, revenueSections(), document.CategoryRevenueReports)
}

func (o *Orchestrator) collectDebtReports(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, debtSections(), document.CategoryDebtReports)
}

func (o *Orchestrator) collectInternationalReferences(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, internationalSections(), "")
}

func (o *Orchestrator) collectFinancialSector(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.rendered, financialSectorSections(), "")
}

// sweepRawDataFiles grabs everything with a document extension off the
// static data-index pages, classified per candidate.
func (o *Orchestrator) sweepRawDataFiles(ctx context.Context, pr *report.PhaseResult) error {
	return o.collectSections(ctx, pr, o.static, rawDataSections(), "")
}
