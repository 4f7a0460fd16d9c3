package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/oseilabs/econdocs/pkg/document"
)

// PhaseResult tallies one collection phase. A phase that blew up carries
// the error text; its partial tallies up to that point are kept.
type PhaseResult struct {
	Name       string `json:"name"`
	Downloaded int    `json:"downloaded"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
}

// CategoryTally aggregates outcomes and collected files per category.
type CategoryTally struct {
	Downloaded int      `json:"downloaded"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	Files      []string `json:"files"`
}

// RunSummary accumulates the state of one collection run. It is the only
// run state there is; nothing is persisted across runs beyond the document
// files themselves.
type RunSummary struct {
	RunID      string                               `json:"run_id"`
	StartedAt  time.Time                            `json:"started_at"`
	FinishedAt time.Time                            `json:"finished_at"`
	Phases     []*PhaseResult                       `json:"phases"`
	Categories map[document.Category]*CategoryTally `json:"categories"`
}

// NewRunSummary starts a summary for a fresh run.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		RunID:      uuid.New().String(),
		StartedAt:  time.Now(),
		Categories: make(map[document.Category]*CategoryTally),
	}
}

// StartPhase registers a phase and returns its result slot.
func (rs *RunSummary) StartPhase(name string) *PhaseResult {
	pr := &PhaseResult{Name: name}
	rs.Phases = append(rs.Phases, pr)
	return pr
}

// Record books one fetch outcome against a phase and a category.
func (rs *RunSummary) Record(phase *PhaseResult, category document.Category, status document.FetchStatus, file string) {
	tally := rs.Categories[category]
	if tally == nil {
		tally = &CategoryTally{}
		rs.Categories[category] = tally
	}

	switch status {
	case document.FetchDownloaded:
		phase.Downloaded++
		tally.Downloaded++
		tally.Files = append(tally.Files, file)
	case document.FetchSkipped:
		phase.Skipped++
		tally.Skipped++
	case document.FetchFailed:
		phase.Failed++
		tally.Failed++
	}
}

// TotalDownloaded sums downloads across all phases.
func (rs *RunSummary) TotalDownloaded() int {
	n := 0
	for _, pr := range rs.Phases {
		n += pr.Downloaded
	}
	return n
}

// FailedPhases lists the phases that were cut short by an error.
func (rs *RunSummary) FailedPhases() []string {
	var names []string
	for _, pr := range rs.Phases {
		if pr.Error != "" {
			names = append(names, pr.Name)
		}
	}
	return names
}
