package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oseilabs/econdocs/pkg/document"
)

// fakeTransport serves canned responses and counts requests per URL.
type fakeTransport struct {
	responses map[string]*Response
	errs      map[string]error
	calls     map[string]int
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		responses: make(map[string]*Response),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (ft *fakeTransport) Get(_ context.Context, url string) (*Response, error) {
	ft.calls[url]++
	if err, ok := ft.errs[url]; ok {
		return nil, err
	}
	if resp, ok := ft.responses[url]; ok {
		return resp, nil
	}
	return &Response{Status: 404}, nil
}

func newTestFetcher(t *testing.T, transport Transport) (*Fetcher, *[]time.Duration) {
	t.Helper()
	f := NewFetcher(t.TempDir(), transport, 2*time.Second)
	var slept []time.Duration
	f.sleep = func(d time.Duration) { slept = append(slept, d) }
	return f, &slept
}

func TestDestinationName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://mofep.gov.gh/files/2021-budget.pdf", "2021-budget.pdf"},
		{"https://mofep.gov.gh/files/data.csv?download=1", "data.csv"},
		{"https://x/files/Revenue Tables (final).xlsx", "Revenue_Tables__final_.xlsx"},
		{"https://x/report", "report.pdf"},
		{"https://x/doc.aspx", "doc.aspx.pdf"},
		{"https://x/UPPER.PDF", "UPPER.PDF"},
		{"https://x/", "document.pdf"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, DestinationName(tc.url), tc.url)
	}

	// Pure function: same trailing segment, same name, regardless of host.
	assert.Equal(t,
		DestinationName("https://a.example/x/report.pdf"),
		DestinationName("https://b.example/y/report.pdf"))
}

func TestFetchPersistsDocument(t *testing.T) {
	transport := newFakeTransport()
	transport.responses["https://x/doc.pdf"] = &Response{Status: 200, Body: []byte("pdf-bytes")}
	fetcher, slept := newTestFetcher(t, transport)

	outcome := fetcher.Fetch(context.Background(), document.LinkCandidate{
		URL:  "https://x/doc.pdf",
		Text: "Budget doc",
	}, document.CategoryBudgetStatements)

	require.Equal(t, document.FetchDownloaded, outcome.Status)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, "doc.pdf", outcome.Record.DestinationName)
	assert.Equal(t, int64(9), outcome.Record.Bytes)
	assert.Equal(t, document.CategoryBudgetStatements, outcome.Record.Category)

	data, err := os.ReadFile(filepath.Join(fetcher.Root(), "budget_statements", "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))

	assert.Len(t, *slept, 1, "download is followed by the courtesy delay")
}

func TestFetchDedupIdempotence(t *testing.T) {
	transport := newFakeTransport()
	transport.responses["https://x/doc.pdf"] = &Response{Status: 200, Body: []byte("first")}
	fetcher, slept := newTestFetcher(t, transport)

	candidate := document.LinkCandidate{URL: "https://x/doc.pdf"}

	first := fetcher.Fetch(context.Background(), candidate, document.CategoryDebtReports)
	require.Equal(t, document.FetchDownloaded, first.Status)

	// Different payload on the wire now, but the slot is already taken.
	transport.responses["https://x/doc.pdf"] = &Response{Status: 200, Body: []byte("second")}

	second := fetcher.Fetch(context.Background(), candidate, document.CategoryDebtReports)
	assert.Equal(t, document.FetchSkipped, second.Status)
	assert.Nil(t, second.Record)

	data, err := os.ReadFile(filepath.Join(fetcher.Root(), "debt_reports", "doc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data), "a skip never overwrites")

	assert.Equal(t, 1, transport.calls["https://x/doc.pdf"], "skips perform no network I/O")
	assert.Len(t, *slept, 1, "skips are exempt from the delay")
}

func TestFetchUnreachable(t *testing.T) {
	transport := newFakeTransport()
	transport.responses["https://x/missing.pdf"] = &Response{Status: 404}
	transport.errs["https://x/refused.pdf"] = fmt.Errorf("connection refused")
	fetcher, slept := newTestFetcher(t, transport)

	for _, url := range []string{"https://x/missing.pdf", "https://x/refused.pdf"} {
		outcome := fetcher.Fetch(context.Background(), document.LinkCandidate{URL: url}, document.CategoryEconomicReports)
		assert.Equal(t, document.FetchFailed, outcome.Status)
		assert.ErrorIs(t, outcome.Err, ErrUnreachable)
		assert.Nil(t, outcome.Record)
	}

	// No file appears for a failed fetch.
	entries, err := os.ReadDir(fetcher.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Len(t, *slept, 2, "the remote host saw a request either way")
}

func TestFetchSameNameAcrossCategories(t *testing.T) {
	transport := newFakeTransport()
	transport.responses["https://a/report.pdf"] = &Response{Status: 200, Body: []byte("a")}
	transport.responses["https://b/report.pdf"] = &Response{Status: 200, Body: []byte("b")}
	fetcher, _ := newTestFetcher(t, transport)

	first := fetcher.Fetch(context.Background(), document.LinkCandidate{URL: "https://a/report.pdf"}, document.CategoryDebtReports)
	second := fetcher.Fetch(context.Background(), document.LinkCandidate{URL: "https://b/report.pdf"}, document.CategoryRevenueReports)

	// The probe is per category directory, so both land on disk.
	assert.Equal(t, document.FetchDownloaded, first.Status)
	assert.Equal(t, document.FetchDownloaded, second.Status)
	assert.FileExists(t, filepath.Join(fetcher.Root(), "debt_reports", "report.pdf"))
	assert.FileExists(t, filepath.Join(fetcher.Root(), "revenue_reports", "report.pdf"))
}
