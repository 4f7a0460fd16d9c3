package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oseilabs/econdocs/pkg/document"
	"github.com/oseilabs/econdocs/pkg/logging"
)

// ErrUnreachable marks a download whose response was missing or not a
// success. It is recovered locally: the candidate is skipped and logged,
// never raised as fatal.
var ErrUnreachable = errors.New("document unreachable")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// DestinationName derives the dedup key for a candidate URL: the last path
// segment with the query stripped, unsafe characters replaced, and a .pdf
// extension forced when the source extension is not an allow-listed
// document type. It is a pure function of the URL, so two candidates with
// the same trailing segment collapse to the same file.
func DestinationName(rawURL string) string {
	segment := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		segment = u.Path
	} else if i := strings.IndexAny(segment, "?#"); i >= 0 {
		segment = segment[:i]
	}

	segment = path.Base(segment)
	if segment == "." || segment == "/" || segment == "" {
		segment = "document"
	}

	segment = unsafeChars.ReplaceAllString(segment, "_")

	if !allowedExtensions[strings.ToLower(path.Ext(segment))] {
		segment += ".pdf"
	}
	return segment
}

// Response is what the transport hands back for one retrieval: the HTTP
// status and the full byte payload.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the response counts as a success.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Transport retrieves one document's bytes. The production implementation
// is HTTP; tests substitute an in-memory one.
type Transport interface {
	Get(ctx context.Context, url string) (*Response, error)
}

// HTTPTransport downloads documents over plain HTTP with a generous
// timeout, since budget PDFs on government hosts can be large and slow.
type HTTPTransport struct {
	client    *http.Client
	userAgent string
}

// NewHTTPTransport builds the default transport.
func NewHTTPTransport(userAgent string) *HTTPTransport {
	return &HTTPTransport{
		client:    &http.Client{Timeout: 3 * time.Minute},
		userAgent: userAgent,
	}
}

// Get retrieves the full payload at url.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Outcome captures the result of one fetch attempt.
type Outcome struct {
	Status document.FetchStatus
	Record *document.DownloadRecord
	Err    error
}

// Fetcher persists candidates under <root>/<category>/<destinationName>,
// deduplicating on file existence. The existence probe is the only ledger:
// the first fetch under a name wins and later ones are skipped without any
// network I/O.
type Fetcher struct {
	root      string
	transport Transport
	delay     time.Duration

	// sleep is swapped out in tests
	sleep func(time.Duration)
}

// NewFetcher builds a fetcher writing under root with the given courtesy
// delay between download attempts.
func NewFetcher(root string, transport Transport, delay time.Duration) *Fetcher {
	return &Fetcher{
		root:      root,
		transport: transport,
		delay:     delay,
		sleep:     time.Sleep,
	}
}

// Root returns the base of the category tree.
func (f *Fetcher) Root() string {
	return f.root
}

// Fetch downloads one candidate into its category directory.
//
// A candidate whose destination file already exists is a Skipped outcome:
// no network request, no delay, and the existing file is left untouched. A
// missing or non-success response is a Failed outcome wrapping
// ErrUnreachable. Both the success and the unreachable path end with the
// fixed courtesy delay, since either way the remote host saw a request.
func (f *Fetcher) Fetch(ctx context.Context, candidate document.LinkCandidate, category document.Category) Outcome {
	log := logging.GetFetchLogger(string(category))

	if err := candidate.Validate(); err != nil {
		return Outcome{Status: document.FetchFailed, Err: err}
	}

	name := DestinationName(candidate.URL)
	dest := filepath.Join(f.root, string(category), name)

	if _, err := os.Stat(dest); err == nil {
		log.Debug().Str("file", name).Msg("Already collected, skipping")
		return Outcome{Status: document.FetchSkipped}
	}

	resp, err := f.transport.Get(ctx, candidate.URL)
	if err != nil || !resp.OK() {
		defer f.pause()
		status := 0
		if resp != nil {
			status = resp.Status
		}
		log.Warn().Str("url", candidate.URL).Int("status", status).Err(err).Msg("Document unreachable")
		return Outcome{
			Status: document.FetchFailed,
			Err:    fmt.Errorf("%w: %s (status %d)", ErrUnreachable, candidate.URL, status),
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		defer f.pause()
		log.Error().Str("file", name).Err(err).Msg("Could not create category directory")
		return Outcome{Status: document.FetchFailed, Err: err}
	}
	if err := os.WriteFile(dest, resp.Body, 0644); err != nil {
		defer f.pause()
		log.Error().Str("file", name).Err(err).Msg("Could not persist document")
		return Outcome{Status: document.FetchFailed, Err: err}
	}

	record := &document.DownloadRecord{
		Category:        category,
		DestinationName: name,
		URL:             candidate.URL,
		Bytes:           int64(len(resp.Body)),
		FetchedAt:       time.Now(),
	}

	log.Info().Str("file", name).Int64("bytes", record.Bytes).Msg("Document collected")

	f.pause()
	return Outcome{Status: document.FetchDownloaded, Record: record}
}

func (f *Fetcher) pause() {
	if f.delay > 0 {
		f.sleep(f.delay)
	}
}
