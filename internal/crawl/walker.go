package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/oseilabs/econdocs/pkg/document"
	"github.com/oseilabs/econdocs/pkg/logging"
)

// ErrNavigationTimeout marks a section URL that never became ready within
// the configured navigation timeout. It is always recovered locally: the
// walk logs it and moves on to the next candidate URL.
var ErrNavigationTimeout = errors.New("navigation timed out")

// Anchor is one href/text pair returned by a page scan. The URL is the
// resolved href, not the raw attribute.
type Anchor struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// PageInspector is the capability the walker needs from the
// browser-automation collaborator: navigate with a bounded ready-wait, and
// query anchors out of the live DOM.
type PageInspector interface {
	Navigate(ctx context.Context, url string) error
	QueryAnchors(ctx context.Context, selector string) ([]Anchor, error)
}

// DefaultSelector matches every anchor with an href; sections narrow the
// result with their filter predicate instead of with fancier selectors,
// since government CMS markup changes too often to rely on.
const DefaultSelector = "a[href]"

// documentExtensions is the allow-list of downloadable document types.
var documentExtensions = []string{".pdf", ".xlsx", ".xls", ".csv"}

// HasDocumentExtension reports whether a URL path ends in one of the
// allow-listed document extensions.
func HasDocumentExtension(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.ToLower(p)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// Filter decides whether an anchor belongs to a section's result set. It
// sees the resolved href and the anchor's visible text.
type Filter func(href, text string) bool

// KeywordFilter accepts anchors whose href or text contains any of the
// given lower-case keywords.
func KeywordFilter(keywords ...string) Filter {
	return func(href, text string) bool {
		combined := strings.ToLower(href + " " + text)
		for _, kw := range keywords {
			if strings.Contains(combined, kw) {
				return true
			}
		}
		return false
	}
}

// Section is one logical site area to walk: an ordered list of candidate
// URLs and a filter for the anchors found there.
type Section struct {
	Name       string
	URLs       []string
	Selector   string
	Filter     Filter
	SourceType document.SourceType
}

// YearSection is a year-indexed archive. For every year, Shapes are URL
// patterns (fmt verbs with one %s for the year) tried in order.
type YearSection struct {
	Name       string
	Years      []string
	Shapes     []string
	Selector   string
	Filter     Filter
	SourceType document.SourceType
}

// Walker extracts document link candidates from one logical site using a
// single page inspector. Results are finite plain slices; re-walking a
// section performs a fresh navigation pass.
type Walker struct {
	inspector PageInspector
	log       zerolog.Logger
}

// NewWalker builds a walker over the given inspector.
func NewWalker(inspector PageInspector) *Walker {
	return &Walker{
		inspector: inspector,
		log:       logging.GetLogger("walker"),
	}
}

// Walk visits each of the section's URLs in order and collects every anchor
// that points at a document and passes the section filter. A navigation
// failure on one URL never aborts the walk; the page is logged and skipped.
// A page with no matching anchors yields nothing and is not an error.
func (w *Walker) Walk(ctx context.Context, sec Section) []document.LinkCandidate {
	var candidates []document.LinkCandidate
	for _, pageURL := range sec.URLs {
		candidates = append(candidates, w.walkPage(ctx, sec.Name, pageURL, sec.Selector, sec.Filter, sec.SourceType)...)
	}
	return candidates
}

// WalkYears visits a year-indexed archive. Within one year the URL shapes
// are tried in order and the first shape that yields at least one candidate
// short-circuits the rest of the shapes for that year only; every year is
// still attempted.
func (w *Walker) WalkYears(ctx context.Context, sec YearSection) []document.LinkCandidate {
	var candidates []document.LinkCandidate
	for _, year := range sec.Years {
		for _, shape := range sec.Shapes {
			pageURL := fmt.Sprintf(shape, year)
			found := w.walkPage(ctx, sec.Name, pageURL, sec.Selector, sec.Filter, sec.SourceType)
			if len(found) > 0 {
				candidates = append(candidates, found...)
				break
			}
		}
	}
	return candidates
}

func (w *Walker) walkPage(ctx context.Context, section, pageURL, selector string, filter Filter, sourceType document.SourceType) []document.LinkCandidate {
	if selector == "" {
		selector = DefaultSelector
	}

	if err := w.inspector.Navigate(ctx, pageURL); err != nil {
		event := w.log.Warn().Str("section", section).Str("url", pageURL)
		if errors.Is(err, ErrNavigationTimeout) {
			event.Msg("Page never became ready, skipping")
		} else {
			event.Err(err).Msg("Navigation failed, skipping")
		}
		return nil
	}

	anchors, err := w.inspector.QueryAnchors(ctx, selector)
	if err != nil {
		w.log.Warn().Str("section", section).Str("url", pageURL).Err(err).Msg("Anchor scan failed, skipping")
		return nil
	}

	var candidates []document.LinkCandidate
	for _, a := range anchors {
		if a.URL == "" || !HasDocumentExtension(a.URL) {
			continue
		}
		if filter != nil && !filter(a.URL, a.Text) {
			continue
		}
		candidates = append(candidates, document.LinkCandidate{
			URL:        a.URL,
			Text:       strings.TrimSpace(a.Text),
			SourceType: sourceType,
		})
	}

	w.log.Debug().
		Str("section", section).
		Str("url", pageURL).
		Int("anchors", len(anchors)).
		Int("candidates", len(candidates)).
		Msg("Page walked")

	return candidates
}
