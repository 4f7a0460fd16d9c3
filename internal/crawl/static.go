package crawl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// StaticInspector is a PageInspector over plain HTTP for pages that render
// server-side. The raw-data-file sweep uses it so the browser session stays
// free for pages that need JavaScript.
type StaticInspector struct {
	client    *http.Client
	userAgent string

	// last parsed page, replaced on every Navigate
	doc     *goquery.Document
	baseURL *url.URL
}

// NewStaticInspector builds a static inspector with the given per-request
// timeout and user agent.
func NewStaticInspector(timeout time.Duration, userAgent string) *StaticInspector {
	return &StaticInspector{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Navigate fetches and parses the page. A timeout maps onto
// ErrNavigationTimeout so the walker treats static and rendered pages the
// same way.
func (si *StaticInspector) Navigate(ctx context.Context, pageURL string) error {
	si.doc = nil
	si.baseURL = nil

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", si.userAgent)

	resp, err := si.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s", ErrNavigationTimeout, pageURL)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("bad status code %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	si.doc = doc
	si.baseURL = resp.Request.URL
	return nil
}

// QueryAnchors returns the href/text pairs matching the selector on the
// page loaded by the last Navigate, with hrefs resolved against the final
// request URL.
func (si *StaticInspector) QueryAnchors(ctx context.Context, selector string) ([]Anchor, error) {
	if si.doc == nil {
		return nil, fmt.Errorf("no page loaded")
	}

	var anchors []Anchor
	si.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		anchors = append(anchors, Anchor{
			URL:  si.resolve(href),
			Text: strings.TrimSpace(sel.Text()),
		})
	})
	return anchors, nil
}

func (si *StaticInspector) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if si.baseURL == nil {
		return href
	}
	return si.baseURL.ResolveReference(ref).String()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
