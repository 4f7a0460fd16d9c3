package browser

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/oseilabs/econdocs/internal/crawl"
	"github.com/oseilabs/econdocs/pkg/logging"
)

// Session owns the single browser tab every navigation in a run goes
// through. The collector is strictly sequential, so one tab context is all
// the run ever needs; closing the session tears down the whole browser.
type Session struct {
	tab         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	timeout     time.Duration
	log         zerolog.Logger
}

// Options configures the browser session.
type Options struct {
	Headless          bool
	NavigationTimeout time.Duration
	UserAgent         string
}

// NewSession starts a browser and opens the tab used for the whole run.
func NewSession(opts Options) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tab, cancelTab := chromedp.NewContext(allocCtx)

	s := &Session{
		tab:         tab,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		timeout:     opts.NavigationTimeout,
		log:         logging.GetLogger("browser"),
	}

	// Start the browser now and attach headers so the first Navigate does
	// not pay the startup cost inside its bounded timeout.
	if err := chromedp.Run(tab,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "en-GB,en;q=0.9",
		}),
	); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	s.log.Info().Bool("headless", opts.Headless).Dur("navigation_timeout", opts.NavigationTimeout).Msg("Browser session started")
	return s, nil
}

// Navigate loads a URL and waits for the document body to be ready, bounded
// by the configured navigation timeout. An expired timeout comes back as
// crawl.ErrNavigationTimeout so callers can recover locally.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := s.boundedTabContext(ctx)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", crawl.ErrNavigationTimeout, url)
		}
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// QueryAnchors evaluates a DOM query in the page context and returns the
// matching anchors with resolved hrefs.
func (s *Session) QueryAnchors(ctx context.Context, selector string) ([]crawl.Anchor, error) {
	queryCtx, cancel := s.boundedTabContext(ctx)
	defer cancel()

	script := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%s)).map(function(a) {
			return {url: a.href || '', text: (a.textContent || '').trim()};
		})`,
		strconv.Quote(selector),
	)

	var anchors []crawl.Anchor
	if err := chromedp.Run(queryCtx, chromedp.Evaluate(script, &anchors)); err != nil {
		return nil, fmt.Errorf("evaluating anchor query: %w", err)
	}
	return anchors, nil
}

// boundedTabContext derives a timeout-bounded context from the tab, since
// chromedp operations must descend from the tab's context chain, and links
// it to the caller's context so cancelling the run interrupts an in-flight
// browser operation.
func (s *Session) boundedTabContext(ctx context.Context) (context.Context, context.CancelFunc) {
	opCtx, cancel := context.WithTimeout(s.tab, s.timeout)
	stop := context.AfterFunc(ctx, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

// Close shuts the tab and the browser down.
func (s *Session) Close() {
	s.cancelTab()
	s.cancelAlloc()
	s.log.Info().Msg("Browser session closed")
}
