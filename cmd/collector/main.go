package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oseilabs/econdocs/internal/browser"
	"github.com/oseilabs/econdocs/internal/collector"
	"github.com/oseilabs/econdocs/internal/crawl"
	"github.com/oseilabs/econdocs/internal/fetch"
	"github.com/oseilabs/econdocs/pkg/config"
	"github.com/oseilabs/econdocs/pkg/logging"
)

func main() {
	fmt.Println("🇬🇭 GHANA ECONOMIC DOCUMENT COLLECTOR")
	fmt.Println("=====================================")
	fmt.Println("Collecting budget statements, economic reports and statistical data")
	fmt.Println()

	cfg := config.DefaultCollectorConfig()

	if err := logging.SetupLogger(cfg.Logging); err != nil {
		fmt.Printf("❌ Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	logger := logging.GetLogger("main")
	logger.Info().Str("download_root", cfg.DownloadRoot).Msg("Starting collection run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.NewSession(browser.Options{
		Headless:          cfg.Headless,
		NavigationTimeout: cfg.NavigationTimeout,
		UserAgent:         cfg.UserAgent,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to start browser session")
		os.Exit(1)
	}
	defer session.Close()

	static := crawl.NewStaticInspector(cfg.NavigationTimeout, cfg.UserAgent)
	transport := fetch.NewHTTPTransport(cfg.UserAgent)

	orch := collector.New(cfg, session, static, transport)

	summary, err := orch.RunAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Collection run failed")
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("📊 RUN COMPLETE")
	fmt.Printf("   Documents downloaded: %d\n", summary.TotalDownloaded())
	if failed := summary.FailedPhases(); len(failed) > 0 {
		fmt.Printf("   Incomplete phases:    %v\n", failed)
	}
	fmt.Printf("   Report: %s\n", cfg.DownloadRoot)

	logger.Info().
		Int("downloaded", summary.TotalDownloaded()).
		Strs("failed_phases", summary.FailedPhases()).
		Msg("Collection run finished")
}
