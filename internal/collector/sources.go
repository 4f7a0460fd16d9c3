package collector

import (
	"github.com/oseilabs/econdocs/internal/crawl"
	"github.com/oseilabs/econdocs/pkg/document"
)

// Crawl targets. Government CMS layouts drift, so every section lists a few
// plausible URLs and lets the walker skip the dead ones.

func budgetStatementSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "mof budget statements",
			URLs: []string{
				"https://mofep.gov.gh/publications/budget-statements",
				"https://mofep.gov.gh/budget-statements",
			},
			Filter:     crawl.KeywordFilter("budget", "appropriation", "mid-year"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

// historicalBudgetShapes are the URL variants tried per year during the
// backfill, most recent layout first.
func historicalBudgetShapes() []string {
	return []string{
		"https://mofep.gov.gh/publications/budget-statements/%s",
		"https://mofep.gov.gh/budget-statements/%s",
		"https://mofep.gov.gh/documents/budget/%s-budget",
	}
}

func economicReportSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "mof economic data",
			URLs: []string{
				"https://mofep.gov.gh/publications/economic-data",
				"https://mofep.gov.gh/publications/fiscal-data",
				"https://mofep.gov.gh/news-and-events/reports",
			},
			Filter:     crawl.KeywordFilter("economic", "fiscal", "gdp", "outlook", "review"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func quarterlySections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "bog quarterly bulletins",
			URLs: []string{
				"https://www.bog.gov.gh/publications/quarterly-bulletin",
				"https://www.bog.gov.gh/publications/quarterly-economic-bulletin",
			},
			Filter:     crawl.KeywordFilter("quarter", "bulletin"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func monetaryInflationSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "bog monetary policy",
			URLs: []string{
				"https://www.bog.gov.gh/monetary-policy/mpc-press-releases",
				"https://www.bog.gov.gh/publications/monetary-policy-report",
			},
			Filter:     crawl.KeywordFilter("monetary", "mpc", "policy rate", "inflation"),
			SourceType: document.SourceRenderedPage,
		},
		{
			Name: "bog statistics",
			URLs: []string{
				"https://www.bog.gov.gh/economic-data/inflation-rates",
				"https://www.bog.gov.gh/statistics/statistical-bulletin",
			},
			Filter:     crawl.KeywordFilter("inflation", "cpi", "statistic"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func statisticalServiceSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "gss publications",
			URLs: []string{
				"https://statsghana.gov.gh/publications.php",
				"https://statsghana.gov.gh/nationalaccount_macros.php",
			},
			Filter:     crawl.KeywordFilter("cpi", "gdp", "inflation", "statistic", "index"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func revenueSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "gra and mof revenue",
			URLs: []string{
				"https://gra.gov.gh/publications",
				"https://mofep.gov.gh/publications/revenue-reports",
			},
			Filter:     crawl.KeywordFilter("revenue", "tax", "receipt"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func debtSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "mof debt management",
			URLs: []string{
				"https://mofep.gov.gh/publications/public-debt",
				"https://mofep.gov.gh/divisions/tdmd/publications",
			},
			Filter:     crawl.KeywordFilter("debt", "bond", "borrowing"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func internationalSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "imf ghana",
			URLs: []string{
				"https://www.imf.org/en/Countries/GHA",
			},
			Filter:     crawl.KeywordFilter("ghana", "article iv", "country report"),
			SourceType: document.SourceRenderedPage,
		},
		{
			Name: "world bank ghana",
			URLs: []string{
				"https://www.worldbank.org/en/country/ghana/overview",
			},
			Filter:     crawl.KeywordFilter("ghana", "economic update"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

func financialSectorSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "bog banking sector",
			URLs: []string{
				"https://www.bog.gov.gh/publications/banking-sector-report",
				"https://www.bog.gov.gh/supervision-regulation/banking-sector-reports",
			},
			Filter:     crawl.KeywordFilter("banking", "financial", "stability"),
			SourceType: document.SourceRenderedPage,
		},
	}
}

// rawDataSections are plain server-rendered index pages crawled with the
// static inspector; no filter, since everything with a document extension
// on these pages is data.
func rawDataSections() []crawl.Section {
	return []crawl.Section{
		{
			Name: "gss data catalog",
			URLs: []string{
				"https://statsghana.gov.gh/gsscsv.php",
				"https://www.bog.gov.gh/economic-data",
			},
			SourceType: document.SourceStaticPage,
		},
	}
}
