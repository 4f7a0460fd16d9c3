package taxonomy

import (
	"strconv"

	"github.com/oseilabs/econdocs/pkg/document"
)

// Theme names used where a theme needs matching behavior beyond plain
// keyword containment.
const (
	ThemeEconomicGrowth = "economic_growth"
	ThemeInflation      = "inflation"
	ThemeFiscal         = "fiscal"
	ThemeDebt           = "debt"
	ThemeMonetary       = "monetary"
	ThemeQuarterly      = "quarterly"
	ThemeAnnual         = "annual"
	ThemePolicy         = "policy"
)

// Theme maps one research theme to its keyword set and target category.
type Theme struct {
	Name     string            `json:"name"`
	Category document.Category `json:"category"`
	Keywords []string          `json:"keywords"`
}

// Taxonomy is the immutable keyword configuration shared by the classifier
// and the priority scorer. The order of Themes is the classification
// precedence: the first theme whose rule matches wins, so fiscal content
// mentioning GDP is filed as economic growth on purpose.
type Taxonomy struct {
	Themes          []Theme  `json:"themes"`
	Years           []string `json:"years"`
	PriorityPhrases []string `json:"priority_phrases"`
}

const (
	firstYear = 2000
	lastYear  = 2025
)

// Default returns the taxonomy for Ghana government and central-bank
// document collection. Keywords are matched as lower-case substrings.
func Default() *Taxonomy {
	years := make([]string, 0, lastYear-firstYear+1)
	for y := firstYear; y <= lastYear; y++ {
		years = append(years, strconv.Itoa(y))
	}

	return &Taxonomy{
		Themes: []Theme{
			{
				Name:     ThemeEconomicGrowth,
				Category: document.CategoryEconomicReports,
				Keywords: []string{
					"gdp", "gross domestic product", "economic growth",
					"real sector", "agriculture", "industry",
					"manufacturing", "services sector", "economic outlook",
				},
			},
			{
				Name:     ThemeInflation,
				Category: document.CategoryInflationData,
				Keywords: []string{
					"inflation", "consumer price", "cpi", "price index",
					"cost of living",
				},
			},
			{
				Name:     ThemeFiscal,
				Category: document.CategoryBudgetStatements,
				Keywords: []string{
					"budget", "fiscal", "appropriation", "expenditure",
					"revenue", "deficit", "mid-year review",
				},
			},
			{
				Name:     ThemeDebt,
				Category: document.CategoryDebtReports,
				Keywords: []string{
					"debt", "borrowing", "bond", "eurobond",
					"debt sustainability",
				},
			},
			{
				Name:     ThemeMonetary,
				Category: document.CategoryMonetaryReports,
				Keywords: []string{
					"monetary", "policy rate", "interest rate",
					"exchange rate", "money supply", "mpc", "treasury bill",
				},
			},
			{
				Name:     ThemeQuarterly,
				Category: document.CategoryQuarterlyReports,
				Keywords: []string{"quarter", "q1", "q2", "q3", "q4"},
			},
			{
				Name:     ThemeAnnual,
				Category: document.CategoryAnnualReports,
				Keywords: []string{"annual report"},
			},
			{
				Name:     ThemePolicy,
				Category: document.CategoryPolicyDocuments,
				Keywords: []string{
					"policy", "strategy", "framework", "guidelines",
					"directive",
				},
			},
		},
		Years: years,
		PriorityPhrases: []string{
			"budget statement",
			"economic policy",
		},
	}
}
