package analysis

import (
	"fmt"

	"finchat/internal/dataflows"
)

// ProfileReport is the structured company profile summary.
type ProfileReport struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Country  string `json:"country"`
	Website  string `json:"website"`

	Employees         int64  `json:"employees,omitempty"`
	Exchange          string `json:"exchange"`
	Currency          string `json:"currency"`
	MarketCap         int64  `json:"market_cap,omitempty"`
	SharesOutstanding int64  `json:"shares_outstanding,omitempty"`

	BusinessSummary string `json:"business_summary"`
}

// AnalyzeProfile structures the profile fields of a company snapshot.
func AnalyzeProfile(info *dataflows.CompanyInfo) (*ProfileReport, error) {
	if info == nil {
		return nil, fmt.Errorf("no company information provided")
	}

	report := &ProfileReport{
		Symbol:            info.Symbol,
		Name:              info.Name,
		Sector:            orNA(info.Sector),
		Industry:          orNA(info.Industry),
		Country:           orNA(info.Country),
		Website:           orNA(info.Website),
		Employees:         info.Employees,
		Exchange:          orNA(info.Exchange),
		Currency:          orNA(info.Currency),
		MarketCap:         info.MarketCap,
		SharesOutstanding: info.SharesOutstanding,
		BusinessSummary:   info.Summary,
	}
	if report.BusinessSummary == "" {
		report.BusinessSummary = "No summary available."
	}
	return report, nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
