package dto

import "github.com/shopspring/decimal"

type BestPriceResponse struct {
	Price         decimal.Decimal `json:"price"`
	MarketID      string          `json:"market_id"`
	MarketName    string          `json:"market_name"`
	MarketAddress string          `json:"market_address"`
	Date          string          `json:"date"`
}

type ItemSavingsResponse struct {
	ItemID  string             `json:"item_id"`
	Name    string             `json:"name"`
	Price   decimal.Decimal    `json:"price"`
	Savings decimal.Decimal    `json:"savings"`
	Best    *BestPriceResponse `json:"best,omitempty"`
}

// ListSavingsResponse drives the savings banner: the advisory estimate of how
// much the list could save at the cheapest known stores.
type ListSavingsResponse struct {
	ListID  string                `json:"list_id"`
	Savings decimal.Decimal       `json:"savings"`
	Items   []ItemSavingsResponse `json:"items"`
}

// IntelligenceItem is one row of the full price-intelligence report.
type IntelligenceItem struct {
	ItemID           string             `json:"item_id"`
	Name             string             `json:"name"`
	Price            decimal.Decimal    `json:"price"`
	Amount           decimal.Decimal    `json:"amount"`
	Savings          decimal.Decimal    `json:"savings"`
	CheaperElsewhere bool               `json:"cheaper_elsewhere"`
	Best             *BestPriceResponse `json:"best,omitempty"`
}

type IntelligenceReportResponse struct {
	ListID       string             `json:"list_id"`
	TotalSavings decimal.Decimal    `json:"total_savings"`
	Items        []IntelligenceItem `json:"items"`
}
