package dto

import "github.com/shopspring/decimal"

type HistoryItemResponse struct {
	Name     string          `json:"name"`
	UnitType string          `json:"unit_type"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Brand    string          `json:"brand"`
}

type HistoryEntryResponse struct {
	ID             string                `json:"id"`
	ListName       string                `json:"list_name"`
	Date           string                `json:"date"`
	Total          decimal.Decimal       `json:"total"`
	ItemsCount     int                   `json:"items_count"`
	CompletedCount int                   `json:"completed_count"`
	Market         string                `json:"market"`
	MarketID       string                `json:"market_id"`
	Items          []HistoryItemResponse `json:"items"`
}

// DuplicateResponse describes the fresh list spawned from a history entry.
type DuplicateResponse struct {
	ListID     string `json:"list_id"`
	Name       string `json:"name"`
	ItemsCount int    `json:"items_count"`
}
