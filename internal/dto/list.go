package dto

import "github.com/shopspring/decimal"

type CreateListRequest struct {
	// Name may arrive empty/whitespace — creation is then a silent no-op,
	// mirroring the mutation rules for items.
	Name string `json:"name"`
}

type RenameListRequest struct {
	Name string `json:"name" validate:"required"`
}

// MarketRequest is the store binding sent with finalize requests.
type MarketRequest struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

type MarketResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type ListResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Total          decimal.Decimal `json:"total"`
	ItemsCount     int             `json:"items_count"`
	CompletedCount int             `json:"completed_count"`
	Market         *MarketResponse `json:"market,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

type ListDetailResponse struct {
	ListResponse
	Items []ItemResponse `json:"items"`
}
