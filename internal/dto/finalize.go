package dto

import "github.com/shopspring/decimal"

// Finalize outcomes.
const (
	FinalizeOutcomeFinalized             = "FINALIZED"
	FinalizeOutcomeSegmented             = "SEGMENTED"
	FinalizeOutcomeSegmentationSuggested = "SEGMENTATION_SUGGESTED"
)

// Finalize modes. An empty mode asks for the segmentation suggestion first;
// the client confirms with one of the explicit modes.
const (
	FinalizeModeSegment        = "segment"
	FinalizeModeFinalizeAnyway = "finalize_anyway"
)

type FinalizeRequest struct {
	Market MarketRequest `json:"market" validate:"required"`
	Mode   string        `json:"mode" validate:"omitempty,oneof=segment finalize_anyway"`
}

// FlaggedItemResponse is one item the segmentation check found cheaper at a
// different market.
type FlaggedItemResponse struct {
	ItemID           string          `json:"item_id"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	BestPrice        decimal.Decimal `json:"best_price"`
	BestMarketID     string          `json:"best_market_id"`
	BestMarketName   string          `json:"best_market_name"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
}

type FinalizeResponse struct {
	Outcome      string                `json:"outcome"`
	Flagged      []FlaggedItemResponse `json:"flagged,omitempty"`
	History      *HistoryEntryResponse `json:"history,omitempty"`
	TargetListID string                `json:"target_list_id,omitempty"`
}
