package dto

import "github.com/shopspring/decimal"

type AddItemRequest struct {
	// Empty/whitespace names are a silent no-op, not a validation error.
	Name     string `json:"name"`
	UnitType string `json:"unit_type" validate:"omitempty,oneof=UNIT WEIGHT"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
}

// ConfirmItemRequest records the price and quantity when an item is checked
// off. UNIT items send amount (whole units); WEIGHT items send amount_grams,
// stored internally in kilograms.
type ConfirmItemRequest struct {
	Price       decimal.Decimal  `json:"price" validate:"min=0"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0"`
	AmountGrams *decimal.Decimal `json:"amount_grams" validate:"omitempty,gt=0"`
}

type ItemResponse struct {
	ID       string          `json:"id"`
	ListID   string          `json:"list_id"`
	Name     string          `json:"name"`
	UnitType string          `json:"unit_type"`
	Price    decimal.Decimal `json:"price"`
	Amount   decimal.Decimal `json:"amount"`
	// AmountGrams echoes the stored kilogram amount back in grams for WEIGHT
	// items, so the client can re-open the editor with the entered value.
	AmountGrams *decimal.Decimal `json:"amount_grams,omitempty"`
	Completed   bool             `json:"completed"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
}
