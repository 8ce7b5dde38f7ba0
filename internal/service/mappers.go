package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
)

var decimalOne = decimal.NewFromInt(1)

func listToResponse(l *model.List, items []model.Item) dto.ListResponse {
	completed := 0
	for _, it := range items {
		if it.Completed {
			completed++
		}
	}
	resp := dto.ListResponse{
		ID:             l.ID.String(),
		Name:           l.Name,
		Total:          l.Total,
		ItemsCount:     len(items),
		CompletedCount: completed,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
	if l.Locked() {
		resp.Market = &dto.MarketResponse{ID: *l.MarketID}
		if l.MarketName != nil {
			resp.Market.Name = *l.MarketName
		}
		if l.MarketAddress != nil {
			resp.Market.Address = *l.MarketAddress
		}
	}
	return resp
}

func listToDetail(l *model.List, items []model.Item) dto.ListDetailResponse {
	detail := dto.ListDetailResponse{ListResponse: listToResponse(l, items)}
	detail.Items = make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		detail.Items = append(detail.Items, itemToResponse(&items[i]))
	}
	return detail
}

func itemToResponse(it *model.Item) dto.ItemResponse {
	resp := dto.ItemResponse{
		ID:        it.ID.String(),
		ListID:    it.ListID.String(),
		Name:      it.Name,
		UnitType:  it.UnitType,
		Price:     it.Price,
		Amount:    it.Amount,
		Completed: it.Completed,
		Category:  it.Category,
		Brand:     it.Brand,
	}
	if it.UnitType == model.UnitTypeWeight {
		grams := pricing.GramsFromKilograms(it.Amount)
		resp.AmountGrams = &grams
	}
	return resp
}

func historyToResponse(e *model.HistoryEntry) dto.HistoryEntryResponse {
	items := make([]dto.HistoryItemResponse, 0, len(e.Items))
	for _, hi := range e.Items {
		items = append(items, dto.HistoryItemResponse{
			Name:     hi.Name,
			UnitType: hi.UnitType,
			Price:    hi.Price,
			Amount:   hi.Amount,
			Category: hi.Category,
			Brand:    hi.Brand,
		})
	}
	return dto.HistoryEntryResponse{
		ID:             e.ID.String(),
		ListName:       e.ListName,
		Date:           e.Date.Format(time.RFC3339),
		Total:          e.Total,
		ItemsCount:     e.ItemsCount,
		CompletedCount: e.CompletedCount,
		Market:         e.Market,
		MarketID:       e.MarketID,
		Items:          items,
	}
}

func bestToResponse(b *pricing.BestPrice) *dto.BestPriceResponse {
	if b == nil {
		return nil
	}
	return &dto.BestPriceResponse{
		Price:         b.Price,
		MarketID:      b.MarketID,
		MarketName:    b.MarketName,
		MarketAddress: b.MarketAddress,
		Date:          b.Date.Format(time.RFC3339),
	}
}
