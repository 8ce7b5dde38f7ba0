package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
	"github.com/vinecunha/riscae/internal/repository"
)

var (
	ErrListNotFound = errors.New("lista não encontrada")
	ErrItemNotFound = errors.New("item não encontrado")
	// ErrNothingCompleted rejects finalizing a list with no checked items —
	// an empty history entry is never produced.
	ErrNothingCompleted = errors.New("nenhum item riscado na lista")
)

type CartService interface {
	CreateList(ctx context.Context, userID uuid.UUID, name string) (*dto.ListResponse, error)
	ListLists(ctx context.Context, userID uuid.UUID) ([]dto.ListDetailResponse, error)
	GetList(ctx context.Context, userID, listID uuid.UUID) (*dto.ListDetailResponse, error)
	RenameList(ctx context.Context, userID, listID uuid.UUID, name string) error
	DeleteList(ctx context.Context, userID, listID uuid.UUID) error

	AddItem(ctx context.Context, userID, listID uuid.UUID, req dto.AddItemRequest) (*dto.ItemResponse, error)
	ConfirmItem(ctx context.Context, userID, itemID uuid.UUID, req dto.ConfirmItemRequest) (*dto.ItemResponse, error)
	ReopenItem(ctx context.Context, userID, itemID uuid.UUID) (*dto.ItemResponse, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error

	ListHistory(ctx context.Context, userID uuid.UUID) ([]dto.HistoryEntryResponse, error)
	DeleteHistoryEntry(ctx context.Context, userID, entryID uuid.UUID) error
	ClearHistory(ctx context.Context, userID uuid.UUID) error
	DuplicateFromHistory(ctx context.Context, userID, entryID uuid.UUID) (*dto.DuplicateResponse, error)
}

type cartService struct {
	lists   repository.ListRepository
	items   repository.ItemRepository
	history repository.HistoryRepository
}

func NewCartService(
	lists repository.ListRepository,
	items repository.ItemRepository,
	history repository.HistoryRepository,
) CartService {
	return &cartService{lists: lists, items: items, history: history}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Lists ─────────────────────────────────────────────────────────────────────

func (s *cartService) CreateList(ctx context.Context, userID uuid.UUID, name string) (*dto.ListResponse, error) {
	if pricing.Normalize(name) == "" {
		// Silent no-op — blank names never create state
		return nil, nil
	}
	l := model.List{UserID: userID, Name: name}
	if err := s.lists.Create(ctx, &l); err != nil {
		return nil, err
	}
	resp := listToResponse(&l, nil)
	return &resp, nil
}

func (s *cartService) ListLists(ctx context.Context, userID uuid.UUID) ([]dto.ListDetailResponse, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ListDetailResponse, 0, len(lists))
	for i := range lists {
		items, err := s.items.ListByList(ctx, userID, lists[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, listToDetail(&lists[i], items))
	}
	return out, nil
}

func (s *cartService) GetList(ctx context.Context, userID, listID uuid.UUID) (*dto.ListDetailResponse, error) {
	l, err := s.lists.FindByID(ctx, userID, listID)
	if err != nil {
		return nil, ErrListNotFound
	}
	items, err := s.items.ListByList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	detail := listToDetail(l, items)
	return &detail, nil
}

func (s *cartService) RenameList(ctx context.Context, userID, listID uuid.UUID, name string) error {
	if pricing.Normalize(name) == "" {
		return nil
	}
	if _, err := s.lists.FindByID(ctx, userID, listID); err != nil {
		return ErrListNotFound
	}
	return s.lists.UpdateName(ctx, userID, listID, name)
}

func (s *cartService) DeleteList(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.lists.FindByID(ctx, userID, listID); err != nil {
		return ErrListNotFound
	}
	return runTx(ctx, s.lists.DB(), func(tx *gorm.DB) error {
		if err := s.items.DeleteByListTx(tx, userID, listID); err != nil {
			return err
		}
		return s.lists.DeleteTx(tx, userID, listID)
	})
}

// ── Items ─────────────────────────────────────────────────────────────────────

func (s *cartService) AddItem(ctx context.Context, userID, listID uuid.UUID, req dto.AddItemRequest) (*dto.ItemResponse, error) {
	if pricing.Normalize(req.Name) == "" {
		// Silent no-op per the mutation rules
		return nil, nil
	}
	if _, err := s.lists.FindByID(ctx, userID, listID); err != nil {
		return nil, ErrListNotFound
	}

	it := model.Item{
		UserID:   userID,
		ListID:   listID,
		Name:     req.Name,
		UnitType: model.UnitTypeUnit,
		Amount:   decimalOne,
		Category: model.DefaultCategory,
		Brand:    model.DefaultBrand,
	}
	if req.UnitType != "" {
		it.UnitType = req.UnitType
	}
	if req.Category != "" {
		it.Category = req.Category
	}
	if req.Brand != "" {
		it.Brand = req.Brand
	}

	if err := s.items.Create(ctx, &it); err != nil {
		return nil, err
	}
	resp := itemToResponse(&it)
	return &resp, nil
}

func (s *cartService) ConfirmItem(ctx context.Context, userID, itemID uuid.UUID, req dto.ConfirmItemRequest) (*dto.ItemResponse, error) {
	it, err := s.items.FindByID(ctx, userID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	amount := decimalOne
	switch {
	case it.UnitType == model.UnitTypeWeight && req.AmountGrams != nil:
		amount = pricing.KilogramsFromGrams(*req.AmountGrams)
	case req.Amount != nil:
		amount = *req.Amount
	}

	it.Price = req.Price
	it.Amount = amount
	it.Completed = true
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	if err := s.recomputeTotal(ctx, userID, it.ListID); err != nil {
		return nil, err
	}
	resp := itemToResponse(it)
	return &resp, nil
}

// ReopenItem unchecks an item, keeping price and amount so re-confirming is a
// single tap. The derived list total drops accordingly.
func (s *cartService) ReopenItem(ctx context.Context, userID, itemID uuid.UUID) (*dto.ItemResponse, error) {
	it, err := s.items.FindByID(ctx, userID, itemID)
	if err != nil {
		return nil, ErrItemNotFound
	}
	it.Completed = false
	if err := s.items.Update(ctx, it); err != nil {
		return nil, err
	}
	if err := s.recomputeTotal(ctx, userID, it.ListID); err != nil {
		return nil, err
	}
	resp := itemToResponse(it)
	return &resp, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	it, err := s.items.FindByID(ctx, userID, itemID)
	if err != nil {
		return ErrItemNotFound
	}
	if err := s.items.Delete(ctx, userID, itemID); err != nil {
		return err
	}
	return s.recomputeTotal(ctx, userID, it.ListID)
}

// recomputeTotal re-derives the list total from its completed items after
// every item mutation. The total column is never written any other way.
func (s *cartService) recomputeTotal(ctx context.Context, userID, listID uuid.UUID) error {
	items, err := s.items.ListByList(ctx, userID, listID)
	if err != nil {
		return err
	}
	return s.lists.UpdateTotal(ctx, listID, pricing.ListTotal(listID, items))
}

// ── History ───────────────────────────────────────────────────────────────────

func (s *cartService) ListHistory(ctx context.Context, userID uuid.UUID) ([]dto.HistoryEntryResponse, error) {
	entries, err := s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, historyToResponse(&entries[i]))
	}
	return out, nil
}

func (s *cartService) DeleteHistoryEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	if _, err := s.history.FindByID(ctx, userID, entryID); err != nil {
		return errors.New("registro de histórico não encontrado")
	}
	return s.history.Delete(ctx, userID, entryID)
}

func (s *cartService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	return s.history.DeleteAll(ctx, userID)
}

// DuplicateFromHistory spawns a fresh list from a past trip: same name with a
// suffix, all items unchecked with price zeroed. The entry itself is untouched.
func (s *cartService) DuplicateFromHistory(ctx context.Context, userID, entryID uuid.UUID) (*dto.DuplicateResponse, error) {
	entry, err := s.history.FindByID(ctx, userID, entryID)
	if err != nil {
		return nil, errors.New("registro de histórico não encontrado")
	}

	list := model.List{UserID: userID, Name: entry.ListName + " (cópia)"}
	txErr := runTx(ctx, s.lists.DB(), func(tx *gorm.DB) error {
		if err := s.lists.CreateTx(tx, &list); err != nil {
			return err
		}
		for _, hi := range entry.Items {
			it := model.Item{
				UserID:   userID,
				ListID:   list.ID,
				Name:     hi.Name,
				UnitType: hi.UnitType,
				Amount:   hi.Amount,
				Category: hi.Category,
				Brand:    hi.Brand,
			}
			if err := s.items.CreateTx(tx, &it); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.DuplicateResponse{
		ListID:     list.ID.String(),
		Name:       list.Name,
		ItemsCount: len(entry.Items),
	}, nil
}

// ── Finalize core ─────────────────────────────────────────────────────────────

// finalizeListTx turns a list into an immutable history entry inside the given
// transaction: snapshot the completed items, create the entry, then delete the
// list and ALL its items (completed or not). Callers run it via runTx and
// handle the post-commit observation publish themselves.
func finalizeListTx(
	tx *gorm.DB,
	lists repository.ListRepository,
	items repository.ItemRepository,
	history repository.HistoryRepository,
	userID uuid.UUID,
	list *model.List,
	listItems []model.Item,
	market model.MarketInfo,
	now time.Time,
) (*model.HistoryEntry, error) {
	completed := make([]model.HistoryItem, 0, len(listItems))
	for _, it := range listItems {
		if !it.Completed {
			continue
		}
		completed = append(completed, model.HistoryItem{
			Name:     it.Name,
			UnitType: it.UnitType,
			Price:    it.Price,
			Amount:   it.Amount,
			Category: it.Category,
			Brand:    it.Brand,
		})
	}
	if len(completed) == 0 {
		return nil, ErrNothingCompleted
	}

	entry := model.HistoryEntry{
		UserID:         userID,
		ListName:       list.Name,
		Date:           now,
		Total:          pricing.ListTotal(list.ID, listItems),
		ItemsCount:     len(listItems),
		CompletedCount: len(completed),
		Market:         market.Name,
		MarketID:       market.ID,
		Items:          completed,
	}
	if err := history.CreateTx(tx, &entry); err != nil {
		return nil, err
	}
	if err := items.DeleteByListTx(tx, userID, list.ID); err != nil {
		return nil, err
	}
	if err := lists.DeleteTx(tx, userID, list.ID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// observationsFromEntry converts a history snapshot into the append-only
// price-index rows contributed by the trip. Unpriced items contribute nothing.
func observationsFromEntry(entry *model.HistoryEntry, market model.MarketInfo) []model.PriceObservation {
	rows := make([]model.PriceObservation, 0, len(entry.Items))
	for _, hi := range entry.Items {
		if hi.Price.IsZero() {
			continue
		}
		rows = append(rows, model.PriceObservation{
			MarketID:     market.ID,
			ItemName:     pricing.Normalize(hi.Name),
			Price:        hi.Price,
			Unit:         hi.UnitType,
			Category:     hi.Category,
			PurchaseDate: entry.Date,
		})
	}
	return rows
}
