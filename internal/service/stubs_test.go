package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
	"github.com/vinecunha/riscae/internal/repository"
)

// ── In-memory repository stubs ────────────────────────────────────────────────
// DB() returns nil so runTx calls the closure directly (unit test mode).

type stubListRepo struct {
	lists []*model.List
}

func (r *stubListRepo) Create(_ context.Context, l *model.List) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.lists = append(r.lists, l)
	return nil
}

func (r *stubListRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.List, error) {
	for _, l := range r.lists {
		if l.UserID == userID && l.ID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubListRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.List, error) {
	out := make([]model.List, 0)
	for _, l := range r.lists {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubListRepo) UpdateName(_ context.Context, userID, id uuid.UUID, name string) error {
	for _, l := range r.lists {
		if l.UserID == userID && l.ID == id {
			l.Name = name
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubListRepo) UpdateTotal(_ context.Context, id uuid.UUID, total decimal.Decimal) error {
	for _, l := range r.lists {
		if l.ID == id {
			l.Total = total
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubListRepo) FindSegmentationTarget(_ context.Context, userID uuid.UUID, marketID, name string) (*model.List, error) {
	for _, l := range r.lists {
		if l.UserID == userID && l.Name == name && l.MarketID != nil && *l.MarketID == marketID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubListRepo) CreateTx(_ *gorm.DB, l *model.List) error {
	return r.Create(context.Background(), l)
}

func (r *stubListRepo) DeleteTx(_ *gorm.DB, userID, id uuid.UUID) error {
	kept := r.lists[:0]
	for _, l := range r.lists {
		if !(l.UserID == userID && l.ID == id) {
			kept = append(kept, l)
		}
	}
	r.lists = kept
	return nil
}

func (r *stubListRepo) ReplaceAllTx(_ *gorm.DB, userID uuid.UUID, lists []model.List) error {
	kept := r.lists[:0]
	for _, l := range r.lists {
		if l.UserID != userID {
			kept = append(kept, l)
		}
	}
	r.lists = kept
	for i := range lists {
		l := lists[i]
		r.lists = append(r.lists, &l)
	}
	return nil
}

func (r *stubListRepo) DB() *gorm.DB { return nil }

type stubItemRepo struct {
	items []*model.Item
}

func (r *stubItemRepo) Create(_ context.Context, it *model.Item) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	it.CreatedAt = time.Now()
	r.items = append(r.items, it)
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Item, error) {
	for _, it := range r.items {
		if it.UserID == userID && it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) ListByList(_ context.Context, userID, listID uuid.UUID) ([]model.Item, error) {
	out := make([]model.Item, 0)
	for _, it := range r.items {
		if it.UserID == userID && it.ListID == listID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *stubItemRepo) Update(_ context.Context, updated *model.Item) error {
	for i, it := range r.items {
		if it.ID == updated.ID {
			cp := *updated
			r.items[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubItemRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	kept := r.items[:0]
	for _, it := range r.items {
		if !(it.UserID == userID && it.ID == id) {
			kept = append(kept, it)
		}
	}
	r.items = kept
	return nil
}

func (r *stubItemRepo) CreateTx(_ *gorm.DB, it *model.Item) error {
	return r.Create(context.Background(), it)
}

func (r *stubItemRepo) UpdateTx(_ *gorm.DB, it *model.Item) error {
	return r.Update(context.Background(), it)
}

func (r *stubItemRepo) DeleteByListTx(_ *gorm.DB, userID, listID uuid.UUID) error {
	kept := r.items[:0]
	for _, it := range r.items {
		if !(it.UserID == userID && it.ListID == listID) {
			kept = append(kept, it)
		}
	}
	r.items = kept
	return nil
}

func (r *stubItemRepo) ReplaceAllTx(_ *gorm.DB, userID uuid.UUID, items []model.Item) error {
	kept := r.items[:0]
	for _, it := range r.items {
		if it.UserID != userID {
			kept = append(kept, it)
		}
	}
	r.items = kept
	for i := range items {
		it := items[i]
		r.items = append(r.items, &it)
	}
	return nil
}

type stubHistoryRepo struct {
	entries []*model.HistoryEntry
}

func (r *stubHistoryRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.HistoryEntry, error) {
	for _, e := range r.entries {
		if e.UserID == userID && e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubHistoryRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.HistoryEntry, error) {
	out := make([]model.HistoryEntry, 0)
	// Newest-first, entries are appended chronologically
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, *r.entries[i])
		}
	}
	return out, nil
}

func (r *stubHistoryRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if !(e.UserID == userID && e.ID == id) {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *stubHistoryRepo) DeleteAll(_ context.Context, userID uuid.UUID) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, e *model.HistoryEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, e)
	return nil
}

func (r *stubHistoryRepo) ReplaceAllTx(_ *gorm.DB, userID uuid.UUID, entries []model.HistoryEntry) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	for i := range entries {
		e := entries[i]
		r.entries = append(r.entries, &e)
	}
	return nil
}

type stubIndexRepo struct {
	best     map[string]pricing.BestPrice
	inserted []model.PriceObservation
	names    []repository.NameSuggestion
}

func (r *stubIndexRepo) LookupBestPrices(_ context.Context, names []string) (map[string]pricing.BestPrice, error) {
	out := make(map[string]pricing.BestPrice)
	for _, n := range names {
		if b, ok := r.best[pricing.Normalize(n)]; ok {
			out[pricing.Normalize(n)] = b
		}
	}
	return out, nil
}

func (r *stubIndexRepo) InsertObservations(_ context.Context, rows []model.PriceObservation) error {
	r.inserted = append(r.inserted, rows...)
	return nil
}

func (r *stubIndexRepo) SearchNames(_ context.Context, _ string, limit int) ([]repository.NameSuggestion, error) {
	if len(r.names) > limit {
		return r.names[:limit], nil
	}
	return r.names, nil
}

type stubEntitlement struct {
	entitled bool
	err      error
}

func (s *stubEntitlement) IsEntitled(_ context.Context, _ string) (bool, error) {
	return s.entitled, s.err
}

type stubDictionaryRepo struct {
	entries []model.DictionaryEntry
}

func (r *stubDictionaryRepo) Search(_ context.Context, _ string, limit int) ([]model.DictionaryEntry, error) {
	if len(r.entries) > limit {
		return r.entries[:limit], nil
	}
	return r.entries, nil
}

func (r *stubDictionaryRepo) BulkInsert(_ context.Context, entries []model.DictionaryEntry, _ int) error {
	r.entries = append(r.entries, entries...)
	return nil
}

type stubBackupRepo struct {
	blobs map[uuid.UUID]*model.Backup
}

func newStubBackupRepo() *stubBackupRepo {
	return &stubBackupRepo{blobs: make(map[uuid.UUID]*model.Backup)}
}

func (r *stubBackupRepo) Get(_ context.Context, userID uuid.UUID) (*model.Backup, error) {
	b, ok := r.blobs[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBackupRepo) Put(_ context.Context, userID uuid.UUID, data []byte, updatedAt time.Time) error {
	r.blobs[userID] = &model.Backup{UserID: userID, Data: data, UpdatedAt: updatedAt}
	return nil
}
