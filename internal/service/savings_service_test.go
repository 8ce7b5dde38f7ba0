package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
)

type savingsFixture struct {
	svc     SavingsService
	cart    CartService
	lists   *stubListRepo
	items   *stubItemRepo
	history *stubHistoryRepo
	index   *stubIndexRepo
}

func newSavingsFixture(entitled bool, best map[string]pricing.BestPrice) *savingsFixture {
	lists := &stubListRepo{}
	items := &stubItemRepo{}
	history := &stubHistoryRepo{}
	index := &stubIndexRepo{best: best}
	return &savingsFixture{
		svc:     NewSavingsService(lists, items, history, index, nil, &stubEntitlement{entitled: entitled}, decimal.Zero),
		cart:    NewCartService(lists, items, history),
		lists:   lists,
		items:   items,
		history: history,
		index:   index,
	}
}

func bestAt(price float64, marketID, marketName string) pricing.BestPrice {
	return pricing.BestPrice{
		Price:      decimal.NewFromFloat(price),
		MarketID:   marketID,
		MarketName: marketName,
		Date:       time.Now(),
	}
}

func (f *savingsFixture) seedList(t *testing.T, userID uuid.UUID) uuid.UUID {
	t.Helper()
	list, err := f.cart.CreateList(context.Background(), userID, "Feira")
	require.NoError(t, err)
	return uuid.MustParse(list.ID)
}

func (f *savingsFixture) seedConfirmed(t *testing.T, userID, listID uuid.UUID, name string, price float64, amount int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	it, err := f.cart.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: name})
	require.NoError(t, err)
	amt := decimal.NewFromInt(amount)
	_, err = f.cart.ConfirmItem(ctx, userID, uuid.MustParse(it.ID), dto.ConfirmItemRequest{
		Price:  decimal.NewFromFloat(price),
		Amount: &amt,
	})
	require.NoError(t, err)
	return uuid.MustParse(it.ID)
}

// ── Savings ───────────────────────────────────────────────────────────────────

func TestListSavingsAgainstBestPrices(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"arroz": bestAt(5.00, "m1", "Mercado Azul"),
	})
	userID := uuid.New()
	listID := f.seedList(t, userID)

	// Recorded 6.00 × 2 against a best of 5.00 → savings 2.00
	f.seedConfirmed(t, userID, listID, "Arroz", 6.00, 2)

	resp, err := f.svc.ListSavings(context.Background(), userID, listID)
	require.NoError(t, err)
	assert.True(t, resp.Savings.Equal(decimal.NewFromInt(2)), "got %s", resp.Savings)
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Best)
	assert.Equal(t, "Mercado Azul", resp.Items[0].Best.MarketName)
}

func TestListSavingsUnpricedHint(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"feijão": bestAt(8.00, "m1", "Mercado Azul"),
	})
	userID := uuid.New()
	listID := f.seedList(t, userID)
	ctx := context.Background()

	// Unpriced (price 0) item with a known best: hint 0.50 × amount 2 = 1.00
	it, err := f.cart.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Feijão"})
	require.NoError(t, err)
	two := decimal.NewFromInt(2)
	_, err = f.cart.ConfirmItem(ctx, userID, uuid.MustParse(it.ID), dto.ConfirmItemRequest{Price: decimal.Zero, Amount: &two})
	require.NoError(t, err)

	resp, err := f.svc.ListSavings(ctx, userID, listID)
	require.NoError(t, err)
	assert.True(t, resp.Savings.Equal(decimal.NewFromInt(1)), "got %s", resp.Savings)
}

func TestListSavingsNoIndexEntryContributesZero(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{})
	userID := uuid.New()
	listID := f.seedList(t, userID)
	f.seedConfirmed(t, userID, listID, "Produto Inédito", 10.00, 1)

	resp, err := f.svc.ListSavings(context.Background(), userID, listID)
	require.NoError(t, err)
	assert.True(t, resp.Savings.IsZero())
}

func TestIntelligencePaywall(t *testing.T) {
	f := newSavingsFixture(false, nil)
	userID := uuid.New()
	listID := f.seedList(t, userID)

	_, err := f.svc.Intelligence(context.Background(), userID, listID)
	assert.ErrorIs(t, err, ErrPaywall)
}

// ── Finalize ──────────────────────────────────────────────────────────────────

func finalizeReq(mode string) dto.FinalizeRequest {
	return dto.FinalizeRequest{
		Market: dto.MarketRequest{ID: "osm-42", Name: "Mercado Central", Address: "Rua A, 10"},
		Mode:   mode,
	}
}

func TestFinalizeRejectsWithoutCompletedItems(t *testing.T) {
	f := newSavingsFixture(true, nil)
	userID := uuid.New()
	listID := f.seedList(t, userID)
	ctx := context.Background()

	_, err := f.cart.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Arroz"})
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, userID, listID, finalizeReq(""))
	assert.ErrorIs(t, err, ErrNothingCompleted)
	assert.Empty(t, f.history.entries, "no empty history entry is ever produced")
	assert.Len(t, f.lists.lists, 1, "list untouched")
}

func TestFinalizeSnapshotsAndDeletesList(t *testing.T) {
	f := newSavingsFixture(true, nil)
	userID := uuid.New()
	listID := f.seedList(t, userID)
	ctx := context.Background()

	f.seedConfirmed(t, userID, listID, "Arroz", 4.50, 2)
	_, err := f.cart.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Pendente"})
	require.NoError(t, err)

	resp, err := f.svc.Finalize(ctx, userID, listID, finalizeReq(""))
	require.NoError(t, err)
	assert.Equal(t, dto.FinalizeOutcomeFinalized, resp.Outcome)
	require.NotNil(t, resp.History)

	// Snapshot: only the completed item, counts cover everything
	assert.Equal(t, 2, resp.History.ItemsCount)
	assert.Equal(t, 1, resp.History.CompletedCount)
	require.Len(t, resp.History.Items, 1)
	assert.Equal(t, "Arroz", resp.History.Items[0].Name)
	assert.True(t, resp.History.Total.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, "Mercado Central", resp.History.Market)

	// List and ALL its items are gone, completed or not
	assert.Empty(t, f.lists.lists)
	assert.Empty(t, f.items.items)
	require.Len(t, f.history.entries, 1)
}

func TestFinalizeSuggestsSegmentation(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"arroz": bestAt(4.00, "osm-99", "Mercado Barato"),
	})
	userID := uuid.New()
	listID := f.seedList(t, userID)

	f.seedConfirmed(t, userID, listID, "Arroz", 6.00, 2)

	resp, err := f.svc.Finalize(context.Background(), userID, listID, finalizeReq(""))
	require.NoError(t, err)
	assert.Equal(t, dto.FinalizeOutcomeSegmentationSuggested, resp.Outcome)
	require.Len(t, resp.Flagged, 1)
	assert.Equal(t, "Mercado Barato", resp.Flagged[0].BestMarketName)
	assert.True(t, resp.Flagged[0].PotentialSavings.Equal(decimal.NewFromInt(4)), "(6-4)×2")

	// Nothing committed yet
	assert.Empty(t, f.history.entries)
	assert.Len(t, f.lists.lists, 1)
}

func TestFinalizeSameMarketNeverFlags(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"arroz": bestAt(4.00, "osm-42", "Mercado Central"),
	})
	userID := uuid.New()
	listID := f.seedList(t, userID)
	f.seedConfirmed(t, userID, listID, "Arroz", 6.00, 1)

	resp, err := f.svc.Finalize(context.Background(), userID, listID, finalizeReq(""))
	require.NoError(t, err)
	assert.Equal(t, dto.FinalizeOutcomeFinalized, resp.Outcome, "best at the same market is not segmentable")
}

func TestFinalizeAnywayIgnoresFlags(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"arroz": bestAt(4.00, "osm-99", "Mercado Barato"),
	})
	userID := uuid.New()
	listID := f.seedList(t, userID)
	f.seedConfirmed(t, userID, listID, "Arroz", 6.00, 2)

	resp, err := f.svc.Finalize(context.Background(), userID, listID, finalizeReq(dto.FinalizeModeFinalizeAnyway))
	require.NoError(t, err)
	assert.Equal(t, dto.FinalizeOutcomeFinalized, resp.Outcome)
	require.Len(t, resp.History.Items, 1)
	assert.Empty(t, f.lists.lists)
}

func TestSegmentMovesFlaggedItemsAndFinalizesRest(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"arroz": bestAt(4.00, "osm-99", "Mercado Barato"),
	})
	userID := uuid.New()
	listID := f.seedList(t, userID)

	f.seedConfirmed(t, userID, listID, "Arroz", 6.00, 2)
	f.seedConfirmed(t, userID, listID, "Feijão", 8.00, 1)

	resp, err := f.svc.Finalize(context.Background(), userID, listID, finalizeReq(dto.FinalizeModeSegment))
	require.NoError(t, err)
	assert.Equal(t, dto.FinalizeOutcomeSegmented, resp.Outcome)
	require.NotEmpty(t, resp.TargetListID)

	// Original list finalized with only the unflagged item
	require.Len(t, f.history.entries, 1)
	entry := f.history.entries[0]
	require.Len(t, entry.Items, 1)
	assert.Equal(t, "Feijão", entry.Items[0].Name)
	assert.True(t, entry.Total.Equal(decimal.NewFromInt(8)))

	// Target list bound to the cheaper market, holding the moved item
	require.Len(t, f.lists.lists, 1)
	target := f.lists.lists[0]
	assert.Equal(t, SegmentationListPrefix+"Mercado Barato", target.Name)
	require.NotNil(t, target.MarketID)
	assert.Equal(t, "osm-99", *target.MarketID)

	require.Len(t, f.items.items, 1)
	moved := f.items.items[0]
	assert.Equal(t, "Arroz", moved.Name)
	assert.Equal(t, target.ID, moved.ListID)
	assert.False(t, moved.Completed, "moved items start unchecked")
	assert.True(t, moved.Price.Equal(decimal.NewFromInt(4)), "cheaper price carried as hint")
}

func TestSegmentReusesExistingTargetList(t *testing.T) {
	f := newSavingsFixture(true, map[string]pricing.BestPrice{
		"arroz": bestAt(4.00, "osm-99", "Mercado Barato"),
	})
	userID := uuid.New()
	ctx := context.Background()

	// Pre-existing segmentation list for the same market
	existing := &model.List{UserID: userID, Name: SegmentationListPrefix + "Mercado Barato"}
	existing.LockTo(model.MarketInfo{ID: "osm-99", Name: "Mercado Barato"})
	require.NoError(t, f.lists.Create(ctx, existing))

	listID := f.seedList(t, userID)
	f.seedConfirmed(t, userID, listID, "Arroz", 6.00, 1)
	f.seedConfirmed(t, userID, listID, "Feijão", 8.00, 1)

	resp, err := f.svc.Finalize(ctx, userID, listID, finalizeReq(dto.FinalizeModeSegment))
	require.NoError(t, err)
	assert.Equal(t, dto.FinalizeOutcomeSegmented, resp.Outcome)
	assert.Equal(t, existing.ID.String(), resp.TargetListID, "no duplicate segmentation list created")
	assert.Len(t, f.lists.lists, 1)
}

func TestFinalizePublishesObservations(t *testing.T) {
	// Publisher wiring is covered in worker tests; here we check the rows
	// finalize derives from the snapshot.
	entry := &model.HistoryEntry{
		Date: time.Now(),
		Items: []model.HistoryItem{
			{Name: "Arroz Branco", UnitType: model.UnitTypeUnit, Price: decimal.NewFromFloat(4.50), Amount: decimal.NewFromInt(2), Category: "Outros"},
			{Name: "Sem Preço", UnitType: model.UnitTypeUnit, Price: decimal.Zero, Amount: decimal.NewFromInt(1), Category: "Outros"},
		},
	}
	market := model.MarketInfo{ID: "osm-42", Name: "Mercado Central"}

	rows := observationsFromEntry(entry, market)
	require.Len(t, rows, 1, "unpriced items contribute no observation")
	assert.Equal(t, "arroz branco", rows[0].ItemName, "names are normalized")
	assert.Equal(t, "osm-42", rows[0].MarketID)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromFloat(4.50)))
}
