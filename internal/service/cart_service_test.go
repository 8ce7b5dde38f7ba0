package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/model"
)

func newCartFixture() (CartService, *stubListRepo, *stubItemRepo, *stubHistoryRepo) {
	lists := &stubListRepo{}
	items := &stubItemRepo{}
	history := &stubHistoryRepo{}
	return NewCartService(lists, items, history), lists, items, history
}

func TestCreateListBlankNameIsNoOp(t *testing.T) {
	svc, lists, _, _ := newCartFixture()
	userID := uuid.New()

	resp, err := svc.CreateList(context.Background(), userID, "   ")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, lists.lists)
}

func TestAddItemBlankNameIsNoOp(t *testing.T) {
	svc, _, items, _ := newCartFixture()
	userID := uuid.New()

	list, err := svc.CreateList(context.Background(), userID, "Feira")
	require.NoError(t, err)
	listID := uuid.MustParse(list.ID)

	resp, err := svc.AddItem(context.Background(), userID, listID, dto.AddItemRequest{Name: "  "})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, items.items)
}

func TestAddItemDefaults(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	userID := uuid.New()

	list, err := svc.CreateList(context.Background(), userID, "Feira")
	require.NoError(t, err)

	resp, err := svc.AddItem(context.Background(), userID, uuid.MustParse(list.ID), dto.AddItemRequest{Name: "Arroz"})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, model.UnitTypeUnit, resp.UnitType)
	assert.Equal(t, "Outros", resp.Category)
	assert.Equal(t, "Genérico", resp.Brand)
	assert.True(t, resp.Amount.Equal(decimal.NewFromInt(1)))
	assert.True(t, resp.Price.IsZero())
	assert.False(t, resp.Completed)
}

func TestConfirmItemRecomputesTotal(t *testing.T) {
	svc, lists, _, _ := newCartFixture()
	userID := uuid.New()
	ctx := context.Background()

	list, _ := svc.CreateList(ctx, userID, "Feira")
	listID := uuid.MustParse(list.ID)

	a, _ := svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Arroz"})
	b, _ := svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Feijão"})

	two := decimal.NewFromInt(2)
	price := decimal.NewFromFloat(4.50)
	_, err := svc.ConfirmItem(ctx, userID, uuid.MustParse(a.ID), dto.ConfirmItemRequest{Price: price, Amount: &two})
	require.NoError(t, err)

	// Only completed items count toward the total
	assert.True(t, lists.lists[0].Total.Equal(decimal.NewFromInt(9)), "total = 4.50 × 2")

	price2 := decimal.NewFromFloat(8.00)
	_, err = svc.ConfirmItem(ctx, userID, uuid.MustParse(b.ID), dto.ConfirmItemRequest{Price: price2})
	require.NoError(t, err)
	assert.True(t, lists.lists[0].Total.Equal(decimal.NewFromInt(17)), "total = 9 + 8×1")
}

func TestConfirmWeightItemStoresKilograms(t *testing.T) {
	svc, _, items, _ := newCartFixture()
	userID := uuid.New()
	ctx := context.Background()

	list, _ := svc.CreateList(ctx, userID, "Feira")
	listID := uuid.MustParse(list.ID)

	it, _ := svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Picanha", UnitType: model.UnitTypeWeight})

	grams := decimal.NewFromInt(500)
	resp, err := svc.ConfirmItem(ctx, userID, uuid.MustParse(it.ID), dto.ConfirmItemRequest{
		Price:       decimal.NewFromFloat(59.90),
		AmountGrams: &grams,
	})
	require.NoError(t, err)

	// Stored in kilograms, echoed back in grams
	assert.True(t, items.items[0].Amount.Equal(decimal.NewFromFloat(0.5)))
	require.NotNil(t, resp.AmountGrams)
	assert.True(t, resp.AmountGrams.Equal(grams))
}

func TestReopenItemKeepsPriceAndAmount(t *testing.T) {
	svc, lists, _, _ := newCartFixture()
	userID := uuid.New()
	ctx := context.Background()

	list, _ := svc.CreateList(ctx, userID, "Feira")
	listID := uuid.MustParse(list.ID)

	it, _ := svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Café"})
	three := decimal.NewFromInt(3)
	_, err := svc.ConfirmItem(ctx, userID, uuid.MustParse(it.ID), dto.ConfirmItemRequest{
		Price:  decimal.NewFromFloat(12.00),
		Amount: &three,
	})
	require.NoError(t, err)

	resp, err := svc.ReopenItem(ctx, userID, uuid.MustParse(it.ID))
	require.NoError(t, err)
	assert.False(t, resp.Completed)
	assert.True(t, resp.Price.Equal(decimal.NewFromFloat(12.00)), "price survives reopen")
	assert.True(t, resp.Amount.Equal(three), "amount survives reopen")

	// Reopened item no longer contributes to the derived total
	assert.True(t, lists.lists[0].Total.IsZero())
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	svc, lists, _, _ := newCartFixture()
	userID := uuid.New()
	ctx := context.Background()

	list, _ := svc.CreateList(ctx, userID, "Feira")
	listID := uuid.MustParse(list.ID)

	it, _ := svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Leite"})
	_, err := svc.ConfirmItem(ctx, userID, uuid.MustParse(it.ID), dto.ConfirmItemRequest{Price: decimal.NewFromFloat(5.99)})
	require.NoError(t, err)
	assert.False(t, lists.lists[0].Total.IsZero())

	require.NoError(t, svc.RemoveItem(ctx, userID, uuid.MustParse(it.ID)))
	assert.True(t, lists.lists[0].Total.IsZero())
}

func TestDeleteListRemovesItems(t *testing.T) {
	svc, lists, items, _ := newCartFixture()
	userID := uuid.New()
	ctx := context.Background()

	list, _ := svc.CreateList(ctx, userID, "Feira")
	listID := uuid.MustParse(list.ID)
	_, _ = svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Arroz"})
	_, _ = svc.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Feijão"})

	require.NoError(t, svc.DeleteList(ctx, userID, listID))
	assert.Empty(t, lists.lists)
	assert.Empty(t, items.items)
}

func TestUserIsolation(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	ctx := context.Background()

	owner := uuid.New()
	intruder := uuid.New()

	list, _ := svc.CreateList(ctx, owner, "Minha lista")
	listID := uuid.MustParse(list.ID)

	_, err := svc.GetList(ctx, intruder, listID)
	assert.ErrorIs(t, err, ErrListNotFound)

	err = svc.DeleteList(ctx, intruder, listID)
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestDuplicateFromHistory(t *testing.T) {
	svc, lists, items, history := newCartFixture()
	userID := uuid.New()
	ctx := context.Background()

	entry := &model.HistoryEntry{
		UserID:   userID,
		ListName: "Feira",
		Items: []model.HistoryItem{
			{Name: "Arroz", UnitType: model.UnitTypeUnit, Price: decimal.NewFromFloat(4.50), Amount: decimal.NewFromInt(2), Category: "Outros", Brand: "Genérico"},
			{Name: "Picanha", UnitType: model.UnitTypeWeight, Price: decimal.NewFromFloat(59.90), Amount: decimal.NewFromFloat(0.5), Category: "Carnes", Brand: "Genérico"},
		},
	}
	require.NoError(t, history.CreateTx(nil, entry))

	resp, err := svc.DuplicateFromHistory(ctx, userID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feira (cópia)", resp.Name)
	assert.Equal(t, 2, resp.ItemsCount)

	require.Len(t, lists.lists, 1)
	require.Len(t, items.items, 2)
	for _, it := range items.items {
		assert.False(t, it.Completed, "duplicated items start unchecked")
		assert.True(t, it.Price.IsZero(), "duplicated items start unpriced")
	}
	// Original entry untouched
	assert.Len(t, history.entries, 1)
	assert.Len(t, history.entries[0].Items, 2)
}

func TestClearHistoryOnlyAffectsUser(t *testing.T) {
	svc, _, _, history := newCartFixture()
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	require.NoError(t, history.CreateTx(nil, &model.HistoryEntry{UserID: alice, ListName: "A"}))
	require.NoError(t, history.CreateTx(nil, &model.HistoryEntry{UserID: bob, ListName: "B"}))

	require.NoError(t, svc.ClearHistory(ctx, alice))

	remaining, err := svc.ListHistory(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
