package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinecunha/riscae/internal/dto"
)

type syncFixture struct {
	svc     SyncService
	cart    CartService
	lists   *stubListRepo
	items   *stubItemRepo
	history *stubHistoryRepo
	backups *stubBackupRepo
}

func newSyncFixture(entitled bool) *syncFixture {
	lists := &stubListRepo{}
	items := &stubItemRepo{}
	history := &stubHistoryRepo{}
	backups := newStubBackupRepo()
	return &syncFixture{
		svc:     NewSyncService(lists, items, history, backups, nil, &stubEntitlement{entitled: entitled}, nil),
		cart:    NewCartService(lists, items, history),
		lists:   lists,
		items:   items,
		history: history,
		backups: backups,
	}
}

func TestSyncPaywallOutcome(t *testing.T) {
	f := newSyncFixture(false)
	userID := uuid.New()

	push, err := f.svc.Push(context.Background(), userID)
	require.NoError(t, err, "paywall is an outcome, not an error")
	assert.Equal(t, dto.SyncOutcomePaywall, push.Outcome)

	pull, err := f.svc.Pull(context.Background(), userID, false)
	require.NoError(t, err)
	assert.Equal(t, dto.SyncOutcomePaywall, pull.Outcome)
	assert.Empty(t, f.backups.blobs, "gated push writes nothing")
}

func TestPullWithoutBackup(t *testing.T) {
	f := newSyncFixture(true)

	resp, err := f.svc.Pull(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	assert.Equal(t, dto.SyncOutcomeNoBackup, resp.Outcome)
}

func TestPushPullRoundTrip(t *testing.T) {
	f := newSyncFixture(true)
	userID := uuid.New()
	ctx := context.Background()

	list, _ := f.cart.CreateList(ctx, userID, "Feira")
	listID := uuid.MustParse(list.ID)
	it, _ := f.cart.AddItem(ctx, userID, listID, dto.AddItemRequest{Name: "Arroz"})
	_, err := f.cart.ConfirmItem(ctx, userID, uuid.MustParse(it.ID), dto.ConfirmItemRequest{Price: decimal.NewFromFloat(4.50)})
	require.NoError(t, err)

	push, err := f.svc.Push(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, dto.SyncOutcomeSuccess, push.Outcome)
	require.Len(t, f.backups.blobs, 1)

	// Wipe local state, then restore from the blob
	require.NoError(t, f.cart.DeleteList(ctx, userID, listID))
	require.Empty(t, f.lists.lists)

	pull, err := f.svc.Pull(ctx, userID, false)
	require.NoError(t, err)
	assert.Equal(t, dto.SyncOutcomeSuccess, pull.Outcome)

	restored, err := f.cart.ListLists(ctx, userID)
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "Feira", restored[0].Name)
	require.Len(t, restored[0].Items, 1)
	assert.Equal(t, "Arroz", restored[0].Items[0].Name)
	assert.True(t, restored[0].Items[0].Completed)
}

func TestPushOverwritesRemoteUnconditionally(t *testing.T) {
	f := newSyncFixture(true)
	userID := uuid.New()
	ctx := context.Background()

	_, err := f.cart.CreateList(ctx, userID, "Antiga")
	require.NoError(t, err)
	_, err = f.svc.Push(ctx, userID)
	require.NoError(t, err)
	firstBlob := f.backups.blobs[userID].Data

	_, err = f.cart.CreateList(ctx, userID, "Nova")
	require.NoError(t, err)
	_, err = f.svc.Push(ctx, userID)
	require.NoError(t, err)

	// Last-writer-wins at whole-blob granularity
	assert.NotEqual(t, string(firstBlob), string(f.backups.blobs[userID].Data))
}

func TestPullReplacesLocalStateWholesale(t *testing.T) {
	f := newSyncFixture(true)
	userID := uuid.New()
	ctx := context.Background()

	_, err := f.cart.CreateList(ctx, userID, "Remota")
	require.NoError(t, err)
	_, err = f.svc.Push(ctx, userID)
	require.NoError(t, err)

	// Local divergence after the push
	_, err = f.cart.CreateList(ctx, userID, "Só Local")
	require.NoError(t, err)

	_, err = f.svc.Pull(ctx, userID, false)
	require.NoError(t, err)

	lists, err := f.cart.ListLists(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lists, 1, "local-only list replaced wholesale")
	assert.Equal(t, "Remota", lists[0].Name)
}
