package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/infra"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
	"github.com/vinecunha/riscae/internal/repository"
	"github.com/vinecunha/riscae/internal/worker"
)

// ErrPaywall marks an entitlement-gated feature requested without the Pro
// subscription. A distinct outcome, not a failure — handlers route it to the
// upsell path (402), never to the error log.
var ErrPaywall = errors.New("assinatura RISCAÊ Pro necessária")

// SegmentationListPrefix names auto-created segmentation lists:
// "PRO @ <market>". The prefix doubles as the reuse key together with the
// market binding, so repeated finalizes against the same cheaper store reuse
// one list instead of piling up duplicates.
const SegmentationListPrefix = "PRO @ "

type SavingsService interface {
	// ListSavings returns the advisory savings estimate for the banner.
	ListSavings(ctx context.Context, userID, listID uuid.UUID) (*dto.ListSavingsResponse, error)
	// Intelligence returns the full per-item report. Entitlement-gated.
	Intelligence(ctx context.Context, userID, listID uuid.UUID) (*dto.IntelligenceReportResponse, error)
	// Finalize closes a shopping trip. Without an explicit mode it first
	// surfaces the segmentation suggestion when cheaper stores are known.
	Finalize(ctx context.Context, userID, listID uuid.UUID, req dto.FinalizeRequest) (*dto.FinalizeResponse, error)
}

type savingsService struct {
	lists       repository.ListRepository
	items       repository.ItemRepository
	history     repository.HistoryRepository
	index       repository.PriceIndexRepository
	publisher   *worker.PricePublisher
	entitlement infra.EntitlementChecker
	hint        decimal.Decimal
}

func NewSavingsService(
	lists repository.ListRepository,
	items repository.ItemRepository,
	history repository.HistoryRepository,
	index repository.PriceIndexRepository,
	publisher *worker.PricePublisher,
	entitlement infra.EntitlementChecker,
	hint decimal.Decimal,
) SavingsService {
	if hint.IsZero() {
		hint = pricing.UnpricedSavingsHint
	}
	return &savingsService{
		lists:       lists,
		items:       items,
		history:     history,
		index:       index,
		publisher:   publisher,
		entitlement: entitlement,
		hint:        hint,
	}
}

// ── Savings / intelligence ────────────────────────────────────────────────────

func (s *savingsService) ListSavings(ctx context.Context, userID, listID uuid.UUID) (*dto.ListSavingsResponse, error) {
	items, best, err := s.loadListWithBest(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	resp := dto.ListSavingsResponse{
		ListID:  listID.String(),
		Savings: pricing.ListSavings(items, best, s.hint),
		Items:   make([]dto.ItemSavingsResponse, 0, len(items)),
	}
	for i := range items {
		it := &items[i]
		entry, ok := best[pricing.Normalize(it.Name)]
		row := dto.ItemSavingsResponse{
			ItemID: it.ID.String(),
			Name:   it.Name,
			Price:  it.Price,
		}
		if ok {
			row.Savings = pricing.ItemSavings(*it, &entry, s.hint)
			row.Best = bestToResponse(&entry)
		} else {
			row.Savings = pricing.ItemSavings(*it, nil, s.hint)
		}
		resp.Items = append(resp.Items, row)
	}
	return &resp, nil
}

func (s *savingsService) Intelligence(ctx context.Context, userID, listID uuid.UUID) (*dto.IntelligenceReportResponse, error) {
	entitled, err := s.entitlement.IsEntitled(ctx, userID.String())
	if err != nil {
		// Provider unreachable — degrade to the paywall outcome rather than
		// failing the request.
		log.Warn().Err(err).Msg("savings: entitlement check failed")
		return nil, ErrPaywall
	}
	if !entitled {
		return nil, ErrPaywall
	}

	items, best, err := s.loadListWithBest(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	report := dto.IntelligenceReportResponse{
		ListID:       listID.String(),
		TotalSavings: pricing.ListSavings(items, best, s.hint),
		Items:        make([]dto.IntelligenceItem, 0, len(items)),
	}
	for i := range items {
		it := &items[i]
		row := dto.IntelligenceItem{
			ItemID: it.ID.String(),
			Name:   it.Name,
			Price:  it.Price,
			Amount: it.Amount,
		}
		if entry, ok := best[pricing.Normalize(it.Name)]; ok {
			row.Savings = pricing.ItemSavings(*it, &entry, s.hint)
			row.Best = bestToResponse(&entry)
			row.CheaperElsewhere = entry.Price.LessThan(it.Price) && it.Price.GreaterThan(decimal.Zero)
		}
		report.Items = append(report.Items, row)
	}
	return &report, nil
}

func (s *savingsService) loadListWithBest(ctx context.Context, userID, listID uuid.UUID) ([]model.Item, map[string]pricing.BestPrice, error) {
	if _, err := s.lists.FindByID(ctx, userID, listID); err != nil {
		return nil, nil, ErrListNotFound
	}
	items, err := s.items.ListByList(ctx, userID, listID)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	best, err := s.index.LookupBestPrices(ctx, names)
	if err != nil {
		return nil, nil, err
	}
	return items, best, nil
}

// ── Finalize ──────────────────────────────────────────────────────────────────

func (s *savingsService) Finalize(ctx context.Context, userID, listID uuid.UUID, req dto.FinalizeRequest) (*dto.FinalizeResponse, error) {
	list, err := s.lists.FindByID(ctx, userID, listID)
	if err != nil {
		return nil, ErrListNotFound
	}
	items, err := s.items.ListByList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if !hasCompleted(items) {
		return nil, ErrNothingCompleted
	}

	market := model.MarketInfo{ID: req.Market.ID, Name: req.Market.Name, Address: req.Market.Address}

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	best, err := s.index.LookupBestPrices(ctx, names)
	if err != nil {
		return nil, err
	}
	flagged := pricing.FlagSegmentable(items, best, market.ID)

	switch req.Mode {
	case dto.FinalizeModeSegment:
		return s.segmentAndFinalize(ctx, userID, list, items, flagged, best, market)
	case dto.FinalizeModeFinalizeAnyway:
		return s.finalize(ctx, userID, list, items, market)
	default:
		if len(flagged) > 0 {
			return &dto.FinalizeResponse{
				Outcome: dto.FinalizeOutcomeSegmentationSuggested,
				Flagged: flaggedToResponse(flagged, best),
			}, nil
		}
		return s.finalize(ctx, userID, list, items, market)
	}
}

func (s *savingsService) finalize(ctx context.Context, userID uuid.UUID, list *model.List, items []model.Item, market model.MarketInfo) (*dto.FinalizeResponse, error) {
	var entry *model.HistoryEntry
	txErr := runTx(ctx, s.lists.DB(), func(tx *gorm.DB) error {
		var err error
		entry, err = finalizeListTx(tx, s.lists, s.items, s.history, userID, list, items, market, time.Now())
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publishObservations(ctx, entry, market)

	hist := historyToResponse(entry)
	return &dto.FinalizeResponse{
		Outcome: dto.FinalizeOutcomeFinalized,
		History: &hist,
	}, nil
}

// segmentAndFinalize moves every flagged item into a segmentation list bound
// to its cheaper market, then finalizes what remains. All moves and the
// finalize commit together — a failure anywhere rolls the whole thing back.
func (s *savingsService) segmentAndFinalize(
	ctx context.Context,
	userID uuid.UUID,
	list *model.List,
	items []model.Item,
	flagged []model.Item,
	best map[string]pricing.BestPrice,
	market model.MarketInfo,
) (*dto.FinalizeResponse, error) {
	if len(flagged) == 0 {
		return s.finalize(ctx, userID, list, items, market)
	}

	flaggedIDs := make(map[uuid.UUID]bool, len(flagged))
	for _, it := range flagged {
		flaggedIDs[it.ID] = true
	}

	// Resolve reuse targets before opening the transaction; new targets are
	// created inside it.
	type target struct {
		list     *model.List
		existing bool
	}
	targets := make(map[string]*target)
	for _, it := range flagged {
		entry := best[pricing.Normalize(it.Name)]
		if _, ok := targets[entry.MarketID]; ok {
			continue
		}
		name := SegmentationListPrefix + entry.MarketName
		if existing, err := s.lists.FindSegmentationTarget(ctx, userID, entry.MarketID, name); err == nil {
			targets[entry.MarketID] = &target{list: existing, existing: true}
			continue
		}
		fresh := &model.List{UserID: userID, Name: name}
		fresh.LockTo(model.MarketInfo{ID: entry.MarketID, Name: entry.MarketName, Address: entry.MarketAddress})
		targets[entry.MarketID] = &target{list: fresh}
	}

	var entry *model.HistoryEntry
	txErr := runTx(ctx, s.lists.DB(), func(tx *gorm.DB) error {
		for _, t := range targets {
			if t.existing {
				continue
			}
			if err := s.lists.CreateTx(tx, t.list); err != nil {
				return err
			}
		}

		remaining := make([]model.Item, 0, len(items)-len(flagged))
		for i := range items {
			it := items[i]
			if !flaggedIDs[it.ID] {
				remaining = append(remaining, it)
				continue
			}
			// Move into the cheaper store's list: unchecked, cheaper price
			// carried over as a hint.
			b := best[pricing.Normalize(it.Name)]
			it.ListID = targets[b.MarketID].list.ID
			it.Completed = false
			it.Price = b.Price
			if err := s.items.UpdateTx(tx, &it); err != nil {
				return err
			}
		}

		var err error
		entry, err = finalizeListTx(tx, s.lists, s.items, s.history, userID, list, remaining, market, time.Now())
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publishObservations(ctx, entry, market)

	hist := historyToResponse(entry)
	resp := &dto.FinalizeResponse{
		Outcome: dto.FinalizeOutcomeSegmented,
		History: &hist,
	}
	for _, t := range targets {
		resp.TargetListID = t.list.ID.String()
		break
	}
	return resp, nil
}

// publishObservations runs after the local commit. A remote failure lands the
// rows in the durable queue; only Redis being down as well is logged and
// dropped — the finalize itself already succeeded either way.
func (s *savingsService) publishObservations(ctx context.Context, entry *model.HistoryEntry, market model.MarketInfo) {
	if s.publisher == nil {
		return
	}
	rows := observationsFromEntry(entry, market)
	if err := s.publisher.Publish(ctx, market, rows); err != nil {
		log.Error().Err(err).Int("observations", len(rows)).Msg("savings: publish and queue both failed")
	}
}

func hasCompleted(items []model.Item) bool {
	for _, it := range items {
		if it.Completed {
			return true
		}
	}
	return false
}

func flaggedToResponse(flagged []model.Item, best map[string]pricing.BestPrice) []dto.FlaggedItemResponse {
	out := make([]dto.FlaggedItemResponse, 0, len(flagged))
	for _, it := range flagged {
		b := best[pricing.Normalize(it.Name)]
		out = append(out, dto.FlaggedItemResponse{
			ItemID:           it.ID.String(),
			Name:             it.Name,
			Price:            it.Price,
			BestPrice:        b.Price,
			BestMarketID:     b.MarketID,
			BestMarketName:   b.MarketName,
			PotentialSavings: it.Price.Sub(b.Price).Mul(it.Amount),
		})
	}
	return out
}
