package worker

// publisher.go
// Write path of the price index. Direct writes go through the circuit breaker;
// when the index is unreachable the observations fall back to the durable
// queue so finalize never loses crowdsourced price data. The local finalize
// commit has already happened by the time Publish runs — a remote failure here
// must never surface as a finalize failure.

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vinecunha/riscae/internal/infra"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/repository"
)

// PricePublisher writes price observations to the index, falling back to the
// observation queue when the write path is down.
type PricePublisher struct {
	markets repository.MarketRepository
	index   repository.PriceIndexRepository
	queue   ObservationQueue
	cb      *infra.CircuitBreaker
}

func NewPricePublisher(
	markets repository.MarketRepository,
	index repository.PriceIndexRepository,
	queue ObservationQueue,
	cb *infra.CircuitBreaker,
) *PricePublisher {
	return &PricePublisher{markets: markets, index: index, queue: queue, cb: cb}
}

// Publish attempts a direct write of one finalized list's observations. On
// failure the same entries are queued instead; only a queue failure (Redis
// down as well) is returned to the caller.
func (p *PricePublisher) Publish(ctx context.Context, market model.MarketInfo, rows []model.PriceObservation) error {
	if len(rows) == 0 {
		return nil
	}

	err := p.cb.Execute(func() error {
		if err := p.markets.Upsert(ctx, market); err != nil {
			return err
		}
		return p.index.InsertObservations(ctx, rows)
	})
	if err == nil {
		log.Info().Int("observations", len(rows)).Str("market_id", market.ID).Msg("publisher: observations written")
		return nil
	}

	log.Warn().Err(err).Int("observations", len(rows)).Msg("publisher: direct write failed, queueing")

	queued := make([]QueuedObservation, 0, len(rows))
	for _, row := range rows {
		queued = append(queued, QueuedObservation{
			MarketID:      market.ID,
			MarketName:    market.Name,
			MarketAddress: market.Address,
			ItemName:      row.ItemName,
			Price:         row.Price,
			Unit:          row.Unit,
			Category:      row.Category,
			PurchaseDate:  row.PurchaseDate,
		})
	}
	return p.queue.Enqueue(ctx, queued)
}

// Flush drains the observation queue in one all-or-nothing batch.
func (p *PricePublisher) Flush(ctx context.Context) (int, error) {
	return p.queue.Flush(ctx, p.writeQueued)
}

func (p *PricePublisher) writeQueued(ctx context.Context, entries []QueuedObservation) error {
	// Collapse repeated markets before upserting
	markets := make(map[string]model.MarketInfo, len(entries))
	rows := make([]model.PriceObservation, 0, len(entries))
	for _, e := range entries {
		if e.MarketID != "" {
			markets[e.MarketID] = model.MarketInfo{ID: e.MarketID, Name: e.MarketName, Address: e.MarketAddress}
		}
		rows = append(rows, model.PriceObservation{
			MarketID:     e.MarketID,
			ItemName:     e.ItemName,
			Price:        e.Price,
			Unit:         e.Unit,
			Category:     e.Category,
			PurchaseDate: e.PurchaseDate,
		})
	}

	return p.cb.Execute(func() error {
		for _, m := range markets {
			if err := p.markets.Upsert(ctx, m); err != nil {
				return err
			}
		}
		return p.index.InsertObservations(ctx, rows)
	})
}
