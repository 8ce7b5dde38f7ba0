package worker

// observation_queue.go
// Durable FIFO buffer for price observations that could not be written to the
// price index directly (finalize while the index is unreachable). Backed by a
// Redis list so entries survive process restarts. Entries are never dropped:
// a failed flush leaves the queue exactly as it was.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const ObservationQueueKey = "queue:price_observations"

// QueuedObservation is one price observation awaiting upload, carrying enough
// market context to upsert the store record on flush.
type QueuedObservation struct {
	MarketID      string          `json:"market_id"`
	MarketName    string          `json:"market_name"`
	MarketAddress string          `json:"market_address"`
	ItemName      string          `json:"item_name"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit"`
	Category      string          `json:"category"`
	PurchaseDate  time.Time       `json:"purchase_date"`
}

// ObservationQueue is the durable write buffer. Enqueue appends, Flush drains
// a snapshot all-or-nothing.
type ObservationQueue interface {
	Enqueue(ctx context.Context, entries []QueuedObservation) error
	// Flush snapshots the queue, hands the decoded entries to write, and
	// clears exactly the snapshot on success. Entries enqueued while the
	// flush is in flight stay queued for the next cycle. Returns the number
	// of entries cleared.
	Flush(ctx context.Context, write func(ctx context.Context, entries []QueuedObservation) error) (int, error)
	Length(ctx context.Context) (int64, error)
}

type observationQueue struct{ rdb *redis.Client }

func NewObservationQueue(rdb *redis.Client) ObservationQueue {
	return &observationQueue{rdb: rdb}
}

// Enqueue RPushes so the list head is always the oldest entry (FIFO).
func (q *observationQueue) Enqueue(ctx context.Context, entries []QueuedObservation) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	return q.rdb.RPush(ctx, ObservationQueueKey, values...).Err()
}

func (q *observationQueue) Flush(ctx context.Context, write func(ctx context.Context, entries []QueuedObservation) error) (int, error) {
	n, err := q.rdb.LLen(ctx, ObservationQueueKey).Result()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	raw, err := q.rdb.LRange(ctx, ObservationQueueKey, 0, n-1).Result()
	if err != nil {
		return 0, err
	}

	entries := make([]QueuedObservation, 0, len(raw))
	for _, item := range raw {
		var e QueuedObservation
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			// Malformed entries cannot be retried — park them in the DLQ
			// instead of silently losing them or wedging the queue forever.
			SendToDLQ(ctx, q.rdb, ObservationQueueKey, json.RawMessage(item), "unmarshal: "+err.Error())
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) > 0 {
		if err := write(ctx, entries); err != nil {
			// No partial clear — the whole snapshot stays queued for retry.
			return 0, err
		}
	}

	// Remove exactly the snapshot; anything pushed during the flush is at
	// index >= n and survives.
	if err := q.rdb.LTrim(ctx, ObservationQueueKey, n, -1).Err(); err != nil {
		log.Error().Err(err).Msg("observation_queue: trim after successful flush failed")
		return len(entries), err
	}
	return len(entries), nil
}

func (q *observationQueue) Length(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, ObservationQueueKey).Result()
}
