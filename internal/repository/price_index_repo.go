package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
)

// How long a last-good best-price result stays servable after a lookup failure.
const bestPriceCacheTTL = 12 * time.Hour

// PriceIndexRepository is the query surface over the crowdsourced price
// observation table. Reads are side-effect free (the redis cache refresh is
// best effort); the write path is append-only.
type PriceIndexRepository interface {
	// LookupBestPrices returns the cheapest known observation per normalized
	// name, with provenance. Empty input returns an empty map without touching
	// the database. On a query error it degrades to the last cached result for
	// the same name set (or an empty map) and logs — it never fails the caller.
	LookupBestPrices(ctx context.Context, names []string) (map[string]pricing.BestPrice, error)

	// InsertObservations appends a batch of observations. All-or-nothing: a
	// failed batch inserts no rows.
	InsertObservations(ctx context.Context, rows []model.PriceObservation) error

	// SearchNames returns distinct observed item names matching the query,
	// for the input suggestion feature.
	SearchNames(ctx context.Context, query string, limit int) ([]NameSuggestion, error)
}

// NameSuggestion is a distinct observed product name with its last known
// classification.
type NameSuggestion struct {
	ItemName string
	Category string
	Unit     string
}

type priceIndexRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewPriceIndexRepository(db *gorm.DB, rdb *redis.Client) PriceIndexRepository {
	return &priceIndexRepo{db: db, rdb: rdb}
}

// bestPriceRow is the flat join row returned by the lookup query.
type bestPriceRow struct {
	ItemName      string
	Price         decimal.Decimal
	MarketID      string
	MarketName    string
	MarketAddress string
	PurchaseDate  time.Time
}

func (r *priceIndexRepo) LookupBestPrices(ctx context.Context, names []string) (map[string]pricing.BestPrice, error) {
	if len(names) == 0 {
		return map[string]pricing.BestPrice{}, nil
	}

	normalized := make([]string, 0, len(names))
	for _, n := range names {
		if key := pricing.Normalize(n); key != "" {
			normalized = append(normalized, key)
		}
	}
	if len(normalized) == 0 {
		return map[string]pricing.BestPrice{}, nil
	}

	cacheKey := bestPriceCacheKey(normalized)

	var rows []bestPriceRow
	err := r.db.WithContext(ctx).
		Table("price_observations AS po").
		Select("po.item_name, po.price, po.market_id, po.purchase_date, m.name AS market_name, m.address AS market_address").
		Joins("LEFT JOIN markets m ON m.osm_id = po.market_id").
		Where("po.item_name IN ?", normalized).
		// Deterministic tie-break: cheapest first, then the most recent
		// observation, then insert order.
		Order("po.price ASC, po.purchase_date DESC, po.id ASC").
		Scan(&rows).Error
	if err != nil {
		// Degrade gracefully: serve the last good result for this name set.
		log.Error().Err(err).Int("names", len(normalized)).Msg("price_index: lookup failed, serving cached result")
		return r.cachedBestPrices(ctx, cacheKey), nil
	}

	minRows := pricing.GroupByMinimum(rows,
		func(row bestPriceRow) string { return pricing.Normalize(row.ItemName) },
		func(a, b bestPriceRow) bool { return a.Price.LessThan(b.Price) },
	)

	best := make(map[string]pricing.BestPrice, len(minRows))
	for key, row := range minRows {
		best[key] = pricing.BestPrice{
			Price:         row.Price,
			MarketID:      row.MarketID,
			MarketName:    row.MarketName,
			MarketAddress: row.MarketAddress,
			Date:          row.PurchaseDate,
		}
	}

	// Refresh the last-good cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(best); jsonErr == nil {
		_ = r.rdb.Set(ctx, cacheKey, b, bestPriceCacheTTL).Err()
	}

	return best, nil
}

func (r *priceIndexRepo) cachedBestPrices(ctx context.Context, cacheKey string) map[string]pricing.BestPrice {
	cached, err := r.rdb.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return map[string]pricing.BestPrice{}
	}
	var best map[string]pricing.BestPrice
	if err := json.Unmarshal(cached, &best); err != nil {
		return map[string]pricing.BestPrice{}
	}
	return best
}

func bestPriceCacheKey(normalized []string) string {
	sorted := make([]string, len(normalized))
	copy(sorted, normalized)
	sort.Strings(sorted)
	sum := sha1.Sum([]byte(strings.Join(sorted, "\x00")))
	return "bestprices:" + hex.EncodeToString(sum[:])
}

func (r *priceIndexRepo) InsertObservations(ctx context.Context, rows []model.PriceObservation) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *priceIndexRepo) SearchNames(ctx context.Context, query string, limit int) ([]NameSuggestion, error) {
	if limit < 1 {
		limit = 5
	}
	var out []NameSuggestion
	err := r.db.WithContext(ctx).
		Table("price_observations").
		Select("DISTINCT ON (item_name) item_name, category, unit").
		Where("item_name ILIKE ?", "%"+pricing.Normalize(query)+"%").
		Order("item_name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
