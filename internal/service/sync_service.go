package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/infra"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/repository"
	"github.com/vinecunha/riscae/internal/worker"
)

// syncStampKeyPrefix keys the per-user last-synced timestamp in Redis.
const syncStampKeyPrefix = "sync:last:"

// backupBlob is the whole-blob serialization of a user's state. Push
// overwrites the remote copy unconditionally; pull replaces local state
// wholesale. There is no field-level merge by design of the backup contract.
type backupBlob struct {
	Lists   []model.List         `json:"lists"`
	Items   []model.Item         `json:"items"`
	History []model.HistoryEntry `json:"history"`
}

type SyncService interface {
	Push(ctx context.Context, userID uuid.UUID) (*dto.SyncResponse, error)
	Pull(ctx context.Context, userID uuid.UUID, silent bool) (*dto.SyncResponse, error)
}

type syncService struct {
	lists       repository.ListRepository
	items       repository.ItemRepository
	history     repository.HistoryRepository
	backups     repository.BackupRepository
	rdb         *redis.Client
	entitlement infra.EntitlementChecker
	publisher   *worker.PricePublisher
}

func NewSyncService(
	lists repository.ListRepository,
	items repository.ItemRepository,
	history repository.HistoryRepository,
	backups repository.BackupRepository,
	rdb *redis.Client,
	entitlement infra.EntitlementChecker,
	publisher *worker.PricePublisher,
) SyncService {
	return &syncService{
		lists:       lists,
		items:       items,
		history:     history,
		backups:     backups,
		rdb:         rdb,
		entitlement: entitlement,
		publisher:   publisher,
	}
}

// Push uploads the user's full {lists, items, history} snapshot as one blob.
// Last-writer-wins: whatever was remote before is gone.
func (s *syncService) Push(ctx context.Context, userID uuid.UUID) (*dto.SyncResponse, error) {
	if outcome := s.gate(ctx, userID); outcome != "" {
		return &dto.SyncResponse{Outcome: outcome}, nil
	}

	s.flushQueue(ctx)

	blob, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.backups.Put(ctx, userID, data, now); err != nil {
		return nil, err
	}

	// Local state and remote blob are identical right now — advance the stamp
	// so the next silent pull short-circuits.
	s.setStamp(ctx, userID, now)

	log.Info().Str("user_id", userID.String()).
		Int("lists", len(blob.Lists)).Int("items", len(blob.Items)).Int("history", len(blob.History)).
		Msg("sync: pushed backup")
	return &dto.SyncResponse{Outcome: dto.SyncOutcomeSuccess, UpdatedAt: now.Format(time.RFC3339)}, nil
}

// Pull fetches the remote blob and replaces local state wholesale. Silent
// pulls are a no-op when the remote copy is not newer than the last sync.
func (s *syncService) Pull(ctx context.Context, userID uuid.UUID, silent bool) (*dto.SyncResponse, error) {
	if outcome := s.gate(ctx, userID); outcome != "" {
		return &dto.SyncResponse{Outcome: outcome}, nil
	}

	// Queued price observations are independent of the blob, but every sync
	// cycle is a flush opportunity.
	s.flushQueue(ctx)

	remote, err := s.backups.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.SyncResponse{Outcome: dto.SyncOutcomeNoBackup}, nil
		}
		return nil, err
	}

	if silent && !remote.UpdatedAt.After(s.lastSynced(ctx, userID)) {
		return &dto.SyncResponse{Outcome: dto.SyncOutcomeAlreadyUpdated}, nil
	}

	var blob backupBlob
	if err := json.Unmarshal(remote.Data, &blob); err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.lists.DB(), func(tx *gorm.DB) error {
		// Items first — they reference lists only logically, but replacing in
		// this order keeps any mid-tx reader from seeing orphan items.
		if err := s.items.ReplaceAllTx(tx, userID, blob.Items); err != nil {
			return err
		}
		if err := s.lists.ReplaceAllTx(tx, userID, blob.Lists); err != nil {
			return err
		}
		return s.history.ReplaceAllTx(tx, userID, blob.History)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.setStamp(ctx, userID, remote.UpdatedAt)

	log.Info().Str("user_id", userID.String()).Bool("silent", silent).Msg("sync: pulled backup")
	return &dto.SyncResponse{
		Outcome:   dto.SyncOutcomeSuccess,
		UpdatedAt: remote.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// gate returns the PAYWALL outcome when the entitlement predicate denies the
// user, empty string when allowed. Predicate failures degrade to the paywall.
func (s *syncService) gate(ctx context.Context, userID uuid.UUID) string {
	entitled, err := s.entitlement.IsEntitled(ctx, userID.String())
	if err != nil {
		log.Warn().Err(err).Msg("sync: entitlement check failed")
		return dto.SyncOutcomePaywall
	}
	if !entitled {
		return dto.SyncOutcomePaywall
	}
	return ""
}

func (s *syncService) flushQueue(ctx context.Context) {
	if s.publisher == nil {
		return
	}
	if n, err := s.publisher.Flush(ctx); err != nil {
		log.Warn().Err(err).Msg("sync: observation flush failed, queue left intact")
	} else if n > 0 {
		log.Info().Int("flushed", n).Msg("sync: observation queue drained")
	}
}

func (s *syncService) snapshot(ctx context.Context, userID uuid.UUID) (*backupBlob, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	blob := &backupBlob{Lists: lists}
	for _, l := range lists {
		items, err := s.items.ListByList(ctx, userID, l.ID)
		if err != nil {
			return nil, err
		}
		blob.Items = append(blob.Items, items...)
	}
	blob.History, err = s.history.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *syncService) lastSynced(ctx context.Context, userID uuid.UUID) time.Time {
	if s.rdb == nil {
		return time.Time{}
	}
	raw, err := s.rdb.Get(ctx, syncStampKeyPrefix+userID.String()).Result()
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *syncService) setStamp(ctx context.Context, userID uuid.UUID, t time.Time) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, syncStampKeyPrefix+userID.String(), t.Format(time.RFC3339Nano), 0).Err(); err != nil {
		log.Warn().Err(err).Msg("sync: failed to advance sync stamp")
	}
}
