package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/pricing"
	"github.com/vinecunha/riscae/internal/repository"
)

// ErrInvalidShareCode is the user-visible invalid-code condition. Any decoding
// or shape failure maps here; a malformed code never produces a partial import.
var ErrInvalidShareCode = errors.New("código de compartilhamento inválido")

// shareMarker wraps the base64 payload in shared text: #RISCAE#<base64>#.
const shareMarker = "#RISCAE#"

// Wire unit codes, fixed by the share-code format:
// 0 = Un., 1 = Kg, 2 = L, 3 = Cx, 4 = G.
const (
	unitCodeUn = 0
	unitCodeKg = 1
	unitCodeL  = 2
	unitCodeCx = 3
	unitCodeG  = 4
)

type ShareService interface {
	// ExportCode encodes a list as a shareable token.
	ExportCode(ctx context.Context, userID, listID uuid.UUID) (*dto.ShareCodeResponse, error)
	// ImportCode decodes a token (tolerating surrounding text) and creates a
	// fresh list with all items unchecked.
	ImportCode(ctx context.Context, userID uuid.UUID, code string) (*dto.ImportResponse, error)
}

type shareService struct {
	lists repository.ListRepository
	items repository.ItemRepository
}

func NewShareService(lists repository.ListRepository, items repository.ItemRepository) ShareService {
	return &shareService{lists: lists, items: items}
}

func (s *shareService) ExportCode(ctx context.Context, userID, listID uuid.UUID) (*dto.ShareCodeResponse, error) {
	list, err := s.lists.FindByID(ctx, userID, listID)
	if err != nil {
		return nil, ErrListNotFound
	}
	items, err := s.items.ListByList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	// Decimals go out as plain JSON numbers, matching what importers expect.
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		code := unitCodeUn
		if it.UnitType == model.UnitTypeWeight {
			code = unitCodeKg
		}
		rows = append(rows, []interface{}{it.Name, code, it.Amount.InexactFloat64(), it.Price.InexactFloat64()})
	}
	payload := []interface{}{list.Name, list.Total.InexactFloat64(), rows}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	code := shareMarker + base64.StdEncoding.EncodeToString(data) + "#"
	return &dto.ShareCodeResponse{Code: code}, nil
}

func (s *shareService) ImportCode(ctx context.Context, userID uuid.UUID, code string) (*dto.ImportResponse, error) {
	name, items, err := parseShareCode(code)
	if err != nil {
		return nil, err
	}

	list := model.List{UserID: userID, Name: name}
	txErr := runTx(ctx, s.lists.DB(), func(tx *gorm.DB) error {
		if err := s.lists.CreateTx(tx, &list); err != nil {
			return err
		}
		for i := range items {
			items[i].UserID = userID
			items[i].ListID = list.ID
			if err := s.items.CreateTx(tx, &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.ImportResponse{
		ListID:     list.ID.String(),
		Name:       list.Name,
		ItemsCount: len(items),
	}, nil
}

// parseShareCode extracts and decodes the payload. Tolerates the token being
// embedded in surrounding text or a share URL (data= query parameter).
func parseShareCode(content string) (string, []model.Item, error) {
	b64 := extractBase64(content)
	if b64 == "" {
		return "", nil, ErrInvalidShareCode
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, ErrInvalidShareCode
	}

	// Wire shape: [name, total, [[name, unitCode, amount, price], ...]]
	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil || len(outer) != 3 {
		return "", nil, ErrInvalidShareCode
	}

	var name string
	if err := json.Unmarshal(outer[0], &name); err != nil || pricing.Normalize(name) == "" {
		return "", nil, ErrInvalidShareCode
	}

	var rows [][]json.RawMessage
	if err := json.Unmarshal(outer[2], &rows); err != nil {
		return "", nil, ErrInvalidShareCode
	}

	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		if len(row) != 4 {
			return "", nil, ErrInvalidShareCode
		}
		var (
			itemName string
			unitCode int
			amount   decimal.Decimal
			price    decimal.Decimal
		)
		if err := json.Unmarshal(row[0], &itemName); err != nil || pricing.Normalize(itemName) == "" {
			return "", nil, ErrInvalidShareCode
		}
		if err := json.Unmarshal(row[1], &unitCode); err != nil {
			return "", nil, ErrInvalidShareCode
		}
		if err := json.Unmarshal(row[2], &amount); err != nil {
			return "", nil, ErrInvalidShareCode
		}
		if err := json.Unmarshal(row[3], &price); err != nil {
			return "", nil, ErrInvalidShareCode
		}

		it := model.Item{
			Name:     itemName,
			UnitType: model.UnitTypeUnit,
			Amount:   amount,
			Price:    price,
			Category: model.DefaultCategory,
			Brand:    model.DefaultBrand,
		}
		switch unitCode {
		case unitCodeKg:
			it.UnitType = model.UnitTypeWeight
		case unitCodeG:
			// Gram-coded amounts arrive in grams
			it.UnitType = model.UnitTypeWeight
			it.Amount = pricing.KilogramsFromGrams(amount)
		}
		if it.Amount.LessThanOrEqual(decimal.Zero) {
			it.Amount = decimalOne
		}
		items = append(items, it)
	}
	return name, items, nil
}

func extractBase64(content string) string {
	if content == "" {
		return ""
	}
	if idx := strings.Index(content, "data="); idx >= 0 {
		rest := content[idx+len("data="):]
		if end := strings.IndexAny(rest, "&# \n\t"); end >= 0 {
			rest = rest[:end]
		}
		return rest
	}
	if idx := strings.Index(content, shareMarker); idx >= 0 {
		rest := content[idx+len(shareMarker):]
		if end := strings.Index(rest, "#"); end >= 0 {
			return rest[:end]
		}
		return rest
	}
	return ""
}
