package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/pricing"
	"github.com/vinecunha/riscae/internal/repository"
)

// maxSuggestions caps the autocomplete box.
const maxSuggestions = 6

type SuggestionService interface {
	Suggest(ctx context.Context, query string) ([]dto.SuggestionResponse, error)
}

type suggestionService struct {
	dictionary repository.DictionaryRepository
	index      repository.PriceIndexRepository
}

func NewSuggestionService(dictionary repository.DictionaryRepository, index repository.PriceIndexRepository) SuggestionService {
	return &suggestionService{dictionary: dictionary, index: index}
}

// Suggest merges curated dictionary terms with names observed in the price
// index. Dictionary entries rank first; duplicates collapse case-insensitively.
func (s *suggestionService) Suggest(ctx context.Context, query string) ([]dto.SuggestionResponse, error) {
	if pricing.Normalize(query) == "" {
		return []dto.SuggestionResponse{}, nil
	}

	out := make([]dto.SuggestionResponse, 0, maxSuggestions)
	seen := make(map[string]bool, maxSuggestions)

	entries, err := s.dictionary.Search(ctx, query, maxSuggestions)
	if err != nil {
		// Dictionary down should not kill autocomplete — the index half
		// still answers.
		log.Warn().Err(err).Msg("suggestions: dictionary search failed")
	}
	for _, e := range entries {
		key := pricing.Normalize(e.Term)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, dto.SuggestionResponse{
			Name:     e.Term,
			Category: e.Category,
			Unit:     e.SuggestedUnit,
			Source:   "dicionario",
		})
		if len(out) == maxSuggestions {
			return out, nil
		}
	}

	names, err := s.index.SearchNames(ctx, query, maxSuggestions)
	if err != nil {
		log.Warn().Err(err).Msg("suggestions: price index search failed")
		return out, nil
	}
	for _, n := range names {
		key := pricing.Normalize(n.ItemName)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, dto.SuggestionResponse{
			Name:     n.ItemName,
			Category: n.Category,
			Unit:     n.Unit,
			Source:   "historico",
		})
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}
