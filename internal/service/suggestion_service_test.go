package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinecunha/riscae/internal/model"
	"github.com/vinecunha/riscae/internal/repository"
)

func TestSuggestMergesDictionaryAndIndex(t *testing.T) {
	dict := &stubDictionaryRepo{entries: []model.DictionaryEntry{
		{Term: "Arroz", Category: "Grãos", SuggestedUnit: model.UnitTypeUnit},
	}}
	index := &stubIndexRepo{names: []repository.NameSuggestion{
		{ItemName: "arroz", Category: "Outros", Unit: model.UnitTypeUnit}, // dup of the dictionary term
		{ItemName: "arroz integral", Category: "Grãos", Unit: model.UnitTypeUnit},
	}}

	svc := NewSuggestionService(dict, index)
	out, err := svc.Suggest(context.Background(), "arr")
	require.NoError(t, err)

	require.Len(t, out, 2, "case-insensitive duplicate collapsed")
	assert.Equal(t, "Arroz", out[0].Name)
	assert.Equal(t, "dicionario", out[0].Source, "dictionary ranks first")
	assert.Equal(t, "arroz integral", out[1].Name)
	assert.Equal(t, "historico", out[1].Source)
}

func TestSuggestCapsResults(t *testing.T) {
	dict := &stubDictionaryRepo{entries: []model.DictionaryEntry{
		{Term: "A1"}, {Term: "A2"}, {Term: "A3"}, {Term: "A4"},
	}}
	index := &stubIndexRepo{names: []repository.NameSuggestion{
		{ItemName: "B1"}, {ItemName: "B2"}, {ItemName: "B3"}, {ItemName: "B4"},
	}}

	svc := NewSuggestionService(dict, index)
	out, err := svc.Suggest(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, out, 6)
}

func TestSuggestBlankQuery(t *testing.T) {
	svc := NewSuggestionService(&stubDictionaryRepo{}, &stubIndexRepo{})
	out, err := svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}
