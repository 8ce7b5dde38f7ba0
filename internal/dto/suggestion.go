package dto

// SuggestionResponse is one autocomplete entry for the item input field.
// Source is "dicionario" for curated dictionary terms and "historico" for
// names observed in the crowdsourced price index.
type SuggestionResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Source   string `json:"source"`
}
