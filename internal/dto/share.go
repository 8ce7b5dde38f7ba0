package dto

type ShareCodeResponse struct {
	Code string `json:"code"`
}

type ImportRequest struct {
	Code string `json:"code" validate:"required"`
}

type ImportResponse struct {
	ListID     string `json:"list_id"`
	Name       string `json:"name"`
	ItemsCount int    `json:"items_count"`
}
