package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinecunha/riscae/internal/apierror"
	"github.com/vinecunha/riscae/internal/service"
)

type SuggestionsHandler struct{ svc service.SuggestionService }

func NewSuggestionsHandler(svc service.SuggestionService) *SuggestionsHandler {
	return &SuggestionsHandler{svc: svc}
}

// Suggest godoc
// @Summary      Sugestões de produtos para o campo de item
// @Description  Mescla o dicionário curado com nomes observados no índice de preços; no máximo 6 resultados.
// @Tags         sugestoes
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Texto digitado"
// @Success      200 {array} dto.SuggestionResponse
// @Router       /v1/suggestions [get]
func (h *SuggestionsHandler) Suggest(c *gin.Context) {
	resp, err := h.svc.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao buscar sugestões"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
