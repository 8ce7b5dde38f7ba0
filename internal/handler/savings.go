package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vinecunha/riscae/internal/apierror"
	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/service"
)

type SavingsHandler struct{ svc service.SavingsService }

func NewSavingsHandler(svc service.SavingsService) *SavingsHandler {
	return &SavingsHandler{svc: svc}
}

// GetSavings godoc
// @Summary      Estimativa de economia da lista
// @Description  Valor consultivo exibido no banner de economia; 0 nunca bloqueia nada.
// @Tags         economia
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da lista"
// @Success      200 {object} dto.ListSavingsResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lists/{id}/savings [get]
func (h *SavingsHandler) GetSavings(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ListSavings(c.Request.Context(), currentUserID(c), listID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrListNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetIntelligence godoc
// @Summary      Relatório completo de inteligência de preços (Pro)
// @Tags         economia
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da lista"
// @Success      200 {object} dto.IntelligenceReportResponse
// @Failure      402 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lists/{id}/intelligence [get]
func (h *SavingsHandler) GetIntelligence(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Intelligence(c.Request.Context(), currentUserID(c), listID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaywall):
			c.JSON(http.StatusPaymentRequired, apierror.New(err.Error()))
		case errors.Is(err, service.ErrListNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalize godoc
// @Summary      Finalizar compra
// @Description  Sem mode: retorna SEGMENTATION_SUGGESTED quando há itens mais baratos em outro mercado. mode=segment move os itens sinalizados para a lista do mercado mais barato e finaliza o restante; mode=finalize_anyway finaliza tudo.
// @Tags         economia
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da lista"
// @Param        body body dto.FinalizeRequest true "Mercado e modo"
// @Success      200  {object} dto.FinalizeResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Nenhum item riscado"
// @Router       /v1/lists/{id}/finalize [post]
func (h *SavingsHandler) Finalize(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.FinalizeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalize(c.Request.Context(), currentUserID(c), listID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrListNotFound):
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		case errors.Is(err, service.ErrNothingCompleted):
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
		default:
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
