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

type ItemsHandler struct{ svc service.CartService }

func NewItemsHandler(svc service.CartService) *ItemsHandler { return &ItemsHandler{svc: svc} }

// Add godoc
// @Summary      Adicionar item à lista
// @Tags         itens
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID da lista"
// @Param        body body dto.AddItemRequest true "Item"
// @Success      201  {object} dto.ItemResponse
// @Success      204  "Nome em branco — nenhum item criado"
// @Failure      404  {object} apierror.APIError
// @Router       /v1/lists/{id}/items [post]
func (h *ItemsHandler) Add(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), currentUserID(c), listID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrListNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Confirm godoc
// @Summary      Riscar item (registrar preço e quantidade)
// @Description  Itens UNIT enviam amount; itens WEIGHT enviam amount_grams (armazenado em kg).
// @Tags         itens
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID do item"
// @Param        body body dto.ConfirmItemRequest true "Preço e quantidade"
// @Success      200  {object} dto.ItemResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/items/{id}/confirm [patch]
func (h *ItemsHandler) Confirm(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ConfirmItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmItem(c.Request.Context(), currentUserID(c), itemID, req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reopen godoc
// @Summary      Desriscar item (mantém preço e quantidade)
// @Tags         itens
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do item"
// @Success      200 {object} dto.ItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id}/reopen [patch]
func (h *ItemsHandler) Reopen(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ReopenItem(c.Request.Context(), currentUserID(c), itemID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remove godoc
// @Summary      Remover item
// @Tags         itens
// @Security     BearerAuth
// @Param        id path string true "UUID do item"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/items/{id} [delete]
func (h *ItemsHandler) Remove(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), currentUserID(c), itemID); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
