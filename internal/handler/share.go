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

type ShareHandler struct{ svc service.ShareService }

func NewShareHandler(svc service.ShareService) *ShareHandler { return &ShareHandler{svc: svc} }

// Export godoc
// @Summary      Gerar código de compartilhamento da lista
// @Tags         compartilhamento
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da lista"
// @Success      200 {object} dto.ShareCodeResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lists/{id}/share-code [get]
func (h *ShareHandler) Export(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ExportCode(c.Request.Context(), currentUserID(c), listID)
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

// Import godoc
// @Summary      Importar lista de um código compartilhado
// @Description  Aceita o token #RISCAE#...# puro ou embutido em texto/URL. Código malformado: erro, sem importação parcial.
// @Tags         compartilhamento
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ImportRequest true "Código"
// @Success      201  {object} dto.ImportResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/import [post]
func (h *ShareHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ImportCode(c.Request.Context(), currentUserID(c), req.Code)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidShareCode) {
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}
