package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vinecunha/riscae/internal/apierror"
	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/middleware"
	"github.com/vinecunha/riscae/internal/service"
)

type ListsHandler struct{ svc service.CartService }

func NewListsHandler(svc service.CartService) *ListsHandler { return &ListsHandler{svc: svc} }

func currentUserID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return id
}

// Create godoc
// @Summary      Criar lista de compras
// @Tags         listas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateListRequest true "Nome da lista"
// @Success      201  {object} dto.ListResponse
// @Success      204  "Nome em branco — nenhuma lista criada"
// @Failure      400  {object} apierror.APIError
// @Router       /v1/lists [post]
func (h *ListsHandler) Create(c *gin.Context) {
	var req dto.CreateListRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateList(c.Request.Context(), currentUserID(c), req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if resp == nil {
		// Blank name — silent no-op
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Listar listas do usuário (com itens)
// @Tags         listas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ListDetailResponse
// @Router       /v1/lists [get]
func (h *ListsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListLists(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar listas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Detalhar lista
// @Tags         listas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID da lista"
// @Success      200 {object} dto.ListDetailResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lists/{id} [get]
func (h *ListsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.GetList(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rename godoc
// @Summary      Renomear lista
// @Tags         listas
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string true "UUID da lista"
// @Param        body body dto.RenameListRequest true "Novo nome"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lists/{id} [patch]
func (h *ListsHandler) Rename(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.RenameListRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RenameList(c.Request.Context(), currentUserID(c), id, req.Name); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrListNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Excluir lista e seus itens
// @Tags         listas
// @Security     BearerAuth
// @Param        id path string true "UUID da lista"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lists/{id} [delete]
func (h *ListsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.DeleteList(c.Request.Context(), currentUserID(c), id); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrListNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
