package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vinecunha/riscae/internal/apierror"
	"github.com/vinecunha/riscae/internal/infra"
	"github.com/vinecunha/riscae/internal/repository"
	"github.com/vinecunha/riscae/internal/service"
	"github.com/vinecunha/riscae/internal/worker"
)

type HistoryHandler struct {
	svc        service.CartService
	repo       repository.HistoryRepository
	dispatcher *worker.Dispatcher
	pdfPath    string
}

func NewHistoryHandler(svc service.CartService, repo repository.HistoryRepository, dispatcher *worker.Dispatcher, pdfPath string) *HistoryHandler {
	return &HistoryHandler{svc: svc, repo: repo, dispatcher: dispatcher, pdfPath: pdfPath}
}

// List godoc
// @Summary      Histórico de compras (mais recentes primeiro)
// @Tags         historico
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.HistoryEntryResponse
// @Router       /v1/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	resp, err := h.svc.ListHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao listar histórico"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Excluir registro do histórico
// @Tags         historico
// @Security     BearerAuth
// @Param        id path string true "UUID do registro"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.DeleteHistoryEntry(c.Request.Context(), currentUserID(c), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear godoc
// @Summary      Limpar todo o histórico
// @Tags         historico
// @Security     BearerAuth
// @Success      204
// @Router       /v1/history [delete]
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.svc.ClearHistory(c.Request.Context(), currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao limpar histórico"))
		return
	}
	c.Status(http.StatusNoContent)
}

// Duplicate godoc
// @Summary      Duplicar compra do histórico em uma nova lista
// @Description  Cria uma lista nova com os mesmos itens, todos desmarcados. O registro original permanece intacto.
// @Tags         historico
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID do registro"
// @Success      201 {object} dto.DuplicateResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/history/{id}/duplicate [post]
func (h *HistoryHandler) Duplicate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.DuplicateFromHistory(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Receipt godoc
// @Summary      Comprovante PDF da compra
// @Description  Gera o comprovante em PDF. Com ?email=, envia por e-mail via fila assíncrona em vez de baixar.
// @Tags         historico
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id    path  string true  "UUID do registro"
// @Param        email query string false "Endereço para envio"
// @Success      200 {file} binary
// @Success      202 "Envio por e-mail enfileirado"
// @Failure      404 {object} apierror.APIError
// @Router       /v1/history/{id}/receipt [get]
func (h *HistoryHandler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	entry, err := h.repo.FindByID(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Registro de histórico não encontrado"))
		return
	}

	pdfFile, err := infra.GenerateReceiptPDF(entry, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao gerar comprovante"))
		return
	}

	if email := c.Query("email"); email != "" {
		payload := worker.EmailJobPayload{
			ToEmail: email,
			Subject: "Seu comprovante RISCAÊ — " + entry.ListName,
			Body:    fmt.Sprintf("Compra em %s no valor de R$ %s. Comprovante em anexo.", entry.Market, entry.Total.StringFixed(2)),
			PDFPath: pdfFile,
		}
		if err := h.dispatcher.EnqueueEmail(c.Request.Context(), payload); err != nil {
			c.JSON(http.StatusInternalServerError, apierror.New("Erro ao enfileirar envio"))
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"detail": "Comprovante será enviado para " + email})
		return
	}

	c.FileAttachment(pdfFile, fmt.Sprintf("recibo_%s.pdf", entry.ID))
}
