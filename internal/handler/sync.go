package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vinecunha/riscae/internal/apierror"
	"github.com/vinecunha/riscae/internal/dto"
	"github.com/vinecunha/riscae/internal/service"
)

type SyncHandler struct{ svc service.SyncService }

func NewSyncHandler(svc service.SyncService) *SyncHandler { return &SyncHandler{svc: svc} }

// Push godoc
// @Summary      Enviar backup (Pro)
// @Description  Sobe o estado completo {listas, itens, histórico} como um único blob. Last-writer-wins.
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SyncResponse
// @Success      402 {object} dto.SyncResponse "PAYWALL"
// @Router       /v1/sync/push [post]
func (h *SyncHandler) Push(c *gin.Context) {
	resp, err := h.svc.Push(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao enviar backup"))
		return
	}
	c.JSON(syncStatus(resp), resp)
}

// Pull godoc
// @Summary      Restaurar backup (Pro)
// @Description  Substitui o estado local pelo blob remoto. silent=true é no-op quando o remoto não é mais novo (ALREADY_UPDATED).
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PullRequest false "Opções"
// @Success      200 {object} dto.SyncResponse
// @Success      402 {object} dto.SyncResponse "PAYWALL"
// @Router       /v1/sync/pull [post]
func (h *SyncHandler) Pull(c *gin.Context) {
	var req dto.PullRequest
	// Body is optional — default is a non-silent pull
	_ = c.ShouldBindJSON(&req)

	resp, err := h.svc.Pull(c.Request.Context(), currentUserID(c), req.Silent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erro ao restaurar backup"))
		return
	}
	c.JSON(syncStatus(resp), resp)
}

// syncStatus maps the paywall outcome to 402; every other outcome is a 200 —
// NO_BACKUP and ALREADY_UPDATED are normal results, not errors.
func syncStatus(resp *dto.SyncResponse) int {
	if resp.Outcome == dto.SyncOutcomePaywall {
		return http.StatusPaymentRequired
	}
	return http.StatusOK
}
