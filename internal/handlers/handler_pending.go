package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type pendingHandler struct {
	pendingService portssvc.PendingResolverSvc
}

// RegisterPendingRoutes registers the outstanding-obligations listing of a contact.
func RegisterPendingRoutes(rg *gin.RouterGroup, pendingService portssvc.PendingResolverSvc) {
	h := &pendingHandler{pendingService: pendingService}
	rg.GET("/contacts/:contactID/pending", h.listPending)
}

// listPending godoc
// @Summary List pending transactions of a contact
// @Description Outstanding obligations ordered by due date, followed by the carried-over contact balance when it is non-zero. The listing is a snapshot and is re-checked under lock when a payment is applied.
// @Tags pending
// @Produce  json
// @Param   contactID path string true "Contact ID"
// @Success 200 {object} dto.ListPendingResponse
// @Failure 401 {object} errorBody "Unauthorized"
// @Failure 404 {object} errorBody "Contact not found"
// @Failure 500 {object} errorBody "Failed to list pending transactions"
// @Security BearerAuth
// @Router /contacts/{contactID}/pending [get]
func (h *pendingHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID := c.Param("contactID")

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("contact_id", contactID))
	items, err := h.pendingService.ResolvePending(c.Request.Context(), contactID)
	if err != nil {
		respondError(c, logger, err, "Failed to list pending transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ListPendingResponse{
		ContactID:    contactID,
		Transactions: dto.ToPendingTransactionResponses(items),
	})
}
