package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// RegisterPaymentRoutes registers payment routes and the per-contact payment listing.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("/:paymentID", h.getPayment)
		payments.PUT("/:paymentID", h.updatePayment)
		payments.DELETE("/:paymentID", h.deletePayment)
	}
	rg.GET("/contacts/:contactID/payments", h.listPayments)
}

// createPayment godoc
// @Summary Record a payment
// @Description Validates the allocations of a payment and applies it to the contact, bank account and source transactions in one transaction
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} errorBody "Invalid input or allocation rule violated"
// @Failure 401 {object} errorBody "Unauthorized"
// @Failure 404 {object} errorBody "Contact or bank account not found"
// @Failure 409 {object} errorBody "Concurrent modification, retry"
// @Failure 500 {object} errorBody "Failed to create payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("contact_id", req.ContactID))
	logger.Info("Received request to create payment", slog.Int("allocations", len(req.Allocations)))

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create payment")
		return
	}

	logger.Info("Payment created successfully", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} errorBody "Unauthorized"
// @Failure 404 {object} errorBody "Payment not found"
// @Failure 500 {object} errorBody "Failed to retrieve payment"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("payment_id", paymentID))
	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payment")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// updatePayment godoc
// @Summary Replace a payment
// @Description Reverts the stored effect of the payment and applies the new allocations in place
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Param   payment body dto.UpdatePaymentRequest true "New payment details"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} errorBody "Invalid input or allocation rule violated"
// @Failure 401 {object} errorBody "Unauthorized"
// @Failure 404 {object} errorBody "Payment not found"
// @Failure 409 {object} errorBody "Concurrent modification, retry"
// @Failure 500 {object} errorBody "Failed to update payment"
// @Security BearerAuth
// @Router /payments/{paymentID} [put]
func (h *paymentHandler) updatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	var req dto.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("payment_id", paymentID))
	logger.Info("Received request to update payment", slog.Int("allocations", len(req.Allocations)))

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), paymentID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update payment")
		return
	}

	logger.Info("Payment updated successfully", slog.Int("revision", payment.Revision))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Reverts the stored effect of the payment and soft-deletes it
// @Tags payments
// @Param   paymentID path string true "Payment ID"
// @Success 204 "No Content"
// @Failure 401 {object} errorBody "Unauthorized"
// @Failure 404 {object} errorBody "Payment not found"
// @Failure 409 {object} errorBody "Concurrent modification, retry"
// @Failure 500 {object} errorBody "Failed to delete payment"
// @Security BearerAuth
// @Router /payments/{paymentID} [delete]
func (h *paymentHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("payment_id", paymentID))
	logger.Info("Received request to delete payment")

	if err := h.paymentService.DeletePayment(c.Request.Context(), paymentID, userID); err != nil {
		respondError(c, logger, err, "Failed to delete payment")
		return
	}

	logger.Info("Payment deleted successfully")
	c.Status(http.StatusNoContent)
}

// listPayments godoc
// @Summary List payments of a contact
// @Description Newest first, paginated with an opaque token
// @Tags payments
// @Produce  json
// @Param   contactID path string true "Contact ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 400 {object} errorBody "Invalid query parameters"
// @Failure 401 {object} errorBody "Unauthorized"
// @Failure 404 {object} errorBody "Contact not found"
// @Failure 500 {object} errorBody "Failed to list payments"
// @Security BearerAuth
// @Router /contacts/{contactID}/payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID := c.Param("contactID")

	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("contact_id", contactID))
	resp, err := h.paymentService.ListPayments(c.Request.Context(), contactID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list payments")
		return
	}

	logger.Debug("Payments listed", slog.Int("count", len(resp.Payments)))
	c.JSON(http.StatusOK, resp)
}
