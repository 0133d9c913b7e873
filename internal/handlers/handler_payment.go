package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazemq/billpay_backend/internal/core/domain"
	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
	"github.com/hazemq/billpay_backend/internal/middleware"
)

// paymentHandler handles HTTP requests for the payment ledger.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

// registerPaymentRoutes registers ledger routes. Submission and listing are
// open to all staff; the transition operations check the admin role in the
// service layer.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createRequest)
		payments.GET("", h.listRequests)
		payments.GET("/:id", h.getRequest)
		payments.POST("/:id/approve", h.approve)
		payments.POST("/:id/reject", h.reject)
		payments.POST("/:id/status", h.changeStatus)
		payments.POST("/:id/amount", h.setAmount)
	}
}

// createRequest godoc
// @Summary Submit a payment request
// @Description Upserts the customer by phone and inserts a pending request; a present amount is reserved from the submitter's balance immediately
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   request body dto.CreatePaymentRequest true "Request details"
// @Success 201 {object} dto.PaymentRequestResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.paymentService.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment request")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentRequestResponse(request))
}

// listRequests godoc
// @Summary List payment requests
// @Description Admins see all requests; other users see only their own
// @Tags payments
// @Produce  json
// @Param   status query string false "Filter by status" Enums(pending, approved, rejected)
// @Param   search query string false "Match customer phone or name"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.PaymentRequestResponse
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requests, err := h.paymentService.ListRequests(c.Request.Context(), actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payment requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponses(requests))
}

// getRequest godoc
// @Summary Get a payment request by ID
// @Tags payments
// @Produce  json
// @Param   id path string true "Request ID"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	request, err := h.paymentService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment request")
		return
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if !actor.IsAdmin() && request.UserID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(request))
}

// approve godoc
// @Summary Approve a pending request
// @Description Transitions pending to approved; funds were reserved at creation so no balance moves
// @Tags payments
// @Produce  json
// @Param   id path string true "Request ID"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 400 {object} map[string]string "Request has no amount set"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Already approved or rejected"
// @Security BearerAuth
// @Router /payments/{id}/approve [post]
func (h *paymentHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.paymentService.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve payment request")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(request))
}

// reject godoc
// @Summary Reject a request
// @Description Transitions any non-rejected state to rejected and credits the reserved amount back
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   rejection body dto.RejectPaymentRequest false "Rejection reason"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Already rejected"
// @Security BearerAuth
// @Router /payments/{id}/reject [post]
func (h *paymentHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		logger.Warn("Failed to bind JSON for Reject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.paymentService.Reject(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject payment request")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(request))
}

// changeStatus godoc
// @Summary Override a request's status
// @Description Administrative override; the balance delta follows from the (old, new) status pair
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   change body dto.ChangeStatusRequest true "New status and notes"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already in that state"
// @Failure 422 {object} map[string]string "Insufficient balance for re-debit"
// @Security BearerAuth
// @Router /payments/{id}/status [post]
func (h *paymentHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ChangeStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.paymentService.ChangeStatus(c.Request.Context(), c.Param("id"), actor, domain.RequestStatus(req.Status), req.StaffNotes)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to change request status")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(request))
}

// setAmount godoc
// @Summary Set a request's amount
// @Description Fills in or replaces the stored amount; on an approved request the new amount is debited again
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   amount body dto.SetAmountRequest true "New amount"
// @Success 200 {object} dto.PaymentRequestResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /payments/{id}/amount [post]
func (h *paymentHandler) setAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.paymentService.SetAmount(c.Request.Context(), c.Param("id"), actor, req.Amount)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to set request amount")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponse(request))
}
