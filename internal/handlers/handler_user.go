package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/hazemq/billpay_backend/internal/core/ports/services"
	"github.com/hazemq/billpay_backend/internal/dto"
	"github.com/hazemq/billpay_backend/internal/middleware"
)

// userHandler handles HTTP requests related to staff users.
type userHandler struct {
	userService    portssvc.UserSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

func newUserHandler(userService portssvc.UserSvcFacade, paymentService portssvc.PaymentSvcFacade) *userHandler {
	return &userHandler{userService: userService, paymentService: paymentService}
}

// registerUserRoutes registers user management routes. Everything except /me
// is admin only.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newUserHandler(userService, paymentService)

	rg.GET("/me", h.me)

	users := rg.Group("/users", middleware.RequireAdmin())
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deactivateUser)
		users.POST("/:id/balance/add", h.addBalance)
		users.POST("/:id/balance/deduct", h.deductBalance)
		users.GET("/:id/payments", h.listUserPayments)
	}
}

// listUserPayments godoc
// @Summary List one user's ledger rows
// @Description Returns the payment requests and balance adjustments created for a user (admin only)
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Param   status query string false "Filter by status" Enums(pending, approved, rejected)
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.PaymentRequestResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Security BearerAuth
// @Router /users/{id}/payments [get]
func (h *userHandler) listUserPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPaymentRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	requests, err := h.paymentService.ListUserRequests(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list user's payment requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentRequestResponses(requests))
}

// me godoc
// @Summary Get the logged-in user
// @Description Returns the authenticated user's profile and balance
// @Tags users
// @Produce  json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /me [get]
func (h *userHandler) me(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// createUser godoc
// @Summary Register a new staff user
// @Description Creates a staff user with an optional starting balance (admin only)
// @Tags users
// @Accept  json
// @Produce  json
// @Param   user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Admin role required"
// @Failure 409 {object} map[string]string "Phone already registered"
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	user, err := h.userService.CreateUser(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create user")
		return
	}

	logger.Info("User created", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// listUsers godoc
// @Summary List staff users
// @Description Retrieves users with pagination (admin only)
// @Tags users
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Failure 403 {object} map[string]string "Admin role required"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// getUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *userHandler) getUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateUser godoc
// @Summary Update a user
// @Description Updates name, phone, role, active flag or balance (admin only)
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, _ := middleware.GetUserIDFromContext(c)

	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deactivateUser godoc
// @Summary Deactivate a user
// @Description Marks a user inactive; self-deactivation is refused (admin only)
// @Tags users
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Cannot deactivate self"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *userHandler) deactivateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.userService.DeactivateUser(c.Request.Context(), c.Param("id"), actorUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}

// addBalance godoc
// @Summary Add to a user's balance
// @Description Credits the balance and logs the adjustment in the ledger (admin only)
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   adjustment body dto.BalanceAdjustmentRequest true "Amount and notes"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{id}/balance/add [post]
func (h *userHandler) addBalance(c *gin.Context) {
	h.adjustBalance(c, true)
}

// deductBalance godoc
// @Summary Deduct from a user's balance
// @Description Debits the balance, refusing to take it negative, and logs the adjustment (admin only)
// @Tags users
// @Accept  json
// @Produce  json
// @Param   id path string true "User ID"
// @Param   adjustment body dto.BalanceAdjustmentRequest true "Amount and notes"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Security BearerAuth
// @Router /users/{id}/balance/deduct [post]
func (h *userHandler) deductBalance(c *gin.Context) {
	h.adjustBalance(c, false)
}

func (h *userHandler) adjustBalance(c *gin.Context, add bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BalanceAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for balance adjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var err error
	var newBalance = req.Amount
	if add {
		newBalance, err = h.paymentService.AddBalance(c.Request.Context(), actor, c.Param("id"), req.Amount, req.Notes)
	} else {
		newBalance, err = h.paymentService.DeductBalance(c.Request.Context(), actor, c.Param("id"), req.Amount, req.Notes)
	}
	if err != nil {
		respondServiceError(c, logger, err, "Failed to adjust balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Balance adjusted", "newBalance": newBalance.StringFixed(2)})
}
