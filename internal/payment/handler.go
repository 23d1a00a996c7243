package payment

import (
	"net/http"
	"strconv"
	"time"

	"gymcontrol/internal/api"
	"gymcontrol/internal/auth"
	"gymcontrol/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// @Summary      Record a payment
// @Description  Records an immutable payment for the authenticated gym
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payment.RecordPaymentRequest true "Payment payload"
// @Success      201 {object} payment.Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /payments [post]
func (h *Handler) Record(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	status := Status(req.Status)
	if status == "" {
		status = StatusCompleted
	}

	paidAt := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		paidAt = parsed
	}

	payment, err := h.repo.Create(c.Request.Context(), &Payment{
		GymID:    gymID,
		ClientID: req.ClientID,
		Amount:   req.Amount,
		Method:   req.Method,
		Status:   status,
		Date:     paidAt,
	})
	if err != nil {
		logger.Errorf("Failed to record payment for gym %d: %v", gymID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record payment"})
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200 {array} payment.Payment
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /payments [get]
func (h *Handler) List(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, err := h.repo.ListByGym(c.Request.Context(), gymID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
