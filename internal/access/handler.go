package access

import (
	"errors"
	"net/http"
	"strconv"

	"gymcontrol/internal/api"
	"gymcontrol/internal/auth"
	"gymcontrol/internal/logger"
	"gymcontrol/internal/membership"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	logs    Repository
}

func NewHandler(service Service, logs Repository) *Handler {
	return &Handler{service: service, logs: logs}
}

// @Summary      Validate access (QR scan)
// @Description  Checks whether a client may enter the gym right now
// @Tags         access
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body access.ValidateAccessRequest true "Client to validate"
// @Success      200 {object} access.AccessResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} access.AccessResult
// @Failure      404 {object} access.AccessResult
// @Failure      500 {object} api.ErrorResponse
// @Router       /access/validate [post]
func (h *Handler) Validate(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ValidateAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.ValidateAccess(c.Request.Context(), req.ClientID, gymID)
	if err != nil {
		logger.Errorf("Access validation failed for client %d: %v", req.ClientID, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to validate access"})
		return
	}

	switch {
	case result.Allowed:
		c.JSON(http.StatusOK, result)
	case result.Reason == ReasonNotFound:
		c.JSON(http.StatusNotFound, result)
	default:
		c.JSON(http.StatusForbidden, result)
	}
}

// @Summary      Register access (manual entry)
// @Description  Records a gym entry registered by staff at the front desk
// @Tags         access
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body access.RegisterAccessRequest true "Entry payload"
// @Success      201 {object} access.AccessLog
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /access/register [post]
func (h *Handler) Register(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req RegisterAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	entry, err := h.service.RegisterAccess(c.Request.Context(), req.ClientID, gymID, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrClientNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: ReasonNotFound})
		case errors.Is(err, ErrMembershipInactive):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ReasonInactive})
		case errors.Is(err, ErrMembershipExpired):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: ReasonExpired})
		default:
			logger.Errorf("Access registration failed for client %d: %v", req.ClientID, err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register access"})
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// @Summary      List access logs
// @Tags         access
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max rows (default 50)"
// @Param        offset query int false "Rows to skip"
// @Success      200 {array} access.AccessLog
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /access/logs [get]
func (h *Handler) ListLogs(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Missing gym context"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	logs, err := h.logs.ListByGym(c.Request.Context(), gymID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch access logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
