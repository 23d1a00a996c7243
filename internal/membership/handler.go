package membership

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymcontrol/internal/api"
	"gymcontrol/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a client
// @Description  Register a new client; the end date is derived from the selected period.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body membership.CreateClientRequest true "Client payload"
// @Success      201 {object} membership.Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients [post]
func (h *Handler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Missing gym context"})
		return
	}

	client, err := h.service.CreateClient(c.Request.Context(), gymID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidMembershipType) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		var parseErr *time.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid start date, expected YYYY-MM-DD"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        clientID path int true "Client ID"
// @Success      200 {object} membership.Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /clients/{clientID} [get]
func (h *Handler) GetClient(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("clientID"))
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid client ID"})
		return
	}

	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Missing gym context"})
		return
	}

	client, err := h.service.GetClient(c.Request.Context(), clientID, gymID)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Client not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

// @Summary      Renew a membership
// @Description  Start a new membership period for a client; this is the only path that reactivates an inactive client.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        clientID path int true "Client ID"
// @Param        request body membership.RenewClientRequest true "Renewal payload"
// @Success      200 {object} membership.Client
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /clients/{clientID}/renew [post]
func (h *Handler) RenewClient(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("clientID"))
	if err != nil || clientID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid client ID"})
		return
	}

	var req RenewClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Missing gym context"})
		return
	}

	client, err := h.service.Renew(c.Request.Context(), clientID, gymID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrClientNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Client not found"})
		case errors.Is(err, ErrInvalidMembershipType):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to renew client"})
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// @Summary      Sweep expired memberships
// @Description  Admin-only: flip every overdue active client in a gym to inactive in one guarded update.
// @Tags         admin,clients
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} map[string]int64
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/expire-sweep [post]
func (h *Handler) ExpireSweep(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil || gymID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	expired, err := h.service.ExpireDue(c.Request.Context(), gymID, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to run expiry sweep"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": expired})
}
