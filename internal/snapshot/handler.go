package snapshot

import (
	"errors"
	"net/http"
	"strconv"

	"gymcontrol/internal/api"
	"gymcontrol/internal/gym"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	driver  *Driver
}

func NewHandler(service Service, driver *Driver) *Handler {
	return &Handler{service: service, driver: driver}
}

type runMonthlyRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// @Summary      Generate a snapshot
// @Description  Admin-only: compute and store the monthly snapshot for one gym. Regenerating an existing month overwrites it.
// @Tags         admin,snapshots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body snapshot.GenerateSnapshotRequest true "Gym and month"
// @Success      200 {object} snapshot.MonthlySnapshot
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/snapshots/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	snap, err := h.service.GenerateSnapshot(c.Request.Context(), req.GymID, req.Year, req.Month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to generate snapshot"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// @Summary      Run the monthly batch
// @Description  Admin-only: generate the given month's snapshot for every active gym. Per-gym failures are reported, not fatal.
// @Tags         admin,snapshots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body snapshot.runMonthlyRequest true "Month to process"
// @Success      200 {object} snapshot.BatchResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/snapshots/run-monthly [post]
func (h *Handler) RunMonthly(c *gin.Context) {
	var req runMonthlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.driver.RunMonthlyBatch(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to run monthly batch"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Backfill snapshot history
// @Description  Admin-only: regenerate snapshots from each gym's earliest payment month through the month before the current one.
// @Tags         admin,snapshots
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body snapshot.BackfillRequest false "Optional single gym"
// @Success      200 {object} snapshot.BackfillResult
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/snapshots/backfill [post]
func (h *Handler) Backfill(c *gin.Context) {
	// the body is optional; an empty request backfills every active gym
	var req BackfillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	result, err := h.driver.RunBackfill(c.Request.Context(), req.GymID)
	if err != nil {
		if errors.Is(err, gym.ErrGymNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to run backfill"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      List a gym's snapshots
// @Tags         admin,snapshots
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {array} snapshot.MonthlySnapshot
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/gyms/{gymID}/snapshots [get]
func (h *Handler) ListByGym(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil || gymID <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID"})
		return
	}

	snaps, err := h.service.ListSnapshots(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch snapshots"})
		return
	}

	c.JSON(http.StatusOK, snaps)
}
