package handlers

import (
	"errors"
	"net/http"
	"time"

	"courtagent/cron"
	"courtagent/models"
	"courtagent/services/booking"
	"courtagent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking workflow over HTTP.
type BookingHandler struct {
	Workflow booking.WorkflowService
	Engine   *booking.DefaultBookingWorkflow
	Logger   *zap.Logger
}

func NewBookingHandler(workflow booking.WorkflowService, engine *booking.DefaultBookingWorkflow, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Workflow: workflow, Engine: engine, Logger: logger}
}

// ExecuteBooking runs the full workflow for one free-text request.
func (h *BookingHandler) ExecuteBooking(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	outcome, err := h.Workflow.Execute(c.Request.Context(), input.Text)
	if err != nil {
		h.Logger.Error("booking execution failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "booking execution failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// ConfirmBooking books one of the slots a previous execute offered.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		Slot models.CandidateSlot `json:"slot" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	outcome, err := h.Workflow.Confirm(c.Request.Context(), sessionID, input.Slot)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// CancelBooking abandons a pending session.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	sessionID := c.Param("sessionID")

	outcome, err := h.Workflow.Cancel(c.Request.Context(), sessionID)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// GetAvailability serves the resolved availability for a date, preferring the
// snapshot the background refresher cached over a fresh browser scan.
func (h *BookingHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	if cached, err := cron.CachedAvailability(c.Request.Context(), date); err == nil && cached != nil {
		c.JSON(http.StatusOK, gin.H{"cached": true, "availability": cached})
		return
	}

	result, err := h.Engine.ResolveForDate(c.Request.Context(), date)
	if err != nil {
		h.Logger.Error("availability resolution failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "availability resolution failed", err.Error())
		return
	}
	if err := cron.CacheAvailability(c.Request.Context(), result); err != nil {
		h.Logger.Warn("failed to cache availability snapshot", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"cached": false, "availability": result})
}

// GetCourts reads the court labels straight off the venue's grid, for
// checking that the configured court count matches what the venue renders.
func (h *BookingHandler) GetCourts(c *gin.Context) {
	courts, err := h.Engine.Source.ListCourts(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "failed to list courts", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"courts": courts, "configured": h.Engine.Venue.CourtCount})
}

func (h *BookingHandler) respondWorkflowError(c *gin.Context, err error) {
	var wErr *booking.WorkflowError
	if errors.As(err, &wErr) {
		status := http.StatusConflict
		if wErr.Code == booking.CodeSessionExpired {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": wErr.Message, "code": wErr.Code})
		return
	}
	h.Logger.Error("workflow failed", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "workflow failed", err.Error())
}
