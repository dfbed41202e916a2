package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/binroute/backend/internal/db"
	"github.com/binroute/backend/internal/models"
	"github.com/binroute/backend/internal/notify"
	"github.com/binroute/backend/internal/service"
)

type Handler struct {
	Store     *db.Store
	Engine    *service.Engine
	Notifier  notify.Notifier
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ReassignRequest struct {
	Urgent                bool   `json:"urgent"`
	TriggeringGrievanceID string `json:"triggering_grievance_id"`
	ExcludeCollectorID    string `json:"exclude_collector_id"`
}

// @Summary Trigger grievance reassignment for an area
// @Tags areas
// @Accept json
// @Produce json
// @Param id path string true "Area ID"
// @Param body body ReassignRequest false "Reassignment options"
// @Success 200 {object} service.ReassignmentResult
// @Failure 500 {object} map[string]any
// @Router /api/areas/{id}/reassign [post]
func (h *Handler) Reassign(c *gin.Context) {
	areaID := c.Param("id")

	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	runID, err := h.Store.CreateRun(c.Request.Context(), areaID, "RUNNING")
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to create run")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create run", err.Error())
		return
	}

	result, err := h.Engine.TriggerReevaluation(c.Request.Context(), areaID, service.Options{
		Urgent:                req.Urgent,
		TriggeringGrievanceID: req.TriggeringGrievanceID,
		ExcludeCollectorID:    req.ExcludeCollectorID,
	})
	status := "SUCCESS"
	if err != nil {
		status = "FAILED"
	}
	b, _ := json.Marshal(result)
	if finishErr := h.Store.FinishRun(c.Request.Context(), runID, status, b); finishErr != nil {
		h.Logger.Error().Err(finishErr).Msg("failed to finish run")
	}

	if err != nil {
		h.Logger.Error().Err(err).Str("area_id", areaID).Msg("reassignment failed")
		writeError(c, http.StatusInternalServerError, "REASSIGNMENT_ERROR", result.Message, err.Error())
		return
	}

	for _, a := range result.Assignments {
		ev := notify.Event{
			GrievanceID:   a.GrievanceID,
			CollectorID:   a.CollectorID,
			CollectorName: a.CollectorName,
			AreaID:        areaID,
			Reason:        a.Reason,
			OccurredAt:    time.Now().UTC(),
		}
		if notifyErr := h.Notifier.AssignmentChanged(c.Request.Context(), ev); notifyErr != nil {
			h.Logger.Warn().Err(notifyErr).Str("grievance_id", a.GrievanceID).Msg("notification failed")
		}
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Optimization recommendations for an area
// @Tags areas
// @Produce json
// @Param id path string true "Area ID"
// @Success 200 {object} service.RecommendationReport
// @Router /api/areas/{id}/recommendations [get]
func (h *Handler) Recommendations(c *gin.Context) {
	areaID := c.Param("id")
	report, err := h.Engine.GetOptimizationRecommendations(c.Request.Context(), areaID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to analyze area", err.Error())
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) GrievancesList(c *gin.Context) {
	status := c.Query("status")
	severity := c.Query("severity")
	areaID := c.Query("area")
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListGrievances(c.Request.Context(), status, severity, areaID, q, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list grievances", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) GrievanceDetails(c *gin.Context) {
	id := c.Param("id")
	grievance, err := h.Store.Grievances().Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Grievance not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get grievance", err.Error())
		return
	}
	notes, err := h.Store.GetGrievanceNotes(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load notes", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"grievance": grievance, "notes": notes})
}

func (h *Handler) CollectorsList(c *gin.Context) {
	areaID := c.Query("area")
	status := c.Query("status")
	items, err := h.Store.ListCollectors(c.Request.Context(), areaID, status)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list collectors", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type CollectorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Available Not-Available"`
}

func (h *Handler) CollectorSetStatus(c *gin.Context) {
	id := c.Param("id")
	var req CollectorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	collector, err := h.Store.GetCollector(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Collector not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get collector", err.Error())
		return
	}

	collector.Status = req.Status
	if err := h.Store.Collectors().Save(c.Request.Context(), collector); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update collector", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ResolveRequest struct {
	Note   string `json:"note"`
	Author string `json:"author" validate:"required"`
}

func (h *Handler) ResolveGrievance(c *gin.Context) {
	id := c.Param("id")
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	grievance, err := h.Store.Grievances().Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Grievance not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get grievance", err.Error())
		return
	}
	if grievance.Status != models.GrievanceOpen && grievance.Status != models.GrievanceInProgress {
		writeError(c, http.StatusConflict, "INVALID_STATE", "Grievance is already terminal", grievance.Status)
		return
	}

	now := time.Now().UTC()
	grievance.Status = models.GrievanceResolved
	grievance.ResolvedAt = &now
	grievance.AssignedTo = nil
	if err := h.Store.Grievances().Save(c.Request.Context(), grievance); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve grievance", err.Error())
		return
	}

	content := "Marked resolved"
	if strings.TrimSpace(req.Note) != "" {
		content = req.Note
	}
	note := models.GrievanceNote{
		GrievanceID: id,
		Content:     content,
		Author:      req.Author,
		AuthorRole:  "admin",
		NoteType:    "status",
		CreatedAt:   now,
	}
	if err := h.Store.Grievances().AppendNote(c.Request.Context(), note); err != nil {
		h.Logger.Error().Err(err).Str("grievance_id", id).Msg("failed to append resolve note")
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Latest reassignment run
// @Tags runs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	result, err := h.Store.GetLatestRun(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
