package handlers

import (
	"encoding/csv"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/binroute/backend/internal/models"
)

type ImportSummary struct {
	Collectors struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"collectors"`
	Grievances struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"grievances"`
	Errors []string `json:"errors"`
}

// @Summary Import CSV data
// @Description Upload collectors and grievances CSV files
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param collectors formData file true "collectors.csv"
// @Param grievances formData file true "grievances.csv"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]any
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	collectorsFile, err := c.FormFile("collectors")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "collectors file required", nil)
		return
	}
	grievancesFile, err := c.FormFile("grievances")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "grievances file required", nil)
		return
	}

	summary := ImportSummary{}
	summary.Errors = []string{}

	ctx := c.Request.Context()

	if !validateExt(collectorsFile.Filename) || !validateExt(grievancesFile.Filename) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "all files must be .csv", nil)
		return
	}

	collectors, errs := parseCollectorsCSV(collectorsFile)
	summary.Collectors.Parsed = len(collectors)
	summary.Collectors.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	grievances, errs := parseGrievancesCSV(grievancesFile)
	summary.Grievances.Parsed = len(grievances)
	summary.Grievances.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	if len(summary.Errors) > 0 {
		writeError(c, http.StatusBadRequest, "CSV_PARSE_ERROR", "CSV validation errors", summary.Errors)
		return
	}

	err = h.Store.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE collectors, grievances, grievance_notes, runs RESTART IDENTITY`)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to reset tables", err.Error())
		return
	}

	inserted, err := h.Store.InsertCollectors(ctx, collectors)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert collectors", err.Error())
		return
	}
	summary.Collectors.Inserted = int(inserted)

	inserted, err = h.Store.InsertGrievances(ctx, grievances)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert grievances", err.Error())
		return
	}
	summary.Grievances.Inserted = int(inserted)

	c.JSON(http.StatusOK, summary)
}

func parseCollectorsCSV(file *multipart.FileHeader) ([]models.Collector, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errors []string
	var out []models.Collector

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errors = append(errors, err.Error())
			continue
		}

		id := normalizeTrim(getFieldAny(rec, index, "id", "collector_id", "collector id"))
		name := normalizeTrim(getFieldAny(rec, index, "name", "collector_name"))
		areasRaw := normalizeTrim(getFieldAny(rec, index, "service_areas", "service areas", "areas", "wards"))
		status := normalizeCollectorStatus(getFieldAny(rec, index, "status", "availability"))

		areas := splitList(areasRaw)

		collector := models.Collector{
			ID:           id,
			Name:         name,
			ServiceAreas: areas,
			Status:       status,
			UpdatedAt:    time.Now().UTC(),
		}
		if collector.ID == "" || collector.Name == "" || len(collector.ServiceAreas) == 0 {
			errors = append(errors, "collector id/name/service_areas required")
			continue
		}
		out = append(out, collector)
	}
	return out, errors
}

func parseGrievancesCSV(file *multipart.FileHeader) ([]models.Grievance, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errors []string
	var out []models.Grievance

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errors = append(errors, err.Error())
			continue
		}

		id := normalizeTrim(getFieldAny(rec, index, "id", "grievance_id", "complaint_id"))
		areaID := normalizeTrim(getFieldAny(rec, index, "area_id", "area", "ward"))
		severity := normalizeSeverity(getFieldAny(rec, index, "severity", "priority"))
		status := normalizeGrievanceStatus(getFieldAny(rec, index, "status"))
		assignedRaw := normalizeTrim(getFieldAny(rec, index, "assigned_to", "assignee", "collector_id"))
		escalatedRaw := normalizeTrim(getFieldAny(rec, index, "is_escalated", "escalated"))
		scoreStr := normalizeTrim(getFieldAny(rec, index, "priority_score", "priority score", "score"))
		createdRaw := normalizeTrim(getFieldAny(rec, index, "created_at", "created", "reported_at"))

		score, _ := strconv.Atoi(scoreStr)
		if score == 0 {
			score = severity.Weight()
		}

		createdAt := parseTimestamp(createdRaw)

		g := models.Grievance{
			ID:            id,
			AreaID:        areaID,
			Severity:      severity,
			Status:        status,
			IsEscalated:   parseBool(escalatedRaw),
			PriorityScore: score,
			CreatedAt:     createdAt,
		}
		if assignedRaw != "" {
			g.AssignedTo = &assignedRaw
			if g.Status == models.GrievanceOpen {
				g.Status = models.GrievanceInProgress
			}
		}
		if g.ID == "" || g.AreaID == "" {
			errors = append(errors, "grievance id/area_id required")
			continue
		}
		out = append(out, g)
	}
	return out, errors
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, name := range names {
		if v := getField(rec, idx, normalizeHeader(name)); v != "" {
			return v
		}
	}
	return ""
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.ToLower(strings.TrimSpace(h))
}

func normalizeTrim(v string) string {
	return strings.TrimSpace(v)
}

func splitList(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	parts := strings.Split(raw, ",")
	seen := map[string]struct{}{}
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func normalizeSeverity(value string) models.Severity {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "critical", "urgent":
		return models.SeverityCritical
	case "high":
		return models.SeverityHigh
	case "medium", "moderate":
		return models.SeverityMedium
	case "low", "minor", "":
		return models.SeverityLow
	}
	return models.SeverityLow
}

func normalizeGrievanceStatus(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "in progress", "in_progress", "inprogress", "assigned":
		return models.GrievanceInProgress
	case "resolved", "done":
		return models.GrievanceResolved
	case "closed":
		return models.GrievanceClosed
	default:
		return models.GrievanceOpen
	}
}

func normalizeCollectorStatus(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "not-available", "not available", "unavailable", "off", "inactive":
		return models.CollectorNotAvailable
	default:
		return models.CollectorAvailable
	}
}

func parseBool(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "true" || v == "1" || v == "yes" || v == "y"
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02.01.2006 15:04",
		"02.01.2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

func validateExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".csv"
}
