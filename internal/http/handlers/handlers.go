package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/db"
	"github.com/kommo_pulse/backend/internal/report"
)

type Handler struct {
	Builder   *report.Builder
	Client    crm.Client
	Store     *db.Store // nil when no database is configured
	Logger    zerolog.Logger
	AdminKey  string
	OutputDir string
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) UsersList(c *gin.Context) {
	users, err := h.Client.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusBadGateway, "CRM_ERROR", "Failed to list users", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users})
}

func (h *Handler) ReportLeads(c *gin.Context) {
	h.serveReport(c, "lead")
}

func (h *Handler) ReportTalks(c *gin.Context) {
	h.serveReport(c, "talk")
}

func (h *Handler) serveReport(c *gin.Context, kind string) {
	table, err := h.buildReport(c.Request.Context(), kind)
	if err != nil {
		writeError(c, http.StatusBadGateway, "CRM_ERROR", "Failed to build report", err.Error())
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_report.csv", kind))
		if err := table.Encode(c.Writer); err != nil {
			h.Logger.Error().Err(err).Str("kind", kind).Msg("csv stream aborted")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"header": table.Header,
		"rows":   rowMaps(table),
		"count":  len(table.Rows),
	})
}

// RunReport builds a report, writes the CSV to the output directory, and
// records the run in the database when one is configured.
func (h *Handler) RunReport(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "lead" && kind != "talk" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "kind must be lead or talk", nil)
		return
	}

	ctx := c.Request.Context()
	started := time.Now().UTC()

	var runID string
	if h.Store != nil {
		id, err := h.Store.CreateRun(ctx, kind)
		if err != nil {
			h.Logger.Error().Err(err).Msg("failed to create run")
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create run", err.Error())
			return
		}
		runID = id
	}

	table, err := h.buildReport(ctx, kind)
	if err != nil {
		if runID != "" {
			if finishErr := h.Store.FinishRun(ctx, runID, "FAILED", 0, gin.H{"error": err.Error()}); finishErr != nil {
				h.Logger.Error().Err(finishErr).Msg("failed to finish run")
			}
		}
		writeError(c, http.StatusBadGateway, "CRM_ERROR", "Failed to build report", err.Error())
		return
	}

	if err := os.MkdirAll(h.OutputDir, 0o755); err != nil {
		writeError(c, http.StatusInternalServerError, "IO_ERROR", "Failed to create output directory", err.Error())
		return
	}
	path := filepath.Join(h.OutputDir, kind+"_report.csv")
	if err := table.WriteCSV(path); err != nil {
		writeError(c, http.StatusInternalServerError, "IO_ERROR", "Failed to write report", err.Error())
		return
	}

	if runID != "" {
		if _, err := h.Store.InsertRows(ctx, runID, table); err != nil {
			h.Logger.Error().Err(err).Msg("failed to persist report rows")
		}
		summary := gin.H{
			"path":        path,
			"rows":        len(table.Rows),
			"duration_ms": time.Since(started).Milliseconds(),
		}
		if err := h.Store.FinishRun(ctx, runID, "SUCCESS", len(table.Rows), summary); err != nil {
			h.Logger.Error().Err(err).Msg("failed to finish run")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"kind":   kind,
		"rows":   len(table.Rows),
		"path":   path,
		"run_id": runID,
	})
}

func (h *Handler) RunsLatest(c *gin.Context) {
	if h.Store == nil {
		writeError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", "No database configured", nil)
		return
	}
	kind := c.DefaultQuery("kind", "lead")
	result, err := h.Store.LatestRun(c.Request.Context(), kind)
	if err != nil {
		if errors.Is(err, db.ErrNoRuns) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load latest run", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) buildReport(ctx context.Context, kind string) (*report.Table, error) {
	switch kind {
	case "talk":
		return h.Builder.BuildTalkReport(ctx)
	default:
		return h.Builder.BuildLeadReport(ctx)
	}
}

func rowMaps(t *report.Table) []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(row) {
				m[col] = row[i].Value
			}
		}
		out = append(out, m)
	}
	return out
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
