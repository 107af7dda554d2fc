package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moonmap/refcomb/app/store"
)

func NewHandler(st *store.Store, updater UpdateRunner) *Handler {
	return &Handler{
		store:   st,
		updater: updater,
		started: time.Now(),
	}
}

// GetPlatforms serves the full record store. The store is re-read from disk
// on every request, so freshness is bounded only by file write completion.
func (h *Handler) GetPlatforms(c *gin.Context) {
	records, err := h.store.Load()
	if err != nil {
		slog.Error("Store read failed", "operation", "list_platforms", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to read platform data",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        recordMaps(records),
		"lastUpdated": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetPlatformsByCategory(c *gin.Context) {
	category := c.Param("category")

	records, err := h.store.Load()
	if err != nil {
		slog.Error("Store read failed", "operation", "list_by_category", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to read platform data",
		})
		return
	}

	matched := make([]*store.Record, 0)
	for _, record := range records {
		if strings.EqualFold(record.Get(store.ColCategory), category) {
			matched = append(matched, record)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        recordMaps(matched),
		"category":    category,
		"lastUpdated": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetPlatformByName(c *gin.Context) {
	name := c.Param("name")

	records, err := h.store.Load()
	if err != nil {
		slog.Error("Store read failed", "operation", "get_platform", "platform", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to read platform data",
		})
		return
	}

	for _, record := range records {
		if strings.EqualFold(record.Name(), name) {
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"data":        record.Map(),
				"lastUpdated": time.Now().In(time.Local).Format(time.RFC3339),
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error":   "Platform not found",
	})
}

// TriggerUpdate runs the merge/update procedure synchronously, blocking the
// request for the full (network-bound) duration. There is no job queue.
func (h *Handler) TriggerUpdate(c *gin.Context) {
	slog.Info("Manual update triggered")

	if err := h.updater.Run(c.Request.Context()); err != nil {
		slog.Error("Update failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Data updated successfully",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
	})
}

func recordMaps(records []*store.Record) []map[string]string {
	maps := make([]map[string]string, 0, len(records))
	for _, record := range records {
		maps = append(maps, record.Map())
	}
	return maps
}
