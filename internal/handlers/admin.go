package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/22mk294/Tempo-Home/internal/cleanup"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/search"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-only requests
type AdminHandler struct {
	store          database.Store
	cleanupService *cleanup.Service
	search         *search.SearchClient
}

// NewAdminHandler creates a new admin handler. The search client may be nil
// when Meilisearch is not configured.
func NewAdminHandler(store database.Store, sc *search.SearchClient) *AdminHandler {
	return &AdminHandler{
		store:          store,
		cleanupService: cleanup.NewService(store),
		search:         sc,
	}
}

// Dashboard returns aggregated platform statistics
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.store.DashboardStats()
	if err != nil {
		log.Printf("Admin: failed to load dashboard stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}

	var totalUsers int64
	for _, count := range stats.UsersByType {
		totalUsers += count
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"totalProperties": stats.TotalProperties,
			"totalUsers":      totalUsers,
			"totalMessages":   stats.TotalMessages,
			"totalViews":      stats.TotalViews,
		},
		"usersByType": stats.UsersByType,
		"charts": gin.H{
			"propertiesByMonth": stats.PropertiesByMonth,
			"messagesByMonth":   stats.MessagesByMonth,
			"viewsByDay":        stats.ViewsByDay,
			"topProperties":     stats.TopProperties,
		},
	})
}

// Users lists all registered users
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.store.ListUsers()
	if err != nil {
		log.Printf("Admin: failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// Properties lists all properties with their owner details
func (h *AdminHandler) Properties(c *gin.Context) {
	maisons, err := h.store.ListMaisonsWithOwner()
	if err != nil {
		log.Printf("Admin: failed to list properties: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list properties"})
		return
	}

	c.JSON(http.StatusOK, maisons)
}

// Messages lists all messages across the platform
func (h *AdminHandler) Messages(c *gin.Context) {
	messages, err := h.store.ListAllMessages()
	if err != nil {
		log.Printf("Admin: failed to list messages: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// DeleteProperty removes any property regardless of ownership
func (h *AdminHandler) DeleteProperty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	if err := h.store.DeleteMaisonByID(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		}
		log.Printf("Admin: failed to delete property %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete property"})
		return
	}

	if h.search != nil {
		if err := h.search.DeleteMaison(id); err != nil {
			log.Printf("Warning: failed to remove property %d from search index: %v", id, err)
		}
	}

	log.Printf("Admin: property %d deleted", id)
	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

// ModerateUser acknowledges a moderation request for a user
func (h *AdminHandler) ModerateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if _, err := h.store.GetUserByID(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Printf("Admin: failed to load user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	log.Printf("Admin: moderation acknowledged for user %d", id)
	c.JSON(http.StatusOK, gin.H{"message": "moderation request recorded"})
}

// RunCleanup physically deletes old property view events
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays int  `json:"retention_days"` // Days to keep (default: 90)
		DryRun        bool `json:"dry_run"`        // Count only, delete nothing
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := cleanup.DefaultConfig()
	if req.RetentionDays > 0 {
		cfg.RetentionDays = req.RetentionDays
	}
	cfg.DryRun = req.DryRun

	log.Printf("Admin: running view cleanup (retention: %d days, dry-run: %v)",
		cfg.RetentionDays, cfg.DryRun)

	result, err := h.cleanupService.Run(cfg)
	if err != nil {
		log.Printf("Admin: cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Reindex rebuilds the search index from the database
func (h *AdminHandler) Reindex(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	maisons, err := h.store.ListMaisonsWithOwner()
	if err != nil {
		log.Printf("Admin: failed to load properties for reindex: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load properties"})
		return
	}

	indexed, err := h.search.ReindexAll(maisons)
	if err != nil {
		log.Printf("Admin: reindex failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reindex failed"})
		return
	}

	log.Printf("Admin: reindexed %d properties", indexed)
	c.JSON(http.StatusOK, gin.H{"message": "reindex completed", "indexed": indexed})
}
