package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/metrics"
	"github.com/22mk294/Tempo-Home/internal/middleware"
	"github.com/22mk294/Tempo-Home/internal/models"
	"github.com/22mk294/Tempo-Home/internal/search"
	"github.com/22mk294/Tempo-Home/internal/validation"

	"github.com/gin-gonic/gin"
)

// MaisonHandler handles the listing lifecycle. The search client is optional
// and may be nil when no search backend is configured.
type MaisonHandler struct {
	store  database.Store
	search *search.SearchClient
}

func NewMaisonHandler(store database.Store, sc *search.SearchClient) *MaisonHandler {
	return &MaisonHandler{store: store, search: sc}
}

// List returns all available listings, newest first. Query-string filters
// are applied client-side; the server does not interpret them.
func (h *MaisonHandler) List(c *gin.Context) {
	maisons, err := h.store.ListAvailableMaisons()
	if err != nil {
		log.Printf("List maisons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, maisons)
}

// Get returns one listing with owner contact info and records a view event
// in the background. A failed view record never fails the read.
func (h *MaisonHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	maison, err := h.store.GetMaisonByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
			return
		}
		log.Printf("Get maison %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	view := &models.PropertyView{
		MaisonID:  id,
		ViewerIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	go func() {
		if err := h.store.RecordView(view); err != nil {
			log.Printf("Record view for maison %d: %v", id, err)
			return
		}
		metrics.ObservePropertyView()
	}()

	c.JSON(http.StatusOK, maison)
}

// MyProperties returns the owner's listings regardless of availability.
func (h *MaisonHandler) MyProperties(c *gin.Context) {
	user := middleware.CurrentUser(c)
	maisons, err := h.store.ListMaisonsByOwner(user.ID)
	if err != nil {
		log.Printf("My properties for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, maisons)
}

// Stats returns the owner's dashboard counters. Total views is the sum of
// the owner's listing view counters.
func (h *MaisonHandler) Stats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	stats, err := h.store.OwnerStats(user.ID)
	if err != nil {
		log.Printf("Owner stats for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

type maisonRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	NbRooms     int      `json:"nbRooms"`
	Surface     float64  `json:"surface"`
	Images      []string `json:"images"`
}

func validateMaisonFields(v *validation.Validator, title, description string, price float64, location string, nbRooms int, surface float64) {
	v.MinLen("title", title, 5, "title must be at least 5 characters")
	v.MinLen("description", description, 20, "description must be at least 20 characters")
	v.MinFloat("price", price, 0, "price must be a positive number")
	v.MinLen("location", location, 3, "location is required")
	v.MinInt("nbRooms", nbRooms, 1, "number of rooms must be a positive integer")
	v.MinFloat("surface", surface, 0, "surface must be a positive number")
}

// Create validates and persists a new listing for the authenticated owner.
func (h *MaisonHandler) Create(c *gin.Context) {
	var req maisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v := validation.New()
	validateMaisonFields(v, req.Title, req.Description, req.Price, req.Location, req.NbRooms, req.Surface)
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": v.Errors()})
		return
	}

	user := middleware.CurrentUser(c)
	images := req.Images
	if images == nil {
		images = []string{}
	}
	maison := &models.Maison{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		NbRooms:     req.NbRooms,
		Surface:     req.Surface,
		Images:      images,
		OwnerID:     user.ID,
		Available:   true,
		Views:       0,
	}
	if err := h.store.CreateMaison(maison); err != nil {
		log.Printf("Create maison: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	h.indexMaison(maison, user.Name)

	c.JSON(http.StatusCreated, maison)
}

// Update applies a partial update after the ownership check. A listing that
// doesn't exist and a listing owned by someone else both answer 404.
func (h *MaisonHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	var req models.MaisonUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v := validation.New()
	if req.Title != nil {
		v.MinLen("title", *req.Title, 5, "title must be at least 5 characters")
	}
	if req.Description != nil {
		v.MinLen("description", *req.Description, 20, "description must be at least 20 characters")
	}
	if req.Price != nil {
		v.MinFloat("price", *req.Price, 0, "price must be a positive number")
	}
	if req.Location != nil {
		v.MinLen("location", *req.Location, 3, "location is required")
	}
	if req.NbRooms != nil {
		v.MinInt("nbRooms", *req.NbRooms, 1, "number of rooms must be a positive integer")
	}
	if req.Surface != nil {
		v.MinFloat("surface", *req.Surface, 0, "surface must be a positive number")
	}
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": v.Errors()})
		return
	}

	user := middleware.CurrentUser(c)
	maison, err := h.store.GetMaisonOwned(id, user.ID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found or access denied"})
			return
		}
		log.Printf("Update maison %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	req.Apply(maison)
	if err := h.store.SaveMaison(maison); err != nil {
		log.Printf("Update maison %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	h.indexMaison(maison, user.Name)

	c.JSON(http.StatusOK, maison)
}

// Delete removes the owner's listing; messages and view events go with it.
func (h *MaisonHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.store.DeleteMaison(id, user.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "property not found or access denied"})
			return
		}
		log.Printf("Delete maison %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	h.removeFromIndex(id)

	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

// Search answers full-text queries over available listings via the search
// backend.
func (h *MaisonHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	query := c.Query("q")
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 20
	}

	maisons, err := h.search.Search(query, limit)
	if err != nil {
		log.Printf("Search maisons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, maisons)
}

// indexMaison pushes a listing into the search index. Indexing failures are
// logged, never surfaced to the mutating request.
func (h *MaisonHandler) indexMaison(m *models.Maison, ownerName string) {
	if h.search == nil {
		return
	}
	doc := models.MaisonWithOwner{Maison: *m, OwnerName: ownerName}
	if err := h.search.IndexMaison(doc); err != nil {
		log.Printf("Warning: failed to index maison %d: %v", m.ID, err)
	}
}

func (h *MaisonHandler) removeFromIndex(id int64) {
	if h.search == nil {
		return
	}
	if err := h.search.DeleteMaison(id); err != nil {
		log.Printf("Warning: failed to remove maison %d from index: %v", id, err)
	}
}
