package handlers

import (
	"log"
	"net/http"

	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/metrics"
	"github.com/22mk294/Tempo-Home/internal/middleware"
	"github.com/22mk294/Tempo-Home/internal/models"
	"github.com/22mk294/Tempo-Home/internal/validation"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles listing inquiries.
type MessageHandler struct {
	store database.Store
}

func NewMessageHandler(store database.Store) *MessageHandler {
	return &MessageHandler{store: store}
}

// Send records a contact-form inquiry against a listing. Anyone may send,
// authenticated or not.
func (h *MessageHandler) Send(c *gin.Context) {
	var req struct {
		MaisonID int64  `json:"maisonId"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Message  string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// The listing is resolved before field validation so a dangling id
	// always answers 404, whatever else is wrong with the body.
	exists, err := h.store.MaisonExists(req.MaisonID)
	if err != nil {
		log.Printf("Send message: maison lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}

	v := validation.New()
	v.MinLen("name", req.Name, 2, "name is required")
	v.Email("email", req.Email, "invalid email address")
	v.MinLen("phone", req.Phone, 10, "invalid phone number")
	v.MinLen("message", req.Message, 10, "message must be at least 10 characters")
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": v.Errors()})
		return
	}

	msg := &models.Message{
		MaisonID: req.MaisonID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Body:     req.Message,
	}
	if err := h.store.CreateMessage(msg); err != nil {
		log.Printf("Send message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	metrics.ObserveMessageSent()
	c.JSON(http.StatusCreated, msg)
}

// Received returns the inquiries addressed to the owner's listings, newest
// first, with the listing title joined in.
func (h *MessageHandler) Received(c *gin.Context) {
	user := middleware.CurrentUser(c)
	messages, err := h.store.ListMessagesForOwner(user.ID)
	if err != nil {
		log.Printf("Received messages for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Sent returns inquiries whose sender email matches the authenticated
// user's email. Messages carry no sender user id, so the email string is
// the only correlation.
func (h *MessageHandler) Sent(c *gin.Context) {
	user := middleware.CurrentUser(c)
	messages, err := h.store.ListMessagesByEmail(user.Email)
	if err != nil {
		log.Printf("Sent messages for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	c.JSON(http.StatusOK, messages)
}
