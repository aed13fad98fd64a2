package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/middleware"
	"github.com/22mk294/Tempo-Home/internal/models"
	"github.com/22mk294/Tempo-Home/internal/validation"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and profile requests.
type AuthHandler struct {
	store  database.Store
	tokens *auth.TokenManager
}

func NewAuthHandler(store database.Store, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Register creates an account and answers with a fresh session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Type     string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v := validation.New()
	v.MinLen("name", req.Name, 2, "name must be at least 2 characters")
	v.Email("email", req.Email, "invalid email address")
	v.MinLen("password", req.Password, 6, "password must be at least 6 characters")
	v.MinLen("phone", req.Phone, 10, "invalid phone number")
	v.OneOf("type", req.Type, []string{"owner", "tenant"}, "invalid account type")
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": v.Errors()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Register: password hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Type:     models.UserType(req.Type),
	}
	if err := h.store.CreateUser(user); err != nil {
		if errors.Is(err, database.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a user with this email already exists"})
			return
		}
		log.Printf("Register: create user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("Register: token issuance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and answers with a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v := validation.New()
	v.Email("email", req.Email, "invalid email address")
	v.MinLen("password", req.Password, 1, "password is required")
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": v.Errors()})
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			log.Printf("Login: user lookup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect email or password"})
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect email or password"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("Login: token issuance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateProfile applies a partial update of name and phone. Email and
// account type are immutable.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	v := validation.New()
	if req.Name != nil {
		v.MinLen("name", *req.Name, 2, "name must be at least 2 characters")
	}
	if req.Phone != nil {
		v.MinLen("phone", *req.Phone, 10, "invalid phone number")
	}
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": v.Errors()})
		return
	}

	user := middleware.CurrentUser(c)
	updated, err := h.store.UpdateUserProfile(user.ID, req.Name, req.Phone)
	if err != nil {
		log.Printf("UpdateProfile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, updated)
}
