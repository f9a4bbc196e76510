package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/OldStager01/cloud-autoscaler/internal/auth"
	"github.com/OldStager01/cloud-autoscaler/pkg/config"
	"github.com/OldStager01/cloud-autoscaler/pkg/database/queries"
	"github.com/OldStager01/cloud-autoscaler/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	operatorRepo *queries.OperatorRepository
	authService  *auth.Service
	config       *config.APIConfig
}

func NewAuthHandler(operatorRepo *queries.OperatorRepository, authService *auth.Service, cfg *config.APIConfig) *AuthHandler {
	return &AuthHandler{
		operatorRepo: operatorRepo,
		authService:  authService,
		config:       cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"operator1"`
	Password string `json:"password" binding:"required" example:"secretpassword123"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Username  string `json:"username"`
}

// Login godoc
// @Summary Operator login
// @Description Authenticate an operator and return a JWT session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	operator, err := h.operatorRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == queries.ErrOperatorNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if !auth.CheckPassword(req.Password, operator.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.authService.GenerateToken(operator.ID, operator.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	cookieName := h.config.CookieName
	if cookieName == "" {
		cookieName = "auth_token"
	}
	cookieMaxAge := h.config.CookieMaxAge
	if cookieMaxAge == 0 {
		cookieMaxAge = 86400
	}
	cookiePath := h.config.CookiePath
	if cookiePath == "" {
		cookiePath = "/"
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		cookieName,
		token,
		cookieMaxAge,
		cookiePath,
		"",
		h.config.CookieSecure,
		h.config.CookieHTTPOnly,
	)

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresIn: cookieMaxAge,
		Username:  operator.Username,
	})
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

type RegisterResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Register godoc
// @Summary Register operator
// @Description Create a new operator account permitted to issue scaling commands
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Username = validation.SanitizeString(req.Username)
	if err := validation.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	existing, err := h.operatorRepo.GetByUsername(ctx, req.Username)
	if err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}
	if err != nil && err != queries.ErrOperatorNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process password"})
		return
	}

	operator, err := h.operatorRepo.Create(ctx, req.Username, passwordHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create operator"})
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		ID:       operator.ID,
		Username: operator.Username,
		Message:  "operator registered successfully",
	})
}
