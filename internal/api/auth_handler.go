package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"flexapp/flex-api/internal/domain"
	"flexapp/flex-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// UserResponse excludes sensitive info like the password hash.
type UserResponse struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse follows the OAuth2 password-flow shape the frontend expects.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- Handler Methods ---

// Register creates a new user account.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("registration failed", zap.String("username", req.Username), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// Token authenticates a user and returns a bearer token. The body is
// form-encoded (OAuth2 password flow), not JSON.
// POST /api/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		abortWithError(c, http.StatusBadRequest, "username and password form fields are required")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			abortWithError(c, http.StatusUnauthorized, "Incorrect username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated user's account. The lookup goes through the
// store, so a token for a since-deleted user is rejected.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), username)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// MapUserToResponse converts a domain User to a UserResponse DTO, never
// carrying the password hash.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}
