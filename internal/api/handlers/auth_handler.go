package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22091352/wasana-products/internal/api/middleware"
	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/models"
	"github.com/IT22091352/wasana-products/internal/services"
	"github.com/IT22091352/wasana-products/internal/store"
)

// AuthHandler handles login, registration and account endpoints.
type AuthHandler struct {
	cfg         *config.Config
	userService services.IUserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, userService services.IUserService) *AuthHandler {
	return &AuthHandler{cfg: cfg, userService: userService}
}

// userSummary is the public shape of an account in auth responses.
type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func summarize(user *models.User) userSummary {
	return userSummary{ID: user.ID, Username: user.Username, Email: user.Email}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var verr services.ValidationError
	if req.Username == "" {
		verr = append(verr, services.FieldError{Field: "username", Message: "Username is required"})
	}
	if req.Password == "" {
		verr = append(verr, services.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(verr) > 0 {
		respondValidation(c, verr)
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
		case errors.Is(err, services.ErrAccountInactive):
			respondError(c, http.StatusUnauthorized, "Account is deactivated")
		default:
			respondServerError(c, h.cfg, "Error during login", err)
		}
		return
	}

	respondOK(c, "Login successful", gin.H{"token": token, "user": summarize(user)})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if verr, ok := asValidation(err); ok {
			respondValidation(c, verr)
			return
		}
		if errors.Is(err, store.ErrLoginTaken) {
			respondError(c, http.StatusBadRequest, "Username or email already in use")
			return
		}
		respondServerError(c, h.cfg, "Error during registration", err)
		return
	}

	respondCreated(c, "User registered successfully", gin.H{"token": token, "user": summarize(user)})
}

// Verify handles GET /api/auth/verify. AuthMiddleware has already loaded the
// user, so this just echoes it back.
func (h *AuthHandler) Verify(c *gin.Context) {
	user := c.MustGet(middleware.ContextKeyUser).(*models.User)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"user": summarize(user)}})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.CurrentPassword == "" {
		respondValidation(c, services.ValidationError{
			{Field: "current_password", Message: "Current password is required"},
		})
		return
	}

	userID := c.MustGet(middleware.ContextKeyUserID).(string)
	err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if verr, ok := asValidation(err); ok {
			respondValidation(c, verr)
			return
		}
		if errors.Is(err, services.ErrWrongPassword) {
			respondError(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}
		respondServerError(c, h.cfg, "Error changing password", err)
		return
	}

	respondOK(c, "Password changed successfully", nil)
}
