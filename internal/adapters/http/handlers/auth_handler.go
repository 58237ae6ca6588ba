package handlers

import (
	"errors"
	"strings"
	"time"

	"btohub/internal/config"
	"btohub/internal/core/domain"
	"btohub/internal/core/services"
	"btohub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	NationalID    string `json:"national_id"`
	Name          string `json:"name"`
	Password      string `json:"password"`
	Age           int    `json:"age"`
	MaritalStatus string `json:"marital_status"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	NationalID string `json:"national_id"`
	Password   string `json:"password"`
}

// Register handles applicant registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Validate required fields
	if req.NationalID == "" {
		return response.BadRequest(c, "National ID is required")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.RegisterInput{
		NationalID:    strings.ToUpper(strings.TrimSpace(req.NationalID)),
		Name:          strings.TrimSpace(req.Name),
		Password:      req.Password,
		Age:           req.Age,
		MaritalStatus: domain.MaritalStatus(strings.ToUpper(req.MaritalStatus)),
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidNationalID):
			return response.BadRequest(c, "National ID must match the NRIC format (e.g. S1234567A)")
		case errors.Is(err, services.ErrUserExists):
			return response.Conflict(c, "National ID already registered")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "User registered successfully", user.ToResponse())
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.NationalID == "" {
		return response.BadRequest(c, "National ID is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		NationalID: strings.ToUpper(strings.TrimSpace(req.NationalID)),
		Password:   req.Password,
	}

	user, tokens, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid national ID or password")
		case errors.Is(err, services.ErrAccountDisabled):
			return response.Forbidden(c, "Account has been disabled")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": tokens.AccessToken,
		"user":         user.ToResponse(),
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token required")
	}

	tokens, err := h.authService.Refresh(c.Context(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	h.setAuthCookies(c, tokens.AccessToken, tokens.RefreshToken)

	return response.Success(c, "Token refreshed", fiber.Map{
		"access_token": tokens.AccessToken,
	})
}

// Logout revokes the refresh token and clears cookies
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out", nil)
}

// LogoutAll revokes every session of the authenticated user
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all sessions", nil)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.Me(c.Context(), userID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Profile retrieved", user.ToResponse())
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.IsProd(),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
}
