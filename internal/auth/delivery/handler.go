package delivery

import (
	"errors"
	"log"
	"net/http"

	authdto "ingetin-backend/internal/auth/dto"
	"ingetin-backend/internal/auth/usecase"
	"ingetin-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register creates an account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		log.Printf("[AuthHandler] Register error: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error during registration")
		return
	}

	c.JSON(http.StatusCreated, tokenBody("User registered successfully", tokens))
}

// Login exchanges credentials for tokens
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("[AuthHandler] Login error: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, tokenBody("Login successful", tokens))
}

// RefreshToken rotates a refresh token
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	tokens, err := h.authUsecase.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidToken) {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		log.Printf("[AuthHandler] Refresh error: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error refreshing token")
		return
	}

	c.JSON(http.StatusOK, tokenBody("Token refreshed", tokens))
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    CurrentUser(c),
	})
}

// Logout revokes the supplied refresh token
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.LogoutRequest
	// The body is optional; a bare logout only clears client state.
	_ = c.ShouldBindJSON(&req)

	if err := h.authUsecase.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("[AuthHandler] Logout error: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error during logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// RegisterFCMToken stores a push device token
// POST /api/fcm/register
func (h *AuthHandler) RegisterFCMToken(c *gin.Context) {
	var req authdto.RegisterFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err)
		return
	}

	if err := h.authUsecase.RegisterFCMToken(c.Request.Context(), c.GetString("userID"), req.Token, req.DeviceInfo); err != nil {
		log.Printf("[AuthHandler] Register FCM token error: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error registering device")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Device registered",
	})
}

// UnregisterFCMToken removes a push device token
// DELETE /api/fcm/:token
func (h *AuthHandler) UnregisterFCMToken(c *gin.Context) {
	if err := h.authUsecase.UnregisterFCMToken(c.Request.Context(), c.GetString("userID"), c.Param("token")); err != nil {
		log.Printf("[AuthHandler] Unregister FCM token error: %v", err)
		response.Error(c, http.StatusInternalServerError, "Server error removing device")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Device removed",
	})
}

func tokenBody(message string, tokens *authdto.TokenResponse) gin.H {
	return gin.H{
		"success":       true,
		"message":       message,
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user":          tokens.User,
	}
}
