// Package handler contains the HTTP controllers.
package handler

import (
	"errors"
	"net/http"

	"konsul-pajak-go/internal/service"
	"konsul-pajak-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles the passwordless login endpoints.
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RequestOTPRequest is the request body for requesting a login code.
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestOTP mails a one-time login code to the given address.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RequestOTP: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "Permintaan tidak valid: email wajib diisi",
		})
		return
	}

	if err := h.userService.RequestOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		case errors.Is(err, service.ErrOTPCooldown):
			c.JSON(http.StatusTooManyRequests, gin.H{"code": http.StatusTooManyRequests, "message": err.Error()})
		default:
			log.Errorf("RequestOTP: failed for '%s', error: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "Gagal mengirim kode verifikasi",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Kode verifikasi telah dikirim",
	})
}

// VerifyOTPRequest is the request body for exchanging a code for tokens.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOTP checks the login code and returns the user with a token pair.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("VerifyOTP: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "Permintaan tidak valid: email dan kode wajib diisi",
		})
		return
	}

	user, pair, err := h.userService.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		case errors.Is(err, service.ErrOTPInvalid),
			errors.Is(err, service.ErrOTPExpired),
			errors.Is(err, service.ErrOTPTooManyAttempts):
			c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": err.Error()})
		default:
			log.Errorf("VerifyOTP: failed for '%s', error: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "Gagal memverifikasi kode",
			})
		}
		return
	}

	log.Infof("User '%s' logged in successfully", user.Email)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Login berhasil",
		"data": gin.H{
			"user":         user,
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		},
	})
}

// RefreshTokenRequest is the request body for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RefreshToken: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "Permintaan tidak valid: refreshToken wajib diisi",
		})
		return
	}

	pair, err := h.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    http.StatusUnauthorized,
			"message": "Refresh token tidak valid atau sudah kedaluwarsa",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Token diperbarui",
		"data": gin.H{
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		},
	})
}
