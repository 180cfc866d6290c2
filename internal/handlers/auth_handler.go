package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/auth"
	"github.com/xthome/home-manager/internal/config"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/mail"
	"github.com/xthome/home-manager/internal/models"
	"github.com/xthome/home-manager/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	mail   *mail.Dispatcher
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, dispatcher *mail.Dispatcher) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, mail: dispatcher}
}

// --------- Requests ---------

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not look valid.")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			httperr.Conflict(c, httperr.CodeEmailTaken, "A user with this email already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Could not create the account.")
		return
	}

	h.mail.Dispatch(mail.Message{
		Kind:      mail.KindWelcome,
		Recipient: user.Email,
		Params:    map[string]string{"name": user.FullName},
	})

	token, err := auth.GenerateToken(&user, h.config.JWTSecret)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue a token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  userPayload(&user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Login failed.")
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := auth.GenerateToken(&user, h.config.JWTSecret)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue a token.")
		return
	}

	// An invited viewer still on the temporary password must set a
	// permanent one before the invite counts as accepted.
	if user.MustChangePassword(time.Now()) {
		c.JSON(http.StatusOK, gin.H{
			"token":                    token,
			"requires_password_change": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userPayload(&user),
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Always answer OK so the endpoint cannot be used to enumerate
	// accounts.
	respond := func() {
		c.JSON(http.StatusOK, gin.H{
			"message": "If an account with that email exists, a password reset link has been sent.",
		})
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		respond()
		return
	}

	token, err := randomToken()
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not start the reset flow.")
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	user.PasswordResetToken = &token
	user.PasswordResetTokenExpiry = &expiry
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not start the reset flow.")
		return
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		h.config.FrontendBaseURL, url.QueryEscape(token), url.QueryEscape(user.Email))

	h.mail.Dispatch(mail.Message{
		Kind:      mail.KindPasswordReset,
		Recipient: user.Email,
		Params: map[string]string{
			"name":       user.FullName,
			"reset_link": resetLink,
		},
	})

	respond()
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		httperr.BadRequest(c, "invalid_reset_token", "Invalid token or email.")
		return
	}

	if user.PasswordResetToken == nil || *user.PasswordResetToken != req.Token {
		logrus.WithField("email", email).Warn("password reset token mismatch")
		httperr.BadRequest(c, "invalid_reset_token", "Invalid token or email.")
		return
	}
	if user.PasswordResetTokenExpiry == nil || !user.PasswordResetTokenExpiry.After(time.Now()) {
		httperr.BadRequest(c, "reset_token_expired", "The reset link has expired.")
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
		return
	}

	user.PasswordHash = hashed
	user.PasswordResetToken = nil
	user.PasswordResetTokenExpiry = nil
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "internal_error", "Could not reset the password.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}

// --------- Helpers ---------

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"full_name":  user.FullName,
		"role":       user.Role,
		"image_path": user.ImagePath,
	}
}

func randomToken() (string, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
