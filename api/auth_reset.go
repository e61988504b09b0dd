package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"
	"github.com/StrixzIV/adv-compro-finals/security"
	"github.com/StrixzIV/adv-compro-finals/service"
	"github.com/StrixzIV/adv-compro-finals/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reset tokens are only good for a short window
const resetTokenTTL = 15 * time.Minute

type resetRequestBody struct {
	Email string `json:"email"`
}

// RequestPasswordReset always reports success so the endpoint can't be
// used to probe which emails are registered
func (a *API) RequestPasswordReset(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetRequestBody
	if err := c.ShouldBindJSON(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	accepted := gin.H{
		"message": "If the email is registered, a reset link has been sent",
	}

	var user model.User

	err := a.DB.
		Where("email = ?", data.Email).
		First(&user).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Error("Failed to look up user for password reset", zap.Error(err), zap.String("requestID", requestID))
		}

		c.JSON(http.StatusOK, accepted)
		return
	}

	token, err := security.ResetToken()
	if err != nil {
		zap.L().Error("Failed to generate reset token", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusOK, accepted)
		return
	}

	err = a.DB.Create(&model.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		CreatedAt: time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("Failed to persist reset token", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusOK, accepted)
		return
	}

	// Fire and forget, mail delivery must never fail the request
	go func(email, token string) {
		if err := service.SendResetMail(a.Cfg, email, token); err != nil {
			zap.L().Error("Failed to send reset mail", zap.Error(err))
		}
	}(user.Email, token)

	c.JSON(http.StatusOK, accepted)
}

type resetBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (a *API) ResetPassword(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data resetBody
	if err := c.ShouldBindJSON(&data); err != nil || data.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var token model.PasswordResetToken

	err := a.DB.
		Where("token = ?", data.Token).
		First(&token).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid or expired reset token",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up reset token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if time.Now().After(token.ExpiresAt) {
		// An expired token can't authorize anything, drop it now instead
		// of waiting for the sweep
		a.DB.Delete(&token)

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid or expired reset token",
			"requestID": requestID,
		})
		return
	}

	hash, err := a.Argon.GenerateFromPassword(data.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash new password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.User{}).
		Where("id = ?", token.UserID).
		Update("password_hash", hash).
		Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Single use, the token dies with the reset
	if err := a.DB.Delete(&token).Error; err != nil {
		zap.L().Error("Failed to delete used reset token", zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset",
	})
}
