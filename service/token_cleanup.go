package service

import (
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResetTokenCleanup periodically removes expired password reset tokens.
// Expired tokens already can't authorize a reset, this just keeps the
// table from growing forever
func ResetTokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Reset token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("expires_at < ?", time.Now()).
				Delete(&model.PasswordResetToken{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup expired reset tokens", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up expired reset tokens", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
