package service

import (
	"context"
	"errors"
	"time"

	"github.com/StrixzIV/adv-compro-finals/model"
	"github.com/StrixzIV/adv-compro-finals/storage"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StartReconciler schedules a sweep that looks for photo rows whose
// backing object has gone missing. Cross-store writes are best-effort, so
// a crash between the storage upload and the DB insert (or between the
// two delete calls) can leave the stores disagreeing. Rows still in the
// trash with no backing bytes are finished off, live rows are only
// reported
func StartReconciler(schedule string, db *gorm.DB, store storage.ObjectStore) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ReconcileOnce(context.Background(), db, store)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	zap.L().Info("Reconciliation sweep scheduled", zap.String("schedule", schedule))

	return c, nil
}

// ReconcileOnce runs a single sweep and returns how many dangling rows
// were found
func ReconcileOnce(ctx context.Context, db *gorm.DB, store storage.ObjectStore) int {
	started := time.Now()

	var photos []model.Photo
	if err := db.Find(&photos).Error; err != nil {
		zap.L().Error("Reconcile sweep failed to list photos", zap.Error(err))
		return 0
	}

	dangling := 0

	for _, p := range photos {
		_, err := store.Stat(ctx, p.FilePath)
		if err == nil {
			continue
		}

		if !errors.Is(err, storage.ErrObjectMissing) {
			zap.L().Warn("Reconcile sweep could not stat object", zap.String("key", p.FilePath), zap.Error(err))
			continue
		}

		dangling++

		if p.IsDeleted {
			// Trash entries with no bytes left have nothing to restore,
			// drop the row and the implied thumbnail
			if err := store.Remove(ctx, ThumbnailKey(p.UserID, p.ID)); err != nil {
				zap.L().Warn("Failed to remove orphaned thumbnail", zap.String("photo_id", p.ID), zap.Error(err))
			}

			if err := db.Where("id = ? AND user_id = ?", p.ID, p.UserID).Delete(&model.Photo{}).Error; err != nil {
				zap.L().Error("Failed to drop dangling trash row", zap.String("photo_id", p.ID), zap.Error(err))
			}

			continue
		}

		zap.L().Warn("Photo metadata has no backing object",
			zap.String("photo_id", p.ID),
			zap.String("key", p.FilePath))
	}

	zap.L().Debug("Reconcile sweep finished",
		zap.Int("photos", len(photos)),
		zap.Int("dangling", dangling),
		zap.Duration("took", time.Since(started)))

	return dangling
}
