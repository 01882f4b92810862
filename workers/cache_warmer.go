// workers/cache_warmer.go
package workers

import (
	"context"
	"log"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

// CacheWarmer keeps the public available-games listing warm in redis so the
// hot student endpoint rarely touches postgres. It is a no-op when the
// redis client is not configured.
type CacheWarmer struct {
	db       *gorm.DB
	interval time.Duration
}

func NewCacheWarmer(db *gorm.DB) *CacheWarmer {
	return &CacheWarmer{
		db:       db,
		interval: 2 * time.Minute,
	}
}

func (w *CacheWarmer) Start(ctx context.Context) {
	if utils.RDB == nil {
		return
	}
	log.Println("🔁 Starting available-games cache warmer…")
	go w.run(ctx)
}

func (w *CacheWarmer) run(ctx context.Context) {
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 cache warmer stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *CacheWarmer) refresh(ctx context.Context) {
	ids := make([]int64, 0)
	if err := w.db.WithContext(ctx).Model(&models.Game{}).
		Where("public AND active").
		Pluck("id", &ids).Error; err != nil {
		log.Printf("⚠️ cache warmer: failed to list available games: %v", err)
		return
	}
	utils.CacheSetIDs(ctx, utils.AvailableGamesKey, ids, 10*time.Minute)
}
