// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartScheduler runs the periodic maintenance jobs: deactivating games
// whose end date has passed and purging expired player rewards.
func StartScheduler(db *gorm.DB) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(func() {
			result := db.Model(&models.Game{}).
				Where("active AND end_date < ?", time.Now()).
				Update("active", false)
			if result.Error != nil {
				log.Printf("❌ scheduler: failed to deactivate ended games: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				utils.CacheInvalidate(context.Background(), utils.AvailableGamesKey)
				log.Printf("⚠️ scheduler: deactivated %d ended games", result.RowsAffected)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			result := db.Where("expires_at < ?", time.Now()).
				Delete(&models.PlayerReward{})
			if result.Error != nil {
				log.Printf("❌ scheduler: failed to purge expired rewards: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("⚠️ scheduler: purged %d expired rewards", result.RowsAffected)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Println("✅ maintenance scheduler started")
	return scheduler, nil
}
