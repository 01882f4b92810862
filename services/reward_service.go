// services/reward_service.go
package services

import (
	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type RewardService struct {
	DB        *gorm.DB
	Ownership *OwnershipService
}

func NewRewardService(db *gorm.DB, ownership *OwnershipService) *RewardService {
	return &RewardService{DB: db, Ownership: ownership}
}

// SetRewardImage stores the uploaded image URL on a reward. Access follows
// the course the reward belongs to.
func (s *RewardService) SetRewardImage(instructorID, rewardID int64, imageURL string) error {
	var reward models.Reward
	if err := s.DB.First(&reward, rewardID).Error; err != nil {
		return utils.WrapDB(err, "reward not found")
	}
	if _, err := s.Ownership.RequireCoursePermission(s.DB, instructorID, reward.CourseID, false); err != nil {
		return err
	}
	if err := s.DB.Model(&models.Reward{}).Where("id = ?", rewardID).
		Update("image_url", imageURL).Error; err != nil {
		return utils.WrapDB(err, "failed to set reward image")
	}
	return nil
}

// PlayerRewards lists the reward instances a player holds in a game.
func (s *RewardService) PlayerRewards(instructorID, gameID, playerID int64) ([]models.PlayerReward, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}
	rewards := make([]models.PlayerReward, 0)
	if err := s.DB.Where("player_id = ? AND game_id = ?", playerID, gameID).
		Find(&rewards).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list player rewards")
	}
	return rewards, nil
}
