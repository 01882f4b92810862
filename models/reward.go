// models/reward.go
package models

import "time"

// Reward is a course-scoped template. ValidPeriod is seconds of validity
// granted to each minted instance.
type Reward struct {
	ID             int64   `json:"id" gorm:"primaryKey"`
	CourseID       int64   `json:"course_id" gorm:"index;not null"`
	Name           string  `json:"name" gorm:"size:255;not null"`
	Description    string  `json:"description"`
	MessageWhenWon string  `json:"message_when_won"`
	ImageURL       *string `json:"image_url"`
	ValidPeriod    int64   `json:"valid_period" gorm:"default:0"`
}

// Validity returns the template's validity window as a duration.
func (r *Reward) Validity() time.Duration {
	return time.Duration(r.ValidPeriod) * time.Second
}

// PlayerReward is a minted, expirable instance of a Reward. Count and
// UsedCount support stacking and partial consumption.
type PlayerReward struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	PlayerID   int64     `json:"player_id" gorm:"index;not null"`
	RewardID   int64     `json:"reward_id" gorm:"index;not null"`
	GameID     *int64    `json:"game_id"`
	Count      int       `json:"count" gorm:"default:1"`
	UsedCount  int       `json:"used_count" gorm:"default:0"`
	ObtainedAt time.Time `json:"obtained_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
