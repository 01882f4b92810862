// models/registration.go
package models

import "time"

// PlayerRegistration ties a player to a game. The unique (player_id, game_id)
// index is the idempotency boundary for join_game and invite redemption:
// a racing duplicate insert loses at the constraint, never in application
// code. Leaving a game sets LeftAt; the row is never deleted by students.
type PlayerRegistration struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	PlayerID  int64      `json:"player_id" gorm:"uniqueIndex:idx_registration_player_game;not null"`
	GameID    int64      `json:"game_id" gorm:"uniqueIndex:idx_registration_player_game;not null"`
	Language  string     `json:"language" gorm:"size:10"`
	Progress  int        `json:"progress" gorm:"default:0"`
	GameState string     `json:"game_state" gorm:"type:jsonb;default:'{}'"`
	SavedAt   time.Time  `json:"saved_at" gorm:"autoCreateTime"`
	JoinedAt  time.Time  `json:"joined_at" gorm:"autoCreateTime"`
	LeftAt    *time.Time `json:"left_at"`
}

// PlayerUnlock is an append-only explicit grant that overrides any computed
// lock for its (player, exercise) pair.
type PlayerUnlock struct {
	PlayerID   int64     `json:"player_id" gorm:"primaryKey;autoIncrement:false"`
	ExerciseID int64     `json:"exercise_id" gorm:"primaryKey;autoIncrement:false"`
	UnlockedAt time.Time `json:"unlocked_at" gorm:"autoCreateTime"`
}
