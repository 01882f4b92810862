// models/invite.go
package models

// Invite is a shareable enrollment token. There is deliberately no consumed
// flag and no player binding: redemption idempotency lives entirely in the
// registration/membership constraints, so the same link can enroll many
// players and re-redemption is harmless.
type Invite struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	UUID         string `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	InstructorID int64  `json:"instructor_id" gorm:"index;not null"`
	GameID       *int64 `json:"game_id"`
	GroupID      *int64 `json:"group_id"`
}
