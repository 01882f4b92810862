// models/group.go
package models

import "time"

type Group struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	DisplayName   string  `json:"display_name" gorm:"size:255;uniqueIndex;not null"`
	DisplayAvatar *string `json:"display_avatar"`
}

// PlayerGroup is a membership edge. The composite primary key makes
// duplicate adds a do-nothing upsert instead of a second row.
type PlayerGroup struct {
	PlayerID int64      `json:"player_id" gorm:"primaryKey;autoIncrement:false"`
	GroupID  int64      `json:"group_id" gorm:"primaryKey;autoIncrement:false"`
	JoinedAt time.Time  `json:"joined_at" gorm:"autoCreateTime"`
	LeftAt   *time.Time `json:"left_at"`
}
