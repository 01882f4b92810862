// models/identity.go
package models

import "time"

// AdminInstructorID is the reserved administrator identity. It is implicitly
// authorized for every operation and never carries ownership rows.
const AdminInstructorID int64 = 0

type Instructor struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Email         string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	DisplayName   string    `json:"display_name" gorm:"size:100"`
	DisplayAvatar *string   `json:"display_avatar"`
	CreatedAt     time.Time `json:"created_at"`
	LastActive    time.Time `json:"last_active" gorm:"autoCreateTime"`
}

type Player struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Email         string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	DisplayName   string    `json:"display_name" gorm:"size:100"`
	DisplayAvatar *string   `json:"display_avatar"`
	Points        int       `json:"points" gorm:"default:0"`
	Disabled      bool      `json:"disabled" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	LastActive    time.Time `json:"last_active" gorm:"autoCreateTime"`
}
