// models/game.go
package models

import "time"

// Game instantiates a course for a cohort. ModuleLock is a fraction in [0,1]
// applied against the preceding module's exercise count; ExerciseLock turns
// on sequential unlocking within a module. TotalExercises is the fixed
// progress denominator computed at creation time.
type Game struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	Title               string    `json:"title" gorm:"size:255;not null"`
	Public              bool      `json:"public" gorm:"default:false"`
	Active              bool      `json:"active" gorm:"default:false"`
	Description         string    `json:"description"`
	CourseID            int64     `json:"course_id" gorm:"index;not null"`
	ProgrammingLanguage string    `json:"programming_language" gorm:"size:100"`
	ModuleLock          float64   `json:"module_lock" gorm:"default:0"`
	ExerciseLock        bool      `json:"exercise_lock" gorm:"default:false"`
	TotalExercises      int       `json:"total_exercises" gorm:"default:0"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
