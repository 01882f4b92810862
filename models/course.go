// models/course.go
package models

import "time"

// Course is a content template. The gamification rule columns are opaque
// text interpreted by clients, never by this service. Languages and
// programming_languages are comma-separated lists.
type Course struct {
	ID                         int64     `json:"id" gorm:"primaryKey"`
	Title                      string    `json:"title" gorm:"size:255;not null"`
	Description                string    `json:"description"`
	Languages                  string    `json:"languages"`
	ProgrammingLanguages       string    `json:"programming_languages"`
	GamificationRuleConditions string    `json:"gamification_rule_conditions"`
	GamificationComplexRules   string    `json:"gamification_complex_rules"`
	GamificationRuleResults    string    `json:"gamification_rule_results"`
	Public                     bool      `json:"public" gorm:"default:false"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

type Module struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	CourseID    int64     `json:"course_id" gorm:"index;not null"`
	Order       int       `json:"order" gorm:"column:order;not null"`
	Title       string    `json:"title" gorm:"size:255"`
	Description string    `json:"description"`
	Language    string    `json:"language" gorm:"size:10"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// Exercise carries two authored visibility flags: hidden is permanent,
// locked is only a baseline that per-player status computation may override.
type Exercise struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	Version             float64   `json:"version" gorm:"default:1"`
	ModuleID            int64     `json:"module_id" gorm:"index;not null"`
	Order               int       `json:"order" gorm:"column:order;not null"`
	Title               string    `json:"title" gorm:"size:255"`
	Description         string    `json:"description"`
	Language            string    `json:"language" gorm:"size:10"`
	ProgrammingLanguage string    `json:"programming_language" gorm:"size:100"`
	InitCode            string    `json:"init_code"`
	PreCode             string    `json:"pre_code"`
	PostCode            string    `json:"post_code"`
	TestCode            string    `json:"test_code"`
	CheckSource         string    `json:"check_source"`
	Hidden              bool      `json:"hidden" gorm:"default:false"`
	Locked              bool      `json:"locked" gorm:"default:false"`
	Mode                string    `json:"mode" gorm:"size:50"`
	ModeParameters      string    `json:"mode_parameters" gorm:"type:jsonb;default:'{}'"`
	Difficulty          string    `json:"difficulty" gorm:"size:50"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
