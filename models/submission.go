// models/submission.go
package models

import "time"

// CorrectnessThreshold is the single grading rule this service owns:
// a submission counts as correct iff its result is strictly above it.
const CorrectnessThreshold = 50.0

// Submission is immutable once written. FirstSolution marks the one
// submission per (player, game, exercise) that won the progress increment;
// a partial unique index created in main enforces the single winner under
// concurrent duplicate submissions.
type Submission struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	ExerciseID        int64     `json:"exercise_id" gorm:"index;not null"`
	GameID            int64     `json:"game_id" gorm:"index;not null"`
	PlayerID          int64     `json:"player_id" gorm:"index;not null"`
	Client            string    `json:"client" gorm:"size:100"`
	SubmittedCode     string    `json:"submitted_code"`
	Metrics           string    `json:"metrics" gorm:"type:jsonb;default:'{}'"`
	Result            float64   `json:"result"`
	ResultDescription string    `json:"result_description" gorm:"type:jsonb;default:'{}'"`
	FirstSolution     bool      `json:"first_solution" gorm:"default:false"`
	Feedback          string    `json:"feedback"`
	EarnedRewards     string    `json:"earned_rewards" gorm:"type:jsonb;default:'[]'"`
	EnteredAt         time.Time `json:"entered_at"`
	SubmittedAt       time.Time `json:"submitted_at" gorm:"autoCreateTime"`
}

// Correct reports whether the submission clears the grading threshold.
func (s *Submission) Correct() bool {
	return s.Result > CorrectnessThreshold
}
