// services/stats_service.go
package services

import (
	"encoding/json"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type StatsService struct {
	DB        *gorm.DB
	Ownership *OwnershipService
}

func NewStatsService(db *gorm.DB, ownership *OwnershipService) *StatsService {
	return &StatsService{DB: db, Ownership: ownership}
}

// ListStudents returns the player ids registered in a game, optionally
// narrowed to a group and to registrations that are still open.
func (s *StatsService) ListStudents(instructorID, gameID int64, groupID *int64, onlyActive bool) ([]int64, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}

	query := s.DB.Model(&models.PlayerRegistration{}).
		Where("player_registrations.game_id = ?", gameID)
	if onlyActive {
		query = query.Where("player_registrations.left_at IS NULL")
	}
	if groupID != nil {
		query = query.
			Joins("JOIN player_groups ON player_groups.player_id = player_registrations.player_id").
			Where("player_groups.group_id = ?", *groupID)
	}

	ids := make([]int64, 0)
	if err := query.Pluck("player_registrations.player_id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list students")
	}
	return ids, nil
}

type StudentProgress struct {
	Attempts        int64   `json:"attempts"`
	SolvedExercises int64   `json:"solved_exercises"`
	Progress        float64 `json:"progress"`
}

// StudentProgress summarizes one student's standing in a game: raw attempt
// count, distinct solved exercises, and the percentage of the game cleared.
func (s *StatsService) StudentProgress(instructorID, gameID, playerID int64) (*StudentProgress, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}

	var registration models.PlayerRegistration
	if err := s.DB.Where("player_id = ? AND game_id = ?", playerID, gameID).
		First(&registration).Error; err != nil {
		return nil, utils.WrapDB(err, "player is not registered in this game")
	}
	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		return nil, utils.WrapDB(err, "game not found")
	}

	var attempts int64
	if err := s.DB.Model(&models.Submission{}).
		Where("player_id = ? AND game_id = ?", playerID, gameID).
		Count(&attempts).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count attempts")
	}

	var solved int64
	if err := s.DB.Model(&models.Submission{}).
		Where("player_id = ? AND game_id = ? AND first_solution", playerID, gameID).
		Count(&solved).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count solved exercises")
	}

	return &StudentProgress{
		Attempts:        attempts,
		SolvedExercises: solved,
		Progress:        ProgressPercent(registration.Progress, game.TotalExercises),
	}, nil
}

type StudentExercises struct {
	AttemptedExercises []int64 `json:"attempted_exercises"`
	SolvedExercises    []int64 `json:"solved_exercises"`
}

// StudentExercises splits a student's game history into attempted and
// solved exercise id lists.
func (s *StatsService) StudentExercises(instructorID, gameID, playerID int64) (*StudentExercises, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}

	attempted := make([]int64, 0)
	if err := s.DB.Model(&models.Submission{}).
		Where("player_id = ? AND game_id = ?", playerID, gameID).
		Distinct("exercise_id").
		Pluck("exercise_id", &attempted).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list attempted exercises")
	}

	solved := make([]int64, 0)
	if err := s.DB.Model(&models.Submission{}).
		Where("player_id = ? AND game_id = ? AND result > ?", playerID, gameID, models.CorrectnessThreshold).
		Distinct("exercise_id").
		Pluck("exercise_id", &solved).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list solved exercises")
	}

	return &StudentExercises{AttemptedExercises: attempted, SolvedExercises: solved}, nil
}

// StudentSubmissions lists submission ids for a student in a game,
// optionally only the successful ones.
func (s *StatsService) StudentSubmissions(instructorID, gameID, playerID int64, successOnly bool) ([]int64, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}

	query := s.DB.Model(&models.Submission{}).
		Where("player_id = ? AND game_id = ?", playerID, gameID)
	if successOnly {
		query = query.Where("result > ?", models.CorrectnessThreshold)
	}

	ids := make([]int64, 0)
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list submissions")
	}
	return ids, nil
}

// ExerciseSubmissions lists submission ids for an exercise in a game,
// optionally only the successful ones.
func (s *StatsService) ExerciseSubmissions(instructorID, gameID, exerciseID int64, successOnly bool) ([]int64, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}

	query := s.DB.Model(&models.Submission{}).
		Where("exercise_id = ? AND game_id = ?", exerciseID, gameID)
	if successOnly {
		query = query.Where("result > ?", models.CorrectnessThreshold)
	}

	ids := make([]int64, 0)
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list submissions")
	}
	return ids, nil
}

type SubmissionData struct {
	ID                int64           `json:"id"`
	ExerciseID        int64           `json:"exercise_id"`
	GameID            int64           `json:"game_id"`
	PlayerID          int64           `json:"player_id"`
	Client            string          `json:"client"`
	SubmittedCode     string          `json:"submitted_code"`
	Metrics           json.RawMessage `json:"metrics"`
	Result            float64         `json:"result"`
	ResultDescription json.RawMessage `json:"result_description"`
	FirstSolution     bool            `json:"first_solution"`
	Feedback          string          `json:"feedback"`
	EarnedRewards     json.RawMessage `json:"earned_rewards"`
	EnteredAt         time.Time       `json:"entered_at"`
	SubmittedAt       time.Time       `json:"submitted_at"`
}

// SubmissionData returns one submission in full. Access is checked against
// the game the submission belongs to.
func (s *StatsService) SubmissionData(instructorID, submissionID int64) (*SubmissionData, error) {
	var submission models.Submission
	if err := s.DB.First(&submission, submissionID).Error; err != nil {
		return nil, utils.WrapDB(err, "submission not found")
	}
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, submission.GameID, false); err != nil {
		return nil, err
	}

	return &SubmissionData{
		ID:                submission.ID,
		ExerciseID:        submission.ExerciseID,
		GameID:            submission.GameID,
		PlayerID:          submission.PlayerID,
		Client:            submission.Client,
		SubmittedCode:     submission.SubmittedCode,
		Metrics:           json.RawMessage(submission.Metrics),
		Result:            submission.Result,
		ResultDescription: json.RawMessage(submission.ResultDescription),
		FirstSolution:     submission.FirstSolution,
		Feedback:          submission.Feedback,
		EarnedRewards:     json.RawMessage(submission.EarnedRewards),
		EnteredAt:         submission.EnteredAt,
		SubmittedAt:       submission.SubmittedAt,
	}, nil
}

type ExerciseStats struct {
	Attempts           int64   `json:"attempts"`
	SuccessfulAttempts int64   `json:"successful_attempts"`
	Difficulty         float64 `json:"difficulty"`
	SolvedPercentage   float64 `json:"solved_percentage"`
}

// ExerciseStats aggregates how an exercise performs across a game:
// difficulty is the failure rate of all attempts, solved percentage the
// share of registered players with a first solution.
func (s *StatsService) ExerciseStats(instructorID, gameID, exerciseID int64) (*ExerciseStats, error) {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return nil, err
	}
	var exercise models.Exercise
	if err := s.DB.Select("id").First(&exercise, exerciseID).Error; err != nil {
		return nil, utils.WrapDB(err, "exercise not found")
	}

	base := func() *gorm.DB {
		return s.DB.Model(&models.Submission{}).
			Where("game_id = ? AND exercise_id = ?", gameID, exerciseID)
	}

	var attempts int64
	if err := base().Count(&attempts).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count attempts")
	}
	var successful int64
	if err := base().Where("result > ?", models.CorrectnessThreshold).
		Count(&successful).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count successful attempts")
	}
	var firstSolutions int64
	if err := base().Where("first_solution").Count(&firstSolutions).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count first solutions")
	}
	var players int64
	if err := s.DB.Model(&models.PlayerRegistration{}).
		Where("game_id = ?", gameID).
		Count(&players).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count players")
	}

	stats := &ExerciseStats{Attempts: attempts, SuccessfulAttempts: successful}
	if attempts > 0 {
		stats.Difficulty = 100 - float64(successful)/float64(attempts)*100
	}
	if players > 0 {
		stats.SolvedPercentage = float64(firstSolutions) / float64(players) * 100
	}
	return stats, nil
}
