// services/grader.go
package services

import (
	"encoding/json"
	"log"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type GraderService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewGraderService(db *gorm.DB, progression *ProgressionService) *GraderService {
	return &GraderService{DB: db, Progression: progression}
}

type SubmitSolutionParams struct {
	PlayerID          int64
	ExerciseID        int64
	GameID            int64
	Client            string
	SubmittedCode     string
	Metrics           string
	Result            float64
	ResultDescription string
	Feedback          string
	EarnedRewards     []int64
	EnteredAt         time.Time
}

// gradeOutcome is what a graded submission changes beyond its own row.
type gradeOutcome struct {
	FirstSolution bool
	RecordUnlock  bool
}

// decideOutcome derives the side effects of a submission from the grade and
// the player's prior correct count. Progress moves only with the first
// solution; gated games keep a solved exercise permanently unlocked.
func decideOutcome(correct bool, priorCorrect int64, exerciseLock bool, moduleLock float64) gradeOutcome {
	return gradeOutcome{
		FirstSolution: correct && priorCorrect == 0,
		RecordUnlock:  correct && (exerciseLock || moduleLock > 0),
	}
}

// SubmitSolution records a graded attempt inside one transaction: the
// submission row, the once-per-exercise progress increment, minted rewards,
// and the follow-up unlock for sequentially gated games.
func (s *GraderService) SubmitSolution(p SubmitSolutionParams) (firstSolution bool, err error) {
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var registration models.PlayerRegistration
		if err := tx.Where("player_id = ? AND game_id = ? AND left_at IS NULL", p.PlayerID, p.GameID).
			First(&registration).Error; err != nil {
			return utils.WrapDB(err, "player is not registered in this game")
		}

		var game models.Game
		if err := tx.First(&game, p.GameID).Error; err != nil {
			return utils.WrapDB(err, "game not found")
		}

		var exercise models.Exercise
		if err := tx.First(&exercise, p.ExerciseID).Error; err != nil {
			return utils.WrapDB(err, "exercise not found")
		}

		submission := models.Submission{
			ExerciseID:        p.ExerciseID,
			GameID:            p.GameID,
			PlayerID:          p.PlayerID,
			Client:            p.Client,
			SubmittedCode:     p.SubmittedCode,
			Metrics:           p.Metrics,
			Result:            p.Result,
			ResultDescription: p.ResultDescription,
			Feedback:          p.Feedback,
			EnteredAt:         p.EnteredAt,
		}

		var priorCorrect int64
		if submission.Correct() {
			if err := tx.Model(&models.Submission{}).
				Where("player_id = ? AND game_id = ? AND exercise_id = ? AND result > ?",
					p.PlayerID, p.GameID, p.ExerciseID, models.CorrectnessThreshold).
				Count(&priorCorrect).Error; err != nil {
				return utils.WrapDB(err, "failed to check prior solutions")
			}
		}
		outcome := decideOutcome(submission.Correct(), priorCorrect, game.ExerciseLock, game.ModuleLock)
		submission.FirstSolution = outcome.FirstSolution

		if rewards, err := json.Marshal(p.EarnedRewards); err == nil {
			submission.EarnedRewards = string(rewards)
		}

		// the partial unique index on (player_id, game_id, exercise_id)
		// rejects a concurrent duplicate first solution
		if err := tx.Create(&submission).Error; err != nil {
			return utils.WrapDB(err, "failed to record submission")
		}

		if submission.FirstSolution {
			if err := tx.Model(&models.PlayerRegistration{}).
				Where("id = ?", registration.ID).
				UpdateColumn("progress", gorm.Expr("progress + 1")).Error; err != nil {
				return utils.WrapDB(err, "failed to update progress")
			}
		}

		for _, rewardID := range p.EarnedRewards {
			if err := s.mintReward(tx, p.PlayerID, rewardID, &game); err != nil {
				return err
			}
		}

		// a solved exercise stays reachable even if the player later falls
		// below a raised gate
		if outcome.RecordUnlock {
			if err := s.Progression.UnlockExercise(tx, p.PlayerID, exercise.ID); err != nil {
				return err
			}
		}

		firstSolution = submission.FirstSolution
		return nil
	})
	if err != nil {
		return false, err
	}

	if firstSolution {
		log.Printf("✅ player %d solved exercise %d in game %d", p.PlayerID, p.ExerciseID, p.GameID)
	}
	return firstSolution, nil
}

// mintReward grants one reward instance. Unknown rewards are a 404; a
// reward belonging to a different course than the game is a 422.
func (s *GraderService) mintReward(tx *gorm.DB, playerID, rewardID int64, game *models.Game) error {
	var reward models.Reward
	if err := tx.First(&reward, rewardID).Error; err != nil {
		return utils.WrapDB(err, "reward not found")
	}
	playerReward, err := buildPlayerReward(&reward, game, playerID, time.Now())
	if err != nil {
		return err
	}
	if err := tx.Create(playerReward).Error; err != nil {
		return utils.WrapDB(err, "failed to grant reward")
	}
	return nil
}

// buildPlayerReward turns a reward template into a minted instance. A
// reward owned by a different course than the game is a 422, which rolls
// the whole submission transaction back.
func buildPlayerReward(reward *models.Reward, game *models.Game, playerID int64, now time.Time) (*models.PlayerReward, error) {
	if reward.CourseID != game.CourseID {
		return nil, utils.Unprocessablef("reward %d does not belong to the game's course", reward.ID)
	}
	return &models.PlayerReward{
		PlayerID:   playerID,
		RewardID:   reward.ID,
		GameID:     &game.ID,
		Count:      1,
		ObtainedAt: now,
		ExpiresAt:  now.Add(reward.Validity()),
	}, nil
}

type LastSolutionResponse struct {
	SubmittedCode     string          `json:"submitted_code"`
	Metrics           json.RawMessage `json:"metrics"`
	Result            float64         `json:"result"`
	ResultDescription json.RawMessage `json:"result_description"`
	Feedback          string          `json:"feedback"`
	SubmittedAt       time.Time       `json:"submitted_at"`
}

// LastSolution prefers the latest correct submission and falls back to the
// latest attempt of any result.
func (s *GraderService) LastSolution(playerID, exerciseID int64) (*LastSolutionResponse, error) {
	base := s.DB.Where("player_id = ? AND exercise_id = ?", playerID, exerciseID)

	var submission models.Submission
	err := base.Session(&gorm.Session{}).
		Where("result > ?", models.CorrectnessThreshold).
		Order("submitted_at DESC").
		First(&submission).Error
	if err == gorm.ErrRecordNotFound {
		err = base.Session(&gorm.Session{}).
			Order("submitted_at DESC").
			First(&submission).Error
	}
	if err != nil {
		return nil, utils.WrapDB(err, "no submission found")
	}

	return &LastSolutionResponse{
		SubmittedCode:     submission.SubmittedCode,
		Metrics:           json.RawMessage(submission.Metrics),
		Result:            submission.Result,
		ResultDescription: json.RawMessage(submission.ResultDescription),
		Feedback:          submission.Feedback,
		SubmittedAt:       submission.SubmittedAt,
	}, nil
}
