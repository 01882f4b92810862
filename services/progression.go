// services/progression.go
package services

import (
	"encoding/json"
	"math"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// statusSnapshot is everything the lock rules need, captured immutably so
// the decision itself stays a pure function.
type statusSnapshot struct {
	AuthoredHidden bool
	AuthoredLocked bool
	HasUnlock      bool

	ModuleLock   float64
	ExerciseLock bool

	// module gate inputs; the first module of a course has no previous
	// module and is never gated
	HasPrevModule           bool
	PrevModuleExerciseCount int
	SolvedInPrevModule      int

	// sequential gate inputs
	ExerciseOrder      int
	HasPrevExercise    bool
	PrevExerciseSolved bool
}

// computeExerciseStatus applies the visibility rules in fixed order:
// authored hidden is unconditional; an explicit unlock beats every gate;
// the authored locked baseline, the module gate, then the sequential gate.
func computeExerciseStatus(s statusSnapshot) (hidden, locked bool) {
	hidden = s.AuthoredHidden

	if s.HasUnlock {
		return hidden, false
	}

	if s.AuthoredLocked {
		return hidden, true
	}

	if s.ModuleLock > 0 && s.HasPrevModule {
		required := int(math.Ceil(s.ModuleLock * float64(s.PrevModuleExerciseCount)))
		if s.SolvedInPrevModule < required {
			return hidden, true
		}
	}

	if s.ExerciseLock && s.ExerciseOrder > 1 && s.HasPrevExercise && !s.PrevExerciseSolved {
		return hidden, true
	}

	return hidden, false
}

// ProgressPercent converts a solved count into a display percentage,
// saturating at 100. A zero denominator reads as no progress.
func ProgressPercent(progress, totalExercises int) float64 {
	if totalExercises <= 0 {
		return 0
	}
	pct := float64(progress) / float64(totalExercises) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func (s *ProgressionService) buildStatusSnapshot(tx *gorm.DB, playerID, gameID int64, exercise *models.Exercise, game *models.Game) (statusSnapshot, error) {
	snap := statusSnapshot{
		AuthoredHidden: exercise.Hidden,
		AuthoredLocked: exercise.Locked,
		ModuleLock:     game.ModuleLock,
		ExerciseLock:   game.ExerciseLock,
		ExerciseOrder:  exercise.Order,
	}

	var unlockCount int64
	if err := tx.Model(&models.PlayerUnlock{}).
		Where("player_id = ? AND exercise_id = ?", playerID, exercise.ID).
		Count(&unlockCount).Error; err != nil {
		return snap, utils.WrapDB(err, "failed to check explicit unlocks")
	}
	snap.HasUnlock = unlockCount > 0
	if snap.HasUnlock {
		// no gate can change the outcome anymore
		return snap, nil
	}

	var module models.Module
	if err := tx.First(&module, exercise.ModuleID).Error; err != nil {
		return snap, utils.WrapDB(err, "module not found")
	}

	if game.ModuleLock > 0 {
		var prevModule models.Module
		err := tx.Where(`course_id = ? AND "order" < ?`, module.CourseID, module.Order).
			Order(`"order" DESC`).
			First(&prevModule).Error
		switch {
		case err == nil:
			snap.HasPrevModule = true

			var prevExerciseCount int64
			if err := tx.Model(&models.Exercise{}).
				Where("module_id = ?", prevModule.ID).
				Count(&prevExerciseCount).Error; err != nil {
				return snap, utils.WrapDB(err, "failed to count previous module exercises")
			}
			snap.PrevModuleExerciseCount = int(prevExerciseCount)

			var solved int64
			if err := tx.Model(&models.Submission{}).
				Joins("JOIN exercises ON exercises.id = submissions.exercise_id").
				Where("submissions.player_id = ? AND submissions.game_id = ? AND submissions.result > ?",
					playerID, gameID, models.CorrectnessThreshold).
				Where("exercises.module_id = ?", prevModule.ID).
				Distinct("submissions.exercise_id").
				Count(&solved).Error; err != nil {
				return snap, utils.WrapDB(err, "failed to count solved exercises in previous module")
			}
			snap.SolvedInPrevModule = int(solved)
		case err == gorm.ErrRecordNotFound:
			// first module, never module-gated
		default:
			return snap, utils.WrapDB(err, "failed to resolve previous module")
		}
	}

	if game.ExerciseLock && exercise.Order > 1 {
		var prevExercise models.Exercise
		err := tx.Where(`module_id = ? AND "order" = ?`, exercise.ModuleID, exercise.Order-1).
			First(&prevExercise).Error
		switch {
		case err == nil:
			snap.HasPrevExercise = true

			var prevSolved int64
			if err := tx.Model(&models.Submission{}).
				Where("player_id = ? AND game_id = ? AND exercise_id = ? AND result > ?",
					playerID, gameID, prevExercise.ID, models.CorrectnessThreshold).
				Count(&prevSolved).Error; err != nil {
				return snap, utils.WrapDB(err, "failed to check previous exercise solutions")
			}
			snap.PrevExerciseSolved = prevSolved > 0
		case err == gorm.ErrRecordNotFound:
			// gaps in authored ordering leave the exercise ungated
		default:
			return snap, utils.WrapDB(err, "failed to resolve previous exercise")
		}
	}

	return snap, nil
}

// ExerciseStatus computes the player-specific hidden/locked pair for an
// exercise in a game context.
func (s *ProgressionService) ExerciseStatus(playerID, gameID, exerciseID int64) (hidden, locked bool, err error) {
	var exercise models.Exercise
	if err := s.DB.First(&exercise, exerciseID).Error; err != nil {
		return false, false, utils.WrapDB(err, "exercise not found")
	}
	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		return false, false, utils.WrapDB(err, "game not found")
	}

	return s.statusFor(playerID, gameID, &exercise, &game)
}

func (s *ProgressionService) statusFor(playerID, gameID int64, exercise *models.Exercise, game *models.Game) (hidden, locked bool, err error) {
	snap, err := s.buildStatusSnapshot(s.DB, playerID, gameID, exercise, game)
	if err != nil {
		return false, false, err
	}
	hidden, locked = computeExerciseStatus(snap)
	return hidden, locked, nil
}

type ExerciseDataResponse struct {
	Order          int             `json:"order"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	InitCode       string          `json:"init_code"`
	PreCode        string          `json:"pre_code"`
	PostCode       string          `json:"post_code"`
	TestCode       string          `json:"test_code"`
	CheckSource    string          `json:"check_source"`
	Mode           string          `json:"mode"`
	ModeParameters json.RawMessage `json:"mode_parameters"`
	Difficulty     string          `json:"difficulty"`
	Hidden         bool            `json:"hidden"`
	Locked         bool            `json:"locked"`
}

// ExerciseData returns the authored exercise fields plus the computed
// per-player hidden/locked status.
func (s *ProgressionService) ExerciseData(playerID, gameID, exerciseID int64) (*ExerciseDataResponse, error) {
	var exercise models.Exercise
	if err := s.DB.First(&exercise, exerciseID).Error; err != nil {
		return nil, utils.WrapDB(err, "exercise not found")
	}
	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		return nil, utils.WrapDB(err, "game not found")
	}

	hidden, locked, err := s.statusFor(playerID, gameID, &exercise, &game)
	if err != nil {
		return nil, err
	}

	return &ExerciseDataResponse{
		Order:          exercise.Order,
		Title:          exercise.Title,
		Description:    exercise.Description,
		InitCode:       exercise.InitCode,
		PreCode:        exercise.PreCode,
		PostCode:       exercise.PostCode,
		TestCode:       exercise.TestCode,
		CheckSource:    exercise.CheckSource,
		Mode:           exercise.Mode,
		ModeParameters: json.RawMessage(exercise.ModeParameters),
		Difficulty:     exercise.Difficulty,
		Hidden:         hidden,
		Locked:         locked,
	}, nil
}

type CourseDataResponse struct {
	GamificationRuleConditions string  `json:"gamification_rule_conditions"`
	GamificationComplexRules   string  `json:"gamification_complex_rules"`
	GamificationRuleResults    string  `json:"gamification_rule_results"`
	ModuleIDs                  []int64 `json:"module_ids"`
}

// CourseData returns the course rule text for a game plus the module ids
// matching the requested language.
func (s *ProgressionService) CourseData(gameID int64, language string) (*CourseDataResponse, error) {
	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		return nil, utils.WrapDB(err, "game not found")
	}
	var course models.Course
	if err := s.DB.First(&course, game.CourseID).Error; err != nil {
		return nil, utils.WrapDB(err, "course not found")
	}

	moduleIDs := make([]int64, 0)
	if err := s.DB.Model(&models.Module{}).
		Where("course_id = ? AND language = ?", course.ID, language).
		Pluck("id", &moduleIDs).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list modules")
	}

	return &CourseDataResponse{
		GamificationRuleConditions: course.GamificationRuleConditions,
		GamificationComplexRules:   course.GamificationComplexRules,
		GamificationRuleResults:    course.GamificationRuleResults,
		ModuleIDs:                  moduleIDs,
	}, nil
}

type ModuleDataResponse struct {
	Order       int       `json:"order"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ExerciseIDs []int64   `json:"exercise_ids"`
}

// ModuleData returns module details and the exercise ids matching the
// requested language pair.
func (s *ProgressionService) ModuleData(moduleID int64, language, programmingLanguage string) (*ModuleDataResponse, error) {
	var module models.Module
	if err := s.DB.First(&module, moduleID).Error; err != nil {
		return nil, utils.WrapDB(err, "module not found")
	}

	exerciseIDs := make([]int64, 0)
	if err := s.DB.Model(&models.Exercise{}).
		Where("module_id = ? AND language = ? AND programming_language = ?",
			moduleID, language, programmingLanguage).
		Pluck("id", &exerciseIDs).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list exercises")
	}

	return &ModuleDataResponse{
		Order:       module.Order,
		Title:       module.Title,
		Description: module.Description,
		StartDate:   module.StartDate,
		EndDate:     module.EndDate,
		ExerciseIDs: exerciseIDs,
	}, nil
}

// UnlockExercise records an explicit unlock. The composite primary key
// makes repeats a silent no-op; broken references surface as 404.
func (s *ProgressionService) UnlockExercise(tx *gorm.DB, playerID, exerciseID int64) error {
	unlock := models.PlayerUnlock{PlayerID: playerID, ExerciseID: exerciseID, UnlockedAt: time.Now()}
	err := tx.Exec(
		`INSERT INTO player_unlocks (player_id, exercise_id, unlocked_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		unlock.PlayerID, unlock.ExerciseID, unlock.UnlockedAt,
	).Error
	if err != nil {
		return utils.WrapDB(err, "player or exercise not found")
	}
	return nil
}
