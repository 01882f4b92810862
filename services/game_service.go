// services/game_service.go
package services

import (
	"context"
	"log"
	"strings"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type GameService struct {
	DB        *gorm.DB
	Ownership *OwnershipService
}

func NewGameService(db *gorm.DB, ownership *OwnershipService) *GameService {
	return &GameService{DB: db, Ownership: ownership}
}

const availableGamesTTL = 5 * time.Minute

// AvailableGames lists games any student may browse: public and active.
// The id list is served from redis when the cache is warm.
func (s *GameService) AvailableGames(ctx context.Context) ([]int64, error) {
	if ids, ok := utils.CacheGetIDs(ctx, utils.AvailableGamesKey); ok {
		return ids, nil
	}

	ids := make([]int64, 0)
	if err := s.DB.Model(&models.Game{}).
		Where("public AND active").
		Pluck("id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list available games")
	}
	utils.CacheSetIDs(ctx, utils.AvailableGamesKey, ids, availableGamesTTL)
	return ids, nil
}

// JoinGame registers a player in a game. A missing player or game surfaces
// through the foreign keys; joining twice hits the unique registration index.
func (s *GameService) JoinGame(playerID, gameID int64, language string) (int64, error) {
	registration := models.PlayerRegistration{
		PlayerID: playerID,
		GameID:   gameID,
		Language: language,
	}
	if err := s.DB.Create(&registration).Error; err != nil {
		return 0, utils.WrapDB(err, "failed to join game")
	}
	log.Printf("✅ player %d joined game %d", playerID, gameID)
	return registration.ID, nil
}

// LeaveGame marks the registration as left without deleting history.
func (s *GameService) LeaveGame(playerID, gameID int64) error {
	result := s.DB.Model(&models.PlayerRegistration{}).
		Where("player_id = ? AND game_id = ? AND left_at IS NULL", playerID, gameID).
		Update("left_at", time.Now())
	if result.Error != nil {
		return utils.WrapDB(result.Error, "failed to leave game")
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("no active registration for player %d in game %d", playerID, gameID)
	}
	return nil
}

// SaveGame overwrites the client-side state blob for the registration.
func (s *GameService) SaveGame(registrationID int64, gameState string) error {
	result := s.DB.Model(&models.PlayerRegistration{}).
		Where("id = ?", registrationID).
		Updates(map[string]interface{}{
			"game_state": gameState,
			"saved_at":   time.Now(),
		})
	if result.Error != nil {
		return utils.WrapDB(result.Error, "failed to save game state")
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("registration %d not found", registrationID)
	}
	return nil
}

// LoadGame returns the last saved state blob for the registration.
func (s *GameService) LoadGame(registrationID int64) (string, error) {
	var registration models.PlayerRegistration
	if err := s.DB.First(&registration, registrationID).Error; err != nil {
		return "", utils.WrapDB(err, "registration not found")
	}
	return registration.GameState, nil
}

// SetGameLanguage switches the registration language, restricted to the
// languages the game's course is authored in.
func (s *GameService) SetGameLanguage(playerID, gameID int64, language string) error {
	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		return utils.WrapDB(err, "game not found")
	}
	var course models.Course
	if err := s.DB.First(&course, game.CourseID).Error; err != nil {
		return utils.WrapDB(err, "course not found")
	}

	supported := false
	for _, lang := range strings.Split(course.Languages, ",") {
		if strings.TrimSpace(lang) == language {
			supported = true
			break
		}
	}
	if !supported {
		return utils.Unprocessablef("language %q is not offered by this course", language)
	}

	result := s.DB.Model(&models.PlayerRegistration{}).
		Where("player_id = ? AND game_id = ? AND left_at IS NULL", playerID, gameID).
		Update("language", language)
	if result.Error != nil {
		return utils.WrapDB(result.Error, "failed to set language")
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("no active registration for player %d in game %d", playerID, gameID)
	}
	return nil
}

// PlayerGames lists game ids the player is registered in. With active set,
// only open registrations in still-active games count.
func (s *GameService) PlayerGames(playerID int64, active bool) ([]int64, error) {
	query := s.DB.Model(&models.PlayerRegistration{}).
		Where("player_registrations.player_id = ?", playerID)
	if active {
		query = query.
			Joins("JOIN games ON games.id = player_registrations.game_id").
			Where("player_registrations.left_at IS NULL AND games.active")
	}

	ids := make([]int64, 0)
	if err := query.Pluck("player_registrations.game_id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list player games")
	}
	return ids, nil
}

type GameMetadata struct {
	RegistrationID int64      `json:"registration_id"`
	Progress       int        `json:"progress"`
	JoinedAt       time.Time  `json:"joined_at"`
	LeftAt         *time.Time `json:"left_at"`
	Language       string     `json:"language"`

	GameID                  int64     `json:"game_id"`
	GameTitle               string    `json:"game_title"`
	GameActive              bool      `json:"game_active"`
	GameDescription         string    `json:"game_description"`
	GameProgrammingLanguage string    `json:"game_programming_language"`
	GameTotalExercises      int       `json:"game_total_exercises"`
	GameStartDate           time.Time `json:"game_start_date"`
	GameEndDate             time.Time `json:"game_end_date"`
}

// GameMetadata joins a registration with its game for the student overview.
func (s *GameService) GameMetadata(registrationID int64) (*GameMetadata, error) {
	var registration models.PlayerRegistration
	if err := s.DB.First(&registration, registrationID).Error; err != nil {
		return nil, utils.WrapDB(err, "registration not found")
	}
	var game models.Game
	if err := s.DB.First(&game, registration.GameID).Error; err != nil {
		return nil, utils.WrapDB(err, "game not found")
	}

	return &GameMetadata{
		RegistrationID:          registration.ID,
		Progress:                registration.Progress,
		JoinedAt:                registration.JoinedAt,
		LeftAt:                  registration.LeftAt,
		Language:                registration.Language,
		GameID:                  game.ID,
		GameTitle:               game.Title,
		GameActive:              game.Active,
		GameDescription:         game.Description,
		GameProgrammingLanguage: game.ProgrammingLanguage,
		GameTotalExercises:      game.TotalExercises,
		GameStartDate:           game.StartDate,
		GameEndDate:             game.EndDate,
	}, nil
}

type CreateGameParams struct {
	InstructorID        int64
	Title               string
	Public              bool
	Active              bool
	Description         string
	CourseID            int64
	ProgrammingLanguage string
	ModuleLock          float64
	ExerciseLock        bool
	StartDate           *time.Time
	EndDate             *time.Time
}

// CreateGame builds a game over a course the instructor can access and makes
// the creator the game's owner. The exercise total is counted up front so
// progress math never re-scans the course.
func (s *GameService) CreateGame(p CreateGameParams) (int64, error) {
	if _, err := s.Ownership.RequireCoursePermission(s.DB, p.InstructorID, p.CourseID, false); err != nil {
		return 0, err
	}

	var total int64
	err := s.DB.Model(&models.Exercise{}).
		Joins("JOIN modules ON modules.id = exercises.module_id").
		Where("modules.course_id = ? AND exercises.programming_language = ?", p.CourseID, p.ProgrammingLanguage).
		Count(&total).Error
	if err != nil {
		return 0, utils.WrapDB(err, "failed to count course exercises")
	}

	now := time.Now()
	game := models.Game{
		Title:               p.Title,
		Public:              p.Public,
		Active:              p.Active,
		Description:         p.Description,
		CourseID:            p.CourseID,
		ProgrammingLanguage: p.ProgrammingLanguage,
		ModuleLock:          p.ModuleLock,
		ExerciseLock:        p.ExerciseLock,
		TotalExercises:      int(total),
		StartDate:           now,
		EndDate:             now.AddDate(1, 0, 0),
	}
	if p.StartDate != nil {
		game.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		game.EndDate = *p.EndDate
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return utils.WrapDB(err, "failed to create game")
		}
		ownership := models.GameOwnership{GameID: game.ID, InstructorID: p.InstructorID, Owner: true}
		if err := tx.Create(&ownership).Error; err != nil {
			return utils.WrapDB(err, "failed to record game ownership")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	utils.CacheInvalidate(context.Background(), utils.AvailableGamesKey)
	log.Printf("✅ instructor %d created game %d (%s)", p.InstructorID, game.ID, game.Title)
	return game.ID, nil
}

type ModifyGameParams struct {
	InstructorID int64
	GameID       int64
	Title        *string
	Public       *bool
	Active       *bool
	Description  *string
	ModuleLock   *float64
	ExerciseLock *bool
	StartDate    *time.Time
	EndDate      *time.Time
}

// ModifyGame applies the provided fields only. Member-level access suffices,
// except flipping activation, which stays an owner decision.
func (s *GameService) ModifyGame(p ModifyGameParams) error {
	requireOwner := p.Active != nil
	if _, err := s.Ownership.RequireGamePermission(s.DB, p.InstructorID, p.GameID, requireOwner); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if p.Active != nil {
		updates["active"] = *p.Active
	}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Public != nil {
		updates["public"] = *p.Public
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.ModuleLock != nil {
		updates["module_lock"] = *p.ModuleLock
	}
	if p.ExerciseLock != nil {
		updates["exercise_lock"] = *p.ExerciseLock
	}
	if p.StartDate != nil {
		updates["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		updates["end_date"] = *p.EndDate
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.DB.Model(&models.Game{}).Where("id = ?", p.GameID).
		Updates(updates).Error; err != nil {
		return utils.WrapDB(err, "failed to modify game")
	}
	utils.CacheInvalidate(context.Background(), utils.AvailableGamesKey)
	return nil
}

// SetGameActive flips game activation. Owner-only.
func (s *GameService) SetGameActive(instructorID, gameID int64, active bool) error {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, true); err != nil {
		return err
	}
	if err := s.DB.Model(&models.Game{}).Where("id = ?", gameID).
		Update("active", active).Error; err != nil {
		return utils.WrapDB(err, "failed to update game activation")
	}
	utils.CacheInvalidate(context.Background(), utils.AvailableGamesKey)
	if active {
		log.Printf("✅ game %d activated by instructor %d", gameID, instructorID)
	} else {
		log.Printf("🚫 game %d stopped by instructor %d", gameID, instructorID)
	}
	return nil
}

// AddGameInstructor grants another instructor member access. Owner-only.
func (s *GameService) AddGameInstructor(instructorID, gameID, newInstructorID int64, owner bool) error {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, true); err != nil {
		return err
	}
	ownership := models.GameOwnership{GameID: gameID, InstructorID: newInstructorID, Owner: owner}
	if err := s.DB.Create(&ownership).Error; err != nil {
		return utils.WrapDB(err, "failed to add game instructor")
	}
	return nil
}

// RemoveGameInstructor revokes an instructor's access. Owner-only.
func (s *GameService) RemoveGameInstructor(instructorID, gameID, removedInstructorID int64) error {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, true); err != nil {
		return err
	}
	result := s.DB.Where("game_id = ? AND instructor_id = ?", gameID, removedInstructorID).
		Delete(&models.GameOwnership{})
	if result.Error != nil {
		return utils.WrapDB(result.Error, "failed to remove game instructor")
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("instructor %d has no access to game %d", removedInstructorID, gameID)
	}
	return nil
}

// RemoveGameStudent drops a student's registration from a game entirely,
// along with their submissions in it. Member-level access suffices.
func (s *GameService) RemoveGameStudent(instructorID, gameID, playerID int64) error {
	if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false); err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ? AND player_id = ?", gameID, playerID).
			Delete(&models.Submission{}).Error; err != nil {
			return utils.WrapDB(err, "failed to remove student submissions")
		}
		result := tx.Where("game_id = ? AND player_id = ?", gameID, playerID).
			Delete(&models.PlayerRegistration{})
		if result.Error != nil {
			return utils.WrapDB(result.Error, "failed to remove registration")
		}
		if result.RowsAffected == 0 {
			return utils.NotFoundf("player %d is not registered in game %d", playerID, gameID)
		}
		return nil
	})
}

// InstructorGames lists game ids the instructor can see. The admin sees all.
func (s *GameService) InstructorGames(instructorID int64) ([]int64, error) {
	ids := make([]int64, 0)
	if instructorID == models.AdminInstructorID {
		if err := s.DB.Model(&models.Game{}).Pluck("id", &ids).Error; err != nil {
			return nil, utils.WrapDB(err, "failed to list games")
		}
		return ids, nil
	}
	if err := s.DB.Model(&models.GameOwnership{}).
		Where("instructor_id = ?", instructorID).
		Pluck("game_id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list instructor games")
	}
	return ids, nil
}

type InstructorGameMetadata struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Active         bool      `json:"active"`
	Public         bool      `json:"public"`
	TotalExercises int       `json:"total_exercises"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	IsOwner        bool      `json:"is_owner"`
	PlayerCount    int64     `json:"player_count"`
}

// InstructorGameMetadata returns the teacher-side view of a game, including
// whether the caller owns it and how many students are registered.
func (s *GameService) InstructorGameMetadata(instructorID, gameID int64) (*InstructorGameMetadata, error) {
	role, err := s.Ownership.RequireGamePermission(s.DB, instructorID, gameID, false)
	if err != nil {
		return nil, err
	}

	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		return nil, utils.WrapDB(err, "game not found")
	}

	var playerCount int64
	if err := s.DB.Model(&models.PlayerRegistration{}).
		Where("game_id = ? AND left_at IS NULL", gameID).
		Count(&playerCount).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to count players")
	}

	return &InstructorGameMetadata{
		Title:          game.Title,
		Description:    game.Description,
		Active:         game.Active,
		Public:         game.Public,
		TotalExercises: game.TotalExercises,
		StartDate:      game.StartDate,
		EndDate:        game.EndDate,
		IsOwner:        role == RoleOwner || role == RoleAdmin,
		PlayerCount:    playerCount,
	}, nil
}
