// services/player_service.go
package services

import (
	"log"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type PlayerService struct {
	DB        *gorm.DB
	Ownership *OwnershipService
}

func NewPlayerService(db *gorm.DB, ownership *OwnershipService) *PlayerService {
	return &PlayerService{DB: db, Ownership: ownership}
}

type CreatePlayerParams struct {
	InstructorID  int64
	Email         string
	DisplayName   string
	DisplayAvatar *string
	Language      *string
	GameID        *int64
	GroupID       *int64
}

// CreatePlayer provisions an account, optionally straight into a game or
// group. The context also decides who may call it: a game context needs
// member access to that game, a group context owner access to that group,
// and without either only the admin may create players.
func (s *PlayerService) CreatePlayer(p CreatePlayerParams) (int64, error) {
	switch {
	case p.GameID != nil:
		if _, err := s.Ownership.RequireGamePermission(s.DB, p.InstructorID, *p.GameID, false); err != nil {
			return 0, err
		}
	case p.GroupID != nil:
		if _, err := s.Ownership.RequireGroupPermission(s.DB, p.InstructorID, *p.GroupID, true); err != nil {
			return 0, err
		}
	default:
		if p.InstructorID != models.AdminInstructorID {
			return 0, utils.Forbiddenf("only the admin may create players without a game or group context")
		}
	}

	language := "en"
	if p.Language != nil {
		language = *p.Language
	}

	player := models.Player{
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		DisplayAvatar: p.DisplayAvatar,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&player).Error; err != nil {
			return utils.WrapDB(err, "player email is already taken")
		}

		if p.GameID != nil {
			registration := models.PlayerRegistration{
				PlayerID: player.ID,
				GameID:   *p.GameID,
				Language: language,
			}
			if err := tx.Create(&registration).Error; err != nil {
				return utils.WrapDB(err, "failed to register new player")
			}
		}

		if p.GroupID != nil {
			err := tx.Exec(
				`INSERT INTO player_groups (player_id, group_id, joined_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
				player.ID, *p.GroupID, time.Now(),
			).Error
			if err != nil {
				return utils.WrapDB(err, "failed to enroll new player")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ created player %d (%s)", player.ID, player.Email)
	return player.ID, nil
}

// DisablePlayer flags the account as disabled. Admin-only.
func (s *PlayerService) DisablePlayer(instructorID, playerID int64) error {
	if instructorID != models.AdminInstructorID {
		return utils.Forbiddenf("only the admin may disable players")
	}
	result := s.DB.Model(&models.Player{}).Where("id = ?", playerID).
		Update("disabled", true)
	if result.Error != nil {
		return utils.WrapDB(result.Error, "failed to disable player")
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("player %d not found", playerID)
	}
	log.Printf("🚫 player %d disabled", playerID)
	return nil
}

// DeletePlayer erases the account and all dependent rows in one
// transaction, children first so the foreign keys stay satisfied.
func (s *PlayerService) DeletePlayer(instructorID, playerID int64) error {
	if instructorID != models.AdminInstructorID {
		return utils.Forbiddenf("only the admin may delete players")
	}
	var player models.Player
	if err := s.DB.First(&player, playerID).Error; err != nil {
		return utils.WrapDB(err, "player not found")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, step := range []struct {
			model interface{}
			desc  string
		}{
			{&models.Submission{}, "submissions"},
			{&models.PlayerRegistration{}, "registrations"},
			{&models.PlayerGroup{}, "group memberships"},
			{&models.PlayerReward{}, "rewards"},
			{&models.PlayerUnlock{}, "unlocks"},
		} {
			if err := tx.Where("player_id = ?", playerID).Delete(step.model).Error; err != nil {
				return utils.WrapDB(err, "failed to delete player "+step.desc)
			}
		}
		if err := tx.Delete(&models.Player{}, playerID).Error; err != nil {
			return utils.WrapDB(err, "failed to delete player")
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🚫 player %d deleted", playerID)
	return nil
}

// TranslateEmail resolves a player id from an email address.
func (s *PlayerService) TranslateEmail(email string) (int64, error) {
	var player models.Player
	if err := s.DB.Where("email = ?", email).First(&player).Error; err != nil {
		return 0, utils.WrapDB(err, "no player with that email")
	}
	return player.ID, nil
}
