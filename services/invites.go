// services/invites.go
package services

import (
	"log"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteService struct {
	DB        *gorm.DB
	Ownership *OwnershipService
}

func NewInviteService(db *gorm.DB, ownership *OwnershipService) *InviteService {
	return &InviteService{DB: db, Ownership: ownership}
}

// Generate creates an invite link token for a game or a group. Game invites
// need member-level access, group invites owner-level.
func (s *InviteService) Generate(instructorID int64, gameID, groupID *int64) (string, error) {
	if (gameID == nil) == (groupID == nil) {
		return "", utils.Unprocessablef("an invite targets exactly one of game or group")
	}

	if gameID != nil {
		if _, err := s.Ownership.RequireGamePermission(s.DB, instructorID, *gameID, false); err != nil {
			return "", err
		}
	} else {
		if _, err := s.Ownership.RequireGroupPermission(s.DB, instructorID, *groupID, true); err != nil {
			return "", err
		}
	}

	invite := models.Invite{
		UUID:         uuid.NewString(),
		InstructorID: instructorID,
		GameID:       gameID,
		GroupID:      groupID,
	}
	if err := s.DB.Create(&invite).Error; err != nil {
		return "", utils.WrapDB(err, "failed to create invite")
	}
	return invite.UUID, nil
}

// redeemSteps lists the rows a redemption still has to create.
type redeemSteps struct {
	Register bool
	Enroll   bool
}

// planRedemption keeps repeat redemptions idempotent: an existing
// registration suppresses the insert, and group enrollment always runs
// through its do-nothing upsert.
func planRedemption(invite *models.Invite, existingRegistrations int64) redeemSteps {
	return redeemSteps{
		Register: invite.GameID != nil && existingRegistrations == 0,
		Enroll:   invite.GroupID != nil,
	}
}

// Redeem joins the player to whatever the invite points at. Invites are
// reusable, so redemption never consumes the row, and a player already in
// the target still redeems successfully.
func (s *InviteService) Redeem(playerID int64, token string) error {
	var invite models.Invite
	if err := s.DB.Where("uuid = ?", token).First(&invite).Error; err != nil {
		return utils.WrapDB(err, "invite not found")
	}

	var player models.Player
	if err := s.DB.Select("id").First(&player, playerID).Error; err != nil {
		return utils.WrapDB(err, "player not found")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if invite.GameID != nil {
			if err := tx.Model(&models.PlayerRegistration{}).
				Where("player_id = ? AND game_id = ?", playerID, *invite.GameID).
				Count(&existing).Error; err != nil {
				return utils.WrapDB(err, "failed to check registration")
			}
		}
		steps := planRedemption(&invite, existing)

		if steps.Register {
			// the student can switch later via set_game_lang
			registration := models.PlayerRegistration{
				PlayerID: playerID,
				GameID:   *invite.GameID,
				Language: "en",
			}
			if err := tx.Create(&registration).Error; err != nil {
				return utils.WrapDB(err, "failed to register player")
			}
			log.Printf("✅ invite %s registered player %d in game %d", invite.UUID, playerID, *invite.GameID)
		}

		if steps.Enroll {
			err := tx.Exec(
				`INSERT INTO player_groups (player_id, group_id, joined_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
				playerID, *invite.GroupID, time.Now(),
			).Error
			if err != nil {
				return utils.WrapDB(err, "failed to join group")
			}
		}

		return nil
	})
}
