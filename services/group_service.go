// services/group_service.go
package services

import (
	"log"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

type GroupService struct {
	DB        *gorm.DB
	Ownership *OwnershipService
}

func NewGroupService(db *gorm.DB, ownership *OwnershipService) *GroupService {
	return &GroupService{DB: db, Ownership: ownership}
}

// CreateGroup creates a named student group owned by the instructor and
// enrolls the initial member list. Every listed player must exist; the
// display name is globally unique.
func (s *GroupService) CreateGroup(instructorID int64, displayName string, displayAvatar *string, memberList []int64) (int64, error) {
	var group models.Group

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Group{}).
			Where("display_name = ?", displayName).
			Count(&taken).Error; err != nil {
			return utils.WrapDB(err, "failed to check group name")
		}
		if taken > 0 {
			return utils.Conflictf("group name %q is already taken", displayName)
		}

		if len(memberList) > 0 {
			var existing int64
			if err := tx.Model(&models.Player{}).
				Where("id IN ?", memberList).
				Count(&existing).Error; err != nil {
				return utils.WrapDB(err, "failed to check members")
			}
			if int(existing) != len(memberList) {
				return utils.NotFoundf("one or more listed players do not exist")
			}
		}

		group = models.Group{DisplayName: displayName, DisplayAvatar: displayAvatar}
		if err := tx.Create(&group).Error; err != nil {
			return utils.WrapDB(err, "failed to create group")
		}

		ownership := models.GroupOwnership{GroupID: group.ID, InstructorID: instructorID, Owner: true}
		if err := tx.Create(&ownership).Error; err != nil {
			return utils.WrapDB(err, "failed to record group ownership")
		}

		now := time.Now()
		for _, playerID := range memberList {
			membership := models.PlayerGroup{PlayerID: playerID, GroupID: group.ID, JoinedAt: now}
			if err := tx.Create(&membership).Error; err != nil {
				return utils.WrapDB(err, "failed to enroll group member")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ instructor %d created group %d (%s)", instructorID, group.ID, displayName)
	return group.ID, nil
}

// DissolveGroup deletes the group and everything hanging off it. Owner-only.
func (s *GroupService) DissolveGroup(instructorID, groupID int64) error {
	if _, err := s.Ownership.RequireGroupPermission(s.DB, instructorID, groupID, true); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.PlayerGroup{}).Error; err != nil {
			return utils.WrapDB(err, "failed to remove group members")
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Invite{}).Error; err != nil {
			return utils.WrapDB(err, "failed to remove group invites")
		}
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupOwnership{}).Error; err != nil {
			return utils.WrapDB(err, "failed to remove group ownerships")
		}
		if err := tx.Delete(&models.Group{}, groupID).Error; err != nil {
			return utils.WrapDB(err, "failed to delete group")
		}
		log.Printf("🚫 group %d dissolved by instructor %d", groupID, instructorID)
		return nil
	})
}

// AddGroupMember enrolls a player, ignoring repeats. Owner-only.
func (s *GroupService) AddGroupMember(instructorID, groupID, playerID int64) error {
	if _, err := s.Ownership.RequireGroupPermission(s.DB, instructorID, groupID, true); err != nil {
		return err
	}
	var player models.Player
	if err := s.DB.First(&player, playerID).Error; err != nil {
		return utils.WrapDB(err, "player not found")
	}

	err := s.DB.Exec(
		`INSERT INTO player_groups (player_id, group_id, joined_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		playerID, groupID, time.Now(),
	).Error
	if err != nil {
		return utils.WrapDB(err, "failed to add group member")
	}
	return nil
}

// RemoveGroupMember drops a player from the group. Owner-only.
func (s *GroupService) RemoveGroupMember(instructorID, groupID, playerID int64) error {
	if _, err := s.Ownership.RequireGroupPermission(s.DB, instructorID, groupID, true); err != nil {
		return err
	}
	result := s.DB.Where("group_id = ? AND player_id = ?", groupID, playerID).
		Delete(&models.PlayerGroup{})
	if result.Error != nil {
		return utils.WrapDB(result.Error, "failed to remove group member")
	}
	if result.RowsAffected == 0 {
		return utils.NotFoundf("player %d is not a member of group %d", playerID, groupID)
	}
	return nil
}

// GroupMembers lists current member ids. Member-level access suffices.
func (s *GroupService) GroupMembers(instructorID, groupID int64) ([]int64, error) {
	if _, err := s.Ownership.RequireGroupPermission(s.DB, instructorID, groupID, false); err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	if err := s.DB.Model(&models.PlayerGroup{}).
		Where("group_id = ? AND left_at IS NULL", groupID).
		Pluck("player_id", &ids).Error; err != nil {
		return nil, utils.WrapDB(err, "failed to list group members")
	}
	return ids, nil
}

// SetGroupAvatar stores the uploaded avatar URL. Member-level access suffices.
func (s *GroupService) SetGroupAvatar(instructorID, groupID int64, avatarURL string) error {
	if _, err := s.Ownership.RequireGroupPermission(s.DB, instructorID, groupID, false); err != nil {
		return err
	}
	if err := s.DB.Model(&models.Group{}).Where("id = ?", groupID).
		Update("display_avatar", avatarURL).Error; err != nil {
		return utils.WrapDB(err, "failed to set group avatar")
	}
	return nil
}
