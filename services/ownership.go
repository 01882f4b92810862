// services/ownership.go
package services

import (
	"errors"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"gorm.io/gorm"
)

// Role is an instructor's resolved capability on one resource, computed once
// per request instead of comparing the admin id inline at every check.
type Role int

const (
	RoleNone Role = iota
	RoleMember
	RoleOwner
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	case RoleMember:
		return "member"
	default:
		return "none"
	}
}

// Allows reports whether the role satisfies an operation's owner requirement.
func (r Role) Allows(requireOwner bool) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleOwner:
		return true
	case RoleMember:
		return !requireOwner
	default:
		return false
	}
}

type OwnershipService struct {
	DB *gorm.DB
}

func NewOwnershipService(db *gorm.DB) *OwnershipService {
	return &OwnershipService{DB: db}
}

// resolveRole turns an ownership-edge lookup into a Role. Lookup failures
// other than a missing row fail closed as RoleNone with the error attached
// so callers never treat a broken lookup as authorized.
func resolveRole(instructorID int64, owner bool, err error) (Role, error) {
	if instructorID == models.AdminInstructorID {
		return RoleAdmin, nil
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RoleNone, nil
		}
		return RoleNone, err
	}
	if owner {
		return RoleOwner, nil
	}
	return RoleMember, nil
}

// ResolveGameRole resolves the instructor's role on a game. The admin
// identity short-circuits before any lookup.
func (s *OwnershipService) ResolveGameRole(tx *gorm.DB, instructorID, gameID int64) (Role, error) {
	if instructorID == models.AdminInstructorID {
		return RoleAdmin, nil
	}
	var edge models.GameOwnership
	err := tx.Where("game_id = ? AND instructor_id = ?", gameID, instructorID).First(&edge).Error
	return resolveRole(instructorID, edge.Owner, err)
}

func (s *OwnershipService) ResolveCourseRole(tx *gorm.DB, instructorID, courseID int64) (Role, error) {
	if instructorID == models.AdminInstructorID {
		return RoleAdmin, nil
	}
	var edge models.CourseOwnership
	err := tx.Where("course_id = ? AND instructor_id = ?", courseID, instructorID).First(&edge).Error
	return resolveRole(instructorID, edge.Owner, err)
}

func (s *OwnershipService) ResolveGroupRole(tx *gorm.DB, instructorID, groupID int64) (Role, error) {
	if instructorID == models.AdminInstructorID {
		return RoleAdmin, nil
	}
	var edge models.GroupOwnership
	err := tx.Where("group_id = ? AND instructor_id = ?", groupID, instructorID).First(&edge).Error
	return resolveRole(instructorID, edge.Owner, err)
}

// Authorize enforces a resolved role against an operation's owner flag.
func Authorize(role Role, requireOwner bool) error {
	if role.Allows(requireOwner) {
		return nil
	}
	if role == RoleNone {
		return utils.Forbiddenf("instructor has no access to this resource")
	}
	return utils.Forbiddenf("operation requires owner rights")
}

// RequireGamePermission checks game existence first (404), then resolves the
// role and enforces the owner flag (403 on denial).
func (s *OwnershipService) RequireGamePermission(tx *gorm.DB, instructorID, gameID int64, requireOwner bool) (Role, error) {
	var game models.Game
	if err := tx.Select("id").First(&game, gameID).Error; err != nil {
		return RoleNone, utils.WrapDB(err, "game not found")
	}
	role, err := s.ResolveGameRole(tx, instructorID, gameID)
	if err != nil {
		return RoleNone, utils.WrapDB(err, "failed to resolve game role")
	}
	return role, Authorize(role, requireOwner)
}

func (s *OwnershipService) RequireGroupPermission(tx *gorm.DB, instructorID, groupID int64, requireOwner bool) (Role, error) {
	var group models.Group
	if err := tx.Select("id").First(&group, groupID).Error; err != nil {
		return RoleNone, utils.WrapDB(err, "group not found")
	}
	role, err := s.ResolveGroupRole(tx, instructorID, groupID)
	if err != nil {
		return RoleNone, utils.WrapDB(err, "failed to resolve group role")
	}
	return role, Authorize(role, requireOwner)
}

func (s *OwnershipService) RequireCoursePermission(tx *gorm.DB, instructorID, courseID int64, requireOwner bool) (Role, error) {
	var course models.Course
	if err := tx.Select("id").First(&course, courseID).Error; err != nil {
		return RoleNone, utils.WrapDB(err, "course not found")
	}
	role, err := s.ResolveCourseRole(tx, instructorID, courseID)
	if err != nil {
		return RoleNone, utils.WrapDB(err, "failed to resolve course role")
	}
	return role, Authorize(role, requireOwner)
}

// RequireExercisePermission authorizes an exercise operation transitively
// through its module's owning course.
func (s *OwnershipService) RequireExercisePermission(tx *gorm.DB, instructorID, exerciseID int64, requireOwner bool) (Role, error) {
	var exercise models.Exercise
	if err := tx.Select("id", "module_id").First(&exercise, exerciseID).Error; err != nil {
		return RoleNone, utils.WrapDB(err, "exercise not found")
	}
	var module models.Module
	if err := tx.Select("id", "course_id").First(&module, exercise.ModuleID).Error; err != nil {
		return RoleNone, utils.WrapDB(err, "module not found")
	}
	return s.RequireCoursePermission(tx, instructorID, module.CourseID, requireOwner)
}
