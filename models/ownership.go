// models/ownership.go
package models

// Ownership edges tie instructors to the resources they may act on. A
// resource can have several instructors; only rows with Owner=true may
// grant/revoke other instructors or dissolve the resource. The composite
// primary key doubles as the uniqueness guarantee for grants.

type CourseOwnership struct {
	CourseID     int64 `json:"course_id" gorm:"primaryKey;autoIncrement:false"`
	InstructorID int64 `json:"instructor_id" gorm:"primaryKey;autoIncrement:false"`
	Owner        bool  `json:"owner" gorm:"default:false"`
}

func (CourseOwnership) TableName() string { return "course_ownership" }

type GameOwnership struct {
	GameID       int64 `json:"game_id" gorm:"primaryKey;autoIncrement:false"`
	InstructorID int64 `json:"instructor_id" gorm:"primaryKey;autoIncrement:false"`
	Owner        bool  `json:"owner" gorm:"default:false"`
}

func (GameOwnership) TableName() string { return "game_ownership" }

type GroupOwnership struct {
	GroupID      int64 `json:"group_id" gorm:"primaryKey;autoIncrement:false"`
	InstructorID int64 `json:"instructor_id" gorm:"primaryKey;autoIncrement:false"`
	Owner        bool  `json:"owner" gorm:"default:false"`
}

func (GroupOwnership) TableName() string { return "group_ownership" }
