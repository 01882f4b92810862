// handlers/teacher_routes.go
package handlers

import (
	"strconv"

	"exercise-game-system/services"
	"exercise-game-system/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateGamePayload struct {
	InstructorID        int64   `json:"instructor_id"`
	Title               string  `json:"title" validate:"required"`
	Public              bool    `json:"public"`
	Active              bool    `json:"active"`
	Description         string  `json:"description"`
	CourseID            int64   `json:"course_id" validate:"required"`
	ProgrammingLanguage string  `json:"programming_language" validate:"required"`
	ModuleLock          float64 `json:"module_lock" validate:"gte=0,lte=1"`
	ExerciseLock        bool    `json:"exercise_lock"`
}

type ModifyGamePayload struct {
	InstructorID int64    `json:"instructor_id"`
	GameID       int64    `json:"game_id" validate:"required"`
	Title        *string  `json:"title"`
	Public       *bool    `json:"public"`
	Active       *bool    `json:"active"`
	Description  *string  `json:"description"`
	ModuleLock   *float64 `json:"module_lock"`
	ExerciseLock *bool    `json:"exercise_lock"`
}

type AddGameInstructorPayload struct {
	RequestingInstructorID int64 `json:"requesting_instructor_id"`
	GameID                 int64 `json:"game_id" validate:"required"`
	InstructorToAddID      int64 `json:"instructor_to_add_id" validate:"required"`
	IsOwner                bool  `json:"is_owner"`
}

type RemoveGameInstructorPayload struct {
	RequestingInstructorID int64 `json:"requesting_instructor_id"`
	GameID                 int64 `json:"game_id" validate:"required"`
	InstructorToRemoveID   int64 `json:"instructor_to_remove_id" validate:"required"`
}

type GameActivationPayload struct {
	InstructorID int64 `json:"instructor_id"`
	GameID       int64 `json:"game_id" validate:"required"`
}

type RemoveGameStudentPayload struct {
	InstructorID int64 `json:"instructor_id"`
	GameID       int64 `json:"game_id" validate:"required"`
	StudentID    int64 `json:"student_id" validate:"required"`
}

type CreateGroupPayload struct {
	InstructorID  int64   `json:"instructor_id"`
	DisplayName   string  `json:"display_name" validate:"required"`
	DisplayAvatar *string `json:"display_avatar"`
	MemberList    []int64 `json:"member_list"`
}

type DissolveGroupPayload struct {
	InstructorID int64 `json:"instructor_id"`
	GroupID      int64 `json:"group_id" validate:"required"`
}

type GroupMemberPayload struct {
	InstructorID int64 `json:"instructor_id"`
	GroupID      int64 `json:"group_id" validate:"required"`
	PlayerID     int64 `json:"player_id" validate:"required"`
}

type CreatePlayerPayload struct {
	InstructorID  int64   `json:"instructor_id"`
	Email         string  `json:"email" validate:"required,email"`
	DisplayName   string  `json:"display_name" validate:"required"`
	DisplayAvatar *string `json:"display_avatar"`
	GameID        *int64  `json:"game_id"`
	GroupID       *int64  `json:"group_id"`
	Language      *string `json:"language"`
}

type PlayerAdminPayload struct {
	InstructorID int64 `json:"instructor_id"`
	PlayerID     int64 `json:"player_id" validate:"required"`
}

type GenerateInviteLinkPayload struct {
	InstructorID int64  `json:"instructor_id"`
	GameID       *int64 `json:"game_id"`
	GroupID      *int64 `json:"group_id"`
}

type ProcessInviteLinkPayload struct {
	PlayerID int64  `json:"player_id" validate:"required"`
	UUID     string `json:"uuid" validate:"required,uuid4"`
}

type InviteLinkResponse struct {
	InviteUUID string `json:"invite_uuid"`
}

func SetupTeacherRoutes(app *fiber.App, games *services.GameService, groups *services.GroupService, players *services.PlayerService, stats *services.StatsService, invites *services.InviteService, rewards *services.RewardService) {
	teacher := app.Group("/teacher")

	teacher.Get("/get_instructor_games", func(c *fiber.Ctx) error {
		instructorID, ok := queryInt64(c, "instructor_id")
		if !ok {
			return utils.RespondBadRequest(c, "instructor_id is required")
		}
		ids, err := games.InstructorGames(instructorID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, ids)
	})

	teacher.Get("/get_instructor_game_metadata", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		if !okInstructor || !okGame {
			return utils.RespondBadRequest(c, "instructor_id and game_id are required")
		}
		metadata, err := games.InstructorGameMetadata(instructorID, gameID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, metadata)
	})

	teacher.Get("/list_students", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		if !okInstructor || !okGame {
			return utils.RespondBadRequest(c, "instructor_id and game_id are required")
		}
		var groupID *int64
		if id, ok := queryInt64(c, "group_id"); ok {
			groupID = &id
		}
		onlyActive := c.QueryBool("only_active")
		ids, err := stats.ListStudents(instructorID, gameID, groupID, onlyActive)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, ids)
	})

	teacher.Get("/get_student_progress", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		playerID, okPlayer := queryInt64(c, "player_id")
		if !okInstructor || !okGame || !okPlayer {
			return utils.RespondBadRequest(c, "instructor_id, game_id and player_id are required")
		}
		progress, err := stats.StudentProgress(instructorID, gameID, playerID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, progress)
	})

	teacher.Get("/get_student_exercises", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		playerID, okPlayer := queryInt64(c, "player_id")
		if !okInstructor || !okGame || !okPlayer {
			return utils.RespondBadRequest(c, "instructor_id, game_id and player_id are required")
		}
		exercises, err := stats.StudentExercises(instructorID, gameID, playerID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, exercises)
	})

	teacher.Get("/get_student_submissions", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		playerID, okPlayer := queryInt64(c, "player_id")
		if !okInstructor || !okGame || !okPlayer {
			return utils.RespondBadRequest(c, "instructor_id, game_id and player_id are required")
		}
		ids, err := stats.StudentSubmissions(instructorID, gameID, playerID, c.QueryBool("success_only"))
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, ids)
	})

	teacher.Get("/get_submission_data", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		submissionID, okSubmission := queryInt64(c, "submission_id")
		if !okInstructor || !okSubmission {
			return utils.RespondBadRequest(c, "instructor_id and submission_id are required")
		}
		data, err := stats.SubmissionData(instructorID, submissionID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, data)
	})

	teacher.Get("/get_exercise_stats", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		exerciseID, okExercise := queryInt64(c, "exercise_id")
		if !okInstructor || !okGame || !okExercise {
			return utils.RespondBadRequest(c, "instructor_id, game_id and exercise_id are required")
		}
		result, err := stats.ExerciseStats(instructorID, gameID, exerciseID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, result)
	})

	teacher.Get("/get_exercise_submissions", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		exerciseID, okExercise := queryInt64(c, "exercise_id")
		if !okInstructor || !okGame || !okExercise {
			return utils.RespondBadRequest(c, "instructor_id, game_id and exercise_id are required")
		}
		ids, err := stats.ExerciseSubmissions(instructorID, gameID, exerciseID, c.QueryBool("success_only"))
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, ids)
	})

	teacher.Post("/create_game", func(c *fiber.Ctx) error {
		var payload CreateGamePayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		gameID, err := games.CreateGame(services.CreateGameParams{
			InstructorID:        payload.InstructorID,
			Title:               payload.Title,
			Public:              payload.Public,
			Active:              payload.Active,
			Description:         payload.Description,
			CourseID:            payload.CourseID,
			ProgrammingLanguage: payload.ProgrammingLanguage,
			ModuleLock:          payload.ModuleLock,
			ExerciseLock:        payload.ExerciseLock,
		})
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, gameID)
	})

	teacher.Post("/modify_game", func(c *fiber.Ctx) error {
		var payload ModifyGamePayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		err := games.ModifyGame(services.ModifyGameParams{
			InstructorID: payload.InstructorID,
			GameID:       payload.GameID,
			Title:        payload.Title,
			Public:       payload.Public,
			Active:       payload.Active,
			Description:  payload.Description,
			ModuleLock:   payload.ModuleLock,
			ExerciseLock: payload.ExerciseLock,
		})
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/add_game_instructor", func(c *fiber.Ctx) error {
		var payload AddGameInstructorPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.AddGameInstructor(payload.RequestingInstructorID, payload.GameID, payload.InstructorToAddID, payload.IsOwner); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/remove_game_instructor", func(c *fiber.Ctx) error {
		var payload RemoveGameInstructorPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.RemoveGameInstructor(payload.RequestingInstructorID, payload.GameID, payload.InstructorToRemoveID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/activate_game", func(c *fiber.Ctx) error {
		var payload GameActivationPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.SetGameActive(payload.InstructorID, payload.GameID, true); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/stop_game", func(c *fiber.Ctx) error {
		var payload GameActivationPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.SetGameActive(payload.InstructorID, payload.GameID, false); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/remove_game_student", func(c *fiber.Ctx) error {
		var payload RemoveGameStudentPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.RemoveGameStudent(payload.InstructorID, payload.GameID, payload.StudentID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Get("/translate_email_to_player_id", func(c *fiber.Ctx) error {
		email := c.Query("email")
		if email == "" {
			return utils.RespondBadRequest(c, "email is required")
		}
		playerID, err := players.TranslateEmail(email)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, playerID)
	})

	teacher.Post("/create_group", func(c *fiber.Ctx) error {
		var payload CreateGroupPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		groupID, err := groups.CreateGroup(payload.InstructorID, payload.DisplayName, payload.DisplayAvatar, payload.MemberList)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, groupID)
	})

	teacher.Post("/dissolve_group", func(c *fiber.Ctx) error {
		var payload DissolveGroupPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := groups.DissolveGroup(payload.InstructorID, payload.GroupID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/add_group_member", func(c *fiber.Ctx) error {
		var payload GroupMemberPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := groups.AddGroupMember(payload.InstructorID, payload.GroupID, payload.PlayerID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/remove_group_member", func(c *fiber.Ctx) error {
		var payload GroupMemberPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := groups.RemoveGroupMember(payload.InstructorID, payload.GroupID, payload.PlayerID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/create_player", func(c *fiber.Ctx) error {
		var payload CreatePlayerPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		playerID, err := players.CreatePlayer(services.CreatePlayerParams{
			InstructorID:  payload.InstructorID,
			Email:         payload.Email,
			DisplayName:   payload.DisplayName,
			DisplayAvatar: payload.DisplayAvatar,
			Language:      payload.Language,
			GameID:        payload.GameID,
			GroupID:       payload.GroupID,
		})
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, playerID)
	})

	teacher.Post("/disable_player", func(c *fiber.Ctx) error {
		var payload PlayerAdminPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := players.DisablePlayer(payload.InstructorID, payload.PlayerID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/delete_player", func(c *fiber.Ctx) error {
		var payload PlayerAdminPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := players.DeletePlayer(payload.InstructorID, payload.PlayerID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/generate_invite_link", func(c *fiber.Ctx) error {
		var payload GenerateInviteLinkPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		token, err := invites.Generate(payload.InstructorID, payload.GameID, payload.GroupID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, InviteLinkResponse{InviteUUID: token})
	})

	teacher.Post("/process_invite_link", func(c *fiber.Ctx) error {
		var payload ProcessInviteLinkPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := invites.Redeem(payload.PlayerID, payload.UUID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	teacher.Post("/upload_group_avatar", func(c *fiber.Ctx) error {
		instructorID, err := strconv.ParseInt(c.FormValue("instructor_id"), 10, 64)
		if err != nil {
			return utils.RespondBadRequest(c, "instructor_id is required")
		}
		groupID, err := strconv.ParseInt(c.FormValue("group_id"), 10, 64)
		if err != nil {
			return utils.RespondBadRequest(c, "group_id is required")
		}
		file, err := c.FormFile("avatar")
		if err != nil {
			return utils.RespondBadRequest(c, "avatar file is required")
		}

		key := utils.ObjectKey("group-avatars", c.FormValue("group_id"), file.Filename)
		url, err := utils.UploadFile(file, key)
		if err != nil {
			return utils.RespondError(c, utils.Internalf("avatar upload failed: %v", err))
		}
		if err := groups.SetGroupAvatar(instructorID, groupID, url); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, url)
	})

	teacher.Post("/upload_reward_image", func(c *fiber.Ctx) error {
		instructorID, err := strconv.ParseInt(c.FormValue("instructor_id"), 10, 64)
		if err != nil {
			return utils.RespondBadRequest(c, "instructor_id is required")
		}
		rewardID, err := strconv.ParseInt(c.FormValue("reward_id"), 10, 64)
		if err != nil {
			return utils.RespondBadRequest(c, "reward_id is required")
		}
		file, err := c.FormFile("image")
		if err != nil {
			return utils.RespondBadRequest(c, "image file is required")
		}

		key := utils.ObjectKey("reward-images", c.FormValue("reward_id"), file.Filename)
		url, err := utils.UploadFile(file, key)
		if err != nil {
			return utils.RespondError(c, utils.Internalf("image upload failed: %v", err))
		}
		if err := rewards.SetRewardImage(instructorID, rewardID, url); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, url)
	})

	teacher.Get("/get_player_rewards", func(c *fiber.Ctx) error {
		instructorID, okInstructor := queryInt64(c, "instructor_id")
		gameID, okGame := queryInt64(c, "game_id")
		playerID, okPlayer := queryInt64(c, "player_id")
		if !okInstructor || !okGame || !okPlayer {
			return utils.RespondBadRequest(c, "instructor_id, game_id and player_id are required")
		}
		result, err := rewards.PlayerRewards(instructorID, gameID, playerID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, result)
	})
}
