// handlers/student_routes.go
package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"exercise-game-system/services"
	"exercise-game-system/utils"

	"github.com/gofiber/fiber/v2"
)

type JoinGamePayload struct {
	PlayerID int64  `json:"player_id" validate:"required"`
	GameID   int64  `json:"game_id" validate:"required"`
	Language string `json:"language" validate:"required"`
}

type SaveGamePayload struct {
	PlayerRegistrationsID int64           `json:"player_registrations_id" validate:"required"`
	GameState             json.RawMessage `json:"game_state" validate:"required"`
}

type LoadGamePayload struct {
	PlayerRegistrationsID int64 `json:"player_registrations_id" validate:"required"`
}

type LeaveGamePayload struct {
	PlayerID int64 `json:"player_id" validate:"required"`
	GameID   int64 `json:"game_id" validate:"required"`
}

type SetGameLangPayload struct {
	PlayerID int64  `json:"player_id" validate:"required"`
	GameID   int64  `json:"game_id" validate:"required"`
	Language string `json:"language" validate:"required"`
}

type SubmitSolutionPayload struct {
	PlayerID          int64           `json:"player_id" validate:"required"`
	ExerciseID        int64           `json:"exercise_id" validate:"required"`
	GameID            int64           `json:"game_id" validate:"required"`
	Client            string          `json:"client"`
	SubmittedCode     string          `json:"submitted_code"`
	Metrics           json.RawMessage `json:"metrics"`
	Result            float64         `json:"result"`
	ResultDescription json.RawMessage `json:"result_description"`
	Feedback          string          `json:"feedback"`
	EnteredAt         time.Time       `json:"entered_at"`
	EarnedRewards     []int64         `json:"earned_rewards"`
}

type UnlockPayload struct {
	PlayerID   int64 `json:"player_id" validate:"required"`
	ExerciseID int64 `json:"exercise_id" validate:"required"`
}

func queryInt64(c *fiber.Ctx, name string) (int64, bool) {
	value, err := strconv.ParseInt(c.Query(name), 10, 64)
	return value, err == nil
}

func SetupStudentRoutes(app *fiber.App, games *services.GameService, progression *services.ProgressionService, grader *services.GraderService) {
	student := app.Group("/student")

	student.Get("/get_available_games", func(c *fiber.Ctx) error {
		ids, err := games.AvailableGames(c.Context())
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, ids)
	})

	student.Post("/join_game", func(c *fiber.Ctx) error {
		var payload JoinGamePayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		registrationID, err := games.JoinGame(payload.PlayerID, payload.GameID, payload.Language)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, registrationID)
	})

	student.Post("/save_game", func(c *fiber.Ctx) error {
		var payload SaveGamePayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.SaveGame(payload.PlayerRegistrationsID, string(payload.GameState)); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	student.Post("/load_game", func(c *fiber.Ctx) error {
		var payload LoadGamePayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		state, err := games.LoadGame(payload.PlayerRegistrationsID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, json.RawMessage(state))
	})

	student.Post("/leave_game", func(c *fiber.Ctx) error {
		var payload LeaveGamePayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.LeaveGame(payload.PlayerID, payload.GameID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	student.Post("/set_game_lang", func(c *fiber.Ctx) error {
		var payload SetGameLangPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := games.SetGameLanguage(payload.PlayerID, payload.GameID, payload.Language); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	student.Get("/get_player_games", func(c *fiber.Ctx) error {
		playerID, ok := queryInt64(c, "player_id")
		if !ok {
			return utils.RespondBadRequest(c, "player_id is required")
		}
		active := c.QueryBool("active")
		ids, err := games.PlayerGames(playerID, active)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, ids)
	})

	student.Get("/get_game_metadata/:registration_id", func(c *fiber.Ctx) error {
		registrationID, err := strconv.ParseInt(c.Params("registration_id"), 10, 64)
		if err != nil {
			return utils.RespondBadRequest(c, "registration_id must be an integer")
		}
		metadata, err := games.GameMetadata(registrationID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, metadata)
	})

	student.Get("/get_course_data", func(c *fiber.Ctx) error {
		gameID, ok := queryInt64(c, "game_id")
		if !ok {
			return utils.RespondBadRequest(c, "game_id is required")
		}
		language := c.Query("language")
		if language == "" {
			return utils.RespondBadRequest(c, "language is required")
		}
		data, err := progression.CourseData(gameID, language)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, data)
	})

	student.Get("/get_module_data", func(c *fiber.Ctx) error {
		moduleID, ok := queryInt64(c, "module_id")
		if !ok {
			return utils.RespondBadRequest(c, "module_id is required")
		}
		language := c.Query("language")
		programmingLanguage := c.Query("programming_language")
		if language == "" || programmingLanguage == "" {
			return utils.RespondBadRequest(c, "language and programming_language are required")
		}
		data, err := progression.ModuleData(moduleID, language, programmingLanguage)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, data)
	})

	student.Get("/get_exercise_data", func(c *fiber.Ctx) error {
		exerciseID, okExercise := queryInt64(c, "exercise_id")
		gameID, okGame := queryInt64(c, "game_id")
		playerID, okPlayer := queryInt64(c, "player_id")
		if !okExercise || !okGame || !okPlayer {
			return utils.RespondBadRequest(c, "exercise_id, game_id and player_id are required")
		}
		data, err := progression.ExerciseData(playerID, gameID, exerciseID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, data)
	})

	student.Post("/submit_solution", func(c *fiber.Ctx) error {
		var payload SubmitSolutionPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		firstSolution, err := grader.SubmitSolution(services.SubmitSolutionParams{
			PlayerID:          payload.PlayerID,
			ExerciseID:        payload.ExerciseID,
			GameID:            payload.GameID,
			Client:            payload.Client,
			SubmittedCode:     payload.SubmittedCode,
			Metrics:           string(payload.Metrics),
			Result:            payload.Result,
			ResultDescription: string(payload.ResultDescription),
			Feedback:          payload.Feedback,
			EarnedRewards:     payload.EarnedRewards,
			EnteredAt:         payload.EnteredAt,
		})
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, firstSolution)
	})

	student.Post("/unlock", func(c *fiber.Ctx) error {
		var payload UnlockPayload
		if err := c.BodyParser(&payload); err != nil {
			return utils.RespondBadRequest(c, "invalid request body")
		}
		if err := utils.ValidateStruct(payload); err != nil {
			return utils.RespondBadRequest(c, err.Error())
		}
		if err := progression.UnlockExercise(progression.DB, payload.PlayerID, payload.ExerciseID); err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, true)
	})

	student.Get("/get_last_solution", func(c *fiber.Ctx) error {
		playerID, okPlayer := queryInt64(c, "player_id")
		exerciseID, okExercise := queryInt64(c, "exercise_id")
		if !okPlayer || !okExercise {
			return utils.RespondBadRequest(c, "player_id and exercise_id are required")
		}
		solution, err := grader.LastSolution(playerID, exerciseID)
		if err != nil {
			return utils.RespondError(c, err)
		}
		return utils.RespondOK(c, solution)
	})
}
