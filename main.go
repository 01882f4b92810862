// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exercise-game-system/handlers"
	"exercise-game-system/middleware"
	"exercise-game-system/models"
	"exercise-game-system/services"
	"exercise-game-system/utils"
	"exercise-game-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("❌ DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Database connected")

	if err := migrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrated")

	if err := utils.InitStorage(); err != nil {
		log.Printf("⚠️  Object storage disabled: %v", err)
	}
	utils.InitRedis()

	ownership := services.NewOwnershipService(db)
	progression := services.NewProgressionService(db)
	grader := services.NewGraderService(db, progression)
	games := services.NewGameService(db, ownership)
	groups := services.NewGroupService(db, ownership)
	players := services.NewPlayerService(db, ownership)
	stats := services.NewStatsService(db, ownership)
	invites := services.NewInviteService(db, ownership)
	rewards := services.NewRewardService(db, ownership)

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	handlers.SetupStudentRoutes(app, games, progression, grader)
	handlers.SetupTeacherRoutes(app, games, groups, players, stats, invites, rewards)

	scheduler, err := services.StartScheduler(db)
	if err != nil {
		log.Fatalf("❌ Failed to start scheduler: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.NewCacheWarmer(db).Start(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()
	log.Printf("✅ Server listening on :%s", port)

	<-ctx.Done()
	log.Println("🛑 Shutting down…")

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("⚠️  Scheduler shutdown: %v", err)
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("⚠️  Server shutdown: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Instructor{},
		&models.Player{},
		&models.Course{},
		&models.Module{},
		&models.Exercise{},
		&models.Game{},
		&models.CourseOwnership{},
		&models.GameOwnership{},
		&models.GroupOwnership{},
		&models.Group{},
		&models.PlayerGroup{},
		&models.PlayerRegistration{},
		&models.PlayerUnlock{},
		&models.Submission{},
		&models.Reward{},
		&models.PlayerReward{},
		&models.Invite{},
	)
	if err != nil {
		return err
	}

	// one first solution per player per exercise per game, enforced even
	// under concurrent submissions
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_first_solution
		ON submissions (player_id, game_id, exercise_id) WHERE first_solution`).Error
}
