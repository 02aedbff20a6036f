package main

import (
	"fmt"
	"os"
	"strings"

	goredis "github.com/skrblv/bilimGO/internal/clients/redis"
	"github.com/skrblv/bilimGO/internal/db"
	"github.com/skrblv/bilimGO/internal/handlers"
	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/middleware"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/server"
	"github.com/skrblv/bilimGO/internal/services"
	"github.com/skrblv/bilimGO/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional, the leaderboard works without it)
	leaderboardCache, err := goredis.NewLeaderboardCache(log)
	if err != nil {
		log.Warn("Leaderboard cache disabled", "error", err)
		leaderboardCache = nil
	} else {
		defer leaderboardCache.Close()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	friendshipRepo := repos.NewFriendshipRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	lessonRepo := repos.NewLessonRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)
	progressRepo := repos.NewProgressRepo(thePG, log)
	badgeRepo := repos.NewBadgeRepo(thePG, log)
	challengeRepo := repos.NewChallengeRepo(thePG, log)
	questionBankRepo := repos.NewQuestionBankRepo(thePG, log)
	certTestRepo := repos.NewCertificationTestRepo(thePG, log)
	testAttemptRepo := repos.NewTestAttemptRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo)
	badgeService := services.NewBadgeService(thePG, log, badgeRepo, progressRepo)
	userService := services.NewUserService(thePG, log, userRepo, friendshipRepo, badgeRepo, progressRepo, leaderboardCache)
	friendshipService := services.NewFriendshipService(thePG, log, friendshipRepo, userRepo)
	courseService := services.NewCourseService(thePG, log, courseRepo, lessonRepo, taskRepo)
	lessonService := services.NewLessonService(thePG, log, lessonRepo, progressRepo, userRepo, badgeService)
	taskService := services.NewTaskService(thePG, log, taskRepo, userRepo)
	challengeService := services.NewChallengeService(thePG, log, challengeRepo, lessonRepo, userRepo)
	testingService := services.NewTestingService(thePG, log, certTestRepo, questionBankRepo, testAttemptRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)
	courseHandler := handlers.NewCourseHandler(courseService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	taskHandler := handlers.NewTaskHandler(taskService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	testingHandler := handlers.NewTestingHandler(testingService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	var origins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		origins = strings.Split(raw, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		UserHandler:       userHandler,
		FriendshipHandler: friendshipHandler,
		CourseHandler:     courseHandler,
		LessonHandler:     lessonHandler,
		TaskHandler:       taskHandler,
		ChallengeHandler:  challengeHandler,
		TestingHandler:    testingHandler,
		AllowOrigins:      origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
