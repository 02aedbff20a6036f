package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skrblv/bilimGO/internal/handlers"
	"github.com/skrblv/bilimGO/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	UserHandler       *handlers.UserHandler
	FriendshipHandler *handlers.FriendshipHandler
	CourseHandler     *handlers.CourseHandler
	LessonHandler     *handlers.LessonHandler
	TaskHandler       *handlers.TaskHandler
	ChallengeHandler  *handlers.ChallengeHandler
	TestingHandler    *handlers.TestingHandler
	AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api/v1")

	// ===============
	// || Public    ||
	// ===============
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	api.GET("/courses", cfg.CourseHandler.List)
	api.GET("/courses/:id", cfg.CourseHandler.Detail)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	// Users
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.GET("/users/search", cfg.UserHandler.Search)
	protected.GET("/users/leaderboard", cfg.UserHandler.Leaderboard)
	protected.GET("/users/:id/profile", cfg.UserHandler.Profile)

	// Friends
	protected.GET("/friends", cfg.FriendshipHandler.ListFriends)
	protected.GET("/friends/requests", cfg.FriendshipHandler.Requests)
	protected.POST("/friends/requests", cfg.FriendshipHandler.SendRequest)
	protected.POST("/friends/requests/:id/accept", cfg.FriendshipHandler.Accept)
	protected.POST("/friends/requests/:id/decline", cfg.FriendshipHandler.Decline)
	protected.DELETE("/friends/:id", cfg.FriendshipHandler.Remove)

	// Lessons and tasks
	protected.POST("/lessons/:id/complete", cfg.LessonHandler.Complete)
	protected.POST("/tasks/:id/check", cfg.TaskHandler.CheckAnswer)
	protected.POST("/tasks/:id/hint", cfg.TaskHandler.RequestHint)

	// Challenges
	protected.GET("/challenges", cfg.ChallengeHandler.List)
	protected.POST("/challenges", cfg.ChallengeHandler.Send)
	protected.POST("/challenges/:id/accept", cfg.ChallengeHandler.Accept)
	protected.POST("/challenges/:id/decline", cfg.ChallengeHandler.Decline)
	protected.POST("/challenges/:id/submit_result", cfg.ChallengeHandler.SubmitResult)

	// Certification
	protected.GET("/courses/:id/test", cfg.TestingHandler.GetTest)
	protected.POST("/courses/:id/test/start", cfg.TestingHandler.StartSession)
	protected.POST("/test-attempts/:id/submit", cfg.TestingHandler.SubmitSession)

	return router
}
