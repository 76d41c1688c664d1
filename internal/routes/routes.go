package routes

import (
	"taskboard-api/internal/handlers"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies carries the service instances the router needs. They are
// created once at the application root and injected here.
type Dependencies struct {
	DB         *gorm.DB
	Tasks      *store.TaskStore
	Projects   *store.ProjectStore
	Categories *store.CategoryStore
	Activity   *store.ActivityStore
	Hub        *realtime.Hub
}

// Setup assembles the router with public and protected route groups.
func Setup(deps Dependencies) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Taskboard API is running",
		})
	})

	authHandler := handlers.NewAuthHandler(deps.DB)
	userHandler := handlers.NewUserHandler(deps.DB)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	projectHandler := handlers.NewProjectHandler(deps.Projects)
	categoryHandler := handlers.NewCategoryHandler(deps.Categories)
	activityHandler := handlers.NewActivityHandler(deps.Activity)
	wsHandler := handlers.NewWSHandler(deps.Hub)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		// Login endpoint
		api.POST("/login", authHandler.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Task endpoints
		protectedRoutes.GET("/tasks", taskHandler.List)
		protectedRoutes.GET("/tasks/:id", taskHandler.Get)
		protectedRoutes.POST("/tasks", taskHandler.Create)
		protectedRoutes.PUT("/tasks/:id", taskHandler.Update)
		protectedRoutes.PATCH("/tasks/:id/state", taskHandler.UpdateState)
		protectedRoutes.DELETE("/tasks/:id", taskHandler.Delete)
		protectedRoutes.POST("/tasks/:id/subtasks", taskHandler.AddSubtask)
		protectedRoutes.PATCH("/tasks/:id/subtasks/:subtaskId/toggle", taskHandler.ToggleSubtask)
		protectedRoutes.DELETE("/tasks/:id/subtasks/:subtaskId", taskHandler.DeleteSubtask)
		protectedRoutes.POST("/tasks/:id/comments", taskHandler.AddComment)
		protectedRoutes.DELETE("/tasks/:id/comments/:commentId", taskHandler.DeleteComment)
		protectedRoutes.GET("/stats", taskHandler.Stats)

		// Project endpoints
		protectedRoutes.GET("/projects", projectHandler.List)
		protectedRoutes.GET("/projects/:id", projectHandler.Get)
		protectedRoutes.POST("/projects", projectHandler.Create)
		protectedRoutes.PUT("/projects/:id", projectHandler.Update)
		protectedRoutes.DELETE("/projects/:id", projectHandler.Delete)
		protectedRoutes.POST("/projects/:id/tasks/:taskId", projectHandler.AddTask)
		protectedRoutes.DELETE("/projects/:id/tasks/:taskId", projectHandler.RemoveTask)
		protectedRoutes.PATCH("/projects/:id/deadline", projectHandler.SetDeadline)
		protectedRoutes.PATCH("/projects/:id/start-date", projectHandler.SetStartDate)

		// Category endpoints
		protectedRoutes.GET("/categories", categoryHandler.List)
		protectedRoutes.GET("/categories/:id", categoryHandler.Get)
		protectedRoutes.POST("/categories", categoryHandler.Create)
		protectedRoutes.PUT("/categories/:id", categoryHandler.Update)
		protectedRoutes.DELETE("/categories/:id", categoryHandler.Delete)

		// Activity feed
		protectedRoutes.GET("/activity", activityHandler.Recent)

		// Users endpoint
		protectedRoutes.GET("/users", userHandler.List)

		// Realtime events
		protectedRoutes.GET("/ws", wsHandler.Serve)
	}

	// Admin-only routes
	adminRoutes := api.Group("")
	adminRoutes.Use(middleware.JWTAuthMiddleware(), middleware.AdminRequired())
	{
		adminRoutes.POST("/users", userHandler.Create)
		adminRoutes.DELETE("/users/:id", userHandler.Delete)
	}

	return ginRouter
}
