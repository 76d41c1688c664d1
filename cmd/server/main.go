package main

import (
	"log"
	"os"

	"taskboard-api/internal/database"
	"taskboard-api/internal/realtime"
	"taskboard-api/internal/routes"
	"taskboard-api/internal/store"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Init database
	db, err := database.Open(getEnv("DB_PATH", "taskboard.db"))
	if err != nil {
		log.Fatal("Failed to init database: ", err)
	}
	if err := database.SeedAdmin(db, getEnv("ADMIN_USERNAME", "admin"), getEnv("ADMIN_PASSWORD", "admin")); err != nil {
		log.Fatal("Failed to seed admin user: ", err)
	}

	// Wire the stores: project store subscribes to task membership events on
	// the bus, task store reads project allow-lists through the directory.
	bus := store.NewBus()
	activity := store.NewActivityStore(db)
	tasks := store.NewTaskStore(db, activity, bus)
	projects := store.NewProjectStore(db, tasks, activity, bus)
	tasks.SetProjectDirectory(projects)
	categories := store.NewCategoryStore(db)

	// Realtime fan-out of domain events
	hub := realtime.NewHub()
	realtime.AttachBus(hub, bus)

	// Setup the routes (public and protected routes)
	ginRoutes := routes.Setup(routes.Dependencies{
		DB:         db,
		Tasks:      tasks,
		Projects:   projects,
		Categories: categories,
		Activity:   activity,
		Hub:        hub,
	})

	// Start server
	port := ":" + getEnv("PORT", "8008")
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/tasks")
	log.Println("  POST   /api/tasks")
	log.Println("  PATCH  /api/tasks/:id/state")
	log.Println("  GET    /api/projects")
	log.Println("  GET    /api/categories")
	log.Println("  GET    /api/activity")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
