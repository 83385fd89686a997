package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/http/handlers"
	"github.com/spec-kit/task-tracker/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tasks          *handlers.TasksHandler
	Comments       *handlers.CommentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The authentication middleware is a
// pass-through on /api: it resolves the principal and the per-operation
// checks inside the handlers do the denying.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signin", cfg.Auth.SignIn)
	authGroup.Post("/signup", cfg.Auth.SignUp)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tasks := api.Group("/tasks")
	tasks.Get("/", cfg.Tasks.List)
	tasks.Post("/", cfg.Tasks.Create)
	tasks.Get("/author/:authorId", cfg.Tasks.ListByAuthor)
	tasks.Get("/assignee/:assigneeId", cfg.Tasks.ListByAssignee)
	tasks.Get("/:id", cfg.Tasks.Get)
	tasks.Put("/:id", cfg.Tasks.Update)
	tasks.Delete("/:id", cfg.Tasks.Delete)
	tasks.Put("/:id/status", cfg.Tasks.UpdateStatus)
	tasks.Put("/:id/priority", cfg.Tasks.UpdatePriority)
	tasks.Put("/:id/assignee", cfg.Tasks.UpdateAssignee)

	comments := api.Group("/comments")
	comments.Get("/", cfg.Comments.List)
	comments.Post("/", cfg.Comments.Create)
	comments.Get("/task/:taskId", cfg.Comments.ListByTask)
	comments.Get("/:id", cfg.Comments.Get)
	comments.Put("/:id", cfg.Comments.Update)
	comments.Delete("/:id", cfg.Comments.Delete)

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)
	users.Get("/email/:email", cfg.Users.GetByEmail)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}
