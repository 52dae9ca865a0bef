package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/api/http/handlers"
	"github.com/AttentiveContabilidade/attentive-intranet-api/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Users         *handlers.UsersHandler
	Directory     *handlers.DirectoryHandler
	Companies     *handlers.CompaniesHandler
	Departments   *handlers.DepartmentsHandler
	Courses       *handlers.CoursesHandler
	Announcements *handlers.AnnouncementsHandler
	Bookkeeping   *handlers.BookkeepingHandler
	Logs          *handlers.LogsHandler
	Guard         *auth.AccessGuard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", cfg.Guard.Handle, cfg.Auth.Me)

	usuarios := api.Group("/usuarios", cfg.Guard.Handle)
	usuarios.Post("/", cfg.Users.Create)
	usuarios.Get("/", cfg.Users.List)
	usuarios.Get("/:id", cfg.Users.Get)
	usuarios.Patch("/:id", cfg.Users.Update)
	usuarios.Delete("/:id", cfg.Users.Delete)
	usuarios.Put("/:id/avatar", cfg.Users.SetAvatar)
	usuarios.Put("/:id/descricao", cfg.Users.SetDescricao)
	usuarios.Post("/:id/feedbacks", cfg.Users.AddFeedback)
	usuarios.Post("/:id/cursos/:cursoId/toggle", cfg.Users.ToggleCourse)

	api.Get("/colaboradores", cfg.Guard.Handle, cfg.Directory.Search)
	api.Get("/colaboradores/:id", cfg.Guard.Handle, cfg.Directory.Profile)

	empresas := api.Group("/empresas")
	// the crawler authenticates with its API key, not a bearer token
	empresas.Get("/:cnpj/credenciais", cfg.Companies.Credentials)
	empresas.Post("/", cfg.Guard.Handle, cfg.Companies.Create)
	empresas.Post("/bulk", cfg.Guard.Handle, cfg.Companies.BulkCreate)
	empresas.Get("/", cfg.Guard.Handle, cfg.Companies.List)
	empresas.Get("/:id", cfg.Guard.Handle, cfg.Companies.Get)
	empresas.Put("/:id", cfg.Guard.Handle, cfg.Companies.Update)
	empresas.Delete("/:id", cfg.Guard.Handle, cfg.Companies.Delete)

	departamentos := api.Group("/departamentos")
	departamentos.Get("/", cfg.Departments.List)
	departamentos.Get("/:slug", cfg.Departments.Get)
	departamentos.Post("/", cfg.Guard.Handle, cfg.Departments.Create)
	departamentos.Post("/bulk", cfg.Guard.Handle, cfg.Departments.BulkUpsert)
	departamentos.Put("/:slug", cfg.Guard.Handle, cfg.Departments.Update)
	departamentos.Delete("/:slug", cfg.Guard.Handle, cfg.Departments.Delete)

	cursos := api.Group("/cursos")
	cursos.Get("/", cfg.Courses.List)
	cursos.Get("/me", cfg.Guard.Handle, cfg.Courses.Mine)
	cursos.Get("/:slug", cfg.Courses.Get)
	cursos.Post("/", cfg.Guard.Handle, cfg.Courses.Create)
	cursos.Post("/bulk", cfg.Guard.Handle, cfg.Courses.BulkUpsert)
	cursos.Put("/:slug", cfg.Guard.Handle, cfg.Courses.Update)
	cursos.Delete("/:slug", cfg.Guard.Handle, cfg.Courses.Delete)

	comunicados := api.Group("/comunicados")
	comunicados.Get("/", cfg.Announcements.List)
	comunicados.Get("/:id", cfg.Announcements.Get)
	comunicados.Post("/", cfg.Guard.Handle, cfg.Announcements.Create)
	comunicados.Patch("/:id/status", cfg.Guard.Handle, cfg.Announcements.UpdateStatus)
	// commenting works without a token; a valid one only attributes authorship
	comunicados.Post("/:id/comentarios", cfg.Announcements.AddComment)

	escrituracao := api.Group("/escrituracao", cfg.Guard.Handle)
	escrituracao.Post("/", cfg.Bookkeeping.Create)
	escrituracao.Post("/bulk", cfg.Bookkeeping.BulkCreate)
	escrituracao.Get("/", cfg.Bookkeeping.List)
	escrituracao.Get("/cnpj/:cnpj", cfg.Bookkeeping.GetByCNPJ)
	escrituracao.Get("/:id", cfg.Bookkeeping.Get)
	escrituracao.Put("/:id", cfg.Bookkeeping.Update)
	escrituracao.Delete("/:id", cfg.Bookkeeping.Delete)

	logs := api.Group("/logs")
	logs.Post("/", cfg.Logs.Create)
	logs.Post("/bulk", cfg.Logs.BulkCreate)
	logs.Get("/", cfg.Guard.Handle, cfg.Logs.List)
}
