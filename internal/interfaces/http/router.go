package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/notification"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
)

// RouterDeps dependencias del router: los casos de uso ya construidos, el
// hub de tiempo real y lo necesario para el guard y las cookies.
type RouterDeps struct {
	Auth          *auth.AuthUseCase
	Users         *usecase.UserUseCase
	Departments   *usecase.DepartmentUseCase
	Company       *usecase.CompanyUseCase
	Tasks         *task.TaskUseCase
	Routines      *usecase.RoutineTaskUseCase
	Notifications *notification.UseCase
	Evaluator     *access.Evaluator
	Hub           *realtime.Hub
	Tokens        *jwt.Manager
	SecureCookies bool
}

// Router registra todas las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.OK("servicio en línea", fiber.Map{"status": "ok"}))
	})

	guard := Guard(deps.Tokens, deps.Auth)
	api := app.Group("/api")

	// Auth: sesión y flujos de cuenta. Las rutas de autoservicio van con guard.
	authHandler := NewAuthHandler(deps.Auth, deps.Tokens, deps.SecureCookies)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/refresh-token", authHandler.Refresh)
	authGroup.Delete("/logout", authHandler.Logout)
	authGroup.Get("/verify-email", authHandler.VerifyEmail)
	authGroup.Post("/resend-verification", authHandler.ResendVerification)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)
	authGroup.Get("/confirm-email", authHandler.ConfirmEmail)
	authGroup.Get("/me", guard, authHandler.Me)
	authGroup.Put("/profile", guard, authHandler.UpdateProfile)
	authGroup.Put("/change-password", guard, authHandler.ChangePassword)
	authGroup.Post("/change-email", guard, authHandler.ChangeEmail)

	// Usuarios
	userHandler := NewUserHandler(deps.Users)
	users := api.Group("/users", guard)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Patch("/:id/deactivate", userHandler.Deactivate)
	users.Patch("/:id/activate", userHandler.Activate)

	// Departamentos
	departmentHandler := NewDepartmentHandler(deps.Departments)
	departments := api.Group("/departments", guard)
	departments.Post("/", departmentHandler.Create)
	departments.Get("/", departmentHandler.List)
	departments.Get("/:id", departmentHandler.Get)
	departments.Put("/:id", departmentHandler.Update)
	departments.Patch("/:id/deactivate", departmentHandler.Deactivate)
	departments.Patch("/:id/activate", departmentHandler.Activate)

	// Empresa del principal
	companyHandler := NewCompanyHandler(deps.Company)
	company := api.Group("/company", guard)
	company.Get("/", companyHandler.Get)
	company.Put("/", companyHandler.Update)
	company.Get("/subscription", companyHandler.Subscription)

	// Tareas
	taskHandler := NewTaskHandler(deps.Tasks)
	tasks := api.Group("/tasks", guard)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/", taskHandler.List)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)
	tasks.Post("/:id/activities", taskHandler.LogActivity)
	tasks.Get("/:id/activities", taskHandler.ListActivities)

	// Rutinas diarias
	routineHandler := NewRoutineTaskHandler(deps.Routines)
	routines := api.Group("/routine-tasks", guard)
	routines.Post("/", routineHandler.Create)
	routines.Get("/", routineHandler.List)
	routines.Get("/:id", routineHandler.Get)
	routines.Put("/:id", routineHandler.Update)
	routines.Delete("/:id", routineHandler.Delete)

	// Notificaciones. Las rutas fijas van antes que la de parámetro.
	notificationHandler := NewNotificationHandler(deps.Notifications)
	notifications := api.Group("/notifications", guard)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)

	// Tiempo real
	wsHandler := NewWSHandler(deps.Hub, deps.Evaluator)
	app.Get("/ws", guard, wsHandler.Upgrade, websocket.New(wsHandler.Serve))
}
