package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/notification"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/application/usecase"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tareas-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/Tareas-api/internal/interfaces/http"
	"github.com/jhoicas/Tareas-api/pkg/config"
	"github.com/jhoicas/Tareas-api/pkg/jwt"
	"github.com/jhoicas/Tareas-api/pkg/logger"
	"github.com/jhoicas/Tareas-api/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if err := postgres.Migrate(cfg.DB.ConnectionString(), cfg.DB.MigrationsDir, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tokens, err := jwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessMinutes)*time.Minute,
		time.Duration(cfg.JWT.RefreshDays)*24*time.Hour,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}

	var mail mailer.Sender
	if cfg.Mail.Enabled() {
		mail = mailer.NewMailgun(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.Sender)
		log.Info().Str("domain", cfg.Mail.Domain).Msg("correo transaccional habilitado")
	} else {
		mail = mailer.NewNoop()
		log.Warn().Msg("correo transaccional deshabilitado: faltan credenciales de Mailgun")
	}

	// Repositorios y unidad de trabajo
	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	activityRepo := postgres.NewTaskActivityRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	routineRepo := postgres.NewRoutineTaskRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Casos de uso
	evaluator := access.NewEvaluator(departmentRepo)
	hub := realtime.NewHub(log)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, departmentRepo, txRunner, tokens, mail, cfg.App.BaseURL)
	userUC := usecase.NewUserUseCase(userRepo, departmentRepo, evaluator, mail, cfg.App.BaseURL)
	departmentUC := usecase.NewDepartmentUseCase(departmentRepo, userRepo, evaluator)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	taskUC := task.NewTaskUseCase(taskRepo, activityRepo, userRepo, departmentRepo, evaluator, txRunner, hub)
	routineUC := usecase.NewRoutineTaskUseCase(routineRepo, evaluator)
	notificationUC := notification.NewUseCase(notificationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/swagger
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "swagger",
		Title:    "Tareas Pro API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:          authUC,
		Users:         userUC,
		Departments:   departmentUC,
		Company:       companyUC,
		Tasks:         taskUC,
		Routines:      routineUC,
		Notifications: notificationUC,
		Evaluator:     evaluator,
		Hub:           hub,
		Tokens:        tokens,
		SecureCookies: cfg.App.Env != "development",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
