package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// Ensure TxRunner implements task.TxRunner and auth.TxRunner.
var _ task.TxRunner = (*TxRunner)(nil)
var _ auth.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunTask inicia una transacción con los repos del ciclo de vida de tareas:
// la tarea, su historial y sus notificaciones se escriben o se revierten juntos.
func (r *TxRunner) RunTask(ctx context.Context, fn func(
	tasks repository.TaskRepository,
	activities repository.TaskActivityRepository,
	notifications repository.NotificationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	taskRepo := NewTaskRepository(tx)
	activityRepo := NewTaskActivityRepository(tx)
	notificationRepo := NewNotificationRepository(tx)

	if err := fn(taskRepo, activityRepo, notificationRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunTenant inicia una transacción con los repos del tenant (para el registro:
// empresa + departamento inicial + usuario SuperAdmin en un solo commit).
func (r *TxRunner) RunTenant(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	departments repository.DepartmentRepository,
	users repository.UserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	companyRepo := NewCompanyRepository(tx)
	departmentRepo := NewDepartmentRepository(tx)
	userRepo := NewUserRepository(tx)

	if err := fn(companyRepo, departmentRepo, userRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
