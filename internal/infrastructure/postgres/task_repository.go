package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

var _ repository.TaskRepository = (*TaskRepo)(nil)

const taskColumns = `id, company_id, department_id, created_by, title, description, location,
	task_type, status, priority, due_date, assigned_to, client_name, client_phone, client_address,
	attachments, created_at, updated_at`

// TaskRepo implementación del puerto TaskRepository sobre PostgreSQL.
// ClientInfo se aplana en tres columnas nullable: las tres van juntas
// (ProjectTask) o las tres son NULL (AssignedTask).
type TaskRepo struct {
	q Querier
}

// NewTaskRepository construye el adaptador de persistencia para tareas.
func NewTaskRepository(q Querier) *TaskRepo {
	return &TaskRepo{q: q}
}

// Create persiste una nueva tarea.
func (r *TaskRepo) Create(ctx context.Context, t *entity.Task) error {
	clientName, clientPhone, clientAddress := flattenClient(t.ClientInfo)
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.DepartmentID, t.CreatedBy, t.Title, t.Description, t.Location,
		t.TaskType, t.Status, t.Priority, t.DueDate, t.AssignedTo, clientName, clientPhone,
		clientAddress, t.Attachments, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea por ID. Devuelve (nil, nil) si no existe.
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.q.QueryRow(ctx, query, id)
	t, err := scanTask(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update actualiza los campos mutables de la tarea (el tipo y el creador son inmutables).
func (r *TaskRepo) Update(ctx context.Context, t *entity.Task) error {
	clientName, clientPhone, clientAddress := flattenClient(t.ClientInfo)
	query := `
		UPDATE tasks SET title = $2, description = $3, location = $4, status = $5, priority = $6,
			due_date = $7, assigned_to = $8, client_name = $9, client_phone = $10,
			client_address = $11, attachments = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.Location, t.Status, t.Priority, t.DueDate,
		t.AssignedTo, clientName, clientPhone, clientAddress, t.Attachments, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// Delete elimina una tarea. El historial y las notificaciones asociadas se
// eliminan en la misma transacción vía sus propios repositorios.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// List lista tareas según el filtro, con total para paginación.
func (r *TaskRepo) List(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, int64, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}

	if len(f.DepartmentIDs) > 0 {
		args = append(args, f.DepartmentIDs)
		where = append(where, fmt.Sprintf("department_id = ANY($%d)", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.TaskType != "" {
		args = append(args, f.TaskType)
		where = append(where, fmt.Sprintf("task_type = $%d", len(args)))
	}
	if f.AssigneeID != "" {
		args = append(args, f.AssigneeID)
		where = append(where, fmt.Sprintf("$%d = ANY(assigned_to)", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT `+taskColumns+` FROM tasks WHERE `+cond+`
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// scanTask funciona tanto para pgx.Row como para pgx.Rows.
func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var clientName, clientPhone, clientAddress *string
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.DepartmentID, &t.CreatedBy, &t.Title, &t.Description, &t.Location,
		&t.TaskType, &t.Status, &t.Priority, &t.DueDate, &t.AssignedTo, &clientName, &clientPhone,
		&clientAddress, &t.Attachments, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if clientName != nil {
		t.ClientInfo = &entity.ClientInfo{Name: *clientName}
		if clientPhone != nil {
			t.ClientInfo.Phone = *clientPhone
		}
		if clientAddress != nil {
			t.ClientInfo.Address = *clientAddress
		}
	}
	return &t, nil
}

func flattenClient(c *entity.ClientInfo) (name, phone, address *string) {
	if c == nil {
		return nil, nil, nil
	}
	return &c.Name, &c.Phone, &c.Address
}
