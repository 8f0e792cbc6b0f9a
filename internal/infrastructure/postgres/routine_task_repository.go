package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

var _ repository.RoutineTaskRepository = (*RoutineTaskRepo)(nil)

const routineColumns = `id, company_id, department_id, created_by, date, items, progress,
	attachments, created_at, updated_at`

// RoutineTaskRepo implementación del puerto RoutineTaskRepository sobre PostgreSQL.
// El checklist (Items) se guarda como JSONB.
type RoutineTaskRepo struct {
	q Querier
}

// NewRoutineTaskRepository construye el adaptador de persistencia para tareas rutinarias.
func NewRoutineTaskRepository(q Querier) *RoutineTaskRepo {
	return &RoutineTaskRepo{q: q}
}

// Create persiste una nueva tarea rutinaria.
func (r *RoutineTaskRepo) Create(ctx context.Context, rt *entity.RoutineTask) error {
	items, err := json.Marshal(rt.Items)
	if err != nil {
		return fmt.Errorf("marshal routine items: %w", err)
	}
	query := `
		INSERT INTO routine_tasks (` + routineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		rt.ID, rt.CompanyID, rt.DepartmentID, rt.CreatedBy, rt.Date, items, rt.Progress,
		rt.Attachments, rt.CreatedAt, rt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert routine task: %w", err)
	}
	return nil
}

// GetByID obtiene una tarea rutinaria por ID. Devuelve (nil, nil) si no existe.
func (r *RoutineTaskRepo) GetByID(ctx context.Context, id string) (*entity.RoutineTask, error) {
	query := `SELECT ` + routineColumns + ` FROM routine_tasks WHERE id = $1`
	rt, err := scanRoutine(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get routine task: %w", err)
	}
	return rt, nil
}

// Update actualiza checklist, progreso y adjuntos.
func (r *RoutineTaskRepo) Update(ctx context.Context, rt *entity.RoutineTask) error {
	items, err := json.Marshal(rt.Items)
	if err != nil {
		return fmt.Errorf("marshal routine items: %w", err)
	}
	query := `
		UPDATE routine_tasks SET date = $2, items = $3, progress = $4, attachments = $5, updated_at = $6
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query, rt.ID, rt.Date, items, rt.Progress, rt.Attachments, rt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update routine task: %w", err)
	}
	return nil
}

// Delete elimina una tarea rutinaria.
func (r *RoutineTaskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM routine_tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete routine task: %w", err)
	}
	return nil
}

// List lista tareas rutinarias según el filtro, con total para paginación.
func (r *RoutineTaskRepo) List(ctx context.Context, f repository.RoutineFilter) ([]*entity.RoutineTask, int64, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}

	if len(f.DepartmentIDs) > 0 {
		args = append(args, f.DepartmentIDs)
		where = append(where, fmt.Sprintf("department_id = ANY($%d)", len(args)))
	}
	if f.CreatedBy != "" {
		args = append(args, f.CreatedBy)
		where = append(where, fmt.Sprintf("created_by = $%d", len(args)))
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		where = append(where, fmt.Sprintf("date = $%d::date", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM routine_tasks WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count routine tasks: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT `+routineColumns+` FROM routine_tasks WHERE `+cond+`
		ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list routine tasks: %w", err)
	}
	defer rows.Close()

	var list []*entity.RoutineTask
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan routine task: %w", err)
		}
		list = append(list, rt)
	}
	return list, total, rows.Err()
}

func scanRoutine(row pgx.Row) (*entity.RoutineTask, error) {
	var rt entity.RoutineTask
	var items []byte
	err := row.Scan(
		&rt.ID, &rt.CompanyID, &rt.DepartmentID, &rt.CreatedBy, &rt.Date, &items, &rt.Progress,
		&rt.Attachments, &rt.CreatedAt, &rt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &rt.Items); err != nil {
			return nil, fmt.Errorf("unmarshal routine items: %w", err)
		}
	}
	return &rt, nil
}
