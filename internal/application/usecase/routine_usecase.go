package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// RoutineTaskUseCase checklist diario por departamento. El progreso es un
// campo derivado: se recalcula en cada escritura de ítems y nunca se acepta
// del cliente.
type RoutineTaskUseCase struct {
	routines repository.RoutineTaskRepository
	access   *access.Evaluator
}

// NewRoutineTaskUseCase construye el caso de uso de rutinas diarias.
func NewRoutineTaskUseCase(routines repository.RoutineTaskRepository, evaluator *access.Evaluator) *RoutineTaskUseCase {
	return &RoutineTaskUseCase{routines: routines, access: evaluator}
}

// Create da de alta la rutina en el departamento del principal. Sin fecha se
// usa el día actual; cualquier miembro puede crear la suya.
func (uc *RoutineTaskUseCase) Create(ctx context.Context, p *auth.Principal, req dto.CreateRoutineTaskRequest) (*dto.RoutineTaskResponse, error) {
	items, err := routineItems(req.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	date := now
	if req.Date != nil {
		date = *req.Date
	}

	rt := &entity.RoutineTask{
		ID:           uuid.New().String(),
		CompanyID:    p.CompanyID(),
		DepartmentID: p.Department.ID,
		CreatedBy:    p.UserID(),
		Date:         dayOf(date),
		Items:        items,
		Attachments:  req.Attachments,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rt.RecomputeProgress()

	if err := uc.routines.Create(ctx, rt); err != nil {
		return nil, fmt.Errorf("crear rutina: %w", err)
	}
	resp := dto.NewRoutineTaskResponse(rt)
	return &resp, nil
}

// List devuelve las rutinas visibles para el principal, paginadas. El alcance
// es el mismo de tareas: User su departamento, Manager los suyos, SuperAdmin
// la empresa; mine filtra a las propias y date a un día calendario.
func (uc *RoutineTaskUseCase) List(ctx context.Context, p *auth.Principal, q dto.RoutineListQuery) ([]dto.RoutineTaskResponse, int64, error) {
	q.Normalize()
	f := repository.RoutineFilter{
		CompanyID: p.CompanyID(),
		Limit:     q.Limit,
		Offset:    q.Offset(),
	}
	if q.DepartmentID != "" {
		if _, err := uc.access.CheckDepartment(ctx, p, q.DepartmentID); err != nil {
			return nil, 0, err
		}
		f.DepartmentIDs = []string{q.DepartmentID}
	} else {
		scope, err := uc.access.ScopedDepartments(ctx, p)
		if err != nil {
			return nil, 0, err
		}
		f.DepartmentIDs = scope
	}
	if q.Mine {
		f.CreatedBy = p.UserID()
	}
	if q.Date != "" {
		day, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			return nil, 0, domain.ErrValidation.WithMessage("la fecha debe tener formato YYYY-MM-DD")
		}
		f.Date = &day
	}

	routines, total, err := uc.routines.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("listar rutinas: %w", err)
	}
	return dto.NewRoutineTaskResponseList(routines), total, nil
}

// Get devuelve una rutina aplicando las reglas de visibilidad.
func (uc *RoutineTaskUseCase) Get(ctx context.Context, p *auth.Principal, id string) (*dto.RoutineTaskResponse, error) {
	rt, err := uc.loadVisible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewRoutineTaskResponse(rt)
	return &resp, nil
}

// Update modifica checklist y adjuntos. Pueden hacerlo el creador o un
// Manager/SuperAdmin con el departamento en su alcance; cada escritura de
// ítems recalcula el progreso.
func (uc *RoutineTaskUseCase) Update(ctx context.Context, p *auth.Principal, id string, req dto.UpdateRoutineTaskRequest) (*dto.RoutineTaskResponse, error) {
	rt, err := uc.loadVisible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if rt.CreatedBy != p.UserID() && !p.IsSuperAdmin() && !p.IsManager() {
		return nil, domain.ErrForbidden
	}

	if req.Items != nil {
		items, err := routineItems(*req.Items)
		if err != nil {
			return nil, err
		}
		rt.Items = items
		rt.RecomputeProgress()
	}
	if req.Attachments != nil {
		rt.Attachments = *req.Attachments
	}
	rt.UpdatedAt = time.Now()

	if err := uc.routines.Update(ctx, rt); err != nil {
		return nil, fmt.Errorf("actualizar rutina: %w", err)
	}
	resp := dto.NewRoutineTaskResponse(rt)
	return &resp, nil
}

// Delete elimina una rutina. Solo el creador o un SuperAdmin.
func (uc *RoutineTaskUseCase) Delete(ctx context.Context, p *auth.Principal, id string) error {
	rt, err := uc.loadVisible(ctx, p, id)
	if err != nil {
		return err
	}
	if rt.CreatedBy != p.UserID() && !p.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	if err := uc.routines.Delete(ctx, rt.ID); err != nil {
		return fmt.Errorf("eliminar rutina: %w", err)
	}
	return nil
}

// loadVisible carga la rutina aplicando visibilidad: otra empresa se responde
// como inexistente; fuera del alcance de departamento es acceso denegado.
func (uc *RoutineTaskUseCase) loadVisible(ctx context.Context, p *auth.Principal, id string) (*entity.RoutineTask, error) {
	rt, err := uc.routines.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar rutina: %w", err)
	}
	if rt == nil || rt.CompanyID != p.CompanyID() {
		return nil, domain.ErrRoutineTaskNotFound
	}
	ok, err := uc.access.InDepartmentScope(ctx, p, rt.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDepartmentAccessDenied
	}
	return rt, nil
}

// routineItems convierte y sanea el checklist entrante.
func routineItems(payload []dto.RoutineItemPayload) ([]entity.RoutineItem, error) {
	items := make([]entity.RoutineItem, 0, len(payload))
	for _, it := range payload {
		desc := strings.TrimSpace(it.Description)
		if desc == "" {
			return nil, domain.ErrValidation.WithMessage("cada ítem del checklist necesita descripción")
		}
		items = append(items, entity.RoutineItem{Description: desc, IsCompleted: it.IsCompleted})
	}
	return items, nil
}

// dayOf normaliza un instante a su día calendario (la columna es DATE).
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
