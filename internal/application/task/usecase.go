// Package task implementa el ciclo de vida de tareas: creación por variante,
// lecturas acotadas por rol, actualización dirigida por diff, transiciones de
// estado vía historial y borrado en cascada. Toda escritura va con sus
// notificaciones en una sola transacción; los pushes salen tras el commit.
package task

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
	taskstate "github.com/jhoicas/Tareas-api/internal/domain/task"
	"github.com/jhoicas/Tareas-api/pkg/phone"
)

// TaskUseCase casos de uso del ciclo de vida de tareas.
type TaskUseCase struct {
	tasks       repository.TaskRepository
	activities  repository.TaskActivityRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	access      *access.Evaluator
	tx          TxRunner
	pusher      Pusher
}

// NewTaskUseCase construye el caso de uso de tareas.
func NewTaskUseCase(
	tasks repository.TaskRepository,
	activities repository.TaskActivityRepository,
	users repository.UserRepository,
	departments repository.DepartmentRepository,
	evaluator *access.Evaluator,
	tx TxRunner,
	pusher Pusher,
) *TaskUseCase {
	return &TaskUseCase{
		tasks:       tasks,
		activities:  activities,
		users:       users,
		departments: departments,
		access:      evaluator,
		tx:          tx,
		pusher:      pusher,
	}
}

// Create da de alta una tarea. El servidor fija empresa, creador y estado
// inicial (To Do); el cliente nunca los manda.
func (uc *TaskUseCase) Create(ctx context.Context, p *auth.Principal, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	location := strings.TrimSpace(req.Location)
	if title == "" || description == "" || location == "" || req.DueDate == nil ||
		req.TaskType == "" || req.DepartmentID == "" {
		return nil, domain.ErrMissingRequiredFields
	}
	if !entity.ValidTaskType(req.TaskType) {
		return nil, domain.ErrInvalidTaskType
	}
	now := time.Now()
	if req.DueDate.Before(now) {
		return nil, domain.ErrValidation.WithMessage("la fecha límite no puede ser anterior a la fecha actual")
	}

	dept, err := uc.access.CheckDepartment(ctx, p, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !dept.IsActive {
		return nil, domain.ErrDepartmentDeactivated
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	t := &entity.Task{
		ID:           uuid.New().String(),
		CompanyID:    p.CompanyID(),
		DepartmentID: dept.ID,
		CreatedBy:    p.UserID(),
		Title:        title,
		Description:  description,
		Location:     location,
		TaskType:     req.TaskType,
		Status:       taskstate.StatusToDo,
		Priority:     priority,
		DueDate:      *req.DueDate,
		Attachments:  req.Attachments,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	switch req.TaskType {
	case entity.TaskTypeAssigned:
		if req.ClientInfo != nil {
			return nil, domain.ErrValidation.WithMessage("las tareas asignadas no llevan datos de cliente")
		}
		assignees := dedupe(req.AssignedTo)
		if len(assignees) == 0 {
			return nil, domain.ErrInvalidAssignees.WithMessage("una tarea asignada necesita al menos un asignado")
		}
		if err := uc.validateAssignees(ctx, assignees, p.CompanyID(), dept.ID); err != nil {
			return nil, err
		}
		t.AssignedTo = assignees
	case entity.TaskTypeProject:
		if len(req.AssignedTo) > 0 {
			return nil, domain.ErrInvalidAssignees.WithMessage("las tareas de proyecto no llevan asignados")
		}
		if req.ClientInfo == nil {
			return nil, domain.ErrMissingRequiredFields.WithMessage("clientInfo es obligatorio en tareas de proyecto")
		}
		clientName := strings.TrimSpace(req.ClientInfo.Name)
		if clientName == "" || strings.TrimSpace(req.ClientInfo.Phone) == "" {
			return nil, domain.ErrMissingRequiredFields.WithMessage("el cliente necesita nombre y teléfono")
		}
		normalized, err := phone.Normalize(req.ClientInfo.Phone)
		if err != nil {
			return nil, domain.ErrInvalidPhone
		}
		t.ClientInfo = &entity.ClientInfo{
			Name:    clientName,
			Phone:   normalized,
			Address: strings.TrimSpace(req.ClientInfo.Address),
		}
	}

	n := newNotifier(t, p.UserID())
	switch t.TaskType {
	case entity.TaskTypeAssigned:
		for _, id := range t.AssignedTo {
			n.add(id, entity.NotificationTaskAssignment, "Nueva tarea asignada",
				fmt.Sprintf("Se te asignó la tarea «%s»", t.Title))
		}
	case entity.TaskTypeProject:
		watchers, err := uc.departmentWatchers(ctx, dept)
		if err != nil {
			return nil, err
		}
		for _, id := range watchers {
			n.record(id, entity.NotificationTaskUpdate, "Nueva tarea de proyecto",
				fmt.Sprintf("Se creó la tarea de proyecto «%s»", t.Title))
		}
		n.room(entity.NotificationTaskUpdate)
	}

	err = uc.tx.RunTask(ctx, func(
		tasks repository.TaskRepository,
		_ repository.TaskActivityRepository,
		notifications repository.NotificationRepository,
	) error {
		if err := tasks.Create(ctx, t); err != nil {
			return err
		}
		if len(n.notifs) > 0 {
			return notifications.CreateBatch(ctx, n.notifs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.dispatch(n.pushes)

	resp := dto.NewTaskResponse(t)
	return &resp, nil
}

// List devuelve las tareas visibles para el principal, paginadas. El alcance
// lo fija el rol: User ve solo aquellas de su departamento donde está
// asignado; Manager su departamento más los gestionados; SuperAdmin toda la
// empresa.
func (uc *TaskUseCase) List(ctx context.Context, p *auth.Principal, q dto.TaskListQuery) ([]dto.TaskResponse, int64, error) {
	q.Normalize()
	if q.Status != "" && !taskstate.ValidStatus(q.Status) {
		return nil, 0, domain.ErrValidation.WithMessage("estado de tarea desconocido")
	}
	if q.TaskType != "" && !entity.ValidTaskType(q.TaskType) {
		return nil, 0, domain.ErrValidation.WithMessage("tipo de tarea desconocido")
	}

	f := repository.TaskFilter{
		CompanyID: p.CompanyID(),
		Status:    q.Status,
		TaskType:  q.TaskType,
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
	if p.User.Role == entity.RoleUser {
		f.AssigneeID = p.UserID()
	}

	tasks, total, err := uc.tasks.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("listar tareas: %w", err)
	}
	return dto.NewTaskResponseList(tasks), total, nil
}

// Get devuelve una tarea aplicando las reglas de visibilidad.
func (uc *TaskUseCase) Get(ctx context.Context, p *auth.Principal, id string) (*dto.TaskResponse, error) {
	t, err := uc.loadVisible(ctx, p, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewTaskResponse(t)
	return &resp, nil
}

// Update aplica una actualización parcial. Los campos inmutables (tipo,
// creador, departamento, estado) se descartan del cambio entrante; el diff
// entre lo almacenado y lo pedido decide qué se escribe y a quién se
// notifica. Una actualización idéntica no escribe nada.
func (uc *TaskUseCase) Update(ctx context.Context, p *auth.Principal, id string, req dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	stored, err := uc.loadModifiable(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if stored.TaskType == entity.TaskTypeAssigned && req.ClientInfo != nil {
		return nil, domain.ErrValidation.WithMessage("las tareas asignadas no llevan datos de cliente")
	}
	if stored.TaskType == entity.TaskTypeProject && req.AssignedTo != nil && len(*req.AssignedTo) > 0 {
		return nil, domain.ErrInvalidAssignees.WithMessage("las tareas de proyecto no llevan asignados")
	}
	if req.ClientInfo != nil {
		normalized, err := phone.Normalize(req.ClientInfo.Phone)
		if err != nil {
			return nil, domain.ErrInvalidPhone
		}
		ci := *req.ClientInfo
		ci.Phone = normalized
		req.ClientInfo = &ci
	}

	updated, diff := ApplyUpdate(stored, req)
	if diff.Empty() {
		resp := dto.NewTaskResponse(stored)
		return &resp, nil
	}
	if stored.TaskType == entity.TaskTypeAssigned && req.AssignedTo != nil && len(updated.AssignedTo) == 0 {
		return nil, domain.ErrInvalidAssignees.WithMessage("una tarea asignada necesita al menos un asignado")
	}
	if len(diff.Added) > 0 {
		if err := uc.validateAssignees(ctx, diff.Added, stored.CompanyID, stored.DepartmentID); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = time.Now()

	// Los mensajes específicos van primero: el dedupe del notifier evita que
	// la ola genérica los pise.
	n := newNotifier(updated, p.UserID())
	for _, id := range diff.Added {
		n.add(id, entity.NotificationTaskAssignment, "Nueva tarea asignada",
			fmt.Sprintf("Se te asignó la tarea «%s»", updated.Title))
	}
	for _, id := range diff.Removed {
		n.add(id, entity.NotificationTaskUpdate, "Reasignación de tarea",
			fmt.Sprintf("Ya no estás asignado a la tarea «%s»", updated.Title))
	}
	if diff.Notifies() {
		msg := fmt.Sprintf("La tarea «%s» fue actualizada", updated.Title)
		n.add(updated.CreatedBy, entity.NotificationTaskUpdate, "Tarea actualizada", msg)
		switch updated.TaskType {
		case entity.TaskTypeAssigned:
			// La ola genérica alcanza al plantel original de asignados.
			for _, id := range stored.AssignedTo {
				n.add(id, entity.NotificationTaskUpdate, "Tarea actualizada", msg)
			}
		case entity.TaskTypeProject:
			dept, err := uc.taskDepartment(ctx, p, updated)
			if err != nil {
				return nil, err
			}
			watchers, err := uc.departmentWatchers(ctx, dept)
			if err != nil {
				return nil, err
			}
			for _, id := range watchers {
				n.record(id, entity.NotificationTaskUpdate, "Tarea actualizada", msg)
			}
			n.room(entity.NotificationTaskUpdate)
		}
	}

	err = uc.tx.RunTask(ctx, func(
		tasks repository.TaskRepository,
		_ repository.TaskActivityRepository,
		notifications repository.NotificationRepository,
	) error {
		if err := tasks.Update(ctx, updated); err != nil {
			return err
		}
		if len(n.notifs) > 0 {
			return notifications.CreateBatch(ctx, n.notifs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.dispatch(n.pushes)

	resp := dto.NewTaskResponse(updated)
	return &resp, nil
}

// LogActivity registra una actividad en el historial y, si trae estado,
// ejecuta la transición. Devuelve (nil, nil) en el único no-op aceptado:
// In Progress → In Progress.
func (uc *TaskUseCase) LogActivity(ctx context.Context, p *auth.Principal, taskID string, req dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	t, err := uc.loadVisible(ctx, p, taskID)
	if err != nil {
		return nil, err
	}

	activity := &entity.TaskActivity{
		ID:          uuid.New().String(),
		TaskID:      t.ID,
		UserID:      p.UserID(),
		Description: strings.TrimSpace(req.Description),
		Attachments: req.Attachments,
		CreatedAt:   time.Now(),
	}

	n := newNotifier(t, p.UserID())
	statusChanged := false
	if req.Status != "" {
		if req.Status == t.Status {
			if t.Status == taskstate.StatusInProgress {
				return nil, nil
			}
			return nil, domain.ErrInvalidStatusTransition
		}
		if !taskstate.CanTransition(t.Status, req.Status) {
			return nil, domain.ErrInvalidStatusTransition
		}
		from, to := t.Status, req.Status
		activity.StatusFrom = &from
		activity.StatusTo = &to
		t.Status = to
		t.UpdatedAt = time.Now()
		statusChanged = true

		msg := fmt.Sprintf("La tarea «%s» pasó de %s a %s", t.Title, from, to)
		n.add(t.CreatedBy, entity.NotificationTaskStatus, "Cambio de estado", msg)
		switch t.TaskType {
		case entity.TaskTypeAssigned:
			for _, id := range t.AssignedTo {
				n.add(id, entity.NotificationTaskStatus, "Cambio de estado", msg)
			}
		case entity.TaskTypeProject:
			dept, err := uc.taskDepartment(ctx, p, t)
			if err != nil {
				return nil, err
			}
			watchers, err := uc.departmentWatchers(ctx, dept)
			if err != nil {
				return nil, err
			}
			for _, id := range watchers {
				n.record(id, entity.NotificationTaskStatus, "Cambio de estado", msg)
			}
			n.room(entity.NotificationTaskStatus)
		}
	}

	err = uc.tx.RunTask(ctx, func(
		tasks repository.TaskRepository,
		activities repository.TaskActivityRepository,
		notifications repository.NotificationRepository,
	) error {
		if statusChanged {
			if err := tasks.Update(ctx, t); err != nil {
				return err
			}
		}
		if err := activities.Create(ctx, activity); err != nil {
			return err
		}
		if len(n.notifs) > 0 {
			return notifications.CreateBatch(ctx, n.notifs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.dispatch(n.pushes)

	resp := dto.NewActivityResponse(activity)
	return &resp, nil
}

// ListActivities historial de la tarea, el más reciente primero. Lo ve
// cualquiera que pueda ver la tarea.
func (uc *TaskUseCase) ListActivities(ctx context.Context, p *auth.Principal, taskID string, page dto.PageRequest) ([]dto.ActivityResponse, int64, error) {
	if _, err := uc.loadVisible(ctx, p, taskID); err != nil {
		return nil, 0, err
	}
	page.Normalize()
	activities, total, err := uc.activities.ListByTask(ctx, taskID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("listar actividades: %w", err)
	}
	return dto.NewActivityResponseList(activities), total, nil
}

// Delete elimina la tarea con su historial y sus notificaciones en una sola
// transacción.
func (uc *TaskUseCase) Delete(ctx context.Context, p *auth.Principal, id string) error {
	t, err := uc.loadModifiable(ctx, p, id)
	if err != nil {
		return err
	}
	return uc.tx.RunTask(ctx, func(
		tasks repository.TaskRepository,
		activities repository.TaskActivityRepository,
		notifications repository.NotificationRepository,
	) error {
		if err := notifications.DeleteByTask(ctx, t.ID); err != nil {
			return err
		}
		if err := activities.DeleteByTask(ctx, t.ID); err != nil {
			return err
		}
		return tasks.Delete(ctx, t.ID)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de visibilidad y autoría
// ──────────────────────────────────────────────────────────────────────────────

// loadVisible carga la tarea aplicando las reglas de lectura: otra empresa se
// responde como inexistente; fuera del alcance de departamento es
// DEPARTMENT_ACCESS_DENIED; un rol User solo ve tareas donde está asignado,
// incluso las que él mismo creó.
func (uc *TaskUseCase) loadVisible(ctx context.Context, p *auth.Principal, id string) (*entity.Task, error) {
	t, err := uc.loadInCompany(ctx, p, id)
	if err != nil {
		return nil, err
	}
	ok, err := uc.access.InDepartmentScope(ctx, p, t.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDepartmentAccessDenied
	}
	if p.User.Role == entity.RoleUser && !t.IsAssignee(p.UserID()) {
		return nil, domain.ErrForbidden
	}
	return t, nil
}

// loadModifiable carga la tarea y autoriza su mutación: el creador original
// siempre puede; Manager y SuperAdmin solo si el departamento de la tarea cae
// dentro de su alcance. Cualquier otro caso es PERMISSION_DENIED.
func (uc *TaskUseCase) loadModifiable(ctx context.Context, p *auth.Principal, id string) (*entity.Task, error) {
	t, err := uc.loadInCompany(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if t.CreatedBy == p.UserID() {
		return t, nil
	}
	if p.IsSuperAdmin() || p.IsManager() {
		ok, err := uc.access.InDepartmentScope(ctx, p, t.DepartmentID)
		if err != nil {
			return nil, err
		}
		if ok {
			return t, nil
		}
	}
	return nil, domain.ErrPermissionDenied
}

// loadInCompany carga la tarea; una de otra empresa se responde como
// inexistente para no revelar ids ajenos.
func (uc *TaskUseCase) loadInCompany(ctx context.Context, p *auth.Principal, id string) (*entity.Task, error) {
	t, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar tarea: %w", err)
	}
	if t == nil || t.CompanyID != p.CompanyID() {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

// taskDepartment resuelve el departamento de la tarea, reutilizando el del
// principal cuando coincide.
func (uc *TaskUseCase) taskDepartment(ctx context.Context, p *auth.Principal, t *entity.Task) (*entity.Department, error) {
	if t.DepartmentID == p.Department.ID {
		return p.Department, nil
	}
	dept, err := uc.departments.GetByID(ctx, t.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("resolver departamento de la tarea: %w", err)
	}
	if dept == nil {
		return nil, fmt.Errorf("departamento %s de la tarea %s no existe", t.DepartmentID, t.ID)
	}
	return dept, nil
}

// departmentWatchers resuelve quién vigila las tareas de proyecto de un
// departamento: sus gestores más los SuperAdmin activos adscritos a él.
func (uc *TaskUseCase) departmentWatchers(ctx context.Context, dept *entity.Department) ([]string, error) {
	watchers := append([]string(nil), dept.Managers...)
	admins, _, err := uc.users.List(ctx, repository.UserFilter{
		CompanyID:     dept.CompanyID,
		DepartmentIDs: []string{dept.ID},
		Role:          entity.RoleSuperAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("resolver observadores del departamento: %w", err)
	}
	for _, u := range admins {
		if u.IsActive {
			watchers = append(watchers, u.ID)
		}
	}
	return dedupe(watchers), nil
}

// validateAssignees exige que cada asignado exista, esté activo y pertenezca
// a la misma empresa y departamento que la tarea.
func (uc *TaskUseCase) validateAssignees(ctx context.Context, ids []string, companyID, departmentID string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := uc.users.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolver asignados: %w", err)
	}
	if len(found) != len(ids) {
		return domain.ErrInvalidAssignees
	}
	for _, u := range found {
		if !u.IsActive || u.CompanyID != companyID || u.DepartmentID != departmentID {
			return domain.ErrInvalidAssignees
		}
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones y pushes
// ──────────────────────────────────────────────────────────────────────────────

type push struct {
	userID       string
	departmentID string
	event        Event
}

// notifier acumula las notificaciones a persistir y sus pushes. Deduplica por
// destinatario dentro de la operación y nunca incluye al autor.
type notifier struct {
	task      *entity.Task
	performer string
	notifs    []*entity.Notification
	pushes    []push
	seen      map[string]struct{}
}

func newNotifier(t *entity.Task, performer string) *notifier {
	return &notifier{
		task:      t,
		performer: performer,
		seen:      map[string]struct{}{performer: {}},
	}
}

// add crea la notificación para el destinatario y encola su push individual.
// El autor y quien ya tenga una en esta operación se saltan.
func (n *notifier) add(recipientID, typ, title, message string) {
	notif := n.persist(recipientID, typ, title, message)
	if notif == nil {
		return
	}
	n.pushes = append(n.pushes, push{
		userID: recipientID,
		event:  Event{Type: typ, Payload: dto.NewNotificationResponse(notif)},
	})
}

// record crea la notificación sin push individual: las olas de departamento
// llegan en vivo por la sala (room), no destinatario a destinatario.
func (n *notifier) record(recipientID, typ, title, message string) {
	n.persist(recipientID, typ, title, message)
}

func (n *notifier) persist(recipientID, typ, title, message string) *entity.Notification {
	if recipientID == "" {
		return nil
	}
	if _, ok := n.seen[recipientID]; ok {
		return nil
	}
	n.seen[recipientID] = struct{}{}
	notif := &entity.Notification{
		ID:           uuid.New().String(),
		CompanyID:    n.task.CompanyID,
		RecipientID:  recipientID,
		SenderID:     n.performer,
		Type:         typ,
		Title:        title,
		Message:      message,
		TaskID:       &n.task.ID,
		DepartmentID: &n.task.DepartmentID,
		CreatedAt:    time.Now(),
	}
	n.notifs = append(n.notifs, notif)
	return notif
}

// room encola un frame para la sala del departamento de la tarea, con la
// tarea como payload.
func (n *notifier) room(typ string) {
	n.pushes = append(n.pushes, push{
		departmentID: n.task.DepartmentID,
		event:        Event{Type: typ, Payload: dto.NewTaskResponse(n.task)},
	})
}

// dispatch entrega los pushes acumulados. Solo se llama después del commit.
func (uc *TaskUseCase) dispatch(pushes []push) {
	for _, pu := range pushes {
		if pu.userID != "" {
			uc.pusher.PushToUser(pu.userID, pu.event)
			continue
		}
		uc.pusher.PushToDepartment(pu.departmentID, pu.event)
	}
}
