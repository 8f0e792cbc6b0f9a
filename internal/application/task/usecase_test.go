package task_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/application/dto"
	"github.com/jhoicas/Tareas-api/internal/application/task"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
	taskstate "github.com/jhoicas/Tareas-api/internal/domain/task"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	tasks   map[string]*entity.Task
	updates int
}

func newFakeTaskRepo() *fakeTaskRepo { return &fakeTaskRepo{tasks: map[string]*entity.Task{}} }

func (f *fakeTaskRepo) Create(_ context.Context, t *entity.Task) error {
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, t *entity.Task) error {
	f.updates++
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) List(_ context.Context, flt repository.TaskFilter) ([]*entity.Task, int64, error) {
	var out []*entity.Task
	for _, t := range f.tasks {
		if t.CompanyID != flt.CompanyID {
			continue
		}
		if len(flt.DepartmentIDs) > 0 && !contains(flt.DepartmentIDs, t.DepartmentID) {
			continue
		}
		if flt.Status != "" && t.Status != flt.Status {
			continue
		}
		if flt.TaskType != "" && t.TaskType != flt.TaskType {
			continue
		}
		if flt.AssigneeID != "" && !t.IsAssignee(flt.AssigneeID) {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type fakeActivityRepo struct {
	activities []*entity.TaskActivity
}

func (f *fakeActivityRepo) Create(_ context.Context, a *entity.TaskActivity) error {
	f.activities = append(f.activities, a)
	return nil
}

func (f *fakeActivityRepo) ListByTask(_ context.Context, taskID string, _, _ int) ([]*entity.TaskActivity, int64, error) {
	var out []*entity.TaskActivity
	for _, a := range f.activities {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeActivityRepo) DeleteByTask(_ context.Context, taskID string) error {
	var kept []*entity.TaskActivity
	for _, a := range f.activities {
		if a.TaskID != taskID {
			kept = append(kept, a)
		}
	}
	f.activities = kept
	return nil
}

type fakeNotificationRepo struct {
	notifs []*entity.Notification
}

func (f *fakeNotificationRepo) CreateBatch(_ context.Context, ns []*entity.Notification) error {
	f.notifs = append(f.notifs, ns...)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, _, _ int) ([]*entity.Notification, int64, error) {
	var out []*entity.Notification
	for _, n := range f.notifs {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, recipientID string) (bool, error) {
	for _, n := range f.notifs {
		if n.ID == id && n.RecipientID == recipientID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) error {
	for _, n := range f.notifs {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) UnreadCount(_ context.Context, recipientID string) (int64, error) {
	var count int64
	for _, n := range f.notifs {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) DeleteByTask(_ context.Context, taskID string) error {
	var kept []*entity.Notification
	for _, n := range f.notifs {
		if n.TaskID == nil || *n.TaskID != taskID {
			kept = append(kept, n)
		}
	}
	f.notifs = kept
	return nil
}

func (f *fakeNotificationRepo) byRecipient(recipientID string) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range f.notifs {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, flt repository.UserFilter) ([]*entity.User, int64, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.CompanyID != flt.CompanyID {
			continue
		}
		if len(flt.DepartmentIDs) > 0 && !contains(flt.DepartmentIDs, u.DepartmentID) {
			continue
		}
		if flt.Role != "" && u.Role != flt.Role {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) GetByVerificationToken(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByResetToken(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailChangeToken(_ context.Context, _ string) (*entity.User, error) {
	return nil, nil
}

type fakeDeptRepo struct {
	depts map[string]*entity.Department
}

func (f *fakeDeptRepo) Create(_ context.Context, d *entity.Department) error {
	f.depts[d.ID] = d
	return nil
}

func (f *fakeDeptRepo) GetByID(_ context.Context, id string) (*entity.Department, error) {
	return f.depts[id], nil
}

func (f *fakeDeptRepo) GetByName(_ context.Context, companyID, name string) (*entity.Department, error) {
	for _, d := range f.depts {
		if d.CompanyID == companyID && strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDeptRepo) Update(_ context.Context, d *entity.Department) error {
	f.depts[d.ID] = d
	return nil
}

func (f *fakeDeptRepo) List(_ context.Context, _ string, _ bool, _, _ int) ([]*entity.Department, int64, error) {
	return nil, 0, nil
}

func (f *fakeDeptRepo) ListManagedBy(_ context.Context, userID string) ([]*entity.Department, error) {
	var out []*entity.Department
	for _, d := range f.depts {
		if d.IsActive && d.HasManager(userID) {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeTxRunner pasa los mismos fakes al callback; no hay transacción real.
type fakeTxRunner struct {
	tasks   *fakeTaskRepo
	acts    *fakeActivityRepo
	notifs  *fakeNotificationRepo
	commits int
}

func (f *fakeTxRunner) RunTask(_ context.Context, fn func(
	tasks repository.TaskRepository,
	activities repository.TaskActivityRepository,
	notifications repository.NotificationRepository,
) error) error {
	if err := fn(f.tasks, f.acts, f.notifs); err != nil {
		return err
	}
	f.commits++
	return nil
}

type pushedEvent struct {
	userID       string
	departmentID string
	event        task.Event
}

type fakePusher struct {
	events []pushedEvent
}

func (f *fakePusher) PushToUser(userID string, ev task.Event) {
	f.events = append(f.events, pushedEvent{userID: userID, event: ev})
}

func (f *fakePusher) PushToDepartment(departmentID string, ev task.Event) {
	f.events = append(f.events, pushedEvent{departmentID: departmentID, event: ev})
}

func (f *fakePusher) toUser(userID string) []pushedEvent {
	var out []pushedEvent
	for _, e := range f.events {
		if e.userID == userID {
			out = append(out, e)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado del escenario
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc     *task.TaskUseCase
	tasks  *fakeTaskRepo
	acts   *fakeActivityRepo
	notifs *fakeNotificationRepo
	pusher *fakePusher
	tx     *fakeTxRunner
}

// Usuarios del escenario: gerente y dos usuarios en ventas, un usuario y un
// SuperAdmin adscritos a soporte (gestionado por el gerente) y un tenant
// ajeno completo.
func newFixture() *fixture {
	users := &fakeUserRepo{users: map[string]*entity.User{
		"manager-1": {ID: "manager-1", CompanyID: companyA, DepartmentID: deptVentas, Role: entity.RoleManager, IsActive: true, IsVerified: true},
		"user-a":    {ID: "user-a", CompanyID: companyA, DepartmentID: deptVentas, Role: entity.RoleUser, IsActive: true, IsVerified: true},
		"user-b":    {ID: "user-b", CompanyID: companyA, DepartmentID: deptVentas, Role: entity.RoleUser, IsActive: true, IsVerified: true},
		"user-c":    {ID: "user-c", CompanyID: companyA, DepartmentID: deptSoporte, Role: entity.RoleUser, IsActive: true, IsVerified: true},
		"admin-1":   {ID: "admin-1", CompanyID: companyA, DepartmentID: deptSoporte, Role: entity.RoleSuperAdmin, IsActive: true, IsVerified: true},
		"inactivo":  {ID: "inactivo", CompanyID: companyA, DepartmentID: deptVentas, Role: entity.RoleUser, IsActive: false, IsVerified: true},
	}}
	depts := &fakeDeptRepo{depts: map[string]*entity.Department{
		deptVentas:  {ID: deptVentas, CompanyID: companyA, IsActive: true, Managers: []string{"manager-1"}},
		deptSoporte: {ID: deptSoporte, CompanyID: companyA, IsActive: true, Managers: []string{"manager-1"}},
		deptAjeno:   {ID: deptAjeno, CompanyID: companyB, IsActive: true},
	}}

	tasks := newFakeTaskRepo()
	acts := &fakeActivityRepo{}
	notifs := &fakeNotificationRepo{}
	tx := &fakeTxRunner{tasks: tasks, acts: acts, notifs: notifs}
	pusher := &fakePusher{}
	evaluator := access.NewEvaluator(depts)

	return &fixture{
		uc:     task.NewTaskUseCase(tasks, acts, users, depts, evaluator, tx, pusher),
		tasks:  tasks,
		acts:   acts,
		notifs: notifs,
		pusher: pusher,
		tx:     tx,
	}
}

func principalFor(userID, role, deptID string) *auth.Principal {
	return &auth.Principal{
		User:       &entity.User{ID: userID, CompanyID: companyA, DepartmentID: deptID, Role: role, IsActive: true, IsVerified: true},
		Company:    &entity.Company{ID: companyA, IsActive: true},
		Department: &entity.Department{ID: deptID, CompanyID: companyA, IsActive: true, Managers: []string{"manager-1"}},
	}
}

const (
	companyA    = "company-a"
	companyB    = "company-b"
	deptVentas  = "dept-ventas"
	deptSoporte = "dept-soporte"
	deptAjeno   = "dept-ajeno"
)

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// validCreate arma una petición de alta completa en ventas; cada prueba
// ajusta los campos que le interesan.
func validCreate(taskType string) dto.CreateTaskRequest {
	due := time.Now().Add(48 * time.Hour)
	return dto.CreateTaskRequest{
		Title:        "Cierre de mes",
		Description:  "Conciliar ventas y caja",
		Location:     "Oficina central",
		DueDate:      &due,
		TaskType:     taskType,
		DepartmentID: deptVentas,
	}
}

func TestCreate_AssignedTaskNotificaAsignadosMenosElAutor(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-a", "user-b", "manager-1"}
	resp, err := fx.uc.Create(context.Background(), manager, req)
	require.NoError(t, err)

	assert.Equal(t, taskstate.StatusToDo, resp.Status, "el estado inicial lo fija el servidor")
	assert.Equal(t, entity.PriorityMedium, resp.Priority, "la prioridad por defecto es Medium")
	assert.Equal(t, "manager-1", resp.CreatedBy)

	// Notificaciones persistidas: user-a y user-b, nunca el autor.
	assert.Len(t, fx.notifs.byRecipient("user-a"), 1)
	assert.Len(t, fx.notifs.byRecipient("user-b"), 1)
	assert.Empty(t, fx.notifs.byRecipient("manager-1"), "el autor no se notifica a sí mismo")
	assert.Equal(t, entity.NotificationTaskAssignment, fx.notifs.byRecipient("user-a")[0].Type)

	// Pushes individuales después del commit.
	assert.Len(t, fx.pusher.toUser("user-a"), 1)
	assert.Len(t, fx.pusher.toUser("user-b"), 1)
	assert.Equal(t, 1, fx.tx.commits)
}

func TestCreate_CamposObligatoriosIncompletos(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-a"}
	req.Description = "   "
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields, "descripción en blanco")

	req = validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-a"}
	req.Location = ""
	_, err = fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields, "sin ubicación")

	req = validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-a"}
	req.DueDate = nil
	_, err = fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields, "sin fecha límite")

	assert.Equal(t, 0, fx.tx.commits, "ninguna variante debe escribir")
}

func TestCreate_FechaLimitePasadaRechazada(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-a"}
	pasada := time.Now().Add(-time.Hour)
	req.DueDate = &pasada
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_AssignedSinAsignadosRechazada(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned) // sin AssignedTo
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees)
}

func TestCreate_AsignadoDeOtroDepartamentoRechazado(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-c"} // pertenece a soporte
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees)
	assert.Equal(t, 0, fx.tx.commits, "no debe haber escritura")
}

func TestCreate_AsignadoInactivoRechazado(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"user-a", "inactivo"}
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees)
}

func TestCreate_AsignadoInexistenteRechazado(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.AssignedTo = []string{"no-existe"}
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees)
}

func TestCreate_UserTambienPuedeCrearProjectTask(t *testing.T) {
	fx := newFixture()
	user := principalFor("user-a", entity.RoleUser, deptVentas)

	req := validCreate(entity.TaskTypeProject)
	req.ClientInfo = &dto.ClientInfoPayload{Name: "ACME", Phone: "0911234567"}
	resp, err := fx.uc.Create(context.Background(), user, req)
	require.NoError(t, err)
	assert.Equal(t, "user-a", resp.CreatedBy)

	// El gestor del departamento es observador y recibe la notificación.
	require.Len(t, fx.notifs.byRecipient("manager-1"), 1)
}

func TestCreate_ProjectTaskConAsignadosRechazada(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeProject)
	req.ClientInfo = &dto.ClientInfoPayload{Name: "ACME", Phone: "0911234567"}
	req.AssignedTo = []string{"user-a"}
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees)
}

func TestCreate_ProjectTaskSinClienteRechazada(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeProject) // sin ClientInfo
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields)

	req = validCreate(entity.TaskTypeProject)
	req.ClientInfo = &dto.ClientInfoPayload{Name: "  ", Phone: "0911234567"}
	_, err = fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredFields, "nombre de cliente en blanco")
}

func TestCreate_ProjectTaskNormalizaTelefonoYNotificaSala(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeProject)
	req.Title = "Instalación cliente"
	req.ClientInfo = &dto.ClientInfoPayload{Name: "ACME", Phone: "0911234567", Address: "Bole"}
	resp, err := fx.uc.Create(context.Background(), manager, req)
	require.NoError(t, err)
	require.NotNil(t, resp.ClientInfo)
	assert.Equal(t, "+251911234567", resp.ClientInfo.Phone)

	// El único observador de ventas es el gestor, que es el autor: sin
	// notificaciones persistidas, pero la sala del departamento sí recibe el
	// frame.
	assert.Empty(t, fx.notifs.notifs)
	var roomPushes int
	for _, e := range fx.pusher.events {
		if e.departmentID == deptVentas {
			roomPushes++
		}
	}
	assert.Equal(t, 1, roomPushes)
}

func TestCreate_ProjectTaskNotificaObservadoresDelDepartamento(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	// En soporte el gestor (autor) se salta, pero el SuperAdmin adscrito al
	// departamento sí es observador.
	req := validCreate(entity.TaskTypeProject)
	req.Title = "Migración cliente"
	req.DepartmentID = deptSoporte
	req.ClientInfo = &dto.ClientInfoPayload{Name: "ACME", Phone: "0911234567"}
	_, err := fx.uc.Create(context.Background(), manager, req)
	require.NoError(t, err)

	notifsAdmin := fx.notifs.byRecipient("admin-1")
	require.Len(t, notifsAdmin, 1)
	assert.Equal(t, entity.NotificationTaskUpdate, notifsAdmin[0].Type)
	assert.Empty(t, fx.notifs.byRecipient("user-c"), "los miembros rasos no son observadores")

	// Los observadores reciben el frame en vivo por la sala, no push directo.
	assert.Empty(t, fx.pusher.toUser("admin-1"))
	var roomPushes int
	for _, e := range fx.pusher.events {
		if e.departmentID == deptSoporte {
			roomPushes++
		}
	}
	assert.Equal(t, 1, roomPushes)
}

func TestCreate_ProjectTaskConTelefonoInvalido(t *testing.T) {
	fx := newFixture()
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeProject)
	req.ClientInfo = &dto.ClientInfoPayload{Name: "ACME", Phone: "12345"}
	_, err := fx.uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPhone)
}

func TestCreate_DepartamentoDesactivadoRechazado(t *testing.T) {
	depts := &fakeDeptRepo{depts: map[string]*entity.Department{
		deptVentas:  {ID: deptVentas, CompanyID: companyA, IsActive: true, Managers: []string{"manager-1"}},
		deptSoporte: {ID: deptSoporte, CompanyID: companyA, IsActive: false, Managers: []string{"manager-1"}},
	}}
	fx := newFixture()
	uc := task.NewTaskUseCase(fx.tasks, fx.acts, &fakeUserRepo{users: map[string]*entity.User{}},
		depts, access.NewEvaluator(depts), fx.tx, fx.pusher)
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	req := validCreate(entity.TaskTypeAssigned)
	req.DepartmentID = deptSoporte
	req.AssignedTo = []string{"user-a"}
	_, err := uc.Create(context.Background(), manager, req)
	assert.ErrorIs(t, err, domain.ErrDepartmentDeactivated)
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / List — visibilidad
// ──────────────────────────────────────────────────────────────────────────────

func seedTask(fx *fixture, t *entity.Task) {
	fx.tasks.tasks[t.ID] = t
}

func baseTask() *entity.Task {
	return &entity.Task{
		ID:           "task-1",
		CompanyID:    companyA,
		DepartmentID: deptVentas,
		CreatedBy:    "manager-1",
		Title:        "Cierre de mes",
		Description:  "Conciliar ventas y caja",
		Location:     "Oficina central",
		TaskType:     entity.TaskTypeAssigned,
		Status:       taskstate.StatusToDo,
		Priority:     entity.PriorityMedium,
		DueDate:      time.Now().Add(72 * time.Hour),
		AssignedTo:   []string{"user-a"},
	}
}

func TestGet_OtraEmpresaSeRespondeComoInexistente(t *testing.T) {
	fx := newFixture()
	ajena := baseTask()
	ajena.ID = "task-ajena"
	ajena.CompanyID = companyB
	ajena.DepartmentID = deptAjeno
	seedTask(fx, ajena)

	_, err := fx.uc.Get(context.Background(), principalFor("manager-1", entity.RoleManager, deptVentas), "task-ajena")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound,
		"una tarea de otro tenant no debe revelar su existencia")
}

func TestGet_FueraDelAlcanceDeDepartamento(t *testing.T) {
	fx := newFixture()
	soporte := baseTask()
	soporte.ID = "task-soporte"
	soporte.DepartmentID = deptSoporte
	soporte.AssignedTo = []string{"user-c"}
	seedTask(fx, soporte)

	// user-a es de ventas: soporte queda fuera de su alcance.
	_, err := fx.uc.Get(context.Background(), principalFor("user-a", entity.RoleUser, deptVentas), "task-soporte")
	assert.ErrorIs(t, err, domain.ErrDepartmentAccessDenied)
}

func TestGet_UserNoAsignadoProhibido(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // asignada a user-a, creada por manager-1

	_, err := fx.uc.Get(context.Background(), principalFor("user-b", entity.RoleUser, deptVentas), "task-1")
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"mismo departamento pero no asignado")
}

func TestGet_CreadorUserSinAsignacionTambienProhibido(t *testing.T) {
	fx := newFixture()
	creada := baseTask()
	creada.CreatedBy = "user-b" // user-b la creó pero la asignó a user-a
	seedTask(fx, creada)

	_, err := fx.uc.Get(context.Background(), principalFor("user-b", entity.RoleUser, deptVentas), "task-1")
	assert.ErrorIs(t, err, domain.ErrForbidden,
		"para un rol User la visibilidad es por asignación, no por autoría")
}

func TestGet_AsignadoVeLaTarea(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())

	resp, err := fx.uc.Get(context.Background(), principalFor("user-a", entity.RoleUser, deptVentas), "task-1")
	require.NoError(t, err)
	assert.Equal(t, "task-1", resp.ID)
}

func TestList_UserSoloVeDondeEstaAsignado(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // user-a asignado
	otra := baseTask()
	otra.ID = "task-2"
	otra.AssignedTo = []string{"user-b"}
	seedTask(fx, otra)
	creada := baseTask()
	creada.ID = "task-3"
	creada.CreatedBy = "user-a" // suya, pero asignada a otro
	creada.AssignedTo = []string{"user-b"}
	seedTask(fx, creada)

	got, total, err := fx.uc.List(context.Background(), principalFor("user-a", entity.RoleUser, deptVentas), dto.TaskListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "la autoría no da visibilidad en el listado")
	require.Len(t, got, 1)
	assert.Equal(t, "task-1", got[0].ID)
}

func TestList_ManagerVeSuDeptYLosGestionados(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	soporte := baseTask()
	soporte.ID = "task-soporte"
	soporte.DepartmentID = deptSoporte
	seedTask(fx, soporte)

	_, total, err := fx.uc.List(context.Background(), principalFor("manager-1", entity.RoleManager, deptVentas), dto.TaskListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update — diff y notificaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_IdenticaEsNoOpTotal(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	title := "Cierre de mes"
	resp, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Cierre de mes", resp.Title)
	assert.Equal(t, 0, fx.tasks.updates, "sin cambios no debe escribirse la fila")
	assert.Equal(t, 0, fx.tx.commits)
	assert.Empty(t, fx.notifs.notifs)
	assert.Empty(t, fx.pusher.events)
}

func TestUpdate_TipoSeDescartaSinEfecto(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	tipo := entity.TaskTypeProject
	resp, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{TaskType: &tipo})
	require.NoError(t, err)

	assert.Equal(t, entity.TaskTypeAssigned, resp.TaskType, "la variante es inmutable")
	assert.Equal(t, 0, fx.tasks.updates, "descartado el tipo no queda nada que escribir")
	assert.Empty(t, fx.notifs.notifs)
}

func TestUpdate_AsignadoNoCreadorNoPuedeEditar(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())

	title := "Intento de edición"
	_, err := fx.uc.Update(context.Background(), principalFor("user-a", entity.RoleUser, deptVentas), "task-1", dto.UpdateTaskRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied,
		"ser asignado permite ver y actuar, no editar campos")
}

func TestUpdate_ManagerFueraDeAlcanceEsPermissionDenied(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // tarea de ventas

	// manager-2 es gerente adscrito a soporte; ventas queda fuera de su alcance.
	ajeno := principalFor("manager-2", entity.RoleManager, deptSoporte)
	titulo := "Intento desde otro departamento"
	_, err := fx.uc.Update(context.Background(), ajeno, "task-1", dto.UpdateTaskRequest{Title: &titulo})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, 0, fx.tasks.updates, "ningún campo debe mutar")
}

func TestUpdate_CreadorUserEditaAunqueNoEsteAsignado(t *testing.T) {
	fx := newFixture()
	creada := baseTask()
	creada.CreatedBy = "user-b" // creada por user-b, asignada a user-a
	seedTask(fx, creada)

	titulo := "Ajuste del creador"
	resp, err := fx.uc.Update(context.Background(), principalFor("user-b", entity.RoleUser, deptVentas), "task-1", dto.UpdateTaskRequest{Title: &titulo})
	require.NoError(t, err)
	assert.Equal(t, "Ajuste del creador", resp.Title)
}

func TestUpdate_DiffDirigeLasNotificaciones(t *testing.T) {
	fx := newFixture()
	stored := baseTask()
	stored.AssignedTo = []string{"user-a", "user-b"}
	seedTask(fx, stored)
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	// user-b sale, user-c no puede entrar (otro dept) → primero un caso válido:
	nuevo := []string{"user-a"}
	titulo := "Cierre de mes revisado"
	resp, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{
		Title:      &titulo,
		AssignedTo: &nuevo,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"user-a"}, resp.AssignedTo)

	// user-b: notificación de reasignación; user-a: actualización de campos.
	notifsB := fx.notifs.byRecipient("user-b")
	require.Len(t, notifsB, 1)
	assert.Equal(t, entity.NotificationTaskUpdate, notifsB[0].Type)
	assert.Contains(t, notifsB[0].Message, "Ya no estás asignado")

	notifsA := fx.notifs.byRecipient("user-a")
	require.Len(t, notifsA, 1)
	assert.Equal(t, entity.NotificationTaskUpdate, notifsA[0].Type)
	assert.Contains(t, notifsA[0].Message, "fue actualizada")

	assert.Equal(t, 1, fx.tasks.updates)
	assert.Equal(t, 1, fx.tx.commits)
}

func TestUpdate_NuevoAsignadoRecibeSoloAsignacion(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // asignada a user-a
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	nuevo := []string{"user-a", "user-b"}
	titulo := "Cierre con refuerzo"
	_, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{
		Title:      &titulo,
		AssignedTo: &nuevo,
	})
	require.NoError(t, err)

	// user-b entra: una sola notificación (TaskAssignment), no además la de
	// campos actualizados.
	notifsB := fx.notifs.byRecipient("user-b")
	require.Len(t, notifsB, 1)
	assert.Equal(t, entity.NotificationTaskAssignment, notifsB[0].Type)
}

func TestUpdate_AsignadoNuevoInvalidoRechazaTodo(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	nuevo := []string{"user-a", "user-c"} // user-c es de soporte
	_, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{AssignedTo: &nuevo})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees)
	assert.Equal(t, 0, fx.tasks.updates)
}

func TestUpdate_AttachmentsNoNotifican(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	adj := []string{"informe.pdf"}
	_, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{Attachments: &adj})
	require.NoError(t, err)

	assert.Equal(t, 1, fx.tasks.updates, "attachments sí escriben")
	assert.Empty(t, fx.notifs.notifs, "attachments no notifican")
	assert.Empty(t, fx.pusher.events)
}

func TestUpdate_NotificaAlCreadorCuandoEditaOtro(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // creada por manager-1, asignada a user-a
	admin := principalFor("admin-1", entity.RoleSuperAdmin, deptSoporte)

	titulo := "Cierre auditado"
	_, err := fx.uc.Update(context.Background(), admin, "task-1", dto.UpdateTaskRequest{Title: &titulo})
	require.NoError(t, err)

	notifsCreador := fx.notifs.byRecipient("manager-1")
	require.Len(t, notifsCreador, 1)
	assert.Contains(t, notifsCreador[0].Message, "fue actualizada")
	assert.Len(t, fx.notifs.byRecipient("user-a"), 1, "el asignado original también se entera")
	assert.Empty(t, fx.notifs.byRecipient("admin-1"), "el autor del cambio no se notifica")
}

func TestUpdate_VaciarAsignadosRechazado(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	vacio := []string{}
	_, err := fx.uc.Update(context.Background(), manager, "task-1", dto.UpdateTaskRequest{AssignedTo: &vacio})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignees,
		"una tarea asignada no puede quedarse sin asignados")
	assert.Equal(t, 0, fx.tasks.updates)
}

func TestUpdate_ProyectoNotificaObservadoresYSala(t *testing.T) {
	fx := newFixture()
	proyecto := baseTask()
	proyecto.ID = "task-proy"
	proyecto.DepartmentID = deptSoporte
	proyecto.TaskType = entity.TaskTypeProject
	proyecto.AssignedTo = nil
	proyecto.ClientInfo = &entity.ClientInfo{Name: "ACME", Phone: "+251911234567"}
	seedTask(fx, proyecto)
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	prioridad := entity.PriorityUrgent
	_, err := fx.uc.Update(context.Background(), manager, "task-proy", dto.UpdateTaskRequest{Priority: &prioridad})
	require.NoError(t, err)

	require.Len(t, fx.notifs.byRecipient("admin-1"), 1)
	var roomPushes int
	for _, e := range fx.pusher.events {
		if e.departmentID == deptSoporte {
			roomPushes++
		}
	}
	assert.Equal(t, 1, roomPushes, "la sala del departamento recibe el frame")
}

// ──────────────────────────────────────────────────────────────────────────────
// LogActivity — transiciones de estado
// ──────────────────────────────────────────────────────────────────────────────

func TestLogActivity_TransicionValidaEscribeHistorialYNotifica(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // To Do, creada por manager-1, asignada a user-a
	asignado := principalFor("user-a", entity.RoleUser, deptVentas)

	resp, err := fx.uc.LogActivity(context.Background(), asignado, "task-1", dto.CreateActivityRequest{
		Description: "Empezando el informe",
		Status:      taskstate.StatusInProgress,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	require.NotNil(t, resp.StatusFrom)
	require.NotNil(t, resp.StatusTo)
	assert.Equal(t, taskstate.StatusToDo, *resp.StatusFrom)
	assert.Equal(t, taskstate.StatusInProgress, *resp.StatusTo)

	stored, _ := fx.tasks.GetByID(context.Background(), "task-1")
	assert.Equal(t, taskstate.StatusInProgress, stored.Status)

	// El creador se notifica; el autor (asignado) no.
	require.Len(t, fx.notifs.byRecipient("manager-1"), 1)
	assert.Equal(t, entity.NotificationTaskStatus, fx.notifs.byRecipient("manager-1")[0].Type)
	assert.Empty(t, fx.notifs.byRecipient("user-a"))
	assert.Len(t, fx.acts.activities, 1)
}

func TestLogActivity_TransicionInvalida(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask()) // To Do
	asignado := principalFor("user-a", entity.RoleUser, deptVentas)

	_, err := fx.uc.LogActivity(context.Background(), asignado, "task-1", dto.CreateActivityRequest{
		Description: "Saltando a completada",
		Status:      taskstate.StatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Empty(t, fx.acts.activities)
}

func TestLogActivity_EnProgresoAEnProgresoEsNoOpAceptado(t *testing.T) {
	fx := newFixture()
	enCurso := baseTask()
	enCurso.Status = taskstate.StatusInProgress
	seedTask(fx, enCurso)
	asignado := principalFor("user-a", entity.RoleUser, deptVentas)

	resp, err := fx.uc.LogActivity(context.Background(), asignado, "task-1", dto.CreateActivityRequest{
		Description: "Sigo en ello",
		Status:      taskstate.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Nil(t, resp, "el no-op aceptado no devuelve actividad")
	assert.Empty(t, fx.acts.activities, "no debe registrar nada")
	assert.Empty(t, fx.notifs.notifs, "no debe notificar a nadie")
	assert.Equal(t, 0, fx.tx.commits)
}

func TestLogActivity_NuncaSeVuelveAToDo(t *testing.T) {
	fx := newFixture()
	enCurso := baseTask()
	enCurso.Status = taskstate.StatusInProgress
	seedTask(fx, enCurso)
	asignado := principalFor("user-a", entity.RoleUser, deptVentas)

	_, err := fx.uc.LogActivity(context.Background(), asignado, "task-1", dto.CreateActivityRequest{
		Description: "Reinicio",
		Status:      taskstate.StatusToDo,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestLogActivity_SinEstadoSoloRegistra(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	asignado := principalFor("user-a", entity.RoleUser, deptVentas)

	resp, err := fx.uc.LogActivity(context.Background(), asignado, "task-1", dto.CreateActivityRequest{
		Description: "Nota de avance",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Nil(t, resp.StatusFrom)
	assert.Nil(t, resp.StatusTo)

	stored, _ := fx.tasks.GetByID(context.Background(), "task-1")
	assert.Equal(t, taskstate.StatusToDo, stored.Status, "el estado no cambia")
	assert.Empty(t, fx.notifs.notifs, "sin transición no hay notificaciones")
}

func TestLogActivity_NoParticipanteProhibido(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())

	_, err := fx.uc.LogActivity(context.Background(), principalFor("user-b", entity.RoleUser, deptVentas), "task-1", dto.CreateActivityRequest{
		Description: "Intromisión",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_EliminaTareaHistorialYNotificaciones(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())
	manager := principalFor("manager-1", entity.RoleManager, deptVentas)

	// Generar historial y notificaciones reales antes de borrar.
	_, err := fx.uc.LogActivity(context.Background(), manager, "task-1", dto.CreateActivityRequest{
		Description: "Arrancamos",
		Status:      taskstate.StatusInProgress,
	})
	require.NoError(t, err)
	require.NotEmpty(t, fx.acts.activities)
	require.NotEmpty(t, fx.notifs.notifs)

	require.NoError(t, fx.uc.Delete(context.Background(), manager, "task-1"))

	got, _ := fx.tasks.GetByID(context.Background(), "task-1")
	assert.Nil(t, got)
	assert.Empty(t, fx.acts.activities)
	assert.Empty(t, fx.notifs.notifs)
}

func TestDelete_AsignadoNoCreadorProhibido(t *testing.T) {
	fx := newFixture()
	seedTask(fx, baseTask())

	err := fx.uc.Delete(context.Background(), principalFor("user-a", entity.RoleUser, deptVentas), "task-1")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}
