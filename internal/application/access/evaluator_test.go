package access_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tareas-api/internal/application/access"
	"github.com/jhoicas/Tareas-api/internal/application/auth"
	"github.com/jhoicas/Tareas-api/internal/domain"
	"github.com/jhoicas/Tareas-api/internal/domain/entity"
	"github.com/jhoicas/Tareas-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyA = "company-a"
	companyB = "company-b"

	deptVentas   = "dept-ventas"   // departamento propio del principal
	deptSoporte  = "dept-soporte"  // mismo tenant, gestionado por el manager
	deptLogistic = "dept-logistic" // mismo tenant, fuera de alcance
	deptAjeno    = "dept-ajeno"    // otro tenant
)

type fakeDepartmentRepo struct {
	depts map[string]*entity.Department
}

func newFakeDepartmentRepo(depts ...*entity.Department) *fakeDepartmentRepo {
	m := make(map[string]*entity.Department, len(depts))
	for _, d := range depts {
		m[d.ID] = d
	}
	return &fakeDepartmentRepo{depts: m}
}

func (f *fakeDepartmentRepo) Create(_ context.Context, d *entity.Department) error {
	f.depts[d.ID] = d
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*entity.Department, error) {
	return f.depts[id], nil
}

func (f *fakeDepartmentRepo) GetByName(_ context.Context, companyID, name string) (*entity.Department, error) {
	for _, d := range f.depts {
		if d.CompanyID == companyID && strings.EqualFold(d.Name, name) {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, d *entity.Department) error {
	f.depts[d.ID] = d
	return nil
}

func (f *fakeDepartmentRepo) List(_ context.Context, companyID string, includeInactive bool, _, _ int) ([]*entity.Department, int64, error) {
	var out []*entity.Department
	for _, d := range f.depts {
		if d.CompanyID == companyID && (includeInactive || d.IsActive) {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDepartmentRepo) ListManagedBy(_ context.Context, userID string) ([]*entity.Department, error) {
	var out []*entity.Department
	for _, d := range f.depts {
		if d.IsActive && d.HasManager(userID) {
			out = append(out, d)
		}
	}
	return out, nil
}

var _ repository.DepartmentRepository = (*fakeDepartmentRepo)(nil)

func principalWithRole(role string) *auth.Principal {
	return &auth.Principal{
		User: &entity.User{
			ID:           "user-1",
			CompanyID:    companyA,
			DepartmentID: deptVentas,
			Role:         role,
			IsActive:     true,
			IsVerified:   true,
		},
		Company:    &entity.Company{ID: companyA, IsActive: true},
		Department: &entity.Department{ID: deptVentas, CompanyID: companyA, IsActive: true},
	}
}

func buildEvaluator() *access.Evaluator {
	repo := newFakeDepartmentRepo(
		&entity.Department{ID: deptVentas, CompanyID: companyA, IsActive: true},
		&entity.Department{ID: deptSoporte, CompanyID: companyA, IsActive: true, Managers: []string{"user-1"}},
		&entity.Department{ID: deptLogistic, CompanyID: companyA, IsActive: true},
		&entity.Department{ID: deptAjeno, CompanyID: companyB, IsActive: true},
	)
	return access.NewEvaluator(repo)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckCompany
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckCompany_MismaEmpresaPasa(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleUser)

	assert.NoError(t, e.CheckCompany(p, companyA))
}

func TestCheckCompany_OtraEmpresaDenegada(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	err := e.CheckCompany(p, companyB)
	assert.ErrorIs(t, err, domain.ErrCrossTenantDenied,
		"ni siquiera SuperAdmin cruza la frontera del tenant")
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckDepartment
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckDepartment_DepartamentoPropioSiemprePasa(t *testing.T) {
	e := buildEvaluator()
	for _, role := range []string{entity.RoleSuperAdmin, entity.RoleManager, entity.RoleUser} {
		p := principalWithRole(role)
		dept, err := e.CheckDepartment(context.Background(), p, deptVentas)
		require.NoError(t, err, "rol %s debe acceder a su propio departamento", role)
		assert.Equal(t, deptVentas, dept.ID)
	}
}

func TestCheckDepartment_DesconocidoRetornaNotFound(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	_, err := e.CheckDepartment(context.Background(), p, "no-existe")
	assert.ErrorIs(t, err, domain.ErrDepartmentNotFound)
}

func TestCheckDepartment_OtroTenantDenegado(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	_, err := e.CheckDepartment(context.Background(), p, deptAjeno)
	assert.ErrorIs(t, err, domain.ErrCrossTenantDenied)
}

func TestCheckDepartment_SuperAdminAccedeCualquieraDeSuEmpresa(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	dept, err := e.CheckDepartment(context.Background(), p, deptLogistic)
	require.NoError(t, err)
	assert.Equal(t, deptLogistic, dept.ID)
}

func TestCheckDepartment_ManagerAccedeDeptGestionado(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleManager)

	dept, err := e.CheckDepartment(context.Background(), p, deptSoporte)
	require.NoError(t, err, "manager figura en managers de soporte")
	assert.Equal(t, deptSoporte, dept.ID)
}

func TestCheckDepartment_ManagerBloqueadoEnDeptNoGestionado(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleManager)

	_, err := e.CheckDepartment(context.Background(), p, deptLogistic)
	assert.ErrorIs(t, err, domain.ErrDepartmentAccessDenied)
}

func TestCheckDepartment_UserBloqueadoFueraDeSuDept(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleUser)

	_, err := e.CheckDepartment(context.Background(), p, deptSoporte)
	assert.ErrorIs(t, err, domain.ErrDepartmentAccessDenied,
		"rol User no accede ni a departamentos donde figure como manager")
}

// ──────────────────────────────────────────────────────────────────────────────
// InDepartmentScope / ScopedDepartments
// ──────────────────────────────────────────────────────────────────────────────

func TestInDepartmentScope_PorRol(t *testing.T) {
	e := buildEvaluator()
	ctx := context.Background()

	cases := []struct {
		name string
		role string
		dept string
		want bool
	}{
		{"user dept propio", entity.RoleUser, deptVentas, true},
		{"user otro dept", entity.RoleUser, deptSoporte, false},
		{"manager dept gestionado", entity.RoleManager, deptSoporte, true},
		{"manager dept no gestionado", entity.RoleManager, deptLogistic, false},
		{"superadmin cualquier dept", entity.RoleSuperAdmin, deptLogistic, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := principalWithRole(tc.role)
			got, err := e.InDepartmentScope(ctx, p, tc.dept)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScopedDepartments_SuperAdminSinFiltro(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	scope, err := e.ScopedDepartments(context.Background(), p)
	require.NoError(t, err)
	assert.Nil(t, scope, "nil significa toda la empresa")
}

func TestScopedDepartments_ManagerPropioMasGestionados(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleManager)

	scope, err := e.ScopedDepartments(context.Background(), p)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{deptVentas, deptSoporte}, scope)
}

func TestScopedDepartments_UserSoloElPropio(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleUser)

	scope, err := e.ScopedDepartments(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{deptVentas}, scope)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckUserManagement / CheckRoleAssignment
// ──────────────────────────────────────────────────────────────────────────────

func targetUser(id, companyID, deptID, role string) *entity.User {
	return &entity.User{ID: id, CompanyID: companyID, DepartmentID: deptID, Role: role}
}

func TestCheckUserManagement_OtroTenantDenegado(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	err := e.CheckUserManagement(p, targetUser("x", companyB, deptAjeno, entity.RoleUser))
	assert.ErrorIs(t, err, domain.ErrCrossTenantDenied)
}

func TestCheckUserManagement_SuperAdminGestionaCualquiera(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleSuperAdmin)

	assert.NoError(t, e.CheckUserManagement(p, targetUser("x", companyA, deptLogistic, entity.RoleManager)))
}

func TestCheckUserManagement_ManagerGestionaUserDeSuDept(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleManager)

	assert.NoError(t, e.CheckUserManagement(p, targetUser("x", companyA, deptVentas, entity.RoleUser)))
}

func TestCheckUserManagement_ManagerBloqueadoFueraDeSuDept(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleManager)

	// Ni siquiera en un departamento que gestiona: la gestión de usuarios es
	// solo del departamento propio.
	err := e.CheckUserManagement(p, targetUser("x", companyA, deptSoporte, entity.RoleUser))
	assert.ErrorIs(t, err, domain.ErrDepartmentAccessDenied)
}

func TestCheckUserManagement_ManagerNoTocaOtroManager(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleManager)

	err := e.CheckUserManagement(p, targetUser("x", companyA, deptVentas, entity.RoleManager))
	assert.ErrorIs(t, err, domain.ErrPrivilegeDenied)
}

func TestCheckUserManagement_UserSoloASiMismo(t *testing.T) {
	e := buildEvaluator()
	p := principalWithRole(entity.RoleUser)

	assert.NoError(t, e.CheckUserManagement(p, targetUser("user-1", companyA, deptVentas, entity.RoleUser)))

	err := e.CheckUserManagement(p, targetUser("otro", companyA, deptVentas, entity.RoleUser))
	assert.ErrorIs(t, err, domain.ErrPrivilegeDenied)
}

func TestCheckRoleAssignment(t *testing.T) {
	e := buildEvaluator()

	superAdmin := principalWithRole(entity.RoleSuperAdmin)
	manager := principalWithRole(entity.RoleManager)

	assert.NoError(t, e.CheckRoleAssignment(superAdmin, entity.RoleManager))
	assert.NoError(t, e.CheckRoleAssignment(manager, entity.RoleUser))
	assert.ErrorIs(t, e.CheckRoleAssignment(manager, entity.RoleManager), domain.ErrPrivilegeDenied,
		"solo SuperAdmin otorga roles por encima de User")
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckUserRead
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckUserRead_DirectorioPorAlcance(t *testing.T) {
	e := buildEvaluator()
	ctx := context.Background()

	user := principalWithRole(entity.RoleUser)
	manager := principalWithRole(entity.RoleManager)

	// Compañero del mismo departamento: visible para rol User.
	assert.NoError(t, e.CheckUserRead(ctx, user, targetUser("x", companyA, deptVentas, entity.RoleUser)))

	// Usuario de otro departamento: fuera del alcance de rol User.
	err := e.CheckUserRead(ctx, user, targetUser("x", companyA, deptSoporte, entity.RoleUser))
	assert.ErrorIs(t, err, domain.ErrDepartmentAccessDenied)

	// Manager ve también los departamentos que gestiona.
	assert.NoError(t, e.CheckUserRead(ctx, manager, targetUser("x", companyA, deptSoporte, entity.RoleUser)))

	// Otro tenant nunca.
	err = e.CheckUserRead(ctx, manager, targetUser("x", companyB, deptAjeno, entity.RoleUser))
	assert.ErrorIs(t, err, domain.ErrCrossTenantDenied)
}
