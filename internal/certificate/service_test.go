package certificate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushr/hr-management-api/internal/certificate/model"
	emodel "github.com/campushr/hr-management-api/internal/employee/model"
	omodel "github.com/campushr/hr-management-api/internal/organization/model"
	"github.com/campushr/hr-management-api/internal/system/stores"
)

type fakeCertificateStore struct {
	templates map[string]*model.CertificateTemplate
}

func (f *fakeCertificateStore) GetTemplateByID(ctx context.Context, templateID string) (*model.CertificateTemplate, error) {
	if t, ok := f.templates[templateID]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeCertificateStore) ListTemplates(ctx context.Context) ([]model.CertificateTemplate, error) {
	out := []model.CertificateTemplate{}
	for _, t := range f.templates {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeCertificateStore) CreateTemplate(ctx context.Context, t *model.CertificateTemplate) error {
	copied := *t
	f.templates[t.TemplateID] = &copied
	return nil
}

func (f *fakeCertificateStore) UpdateTemplate(ctx context.Context, t *model.CertificateTemplate) error {
	return f.CreateTemplate(ctx, t)
}

func (f *fakeCertificateStore) SetTemplatePublished(ctx context.Context, templateID string, published bool, updatedTime int64) error {
	if t, ok := f.templates[templateID]; ok {
		t.Published = published
		t.UpdatedTime = updatedTime
	}
	return nil
}

func (f *fakeCertificateStore) DeleteTemplate(ctx context.Context, templateID string) error {
	delete(f.templates, templateID)
	return nil
}

type fakeEmployeeStore struct {
	byID map[string]*emodel.Employee
}

func (f *fakeEmployeeStore) GetEmployeeByID(ctx context.Context, employeeID string) (*emodel.Employee, error) {
	return f.byID[employeeID], nil
}
func (f *fakeEmployeeStore) GetEmployeeByUserID(ctx context.Context, userID string) (*emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployees(ctx context.Context) ([]emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployeesByPosition(ctx context.Context, positionID string) ([]emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployeesByPositionInDepartment(ctx context.Context, positionID, departmentID string) ([]emodel.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeStore) ListEmployeesByPositionInFaculty(ctx context.Context, positionID, facultyID string) ([]emodel.Employee, error) {
	return nil, nil
}

type fakeOrgStore struct {
	faculties   map[string]*omodel.Faculty
	departments map[string]*omodel.Department
	positions   map[string]*omodel.Position
}

func (f *fakeOrgStore) GetFacultyByID(ctx context.Context, facultyID string) (*omodel.Faculty, error) {
	return f.faculties[facultyID], nil
}
func (f *fakeOrgStore) GetDepartmentByID(ctx context.Context, departmentID string) (*omodel.Department, error) {
	return f.departments[departmentID], nil
}
func (f *fakeOrgStore) GetPositionByID(ctx context.Context, positionID string) (*omodel.Position, error) {
	return f.positions[positionID], nil
}
func (f *fakeOrgStore) ListDepartmentsByFaculty(ctx context.Context, facultyID string) ([]omodel.Department, error) {
	return nil, nil
}

func newTestService() (CertificateService, *fakeCertificateStore, *fakeEmployeeStore) {
	certStore := &fakeCertificateStore{templates: map[string]*model.CertificateTemplate{}}
	employees := &fakeEmployeeStore{byID: map[string]*emodel.Employee{}}

	registry := stores.NewStoreRegistry(nil)
	registry.Certificate = certStore
	registry.Employee = employees
	registry.Organization = &fakeOrgStore{
		faculties:   map[string]*omodel.Faculty{"fac-sci": {FacultyID: "fac-sci", Name: "Faculty of Science"}},
		departments: map[string]*omodel.Department{"dept-cs": {DepartmentID: "dept-cs", Name: "Computer Science"}},
		positions:   map[string]*omodel.Position{"pos-lect": {PositionID: "pos-lect", Name: "Lecturer"}},
	}
	return newCertificateService(registry), certStore, employees
}

func strPtr(s string) *string { return &s }

func TestCreateTemplateDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	created, svcErr := svc.CreateTemplate(context.Background(), model.CertificateTemplateRequest{
		Name:           "Completion Certificate",
		BackgroundPath: "backgrounds/gold.png",
	})
	require.Nil(t, svcErr)
	assert.False(t, created.Published)
	assert.NotNil(t, created.Layout)
	assert.Empty(t, created.Layout)
	assert.NotEmpty(t, created.TemplateID)
}

func TestTemplateValidation(t *testing.T) {
	svc, _, _ := newTestService()

	cases := []struct {
		req  model.CertificateTemplateRequest
		want string
	}{
		{model.CertificateTemplateRequest{BackgroundPath: "bg.png"}, "name is required"},
		{model.CertificateTemplateRequest{Name: "X"}, "background_path is required"},
		{model.CertificateTemplateRequest{Name: "X", BackgroundPath: "bg.png",
			Layout: []model.LayoutElement{{Key: ""}}}, "layout element key is required"},
		{model.CertificateTemplateRequest{Name: "X", BackgroundPath: "bg.png",
			Layout: []model.LayoutElement{{Key: "full_name"}, {Key: "full_name"}}}, "duplicate layout element key"},
		{model.CertificateTemplateRequest{Name: "X", BackgroundPath: "bg.png",
			Layout: []model.LayoutElement{{Key: "full_name", Align: "justified"}}}, "invalid align"},
		{model.CertificateTemplateRequest{Name: "X", BackgroundPath: "bg.png",
			Layout: []model.LayoutElement{{Key: "full_name", FontSize: -2}}}, "font_size must not be negative"},
	}
	for _, c := range cases {
		_, svcErr := svc.CreateTemplate(context.Background(), c.req)
		require.NotNil(t, svcErr, c.want)
		assert.Contains(t, svcErr.ErrorDescription, c.want)
	}
}

func TestSetPublishedTogglesTemplate(t *testing.T) {
	svc, certStore, _ := newTestService()
	certStore.templates["tpl-1"] = &model.CertificateTemplate{
		TemplateID: "tpl-1", Name: "Award", BackgroundPath: "bg.png",
	}

	published, svcErr := svc.SetPublished(context.Background(), "tpl-1", true)
	require.Nil(t, svcErr)
	assert.True(t, published.Published)
	assert.True(t, certStore.templates["tpl-1"].Published)

	unpublished, svcErr := svc.SetPublished(context.Background(), "tpl-1", false)
	require.Nil(t, svcErr)
	assert.False(t, unpublished.Published)
}

func TestRenderDataMergesEmployeeFields(t *testing.T) {
	svc, certStore, employees := newTestService()
	certStore.templates["tpl-1"] = &model.CertificateTemplate{
		TemplateID: "tpl-1", Name: "Award", BackgroundPath: "bg.png", Published: true,
		Layout: []model.LayoutElement{
			{Key: "full_name", X: 50, Y: 40, FontSize: 24, Align: model.AlignCenter},
			{Key: "faculty", X: 50, Y: 55},
			{Key: "custom_caption", X: 50, Y: 70},
		},
	}
	hired := time.Date(2019, 3, 15, 12, 0, 0, 0, time.Local).UnixMilli()
	employees.byID["emp-1"] = &emodel.Employee{
		EmployeeID: "emp-1", UserID: "alice", FirstName: "Alice", LastName: "Perera",
		Email: "alice@example.edu", HiredAt: hired,
		FacultyID: strPtr("fac-sci"), DepartmentID: strPtr("dept-cs"), PositionID: strPtr("pos-lect"),
	}

	data, svcErr := svc.RenderData(context.Background(), "tpl-1", "emp-1")
	require.Nil(t, svcErr)
	assert.Equal(t, "Alice Perera", data.Values["full_name"])
	assert.Equal(t, "Faculty of Science", data.Values["faculty"])
	assert.Equal(t, "Computer Science", data.Values["department"])
	assert.Equal(t, "Lecturer", data.Values["position"])
	assert.Equal(t, "2019-03-15", data.Values["hired_at"])
	assert.NotEmpty(t, data.Values["issued_date"])

	// Keys the server does not know resolve to blanks.
	blank, ok := data.Values["custom_caption"]
	assert.True(t, ok)
	assert.Equal(t, "", blank)
}

func TestRenderDataRequiresPublishedTemplate(t *testing.T) {
	svc, certStore, employees := newTestService()
	certStore.templates["tpl-1"] = &model.CertificateTemplate{
		TemplateID: "tpl-1", Name: "Award", BackgroundPath: "bg.png", Published: false,
	}
	employees.byID["emp-1"] = &emodel.Employee{EmployeeID: "emp-1", FirstName: "Alice"}

	_, svcErr := svc.RenderData(context.Background(), "tpl-1", "emp-1")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "not published")
}

func TestRenderDataUnknownEmployee(t *testing.T) {
	svc, certStore, _ := newTestService()
	certStore.templates["tpl-1"] = &model.CertificateTemplate{
		TemplateID: "tpl-1", Name: "Award", BackgroundPath: "bg.png", Published: true,
	}

	_, svcErr := svc.RenderData(context.Background(), "tpl-1", "emp-missing")
	require.NotNil(t, svcErr)
	assert.Contains(t, svcErr.ErrorDescription, "employee not found")
}

func TestRenderDataUnplacedEmployee(t *testing.T) {
	svc, certStore, employees := newTestService()
	certStore.templates["tpl-1"] = &model.CertificateTemplate{
		TemplateID: "tpl-1", Name: "Award", BackgroundPath: "bg.png", Published: true,
	}
	employees.byID["emp-1"] = &emodel.Employee{EmployeeID: "emp-1", FirstName: "Bob", LastName: "Silva"}

	data, svcErr := svc.RenderData(context.Background(), "tpl-1", "emp-1")
	require.Nil(t, svcErr)
	assert.Equal(t, "", data.Values["faculty"])
	assert.Equal(t, "", data.Values["department"])
	assert.Equal(t, "", data.Values["position"])
	assert.Equal(t, "", data.Values["hired_at"])
}

func TestDeleteTemplateRemovesIt(t *testing.T) {
	svc, certStore, _ := newTestService()
	certStore.templates["tpl-1"] = &model.CertificateTemplate{
		TemplateID: "tpl-1", Name: "Award", BackgroundPath: "bg.png",
	}

	require.Nil(t, svc.DeleteTemplate(context.Background(), "tpl-1"))
	assert.Empty(t, certStore.templates)

	svcErr := svc.DeleteTemplate(context.Background(), "tpl-1")
	require.NotNil(t, svcErr)
}
