package certificate

import (
	"context"
	"encoding/json"

	"github.com/campushr/hr-management-api/internal/certificate/model"
	dbmodel "github.com/campushr/hr-management-api/internal/system/database/model"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/utils"
)

// DBQuery objects for certificate template operations
var (
	QueryCreateTemplate = dbmodel.DBQuery{
		ID:    "CREATE_CERTIFICATE_TEMPLATE",
		Query: "INSERT INTO CERTIFICATE_TEMPLATE (TEMPLATE_ID, NAME, BACKGROUND_PATH, LAYOUT, PUBLISHED, CREATED_TIME, UPDATED_TIME) VALUES (?, ?, ?, ?, ?, ?, ?)",
	}

	QueryGetTemplateByID = dbmodel.DBQuery{
		ID:    "GET_CERTIFICATE_TEMPLATE_BY_ID",
		Query: "SELECT TEMPLATE_ID, NAME, BACKGROUND_PATH, LAYOUT, PUBLISHED, CREATED_TIME, UPDATED_TIME FROM CERTIFICATE_TEMPLATE WHERE TEMPLATE_ID = ?",
	}

	QueryListTemplates = dbmodel.DBQuery{
		ID:    "LIST_CERTIFICATE_TEMPLATES",
		Query: "SELECT TEMPLATE_ID, NAME, BACKGROUND_PATH, LAYOUT, PUBLISHED, CREATED_TIME, UPDATED_TIME FROM CERTIFICATE_TEMPLATE ORDER BY NAME",
	}

	QueryUpdateTemplate = dbmodel.DBQuery{
		ID:    "UPDATE_CERTIFICATE_TEMPLATE",
		Query: "UPDATE CERTIFICATE_TEMPLATE SET NAME = ?, BACKGROUND_PATH = ?, LAYOUT = ?, UPDATED_TIME = ? WHERE TEMPLATE_ID = ?",
	}

	QuerySetTemplatePublished = dbmodel.DBQuery{
		ID:    "SET_CERTIFICATE_TEMPLATE_PUBLISHED",
		Query: "UPDATE CERTIFICATE_TEMPLATE SET PUBLISHED = ?, UPDATED_TIME = ? WHERE TEMPLATE_ID = ?",
	}

	QueryDeleteTemplate = dbmodel.DBQuery{
		ID:    "DELETE_CERTIFICATE_TEMPLATE",
		Query: "DELETE FROM CERTIFICATE_TEMPLATE WHERE TEMPLATE_ID = ?",
	}
)

// CertificateStore defines the template lookups other modules consume.
type CertificateStore interface {
	GetTemplateByID(ctx context.Context, templateID string) (*model.CertificateTemplate, error)
}

// certificateStore defines the full interface used by the certificate service.
type certificateStore interface {
	CertificateStore

	ListTemplates(ctx context.Context) ([]model.CertificateTemplate, error)
	CreateTemplate(ctx context.Context, template *model.CertificateTemplate) error
	UpdateTemplate(ctx context.Context, template *model.CertificateTemplate) error
	SetTemplatePublished(ctx context.Context, templateID string, published bool, updatedTime int64) error
	DeleteTemplate(ctx context.Context, templateID string) error
}

// store implements the certificateStore interface
type store struct {
	dbClient provider.DBClientInterface
}

// newCertificateStore creates a new certificate store
func newCertificateStore(dbClient provider.DBClientInterface) certificateStore {
	return &store{
		dbClient: dbClient,
	}
}

func (s *store) GetTemplateByID(ctx context.Context, templateID string) (*model.CertificateTemplate, error) {
	rows, err := s.dbClient.Query(QueryGetTemplateByID, templateID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return mapToTemplate(rows[0])
}

func (s *store) ListTemplates(ctx context.Context) ([]model.CertificateTemplate, error) {
	rows, err := s.dbClient.Query(QueryListTemplates)
	if err != nil {
		return nil, err
	}
	templates := make([]model.CertificateTemplate, 0, len(rows))
	for _, row := range rows {
		template, err := mapToTemplate(row)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}
	return templates, nil
}

func (s *store) CreateTemplate(ctx context.Context, template *model.CertificateTemplate) error {
	layout, err := json.Marshal(template.Layout)
	if err != nil {
		return err
	}
	_, err = s.dbClient.Execute(QueryCreateTemplate,
		template.TemplateID, template.Name, template.BackgroundPath, string(layout),
		template.Published, template.CreatedTime, template.UpdatedTime)
	return err
}

func (s *store) UpdateTemplate(ctx context.Context, template *model.CertificateTemplate) error {
	layout, err := json.Marshal(template.Layout)
	if err != nil {
		return err
	}
	_, err = s.dbClient.Execute(QueryUpdateTemplate,
		template.Name, template.BackgroundPath, string(layout), template.UpdatedTime, template.TemplateID)
	return err
}

func (s *store) SetTemplatePublished(ctx context.Context, templateID string, published bool, updatedTime int64) error {
	_, err := s.dbClient.Execute(QuerySetTemplatePublished, published, updatedTime, templateID)
	return err
}

func (s *store) DeleteTemplate(ctx context.Context, templateID string) error {
	_, err := s.dbClient.Execute(QueryDeleteTemplate, templateID)
	return err
}

func mapToTemplate(row map[string]interface{}) (*model.CertificateTemplate, error) {
	template := &model.CertificateTemplate{
		TemplateID:     utils.RowString(row, "TEMPLATE_ID"),
		Name:           utils.RowString(row, "NAME"),
		BackgroundPath: utils.RowString(row, "BACKGROUND_PATH"),
		Published:      utils.RowBool(row, "PUBLISHED"),
		CreatedTime:    utils.RowInt64(row, "CREATED_TIME"),
		UpdatedTime:    utils.RowInt64(row, "UPDATED_TIME"),
		Layout:         []model.LayoutElement{},
	}
	if raw := utils.RowString(row, "LAYOUT"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &template.Layout); err != nil {
			return nil, err
		}
	}
	return template, nil
}
