package templateapimodels

import (
	"github.com/pkg/errors"
)

type TemplateData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func (r TemplateData) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название шаблона")
	}
	return nil
}

type FieldData struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	FieldType    string   `json:"field_type"`
	IsRequired   bool     `json:"is_required"`
	DepartmentID string   `json:"department_id,omitempty"`
	Options      []string `json:"options,omitempty"`
}

type SaveFieldsRequest struct {
	Fields []FieldData `json:"fields"`
}

func (r SaveFieldsRequest) Validate() error {
	return nil
}

type TemplateView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	IsActive    bool        `json:"is_active"`
	Fields      []FieldData `json:"fields,omitempty"`
}
