package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"

	"transfer-cards-backend/models"
)

type CardTemplate struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);uniqueIndex"`
	Description string `gorm:"type:varchar(1024)"`
	IsActive    bool
	Fields      []TemplateField `gorm:"foreignKey:TemplateID"`
}

func (t *CardTemplate) Validate() error {
	if t.Name == "" {
		return errors.New("не указано название шаблона")
	}
	return nil
}

// TemplateField - описание колонки табличной части карты.
// DepartmentID задает отдел-владелец поля; пустое значение - поле общее.
type TemplateField struct {
	BaseModel
	TemplateID   string           `gorm:"type:varchar(36);index:idx_template_field,unique"`
	Name         string           `gorm:"type:varchar(150);index:idx_template_field,unique"`
	Label        string           `gorm:"type:varchar(255)"`
	FieldType    models.FieldType `gorm:"type:varchar(20)"`
	IsRequired   bool
	DepartmentID string       `gorm:"type:varchar(36);index"`
	SortOrder    int
	Options      FieldOptions `gorm:"type:jsonb"`
	IsActive     bool
}

// FieldOptions - варианты значений для полей типа select
type FieldOptions []string

func (j FieldOptions) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *FieldOptions) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}

// OwnedBy - принадлежит ли поле отделу, выполняющему передачу
func (f TemplateField) OwnedBy(departmentID string) bool {
	return f.DepartmentID == "" || f.DepartmentID == departmentID
}
