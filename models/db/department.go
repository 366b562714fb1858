package dbmodels

import (
	"github.com/pkg/errors"

	dictapimodels "transfer-cards-backend/models/api/dict"
)

type Department struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);uniqueIndex"`
	Description string `gorm:"type:varchar(1024)"`
	IsActive    bool
}

func (d *Department) Validate() error {
	if d.Name == "" {
		return errors.New("не указано название отдела")
	}
	return nil
}

func (d Department) ToModel() dictapimodels.DepartmentView {
	return dictapimodels.DepartmentView{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
	}
}
