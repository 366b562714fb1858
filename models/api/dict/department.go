package dictapimodels

import (
	"github.com/pkg/errors"
)

type DepartmentData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r DepartmentData) Validate() error {
	if r.Name == "" {
		return errors.New("не указано название отдела")
	}
	return nil
}

type DepartmentView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
