package usersapimodels

import (
	"github.com/pkg/errors"
)

type UserData struct {
	UserName     string `json:"user_name"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
	IsAdmin      bool   `json:"is_admin"`
}

func (r UserData) Validate() error {
	if r.UserName == "" {
		return errors.New("не указано имя пользователя")
	}
	if r.DepartmentID == "" && !r.IsAdmin {
		return errors.New("не указан отдел пользователя")
	}
	return nil
}

type UserView struct {
	ID             string `json:"id"`
	UserName       string `json:"user_name"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	Role           string `json:"role"`
	RoleName       string `json:"role_name"`
	IsActive       bool   `json:"is_active"`
}
