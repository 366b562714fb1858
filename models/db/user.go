package dbmodels

import (
	"time"

	"transfer-cards-backend/models"
	usersapimodels "transfer-cards-backend/models/api/users"
)

type User struct {
	BaseModel
	UserName     string `gorm:"type:varchar(150);uniqueIndex"`
	Password     string `gorm:"type:varchar(128)"`
	FullName     string `gorm:"type:varchar(255)"`
	Email        string `gorm:"type:varchar(255)"`
	DepartmentID string `gorm:"type:varchar(36);index"`
	Department   *Department `gorm:"foreignKey:DepartmentID"`
	Role         models.UserRole `gorm:"type:varchar(50)"`
	IsActive     bool
	LastLogin    time.Time
}

func (r User) ToModel() usersapimodels.UserView {
	view := usersapimodels.UserView{
		ID:           r.ID,
		UserName:     r.UserName,
		FullName:     r.FullName,
		Email:        r.Email,
		DepartmentID: r.DepartmentID,
		Role:         string(r.Role),
		RoleName:     r.Role.ToHuman(),
		IsActive:     r.IsActive,
	}
	if r.Department != nil {
		view.DepartmentName = r.Department.Name
	}
	return view
}

// ToActor - клеймы пользователя для проверки доступа
func (r User) ToActor() models.Actor {
	return models.Actor{
		UserID:       r.ID,
		DepartmentID: r.DepartmentID,
		Role:         r.Role,
	}
}
