package models

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleUser  UserRole = "USER"
)

var roleHumanName = map[UserRole]string{
	UserRoleAdmin: "Администратор",
	UserRoleUser:  "Пользователь",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}

const SystemUser = "Система"

// Actor - данные вызывающего пользователя из JWT клеймов
type Actor struct {
	UserID       string
	DepartmentID string
	Role         UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}
