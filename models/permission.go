package models

// PermissionLevel - выводимый уровень доступа к карте, не хранится в БД
type PermissionLevel string

const (
	PermissionOwner     PermissionLevel = "owner"
	PermissionCanSubmit PermissionLevel = "can_submit"
	PermissionViewOnly  PermissionLevel = "view_only"
	PermissionNone      PermissionLevel = "none"
)

var permissionHumanName = map[PermissionLevel]string{
	PermissionOwner:     "Создатель",
	PermissionCanSubmit: "Текущий отдел",
	PermissionViewOnly:  "Только просмотр",
	PermissionNone:      "Нет доступа",
}

func (l PermissionLevel) ToHuman() string {
	if human, exist := permissionHumanName[l]; exist {
		return human
	}
	return string(l)
}

// CanEdit - право редактировать данные и передавать карту дальше
func (l PermissionLevel) CanEdit() bool {
	return l == PermissionCanSubmit
}

func (l PermissionLevel) CanView() bool {
	return l != PermissionNone
}
