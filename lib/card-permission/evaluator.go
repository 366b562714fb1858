package cardpermission

import (
	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

// Evaluate выводит уровень доступа пользователя к карте.
// Чистая функция от (пользователь, карта, маршрут шаблона); порядок проверок
// фиксирован: роль администратора, терминальный статус, текущий отдел,
// создатель, ранее пройденный отдел. Совпадение отдела всегда сильнее
// владения картой - право передачи есть только у текущего отдела.
func Evaluate(actor models.Actor, card dbmodels.Card, flow []dbmodels.FlowDepartment) models.PermissionLevel {
	if actor.IsAdmin() {
		return models.PermissionCanSubmit
	}
	if card.Status == models.CardStatusCompleted || card.Status == models.CardStatusCancelled {
		return models.PermissionViewOnly
	}
	if card.CurrentDepartmentID != nil && actor.DepartmentID != "" &&
		*card.CurrentDepartmentID == actor.DepartmentID {
		return models.PermissionCanSubmit
	}
	if card.CreatorID != "" && card.CreatorID == actor.UserID {
		return models.PermissionOwner
	}
	if isEarlierInFlow(actor.DepartmentID, card.CurrentDepartmentID, flow) {
		return models.PermissionViewOnly
	}
	return models.PermissionNone
}

func isEarlierInFlow(departmentID string, currentDepartmentID *string, flow []dbmodels.FlowDepartment) bool {
	if departmentID == "" || currentDepartmentID == nil {
		return false
	}
	actorOrder := 0
	currentOrder := 0
	for _, step := range flow {
		if step.DepartmentID == departmentID {
			actorOrder = step.FlowOrder
		}
		if step.DepartmentID == *currentDepartmentID {
			currentOrder = step.FlowOrder
		}
	}
	return actorOrder > 0 && currentOrder > 0 && actorOrder < currentOrder
}
