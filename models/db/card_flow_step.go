package dbmodels

import (
	"time"

	"transfer-cards-backend/models"
	flowapimodels "transfer-cards-backend/models/api/flow"
)

// CardFlowStep - состояние прохождения картой одного шага маршрута.
// AutoSkip и TimeoutHours копируются из настройки маршрута в момент запуска,
// чтобы изменение шаблона не ломало карты в работе.
type CardFlowStep struct {
	BaseModel
	CardID          string `gorm:"type:varchar(36);index:idx_card_step,unique"`
	DepartmentID    string `gorm:"type:varchar(36);index"`
	Department      *Department `gorm:"foreignKey:DepartmentID"`
	FlowOrder       int         `gorm:"index:idx_card_step,unique"`
	Status          models.FlowStepStatus `gorm:"type:varchar(20);index"`
	AutoSkip        bool
	TimeoutHours    int
	StartedAt       *time.Time
	CompletedAt     *time.Time
	ProcessedBy     *string `gorm:"type:varchar(36)"`
	ProcessedByUser *User   `gorm:"foreignKey:ProcessedBy"`
	Notes           string  `gorm:"type:varchar(1024)"`
	OverdueNotified bool
}

func (r CardFlowStep) ToModel() flowapimodels.FlowStepView {
	view := flowapimodels.FlowStepView{
		DepartmentID: r.DepartmentID,
		FlowOrder:    r.FlowOrder,
		Status:       string(r.Status),
		StatusName:   r.Status.ToHuman(),
		StartedAt:    r.StartedAt,
		CompletedAt:  r.CompletedAt,
		Notes:        r.Notes,
	}
	if r.Department != nil {
		view.DepartmentName = r.Department.Name
	}
	if r.ProcessedByUser != nil {
		view.ProcessedByName = r.ProcessedByUser.FullName
	}
	return view
}
