package dbmodels

import (
	"transfer-cards-backend/models"
	flowapimodels "transfer-cards-backend/models/api/flow"
)

type FlowOperationLog struct {
	BaseModel
	CardID           string `gorm:"type:varchar(36);index"`
	Card             *Card  `gorm:"foreignKey:CardID"`
	FromDepartmentID *string `gorm:"type:varchar(36);index"`
	FromDepartment   *Department `gorm:"foreignKey:FromDepartmentID"`
	ToDepartmentID   *string     `gorm:"type:varchar(36);index"`
	ToDepartment     *Department `gorm:"foreignKey:ToDepartmentID"`
	OperationType    models.FlowOperationType `gorm:"type:varchar(30)"`
	OperatorID       string                   `gorm:"type:varchar(36)"`
	Operator         *User                    `gorm:"foreignKey:OperatorID"`
	Notes            string                   `gorm:"type:varchar(1024)"`
}

func (r FlowOperationLog) ToModel() flowapimodels.FlowOperationView {
	view := flowapimodels.FlowOperationView{
		ID:                r.ID,
		CardID:            r.CardID,
		OperationType:     string(r.OperationType),
		OperationTypeName: r.OperationType.ToHuman(),
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
	}
	if r.Card != nil {
		view.CardNumber = r.Card.CardNumber
		view.CardTitle = r.Card.Title
	}
	if r.FromDepartment != nil {
		view.FromDepartmentName = r.FromDepartment.Name
	}
	if r.ToDepartment != nil {
		view.ToDepartmentName = r.ToDepartment.Name
	}
	if r.Operator != nil {
		view.OperatorName = r.Operator.FullName
	}
	return view
}
