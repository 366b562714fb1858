package dbmodels

import (
	"time"

	"transfer-cards-backend/models"
	cardapimodels "transfer-cards-backend/models/api/card"
)

type Card struct {
	BaseModel
	CardNumber          string `gorm:"type:varchar(64);uniqueIndex"`
	TemplateID          string `gorm:"type:varchar(36);index"`
	Template            *CardTemplate `gorm:"foreignKey:TemplateID"`
	Title               string        `gorm:"type:varchar(255)"`
	Status              models.CardStatus `gorm:"type:varchar(20);index"`
	CurrentDepartmentID *string           `gorm:"type:varchar(36);index"`
	CurrentDepartment   *Department       `gorm:"foreignKey:CurrentDepartmentID"`
	CreatorID           string            `gorm:"type:varchar(36);index"`
	RejectReason        string            `gorm:"type:varchar(1024)"`
	TotalFlowSteps      int
	CompletedFlowSteps  int
	FlowStartedAt       *time.Time
	FlowCompletedAt     *time.Time
}

func (r Card) ToModel() cardapimodels.CardView {
	view := cardapimodels.CardView{
		ID:                 r.ID,
		CardNumber:         r.CardNumber,
		TemplateID:         r.TemplateID,
		Title:              r.Title,
		Status:             string(r.Status),
		StatusName:         r.Status.ToHuman(),
		CreatorID:          r.CreatorID,
		RejectReason:       r.RejectReason,
		TotalFlowSteps:     r.TotalFlowSteps,
		CompletedFlowSteps: r.CompletedFlowSteps,
		CreatedAt:          r.CreatedAt,
	}
	if r.CurrentDepartmentID != nil {
		view.CurrentDepartmentID = *r.CurrentDepartmentID
	}
	if r.CurrentDepartment != nil {
		view.CurrentDepartmentName = r.CurrentDepartment.Name
	}
	if r.Template != nil {
		view.TemplateName = r.Template.Name
	}
	return view
}
