package dbmodels

import (
	flowapimodels "transfer-cards-backend/models/api/flow"
)

// FlowDepartment - шаг маршрута шаблона. FlowOrder для шаблона образует
// непрерывную последовательность 1..N без дубликатов; порядок пересчитывается
// при каждом сохранении списка.
type FlowDepartment struct {
	BaseModel
	TemplateID   string `gorm:"type:varchar(36);index:idx_flow_dept,unique;index:idx_flow_order,unique"`
	DepartmentID string `gorm:"type:varchar(36);index:idx_flow_dept,unique"`
	Department   *Department `gorm:"foreignKey:DepartmentID"`
	FlowOrder    int         `gorm:"index:idx_flow_order,unique"`
	IsRequired   bool
	AutoSkip     bool
	TimeoutHours int
}

func (r FlowDepartment) ToModel() flowapimodels.FlowDepartmentView {
	view := flowapimodels.FlowDepartmentView{
		DepartmentID: r.DepartmentID,
		FlowOrder:    r.FlowOrder,
		IsRequired:   r.IsRequired,
		AutoSkip:     r.AutoSkip,
		TimeoutHours: r.TimeoutHours,
	}
	if r.Department != nil {
		view.DepartmentName = r.Department.Name
	}
	return view
}
