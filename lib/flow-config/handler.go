package flowconfighandler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	departmentstore "transfer-cards-backend/lib/dicts/department/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	flowapimodels "transfer-cards-backend/models/api/flow"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	List(templateID string) (list []flowapimodels.FlowDepartmentView, err error)
	Set(templateID string, request flowapimodels.SetFlowRequest) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:           flowconfigstore.NewInstance(db.DB),
		departmentStore: departmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store           flowconfigstore.Provider
	departmentStore departmentstore.Provider
}

func (i impl) List(templateID string) (list []flowapimodels.FlowDepartmentView, err error) {
	recList, err := i.store.ListByTemplate(templateID)
	if err != nil {
		return nil, err
	}
	list = make([]flowapimodels.FlowDepartmentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, nil
}

// Set заменяет маршрут шаблона. flow_order пересчитывается как позиция
// отдела в присланном массиве (с единицы), поэтому любой перестановке
// соответствует непрерывная последовательность 1..N.
func (i impl) Set(templateID string, request flowapimodels.SetFlowRequest) (hMsg string, err error) {
	knownDepartments, err := i.departmentStore.List()
	if err != nil {
		return "", err
	}
	knownMap := make(map[string]bool, len(knownDepartments))
	for _, department := range knownDepartments {
		knownMap[department.ID] = true
	}

	usedMap := map[string]bool{}
	recs := make([]dbmodels.FlowDepartment, 0, len(request.Departments))
	for idx, dept := range request.Departments {
		if !knownMap[dept.DepartmentID] {
			return fmt.Sprintf("отдел с позиции %v не найден в справочнике отделов", idx+1), nil
		}
		if usedMap[dept.DepartmentID] {
			return fmt.Sprintf("отдел с позиции %v уже указан в маршруте", idx+1), nil
		}
		usedMap[dept.DepartmentID] = true

		isRequired := true
		if dept.IsRequired != nil {
			isRequired = *dept.IsRequired
		}
		recs = append(recs, dbmodels.FlowDepartment{
			DepartmentID: dept.DepartmentID,
			FlowOrder:    idx + 1,
			IsRequired:   isRequired,
			AutoSkip:     dept.AutoSkip,
			TimeoutHours: dept.TimeoutHours,
		})
	}

	err = i.store.ReplaceForTemplate(templateID, recs)
	if err != nil {
		return "", err
	}
	log.
		WithField("template_id", templateID).
		WithField("steps", len(recs)).
		Info("обновлен маршрут шаблона")
	return "", nil
}
