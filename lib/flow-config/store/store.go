package flowconfigstore

import (
	"gorm.io/gorm"

	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	ListByTemplate(templateID string) (list []dbmodels.FlowDepartment, err error)
	ReplaceForTemplate(templateID string, recs []dbmodels.FlowDepartment) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) ListByTemplate(templateID string) (list []dbmodels.FlowDepartment, err error) {
	err = i.db.
		Where("template_id = ?", templateID).
		Preload("Department").
		Order("flow_order").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReplaceForTemplate заменяет маршрут шаблона целиком в одной транзакции
func (i impl) ReplaceForTemplate(templateID string, recs []dbmodels.FlowDepartment) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("template_id = ?", templateID).
			Delete(&dbmodels.FlowDepartment{}).
			Error
		if err != nil {
			return err
		}
		for idx := range recs {
			recs[idx].TemplateID = templateID
			if err = tx.Omit("Department").Create(&recs[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
