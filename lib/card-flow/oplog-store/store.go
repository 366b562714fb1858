package oplogstore

import (
	"gorm.io/gorm"

	flowapimodels "transfer-cards-backend/models/api/flow"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.FlowOperationLog) error
	ListByCard(cardID string) (list []dbmodels.FlowOperationLog, err error)
	List(filter flowapimodels.HistoryFilter) (list []dbmodels.FlowOperationLog, rowCount int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.FlowOperationLog) error {
	err := i.db.
		Omit("Card", "FromDepartment", "ToDepartment", "Operator").
		Create(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByCard(cardID string) (list []dbmodels.FlowOperationLog, err error) {
	err = i.db.
		Where("card_id = ?", cardID).
		Preload("FromDepartment").
		Preload("ToDepartment").
		Preload("Operator").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) List(filter flowapimodels.HistoryFilter) (list []dbmodels.FlowOperationLog, rowCount int64, err error) {
	query := i.db.Model(&dbmodels.FlowOperationLog{})
	if filter.CardID != "" {
		query = query.Where("card_id = ?", filter.CardID)
	}
	err = query.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = query.
		Preload("Card").
		Preload("FromDepartment").
		Preload("ToDepartment").
		Preload("Operator").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, 0, err
	}
	return list, rowCount, nil
}
