package cardflowstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	ReplaceForCard(cardID string, recs []dbmodels.CardFlowStep) error
	ListByCard(cardID string) (list []dbmodels.CardFlowStep, err error)
	GetProcessing(cardID string) (rec *dbmodels.CardFlowStep, err error)
	Update(id string, updMap map[string]interface{}) error
	ListPendingCards(departmentID string) (list []dbmodels.Card, err error)
	ListOverdue(now time.Time) (list []dbmodels.CardFlowStep, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

// ReplaceForCard пересоздает шаги карты, используется при запуске и перезапуске
func (i impl) ReplaceForCard(cardID string, recs []dbmodels.CardFlowStep) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("card_id = ?", cardID).
			Delete(&dbmodels.CardFlowStep{}).
			Error
		if err != nil {
			return err
		}
		for idx := range recs {
			recs[idx].CardID = cardID
			err = tx.
				Omit("Department", "ProcessedByUser").
				Create(&recs[idx]).
				Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (i impl) ListByCard(cardID string) (list []dbmodels.CardFlowStep, err error) {
	err = i.db.
		Where("card_id = ?", cardID).
		Preload("Department").
		Preload("ProcessedByUser").
		Order("flow_order").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) GetProcessing(cardID string) (*dbmodels.CardFlowStep, error) {
	rec := dbmodels.CardFlowStep{}
	err := i.db.
		Where("card_id = ?", cardID).
		Where("status = ?", models.StepStatusProcessing).
		Preload("Department").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.CardFlowStep{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// ListPendingCards - карты, ожидающие обработки отделом.
// Пустой departmentID означает все отделы (режим администратора).
func (i impl) ListPendingCards(departmentID string) (list []dbmodels.Card, err error) {
	query := i.db.
		Model(&dbmodels.Card{}).
		Where("status IN ?", []models.CardStatus{models.CardStatusInProgress, models.CardStatusRejected}).
		Where("current_department_id IS NOT NULL")
	if departmentID != "" {
		query = query.Where("current_department_id = ?", departmentID)
	}
	err = query.
		Preload("Template").
		Preload("CurrentDepartment").
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListOverdue - шаги в обработке, просроченные относительно скопированного
// в шаг срока и еще не отмеченные уведомлением
func (i impl) ListOverdue(now time.Time) (list []dbmodels.CardFlowStep, err error) {
	err = i.db.
		Where("status = ?", models.StepStatusProcessing).
		Where("timeout_hours > 0").
		Where("overdue_notified = false").
		Where("started_at IS NOT NULL").
		Where("started_at + timeout_hours * interval '1 hour' < ?", now).
		Preload("Department").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
