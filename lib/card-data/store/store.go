package carddatastore

import (
	"gorm.io/gorm"

	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	ListRows(cardID string) (list []dbmodels.CardRow, err error)
	ReplaceRows(cardID string, rows []dbmodels.RowValues) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) ListRows(cardID string) (list []dbmodels.CardRow, err error) {
	err = i.db.
		Where("card_id = ?", cardID).
		Order("row_index").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ReplaceRows заменяет табличную часть карты целиком.
// Таблица строк является единицей сохранения, частичных обновлений нет.
func (i impl) ReplaceRows(cardID string, rows []dbmodels.RowValues) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("card_id = ?", cardID).
			Delete(&dbmodels.CardRow{}).
			Error
		if err != nil {
			return err
		}
		for idx, values := range rows {
			rec := dbmodels.CardRow{
				CardID:   cardID,
				RowIndex: idx + 1,
				Values:   values,
			}
			if err = tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
