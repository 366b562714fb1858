package cardstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	cardapimodels "transfer-cards-backend/models/api/card"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Card) (id string, err error)
	GetByID(id string) (rec *dbmodels.Card, err error)
	List(filter cardapimodels.CardFilter) (list []dbmodels.Card, rowCount int64, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Card) (id string, err error) {
	err = i.db.
		Omit("Template", "CurrentDepartment").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Card, error) {
	rec := dbmodels.Card{}
	err := i.db.
		Where("id = ?", id).
		Preload("Template").
		Preload("CurrentDepartment").
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

func (i impl) List(filter cardapimodels.CardFilter) (list []dbmodels.Card, rowCount int64, err error) {
	query := i.db.Model(&dbmodels.Card{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TemplateID != "" {
		query = query.Where("template_id = ?", filter.TemplateID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("card_number ILIKE ? OR title ILIKE ?", search, search)
	}
	err = query.Count(&rowCount).Error
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	err = query.
		Preload("Template").
		Preload("CurrentDepartment").
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

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Card{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// Delete удаляет карту вместе со строками, шагами, журналом и вложениями
func (i impl) Delete(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range []interface{}{
			&dbmodels.CardRow{},
			&dbmodels.CardFlowStep{},
			&dbmodels.FlowOperationLog{},
			&dbmodels.CardAttachment{},
		} {
			if err := tx.Where("card_id = ?", id).Delete(rec).Error; err != nil {
				return err
			}
		}
		rec := dbmodels.Card{
			BaseModel: dbmodels.BaseModel{ID: id},
		}
		return tx.Delete(&rec).Error
	})
}
