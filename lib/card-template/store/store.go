package cardtemplatestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.CardTemplate) (id string, err error)
	GetByID(id string) (rec *dbmodels.CardTemplate, err error)
	List() (list []dbmodels.CardTemplate, err error)
	Update(id string, updMap map[string]interface{}) error
	Delete(id string) error
	ListFields(templateID string) (list []dbmodels.TemplateField, err error)
	ReplaceFields(templateID string, recs []dbmodels.TemplateField) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.CardTemplate) (id string, err error) {
	err = i.db.
		Omit("Fields").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.CardTemplate, error) {
	rec := dbmodels.CardTemplate{}
	err := i.db.
		Where("id = ?", id).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
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

func (i impl) List() (list []dbmodels.CardTemplate, err error) {
	err = i.db.
		Order("name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.CardTemplate{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(id string) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("template_id = ?", id).
			Delete(&dbmodels.TemplateField{}).
			Error
		if err != nil {
			return err
		}
		rec := dbmodels.CardTemplate{
			BaseModel: dbmodels.BaseModel{ID: id},
		}
		return tx.Delete(&rec).Error
	})
}

func (i impl) ListFields(templateID string) (list []dbmodels.TemplateField, err error) {
	err = i.db.
		Where("template_id = ?", templateID).
		Order("sort_order").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ReplaceFields(templateID string, recs []dbmodels.TemplateField) error {
	return i.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("template_id = ?", templateID).
			Delete(&dbmodels.TemplateField{}).
			Error
		if err != nil {
			return err
		}
		for idx := range recs {
			recs[idx].TemplateID = templateID
			if err = tx.Create(&recs[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
