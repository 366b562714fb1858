package cardattachmentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.CardAttachment) (id string, err error)
	GetByID(id string) (rec *dbmodels.CardAttachment, err error)
	ListByCard(cardID string) (list []dbmodels.CardAttachment, err error)
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

func (i impl) Create(rec dbmodels.CardAttachment) (id string, err error) {
	err = i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.CardAttachment, error) {
	rec := dbmodels.CardAttachment{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) ListByCard(cardID string) (list []dbmodels.CardAttachment, err error) {
	err = i.db.
		Where("card_id = ?", cardID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.CardAttachment{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	return i.db.Delete(&rec).Error
}
