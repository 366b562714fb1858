package departmentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Department) (id string, err error)
	GetByID(id string) (rec *dbmodels.Department, err error)
	List() (list []dbmodels.Department, err error)
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

func (i impl) Create(rec dbmodels.Department) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Department, error) {
	rec := dbmodels.Department{}
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

func (i impl) List() (list []dbmodels.Department, err error) {
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
		Model(&dbmodels.Department{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.Department{
		BaseModel: dbmodels.BaseModel{ID: id},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}
