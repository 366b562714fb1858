package usersstore

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (id string, err error)
	GetByID(id string) (rec *dbmodels.User, err error)
	FindByUserName(userName string) (rec *dbmodels.User, err error)
	List() (list []dbmodels.User, err error)
	ListByDepartment(departmentID string) (list []dbmodels.User, err error)
	Update(id string, updMap map[string]interface{}) error
	SetLastLogin(id string, loginTime time.Time) error
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

func (i impl) Create(rec dbmodels.User) (id string, err error) {
	err = i.db.
		Omit("Department").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) FindByUserName(userName string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.
		Where("user_name = ?", userName).
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

func (i impl) List() (list []dbmodels.User, err error) {
	err = i.db.
		Preload("Department").
		Order("user_name").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByDepartment(departmentID string) (list []dbmodels.User, err error) {
	err = i.db.
		Where("department_id = ?", departmentID).
		Where("is_active = true").
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
		Model(&dbmodels.User{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) SetLastLogin(id string, loginTime time.Time) error {
	return i.Update(id, map[string]interface{}{
		"last_login": loginTime,
	})
}

func (i impl) Delete(id string) error {
	rec := dbmodels.User{
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
