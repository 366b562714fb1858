package departmentprovider

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	store "transfer-cards-backend/lib/dicts/department/store"
	dictapimodels "transfer-cards-backend/models/api/dict"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(request dictapimodels.DepartmentData) (id string, err error)
	Update(id string, request dictapimodels.DepartmentData) error
	Get(id string) (item dictapimodels.DepartmentView, err error)
	List() (list []dictapimodels.DepartmentView, err error)
	Delete(id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: store.NewInstance(db.DB),
	}
}

type impl struct {
	store store.Provider
}

func (i impl) Create(request dictapimodels.DepartmentData) (id string, err error) {
	rec := dbmodels.Department{
		Name:        request.Name,
		Description: request.Description,
		IsActive:    true,
	}
	if err = rec.Validate(); err != nil {
		return "", err
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	log.
		WithField("department_name", rec.Name).
		WithField("rec_id", id).
		Info("создан отдел")
	return id, nil
}

func (i impl) Update(id string, request dictapimodels.DepartmentData) error {
	updMap := map[string]interface{}{
		"name":        request.Name,
		"description": request.Description,
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		return err
	}
	log.WithField("rec_id", id).Info("обновлен отдел")
	return nil
}

func (i impl) Get(id string) (item dictapimodels.DepartmentView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return dictapimodels.DepartmentView{}, err
	}
	if rec == nil {
		return dictapimodels.DepartmentView{}, errors.New("отдел не найден")
	}
	return rec.ToModel(), nil
}

func (i impl) List() (list []dictapimodels.DepartmentView, err error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	list = make([]dictapimodels.DepartmentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	return i.store.Delete(id)
}
