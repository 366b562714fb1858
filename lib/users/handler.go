package usershandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	departmentstore "transfer-cards-backend/lib/dicts/department/store"
	usersstore "transfer-cards-backend/lib/users/store"
	authutils "transfer-cards-backend/lib/utils/auth-utils"
	"transfer-cards-backend/models"
	usersapimodels "transfer-cards-backend/models/api/users"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(request usersapimodels.UserData) (id string, hMsg string, err error)
	Update(id string, request usersapimodels.UserData) (hMsg string, err error)
	Get(id string) (view usersapimodels.UserView, err error)
	List() (list []usersapimodels.UserView, err error)
	Delete(id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:           usersstore.NewInstance(db.DB),
		departmentStore: departmentstore.NewInstance(db.DB),
	}
}

type impl struct {
	store           usersstore.Provider
	departmentStore departmentstore.Provider
}

func (i impl) Create(request usersapimodels.UserData) (id string, hMsg string, err error) {
	hMsg, err = i.checkDepartment(request)
	if hMsg != "" || err != nil {
		return "", hMsg, err
	}
	existedRec, err := i.store.FindByUserName(request.UserName)
	if err != nil {
		return "", "", err
	}
	if existedRec != nil {
		return "", "пользователь с таким именем уже существует", nil
	}
	if request.Password == "" {
		return "", "не указан пароль", nil
	}
	rec := dbmodels.User{
		UserName:     request.UserName,
		Password:     authutils.GetMD5Hash(request.Password),
		FullName:     request.FullName,
		Email:        request.Email,
		DepartmentID: request.DepartmentID,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}
	if request.IsAdmin {
		rec.Role = models.UserRoleAdmin
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", err
	}
	log.
		WithField("user_name", rec.UserName).
		WithField("rec_id", id).
		Info("создан пользователь")
	return id, "", nil
}

func (i impl) Update(id string, request usersapimodels.UserData) (hMsg string, err error) {
	hMsg, err = i.checkDepartment(request)
	if hMsg != "" || err != nil {
		return hMsg, err
	}
	updMap := map[string]interface{}{
		"full_name":     request.FullName,
		"email":         request.Email,
		"department_id": request.DepartmentID,
	}
	if request.Password != "" {
		updMap["password"] = authutils.GetMD5Hash(request.Password)
	}
	role := models.UserRoleUser
	if request.IsAdmin {
		role = models.UserRoleAdmin
	}
	updMap["role"] = role
	err = i.store.Update(id, updMap)
	if err != nil {
		return "", err
	}
	log.WithField("rec_id", id).Info("обновлен пользователь")
	return "", nil
}

func (i impl) Get(id string) (view usersapimodels.UserView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	if rec == nil {
		return usersapimodels.UserView{}, errors.New("пользователь не найден")
	}
	return rec.ToModel(), nil
}

func (i impl) List() (list []usersapimodels.UserView, err error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	list = make([]usersapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	return i.store.Delete(id)
}

func (i impl) checkDepartment(request usersapimodels.UserData) (hMsg string, err error) {
	if request.DepartmentID == "" {
		return "", nil
	}
	department, err := i.departmentStore.GetByID(request.DepartmentID)
	if err != nil {
		return "", err
	}
	if department == nil {
		return "указанный отдел не найден", nil
	}
	return "", nil
}
