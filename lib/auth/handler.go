package authhandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	usersstore "transfer-cards-backend/lib/users/store"
	authutils "transfer-cards-backend/lib/utils/auth-utils"
	"transfer-cards-backend/middleware"
	authapimodels "transfer-cards-backend/models/api/auth"
	usersapimodels "transfer-cards-backend/models/api/users"
)

type Provider interface {
	Login(userName, password string) (resp authapimodels.JWTResponse, err error)
	Me(ctx *fiber.Ctx) (view usersapimodels.UserView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		usersStore: usersstore.NewInstance(db.DB),
	}
}

type impl struct {
	usersStore usersstore.Provider
}

func (i impl) Login(userName, password string) (resp authapimodels.JWTResponse, err error) {
	rec, err := i.usersStore.FindByUserName(userName)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if rec == nil || !rec.IsActive {
		return authapimodels.JWTResponse{}, errors.New("пользователь не найден или заблокирован")
	}
	if rec.Password != authutils.GetMD5Hash(password) {
		return authapimodels.JWTResponse{}, errors.New("неверный пароль")
	}
	token, err := authutils.GetToken(rec.ID, rec.FullName, rec.DepartmentID, rec.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, errors.Wrap(err, "ошибка выпуска токена")
	}
	if err = i.usersStore.SetLastLogin(rec.ID, time.Now()); err != nil {
		log.WithError(err).WithField("rec_id", rec.ID).Error("ошибка обновления времени входа")
	}
	return authapimodels.JWTResponse{AccessToken: token}, nil
}

func (i impl) Me(ctx *fiber.Ctx) (view usersapimodels.UserView, err error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return usersapimodels.UserView{}, errors.New("пользователь не авторизован")
	}
	rec, err := i.usersStore.GetByID(userID)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	if rec == nil {
		return usersapimodels.UserView{}, errors.New("пользователь не найден")
	}
	return rec.ToModel(), nil
}
