package db

import (
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/config"
	usersstore "transfer-cards-backend/lib/users/store"
	authutils "transfer-cards-backend/lib/utils/auth-utils"
	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

func InitPreload() {
	addAdmin()
}

func addAdmin() {
	if config.Conf.Admin.Password == "" {
		log.Warn("администратор не добавлен, отсутствует настройка ADMIN_PASSWORD")
		return
	}
	store := usersstore.NewInstance(DB)
	existedRec, err := store.FindByUserName(config.Conf.Admin.UserName)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	if existedRec != nil {
		return
	}
	rec := dbmodels.User{
		UserName: config.Conf.Admin.UserName,
		Password: authutils.GetMD5Hash(config.Conf.Admin.Password),
		FullName: config.Conf.Admin.FullName,
		Role:     models.UserRoleAdmin,
		IsActive: true,
	}
	_, err = store.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	log.Info("добавлен пользователь-администратор")
}
