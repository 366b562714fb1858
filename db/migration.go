package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "transfer-cards-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Department{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Department")
	}
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.CardTemplate{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CardTemplate")
	}
	if err := DB.AutoMigrate(&dbmodels.TemplateField{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TemplateField")
	}
	if err := DB.AutoMigrate(&dbmodels.FlowDepartment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры FlowDepartment")
	}
	if err := DB.AutoMigrate(&dbmodels.Card{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Card")
	}
	if err := DB.AutoMigrate(&dbmodels.CardRow{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CardRow")
	}
	if err := DB.AutoMigrate(&dbmodels.CardFlowStep{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CardFlowStep")
	}
	if err := DB.AutoMigrate(&dbmodels.FlowOperationLog{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры FlowOperationLog")
	}
	if err := DB.AutoMigrate(&dbmodels.CardAttachment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CardAttachment")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
