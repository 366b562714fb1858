package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/fiberlog"
	"transfer-cards-backend/models"
	apimodels "transfer-cards-backend/models/api"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetIDByKey(ctx, "id")
}

func (c *BaseAPIController) GetIDByKey(ctx *fiber.Ctx, key string) (string, error) {
	id := ctx.Params(key)
	if id == "" {
		return "", errors.Errorf("не указан идентификатор записи (%v)", key)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("request_id", fiberlog.GetRequestID(ctx)).
		WithField("path", ctx.Path())
}

// SendError мапит ошибки маршрута на коды ответов:
// отказ в доступе - 403, недопустимый переход и валидация - 400,
// остальное логируется и уходит как 500 с нейтральным сообщением.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewErrorWithData(vErr.Error(), vErr.Misses))
	}
	if errors.Is(err, models.ErrPermissionDenied) {
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(err.Error()))
	}
	if errors.Is(err, models.ErrInvalidTransition) {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
}
