package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"transfer-cards-backend/controllers"
	carddatahandler "transfer-cards-backend/lib/card-data"
	"transfer-cards-backend/middleware"
	apimodels "transfer-cards-backend/models/api"
	cardapimodels "transfer-cards-backend/models/api/card"
)

type cardDataApiController struct {
	controllers.BaseAPIController
}

func InitCardDataApiRouters(app *fiber.App) {
	controller := cardDataApiController{}
	app.Route(":id/data", func(router fiber.Router) {
		router.Get("", controller.get)
		router.Put("", controller.save)
	})
}

// @Summary Таблица строк карты
// @Tags Данные карты
// @Description Авторитетная таблица строк с метаданными полей. Опрашивается клиентом синхронизации
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=cardapimodels.CardDataView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/data [get]
func (c *cardDataApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	view, hMsg, err := carddatahandler.Instance.Get(ctx.Context(), actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения таблицы карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Сохранение таблицы строк
// @Tags Данные карты
// @Description Таблица сохраняется целиком, запись сериализуется по карте
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 cardapimodels.CardDataSaveRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/data [put]
func (c *cardDataApiController) save(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload cardapimodels.CardDataSaveRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	hMsg, err := carddatahandler.Instance.Save(ctx.Context(), actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения таблицы карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
