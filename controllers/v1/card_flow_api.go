package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"transfer-cards-backend/controllers"
	cardflowhandler "transfer-cards-backend/lib/card-flow"
	"transfer-cards-backend/middleware"
	apimodels "transfer-cards-backend/models/api"
	flowapimodels "transfer-cards-backend/models/api/flow"
)

type cardFlowApiController struct {
	controllers.BaseAPIController
}

func InitCardFlowApiRouters(app *fiber.App) {
	controller := cardFlowApiController{}
	app.Route("", func(router fiber.Router) {
		router.Get("pending", controller.pending)
		router.Post("history", controller.history)
		router.Route(":id/flow", func(flowRoute fiber.Router) {
			flowRoute.Get("status", controller.status)
			flowRoute.Post("start", controller.start)
			flowRoute.Post("submit", controller.submit)
			flowRoute.Post("reject", controller.reject)
			flowRoute.Post("restart", middleware.AdminRoleRequired(), controller.restart)
			flowRoute.Post("cancel", controller.cancel)
		})
	})
}

// @Summary Карты, ожидающие обработки отделом
// @Tags Маршрут
// @Description Карты, ожидающие обработки отделом пользователя. Администратор видит все отделы
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]flowapimodels.PendingCardView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/pending [get]
func (c *cardFlowApiController) pending(ctx *fiber.Ctx) error {
	actor := middleware.GetActor(ctx)
	list, err := cardflowhandler.Instance.Pending(actor)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения карт к обработке")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Журнал операций маршрута
// @Tags Маршрут
// @Description Журнал операций. Без card_id доступен только администратору
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flowapimodels.HistoryFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]flowapimodels.FlowOperationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/history [post]
func (c *cardFlowApiController) history(ctx *fiber.Ctx) error {
	var payload flowapimodels.HistoryFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	list, rowCount, hMsg, err := cardflowhandler.Instance.History(actor, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения журнала маршрута")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Состояние маршрута карты
// @Tags Маршрут
// @Description Шаги маршрута, журнал и признак текущего обработчика
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=flowapimodels.FlowStatusView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/flow/status [get]
func (c *cardFlowApiController) status(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	view, hMsg, err := cardflowhandler.Instance.Status(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения состояния маршрута")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Запуск маршрута
// @Tags Маршрут
// @Description Запуск маршрута черновика карты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=flowapimodels.StartResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/flow/start [post]
func (c *cardFlowApiController) start(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	result, hMsg, err := cardflowhandler.Instance.Start(ctx.Context(), actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка запуска маршрута")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Передача карты следующему отделу
// @Tags Маршрут
// @Description Передача с проверкой обязательных полей текущего отдела
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flowapimodels.SubmitRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=flowapimodels.SubmitResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/flow/submit [post]
func (c *cardFlowApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flowapimodels.SubmitRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	result, hMsg, err := cardflowhandler.Instance.SubmitToNext(ctx.Context(), actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка передачи карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отклонение карты
// @Tags Маршрут
// @Description Отклонение карты с указанием причины, карта остается за текущим отделом до повторного запуска
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flowapimodels.RejectRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/flow/reject [post]
func (c *cardFlowApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flowapimodels.RejectRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	hMsg, err := cardflowhandler.Instance.Reject(ctx.Context(), actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отклонения карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Повторный запуск маршрута
// @Tags Маршрут
// @Description Повторный запуск маршрута, при необходимости с указанного отдела
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flowapimodels.RestartRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=flowapimodels.RestartResult}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/flow/restart [post]
func (c *cardFlowApiController) restart(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flowapimodels.RestartRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	result, hMsg, err := cardflowhandler.Instance.Restart(ctx.Context(), actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка повторного запуска маршрута")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Отмена карты
// @Tags Маршрут
// @Description Отмена карты создателем или администратором
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/flow/cancel [post]
func (c *cardFlowApiController) cancel(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	hMsg, err := cardflowhandler.Instance.Cancel(ctx.Context(), actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка отмены карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
