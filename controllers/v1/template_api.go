package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"transfer-cards-backend/controllers"
	cardtemplatehandler "transfer-cards-backend/lib/card-template"
	flowconfighandler "transfer-cards-backend/lib/flow-config"
	"transfer-cards-backend/middleware"
	apimodels "transfer-cards-backend/models/api"
	flowapimodels "transfer-cards-backend/models/api/flow"
	templateapimodels "transfer-cards-backend/models/api/template"
)

type templateApiController struct {
	controllers.BaseAPIController
}

func InitTemplateApiRouters(app *fiber.App) {
	controller := templateApiController{}
	app.Route("", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", middleware.AdminRoleRequired(), controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", middleware.AdminRoleRequired(), controller.update)
			idRoute.Delete("", middleware.AdminRoleRequired(), controller.delete)
			idRoute.Put("fields", middleware.AdminRoleRequired(), controller.saveFields)
			idRoute.Get("flow", controller.getFlow)
			idRoute.Put("flow", middleware.AdminRoleRequired(), controller.setFlow)
		})
	})
}

// @Summary Список шаблонов карт
// @Tags Шаблоны
// @Description Список шаблонов карт
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]templateapimodels.TemplateView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates [get]
func (c *templateApiController) list(ctx *fiber.Ctx) error {
	list, err := cardtemplatehandler.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка шаблонов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание шаблона
// @Tags Шаблоны
// @Description Создание шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 templateapimodels.TemplateData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates [post]
func (c *templateApiController) create(ctx *fiber.Ctx) error {
	var payload templateapimodels.TemplateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := cardtemplatehandler.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение шаблона с полями
// @Tags Шаблоны
// @Description Получение шаблона с полями
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=templateapimodels.TemplateView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates/{id} [get]
func (c *templateApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := cardtemplatehandler.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Обновление шаблона
// @Tags Шаблоны
// @Description Обновление шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 templateapimodels.TemplateData	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates/{id} [put]
func (c *templateApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload templateapimodels.TemplateData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = cardtemplatehandler.Instance.Update(id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление шаблона
// @Tags Шаблоны
// @Description Удаление шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates/{id} [delete]
func (c *templateApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = cardtemplatehandler.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Сохранение полей шаблона
// @Tags Шаблоны
// @Description Сохранение полей шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 templateapimodels.SaveFieldsRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates/{id}/fields [put]
func (c *templateApiController) saveFields(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload templateapimodels.SaveFieldsRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := cardtemplatehandler.Instance.SaveFields(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения полей шаблона")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Маршрут шаблона
// @Tags Шаблоны
// @Description Маршрут шаблона
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]flowapimodels.FlowDepartmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates/{id}/flow [get]
func (c *templateApiController) getFlow(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	list, err := flowconfighandler.Instance.List(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения маршрута шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Сохранение маршрута шаблона
// @Tags Шаблоны
// @Description Сохранение маршрута шаблона. Порядок отделов определяется позицией в массиве
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 flowapimodels.SetFlowRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/templates/{id}/flow [put]
func (c *templateApiController) setFlow(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload flowapimodels.SetFlowRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	hMsg, err := flowconfighandler.Instance.Set(id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка сохранения маршрута шаблона")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
