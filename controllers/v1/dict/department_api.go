package dict

import (
	"github.com/gofiber/fiber/v2"

	"transfer-cards-backend/controllers"
	departmentprovider "transfer-cards-backend/lib/dicts/department"
	"transfer-cards-backend/middleware"
	apimodels "transfer-cards-backend/models/api"
	dictapimodels "transfer-cards-backend/models/api/dict"
)

type departmentApiController struct {
	controllers.BaseAPIController
}

func InitDepartmentDictApiRouters(app *fiber.App) {
	controller := departmentApiController{}
	app.Route("departments", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", middleware.AdminRoleRequired(), controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", middleware.AdminRoleRequired(), controller.update)
			idRoute.Delete("", middleware.AdminRoleRequired(), controller.delete)
		})
	})
}

// @Summary Справочник отделов
// @Tags Отделы
// @Description Справочник отделов
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]dictapimodels.DepartmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/departments [get]
func (c *departmentApiController) list(ctx *fiber.Ctx) error {
	list, err := departmentprovider.Instance.List()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения справочника отделов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Создание отдела
// @Tags Отделы
// @Description Создание отдела
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.DepartmentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/departments [post]
func (c *departmentApiController) create(ctx *fiber.Ctx) error {
	var payload dictapimodels.DepartmentData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	id, err := departmentprovider.Instance.Create(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания отдела")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение отдела
// @Tags Отделы
// @Description Получение отдела
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=dictapimodels.DepartmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/departments/{id} [get]
func (c *departmentApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	item, err := departmentprovider.Instance.Get(id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения отдела")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Обновление отдела
// @Tags Отделы
// @Description Обновление отдела
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 dictapimodels.DepartmentData	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/departments/{id} [put]
func (c *departmentApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload dictapimodels.DepartmentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = departmentprovider.Instance.Update(id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления отдела")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление отдела
// @Tags Отделы
// @Description Удаление отдела
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/dict/departments/{id} [delete]
func (c *departmentApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = departmentprovider.Instance.Delete(id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления отдела")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
