package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"transfer-cards-backend/controllers"
	authhandler "transfer-cards-backend/lib/auth"
	"transfer-cards-backend/middleware"
	apimodels "transfer-cards-backend/models/api"
	authapimodels "transfer-cards-backend/models/api/auth"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(app *fiber.App) {
	controller := authApiController{}
	app.Route("auth", func(router fiber.Router) {
		router.Post("login", controller.login)
		router.Get("me", middleware.AuthorizationRequired(), controller.me)
	})
}

// @Summary Вход по логину и паролю
// @Tags Авторизация
// @Description Вход по логину и паролю
// @Param	body body	 authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.JWTResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := authhandler.Instance.Login(payload.UserName, payload.Password)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Данные текущего пользователя
// @Tags Авторизация
// @Description Данные текущего пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=usersapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	view, err := authhandler.Instance.Me(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения данных пользователя")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
