package apiv1

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"transfer-cards-backend/controllers"
	cardattachmenthandler "transfer-cards-backend/lib/card-attachment"
	cardhandler "transfer-cards-backend/lib/card"
	pdfexport "transfer-cards-backend/lib/export/pdf"
	xlsexport "transfer-cards-backend/lib/export/xls"
	"transfer-cards-backend/middleware"
	apimodels "transfer-cards-backend/models/api"
	cardapimodels "transfer-cards-backend/models/api/card"
)

type cardApiController struct {
	controllers.BaseAPIController
}

func InitCardApiRouters(app *fiber.App) {
	controller := cardApiController{}
	app.Route("", func(router fiber.Router) {
		router.Post("list", controller.list)
		router.Post("", controller.create)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Delete("", controller.delete)
			idRoute.Get("export", controller.export)
			idRoute.Route("attachments", func(attRoute fiber.Router) {
				attRoute.Get("", controller.listAttachments)
				attRoute.Post("", controller.uploadAttachment)
				attRoute.Get(":attachment_id", controller.downloadAttachment)
				attRoute.Delete(":attachment_id", controller.deleteAttachment)
			})
		})
	})
}

// @Summary Список карт
// @Tags Карты
// @Description Список карт с фильтром и пагинацией
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 cardapimodels.CardFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]cardapimodels.CardView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/list [post]
func (c *cardApiController) list(ctx *fiber.Ctx) error {
	var payload cardapimodels.CardFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	list, rowCount, err := cardhandler.Instance.List(actor, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка карт")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Создание карты
// @Tags Карты
// @Description Создание карты по шаблону
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 cardapimodels.CardCreateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards [post]
func (c *cardApiController) create(ctx *fiber.Ctx) error {
	var payload cardapimodels.CardCreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	id, hMsg, err := cardhandler.Instance.Create(actor, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Получение карты
// @Tags Карты
// @Description Получение карты с уровнем доступа пользователя
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=cardapimodels.CardView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id} [get]
func (c *cardApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	view, hMsg, err := cardhandler.Instance.Get(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Обновление карты
// @Tags Карты
// @Description Обновление названия карты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 cardapimodels.CardUpdateRequest	true	"request body"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id} [put]
func (c *cardApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload cardapimodels.CardUpdateRequest
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	hMsg, err := cardhandler.Instance.Update(actor, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка обновления карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление карты
// @Tags Карты
// @Description Удаление карты со строками, шагами и вложениями
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id} [delete]
func (c *cardApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	hMsg, err := cardhandler.Instance.Delete(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Выгрузка таблицы карты
// @Tags Карты
// @Description Выгрузка таблицы карты в xlsx или pdf
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   format      		query   string  				    	false        "xlsx или pdf"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/export [get]
func (c *cardApiController) export(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	var (
		fileName    string
		contentType string
		content     []byte
		hMsg        string
	)
	switch ctx.Query("format", "xlsx") {
	case "pdf":
		fileName, content, hMsg, err = pdfexport.Instance.ExportCardData(actor, id)
		contentType = "application/pdf"
	case "xlsx":
		fileName, content, hMsg, err = xlsexport.Instance.ExportCardData(actor, id)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("неизвестный формат выгрузки"))
	}
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки таблицы карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, fileName))
	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Status(fiber.StatusOK).Send(content)
}

// @Summary Список вложений карты
// @Tags Вложения
// @Description Список вложений карты
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Success 200 {object} apimodels.Response{data=[]cardapimodels.AttachmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/attachments [get]
func (c *cardApiController) listAttachments(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	list, hMsg, err := cardattachmenthandler.Instance.List(actor, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вложений карты")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Загрузка вложения
// @Tags Вложения
// @Description Загрузка вложения (multipart, поле file)
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   file				formData	file	true	"файл вложения"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/attachments [post]
func (c *cardApiController) uploadAttachment(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл из запроса"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл"))
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл"))
	}

	actor := middleware.GetActor(ctx)
	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	attachmentID, hMsg, err := cardattachmenthandler.Instance.Upload(ctx.Context(), actor, id, fileHeader.Filename, contentType, content)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки вложения")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(attachmentID))
}

// @Summary Скачивание вложения
// @Tags Вложения
// @Description Скачивание вложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   attachment_id		path    string  				    	true         "attachment ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/attachments/{attachment_id} [get]
func (c *cardApiController) downloadAttachment(ctx *fiber.Ctx) error {
	attachmentID, err := c.GetIDByKey(ctx, "attachment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	fileName, contentType, content, hMsg, err := cardattachmenthandler.Instance.Download(ctx.Context(), actor, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания вложения")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%v"`, fileName))
	if contentType != "" {
		ctx.Set(fiber.HeaderContentType, contentType)
	}
	return ctx.Status(fiber.StatusOK).Send(content)
}

// @Summary Удаление вложения
// @Tags Вложения
// @Description Удаление вложения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  				    	true         "rec ID"
// @Param   attachment_id		path    string  				    	true         "attachment ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/cards/{id}/attachments/{attachment_id} [delete]
func (c *cardApiController) deleteAttachment(ctx *fiber.Ctx) error {
	attachmentID, err := c.GetIDByKey(ctx, "attachment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	actor := middleware.GetActor(ctx)
	hMsg, err := cardattachmenthandler.Instance.Delete(ctx.Context(), actor, attachmentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления вложения")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
