package main

import (
	"context"
	"fmt"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"sync"
	"time"
	"transfer-cards-backend/config"
	apiv1 "transfer-cards-backend/controllers/v1"
	"transfer-cards-backend/controllers/v1/dict"
	"transfer-cards-backend/fiberlog"
	"transfer-cards-backend/initializers"
	"transfer-cards-backend/middleware"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // limit of 100MB
	})
	app.Use(fiberRecover.New())

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, PUT",
	}))
	apiv1.InitAuthApiRouters(apiV1)

	//dict
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired())
	dict.InitDepartmentDictApiRouters(dicts)

	//шаблоны
	templates := fiber.New()
	apiV1.Mount("/templates", templates)
	templates.Use(middleware.AuthorizationRequired())
	apiv1.InitTemplateApiRouters(templates)

	//карты
	// литеральные маршруты (pending, history) регистрируются до маршрутов с :id
	cards := fiber.New()
	apiV1.Mount("/cards", cards)
	cards.Use(middleware.AuthorizationRequired())
	apiv1.InitCardFlowApiRouters(cards)
	apiv1.InitCardDataApiRouters(cards)
	apiv1.InitCardApiRouters(cards)

	//пользователи
	users := fiber.New()
	apiV1.Mount("/users", users)
	users.Use(middleware.AuthorizationRequired())
	users.Use(middleware.AdminRoleRequired())
	apiv1.InitUserApiRouters(users)

	app.Hooks().OnShutdown()

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	wg := sync.WaitGroup{}
	go func() {
		_ = <-c
		wg.Add(1)
		defer wg.Done()
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
