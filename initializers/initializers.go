package initializers

import (
	"context"
	"time"
	"transfer-cards-backend/config"
	"transfer-cards-backend/fiberlog"
	authhandler "transfer-cards-backend/lib/auth"
	cardhandler "transfer-cards-backend/lib/card"
	cardattachmenthandler "transfer-cards-backend/lib/card-attachment"
	carddatahandler "transfer-cards-backend/lib/card-data"
	cardflowhandler "transfer-cards-backend/lib/card-flow"
	cardtemplatehandler "transfer-cards-backend/lib/card-template"
	departmentprovider "transfer-cards-backend/lib/dicts/department"
	pdfexport "transfer-cards-backend/lib/export/pdf"
	xlsexport "transfer-cards-backend/lib/export/xls"
	flowconfighandler "transfer-cards-backend/lib/flow-config"
	flowtimeout "transfer-cards-backend/lib/flow-timeout"
	usershandler "transfer-cards-backend/lib/users"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	InitRedis(ctx)
	authhandler.NewHandler()
	usershandler.NewHandler()
	departmentprovider.NewHandler()
	cardtemplatehandler.NewHandler()
	flowconfighandler.NewHandler()
	cardhandler.NewHandler()
	carddatahandler.NewHandler()
	cardflowhandler.NewHandler(time.Duration(config.Conf.Redis.CardDataTTLInSec) * time.Second)
	cardattachmenthandler.NewHandler()
	xlsexport.NewHandler()
	pdfexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача уведомления отделов о просроченных шагах маршрута
	worker := flowtimeout.NewWorker(time.Duration(config.Conf.Flow.OverdueCheckIntervalInMin) * time.Minute)
	worker.Start(ctx)
}
