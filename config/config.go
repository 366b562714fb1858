package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"transfer-cards" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Admin struct {
		UserName string `default:"admin" env:"ADMIN_USER_NAME"`
		Password string `default:"" env:"ADMIN_PASSWORD"`
		FullName string `default:"Администратор системы" env:"ADMIN_FULL_NAME"`
	}
	Redis struct {
		URL               string `default:"" env:"REDIS_URL"`
		CardDataTTLInSec  int    `default:"2" env:"REDIS_CARD_DATA_TTL_IN_SEC"`
	}
	Smtp struct {
		User        string `default:"" env:"SMTP_USER"`
		Password    string `default:"" env:"SMTP_PASSWORD"`
		Host        string `default:"" env:"SMTP_HOST"`
		Port        string `default:"" env:"SMTP_PORT"`
		TLSEnabled  *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		SenderEmail string `default:"" env:"SMTP_SENDER_EMAIL"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"card-attachments" env:"S3_BUCKET_NAME"`
	}
	Flow struct {
		OverdueCheckIntervalInMin int `default:"30" env:"FLOW_OVERDUE_CHECK_INTERVAL_IN_MIN"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
