package initializers

import (
	"context"
	"transfer-cards-backend/config"
	"transfer-cards-backend/rediscache"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func InitRedis(ctx context.Context) {
	if config.Conf.Redis.URL == "" {
		log.Warn("Redis не настроен, кеширование таблиц карт отключено")
		return
	}
	opt, err := redis.ParseURL(config.Conf.Redis.URL)
	if err != nil {
		log.WithError(err).Error("Ошибка разбора адреса Redis")
		return
	}
	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("Redis соединение не удалось")
		return
	}
	rediscache.Client = client
	log.Info("Redis клиент успешно инициализирован")
}
