package rediscache

import (
	"github.com/redis/go-redis/v9"
)

// Client - общий клиент redis, nil если кэширование не настроено
var Client *redis.Client
