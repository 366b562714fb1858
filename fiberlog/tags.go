package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	TagStatus  = "status"
	TagLatency = "latency"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagBody    = "body"
	TagResBody = "res_body"
	RequestID  = "request_id"
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag извлекает значение поля лога из контекста запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

var tagFuncs = map[string]FuncTag{
	TagStatus: func(c *fiber.Ctx, d *data) interface{} {
		return c.Response().StatusCode()
	},
	TagLatency: func(c *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagMethod: func(c *fiber.Ctx, d *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, d *data) interface{} {
		return c.Path()
	},
	TagIP: func(c *fiber.Ctx, d *data) interface{} {
		return c.IP()
	},
	TagBody: func(c *fiber.Ctx, d *data) interface{} {
		return string(c.Body())
	},
	TagResBody: func(c *fiber.Ctx, d *data) interface{} {
		return string(c.Response().Body())
	},
	RequestID: func(c *fiber.Ctx, d *data) interface{} {
		return getRequestID(c)
	},
}

func getFuncTagMap(cfg Config, d *data) map[string]FuncTag {
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if fn, exist := tagFuncs[tag]; exist {
			ftm[tag] = fn
		}
	}
	return ftm
}

func getRequestID(c *fiber.Ctx) string {
	id, ok := c.Locals(RequestID).(string)
	if !ok || id == "" {
		id = uuid.NewString()
		c.Locals(RequestID, id)
	}
	return id
}

// GetRequestID возвращает идентификатор запроса для связывания записей лога
func GetRequestID(c *fiber.Ctx) string {
	return getRequestID(c)
}
