package models

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Ошибки маршрута карты. Контроллеры мапят их на коды ответов,
// бизнес-слой оборачивает через errors.Wrap с уточнением.
var (
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	ErrPermissionDenied  = errors.New("операция недоступна для текущего пользователя")
	ErrStaleResponse     = errors.New("ответ устарел и был отброшен")
)

// FieldMiss - координата незаполненного обязательного поля
type FieldMiss struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
}

// ValidationError содержит полный список незаполненных обязательных полей.
// В сообщении пользователю показываются первые maxShownMisses координат.
type ValidationError struct {
	Misses []FieldMiss
}

const maxShownMisses = 5

func (e *ValidationError) Error() string {
	if len(e.Misses) == 0 {
		return "не заполнены обязательные поля"
	}
	shown := e.Misses
	if len(shown) > maxShownMisses {
		shown = shown[:maxShownMisses]
	}
	parts := make([]string, 0, len(shown))
	for _, miss := range shown {
		parts = append(parts, fmt.Sprintf("строка %v - %v", miss.Row, miss.Field))
	}
	msg := "не заполнены обязательные поля: " + strings.Join(parts, ", ")
	if rest := len(e.Misses) - len(shown); rest > 0 {
		msg = fmt.Sprintf("%v и еще %v", msg, rest)
	}
	return msg
}
