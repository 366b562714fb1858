package middleware

import (
	"github.com/gofiber/fiber/v2"

	authutils "transfer-cards-backend/lib/utils/auth-utils"
	"transfer-cards-backend/models"
	apimodels "transfer-cards-backend/models/api"
)

func GetUserID(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if sub, exist := claims["sub"]; exist {
		return sub.(string)
	}
	return ""
}

func GetUserDepartment(ctx *fiber.Ctx) string {
	claims := authutils.GetClaims(ctx)
	if department, exist := claims["department"]; exist {
		return department.(string)
	}
	return ""
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	claims := authutils.GetClaims(ctx)
	if role, exist := claims["role"]; exist {
		if stringRole, ok := role.(string); ok && stringRole != "" {
			return models.UserRole(stringRole)
		}
	}
	return ""
}

// GetActor собирает данные вызывающего пользователя из JWT клеймов
func GetActor(ctx *fiber.Ctx) models.Actor {
	return models.Actor{
		UserID:       GetUserID(ctx),
		DepartmentID: GetUserDepartment(ctx),
		Role:         GetUserRole(ctx),
	}
}

func AdminRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if !GetUserRole(ctx).IsAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("операция недоступна"))
		}
		return ctx.Next()
	}
}
