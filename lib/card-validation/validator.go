package cardvalidation

import (
	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

// Validate проверяет полноту обязательных полей таблицы строк перед передачей
// карты следующему отделу. Проверяются только активные обязательные поля,
// принадлежащие передающему отделу (или общие); поля чужих отделов на этот
// переход не влияют, даже если помечены обязательными.
// Собираются ВСЕ координаты пропусков, а не первая найденная: пользователь
// должен увидеть полный список. Номера строк в отчете - с единицы.
func Validate(rows []dbmodels.RowValues, fields []dbmodels.TemplateField, departmentID string) error {
	required := make([]dbmodels.TemplateField, 0, len(fields))
	for _, field := range fields {
		if field.IsActive && field.IsRequired && field.OwnedBy(departmentID) {
			required = append(required, field)
		}
	}
	if len(required) == 0 {
		return nil
	}

	misses := []models.FieldMiss{}
	for rowIdx, row := range rows {
		for _, field := range required {
			if isEmptyValue(row[field.Name]) {
				misses = append(misses, models.FieldMiss{
					Row:   rowIdx + 1,
					Field: field.Name,
				})
			}
		}
	}
	if len(misses) > 0 {
		return &models.ValidationError{Misses: misses}
	}
	return nil
}

func isEmptyValue(value interface{}) bool {
	if value == nil {
		return true
	}
	if str, ok := value.(string); ok {
		return str == ""
	}
	return false
}
