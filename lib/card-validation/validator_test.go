package cardvalidation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

func testFields() []dbmodels.TemplateField {
	return []dbmodels.TemplateField{
		{Name: "field_a", IsRequired: true, IsActive: true},
		{Name: "field_b", IsRequired: true, IsActive: true, DepartmentID: "dep-1"},
		{Name: "field_other", IsRequired: true, IsActive: true, DepartmentID: "dep-2"},
		{Name: "field_optional", IsRequired: false, IsActive: true},
	}
}

func TestValidateCollectsAllMisses(t *testing.T) {
	rows := []dbmodels.RowValues{
		{"field_b": "ok"},                   // нет field_a
		{"field_a": "ok", "field_b": "ok"},  // полная
		{"field_a": "ok", "field_b": nil},   // нет field_b
	}
	err := Validate(rows, testFields(), "dep-1")
	require.NotNil(t, err)

	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.ElementsMatch(t, []models.FieldMiss{
		{Row: 1, Field: "field_a"},
		{Row: 3, Field: "field_b"},
	}, vErr.Misses)
}

func TestValidateIgnoresForeignDepartmentFields(t *testing.T) {
	rows := []dbmodels.RowValues{
		{"field_a": "ok", "field_b": "ok"}, // field_other отсутствует
	}
	err := Validate(rows, testFields(), "dep-1")
	require.Nil(t, err)

	// а для владельца поля то же отсутствие - ошибка
	err = Validate(rows, testFields(), "dep-2")
	require.NotNil(t, err)
	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, []models.FieldMiss{{Row: 1, Field: "field_other"}}, vErr.Misses)
}

func TestValidateEmptyStringIsMissing(t *testing.T) {
	rows := []dbmodels.RowValues{
		{"field_a": "", "field_b": "ok"},
	}
	err := Validate(rows, testFields(), "dep-1")
	require.NotNil(t, err)
	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, []models.FieldMiss{{Row: 1, Field: "field_a"}}, vErr.Misses)

	// ноль и false - заполненные значения
	rows = []dbmodels.RowValues{
		{"field_a": 0, "field_b": false},
	}
	require.Nil(t, Validate(rows, testFields(), "dep-1"))
}

func TestValidateMessageTruncatedToFive(t *testing.T) {
	fields := []dbmodels.TemplateField{
		{Name: "field_a", IsRequired: true, IsActive: true},
	}
	rows := make([]dbmodels.RowValues, 8)
	for idx := range rows {
		rows[idx] = dbmodels.RowValues{}
	}
	err := Validate(rows, fields, "dep-1")
	require.NotNil(t, err)

	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	// полный набор сохранен
	require.Len(t, vErr.Misses, 8)
	// в сообщении первые 5 и счетчик остатка
	msg := vErr.Error()
	require.Equal(t, 5, strings.Count(msg, "строка"))
	require.Contains(t, msg, fmt.Sprintf("и еще %v", 3))
}

func TestValidateInactiveFieldSkipped(t *testing.T) {
	fields := []dbmodels.TemplateField{
		{Name: "field_a", IsRequired: true, IsActive: false},
	}
	rows := []dbmodels.RowValues{{}}
	require.Nil(t, Validate(rows, fields, "dep-1"))
}
