package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
)

// CardRow - одна строка табличной части карты.
// Таблица строк целиком является единицей синхронизации редактирования.
type CardRow struct {
	BaseModel
	CardID   string    `gorm:"type:varchar(36);index:idx_card_row,unique"`
	RowIndex int       `gorm:"index:idx_card_row,unique"`
	Values   RowValues `gorm:"type:jsonb"`
}

// RowValues - значения строки: имя поля -> скалярное значение
type RowValues map[string]interface{}

func (j RowValues) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *RowValues) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	if err := json.Unmarshal(value.([]byte), &j); err != nil {
		return err
	}
	return nil
}
