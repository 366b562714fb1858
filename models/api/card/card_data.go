package cardapimodels

// FieldView - метаданные поля табличной части
type FieldView struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	FieldType    string   `json:"field_type"`
	IsRequired   bool     `json:"is_required"`
	DepartmentID string   `json:"department_id,omitempty"`
	Options      []string `json:"options,omitempty"`
}

// CardDataView - авторитетная таблица строк карты с метаданными полей.
// Опрашивается клиентом синхронизации по таймеру.
type CardDataView struct {
	Fields    []FieldView              `json:"fields"`
	TableData []map[string]interface{} `json:"table_data"`
}

type CardDataSaveRequest struct {
	Status    string                   `json:"status,omitempty"`
	TableData []map[string]interface{} `json:"table_data"`
}

func (r CardDataSaveRequest) Validate() error {
	return nil
}
