package editsync

import (
	"reflect"
)

// Row - строка таблицы: имя поля -> значение
type Row map[string]interface{}

// Table - таблица строк карты, единица синхронизации
type Table []Row

// EditKey - координата локальной правки
type EditKey struct {
	Row   int
	Field string
}

// MergeTables накладывает локальные правки на свежую серверную таблицу.
// Правки пользователя имеют приоритет над серверными значениями тех же ячеек,
// остальные ячейки берутся с сервера. Правки в строках за пределами серверной
// таблицы достраивают ее пустыми строками: локально добавленная строка не
// теряется, пока сервер о ней не знает.
func MergeTables(server Table, edits map[EditKey]interface{}) Table {
	merged := CloneTable(server)
	for key, value := range edits {
		if key.Row < 0 {
			continue
		}
		for key.Row >= len(merged) {
			merged = append(merged, Row{})
		}
		if merged[key.Row] == nil {
			merged[key.Row] = Row{}
		}
		merged[key.Row][key.Field] = value
	}
	return merged
}

// TablesEqual сравнивает таблицы поячеечно
func TablesEqual(a, b Table) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if len(a[idx]) != len(b[idx]) {
			return false
		}
		for field, value := range a[idx] {
			other, exist := b[idx][field]
			if !exist || !reflect.DeepEqual(value, other) {
				return false
			}
		}
	}
	return true
}

// CloneTable делает глубокую копию на уровне строк.
// Скалярные значения ячеек не копируются.
func CloneTable(t Table) Table {
	if t == nil {
		return Table{}
	}
	clone := make(Table, 0, len(t))
	for _, row := range t {
		rowClone := make(Row, len(row))
		for field, value := range row {
			rowClone[field] = value
		}
		clone = append(clone, rowClone)
	}
	return clone
}
