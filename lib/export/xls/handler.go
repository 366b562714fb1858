package xls

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"transfer-cards-backend/db"
	carddatastore "transfer-cards-backend/lib/card-data/store"
	cardpermission "transfer-cards-backend/lib/card-permission"
	cardtemplatestore "transfer-cards-backend/lib/card-template/store"
	cardstore "transfer-cards-backend/lib/card/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

const sheetName = "Данные карты"

type Provider interface {
	ExportCardData(actor models.Actor, cardID string) (fileName string, content []byte, hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		cardStore:     cardstore.NewInstance(db.DB),
		dataStore:     carddatastore.NewInstance(db.DB),
		templateStore: cardtemplatestore.NewInstance(db.DB),
		flowStore:     flowconfigstore.NewInstance(db.DB),
	}
}

type impl struct {
	cardStore     cardstore.Provider
	dataStore     carddatastore.Provider
	templateStore cardtemplatestore.Provider
	flowStore     flowconfigstore.Provider
}

// ExportCardData выгружает таблицу строк карты в xlsx.
// Колонки следуют порядку полей шаблона, заголовки берутся из подписей.
func (i impl) ExportCardData(actor models.Actor, cardID string) (fileName string, content []byte, hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return "", nil, "", err
	}
	if card == nil {
		return "", nil, "карта не найдена", nil
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return "", nil, "", err
	}
	if !cardpermission.Evaluate(actor, *card, flow).CanView() {
		return "", nil, "", models.ErrPermissionDenied
	}
	fields, err := i.templateStore.ListFields(card.TemplateID)
	if err != nil {
		return "", nil, "", err
	}
	rows, err := i.dataStore.ListRows(cardID)
	if err != nil {
		return "", nil, "", err
	}

	content, err = buildWorkbook(fields, rows)
	if err != nil {
		return "", nil, "", errors.Wrap(err, "ошибка формирования файла выгрузки")
	}
	return fmt.Sprintf("%v.xlsx", card.CardNumber), content, "", nil
}

func buildWorkbook(fields []dbmodels.TemplateField, rows []dbmodels.CardRow) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()
	sheetIdx, err := file.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(sheetIdx)
	if err = file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	columns := make([]dbmodels.TemplateField, 0, len(fields))
	for _, field := range fields {
		if field.IsActive {
			columns = append(columns, field)
		}
	}
	if err = writeHeader(file, columns); err != nil {
		return nil, err
	}
	for rowIdx, row := range rows {
		if err = writeRow(file, columns, rowIdx+2, row.Values); err != nil {
			return nil, err
		}
	}

	buffer := bytes.Buffer{}
	if err = file.Write(&buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func writeHeader(file *excelize.File, columns []dbmodels.TemplateField) error {
	style, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	for idx, field := range columns {
		cell, err := excelize.CoordinatesToCellName(idx+1, 1)
		if err != nil {
			return err
		}
		title := field.Label
		if title == "" {
			title = field.Name
		}
		if err = file.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
		if err = file.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(file *excelize.File, columns []dbmodels.TemplateField, rowNum int, values dbmodels.RowValues) error {
	for idx, field := range columns {
		cell, err := excelize.CoordinatesToCellName(idx+1, rowNum)
		if err != nil {
			return err
		}
		if err = file.SetCellValue(sheetName, cell, values[field.Name]); err != nil {
			return err
		}
	}
	return nil
}
