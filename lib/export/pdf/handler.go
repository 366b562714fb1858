package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"transfer-cards-backend/db"
	carddatastore "transfer-cards-backend/lib/card-data/store"
	cardpermission "transfer-cards-backend/lib/card-permission"
	cardtemplatestore "transfer-cards-backend/lib/card-template/store"
	cardstore "transfer-cards-backend/lib/card/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	"transfer-cards-backend/models"
	dbmodels "transfer-cards-backend/models/db"
)

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

// ExportCardData выгружает таблицу строк карты в pdf.
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

	content, err = buildDocument(card.CardNumber, fields, rows)
	if err != nil {
		return "", nil, "", errors.Wrap(err, "ошибка формирования файла выгрузки")
	}
	return fmt.Sprintf("%v.pdf", card.CardNumber), content, "", nil
}

func buildDocument(cardNumber string, fields []dbmodels.TemplateField, rows []dbmodels.CardRow) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("buildDocument panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("L", "mm", "A4", "static/font/")
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	pdf.CellFormat(0, 8, cardNumber, "", 1, "L", false, 0, "")

	columns := make([]dbmodels.TemplateField, 0, len(fields))
	for _, field := range fields {
		if field.IsActive {
			columns = append(columns, field)
		}
	}
	if len(columns) > 0 {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		colW := (pageW - left - right) / float64(len(columns))

		pdf.SetFont("Arial", "B", 10)
		for _, field := range columns {
			title := field.Label
			if title == "" {
				title = field.Name
			}
			pdf.CellFormat(colW, 7, title, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 10)
		for _, row := range rows {
			for _, field := range columns {
				value := ""
				if raw, exist := row.Values[field.Name]; exist && raw != nil {
					value = fmt.Sprintf("%v", raw)
				}
				pdf.CellFormat(colW, 7, value, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
