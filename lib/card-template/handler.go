package cardtemplatehandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	cardtemplatestore "transfer-cards-backend/lib/card-template/store"
	"transfer-cards-backend/models"
	templateapimodels "transfer-cards-backend/models/api/template"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(request templateapimodels.TemplateData) (id string, err error)
	Update(id string, request templateapimodels.TemplateData) error
	Get(id string) (view templateapimodels.TemplateView, err error)
	List() (list []templateapimodels.TemplateView, err error)
	Delete(id string) error
	SaveFields(templateID string, request templateapimodels.SaveFieldsRequest) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: cardtemplatestore.NewInstance(db.DB),
	}
}

type impl struct {
	store cardtemplatestore.Provider
}

func (i impl) Create(request templateapimodels.TemplateData) (id string, err error) {
	rec := dbmodels.CardTemplate{
		Name:        request.Name,
		Description: request.Description,
		IsActive:    true,
	}
	if err = rec.Validate(); err != nil {
		return "", err
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", err
	}
	log.
		WithField("template_name", rec.Name).
		WithField("rec_id", id).
		Info("создан шаблон карты")
	return id, nil
}

func (i impl) Update(id string, request templateapimodels.TemplateData) error {
	updMap := map[string]interface{}{
		"name":        request.Name,
		"description": request.Description,
		"is_active":   request.IsActive,
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		return err
	}
	log.WithField("rec_id", id).Info("обновлен шаблон карты")
	return nil
}

func (i impl) Get(id string) (view templateapimodels.TemplateView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return templateapimodels.TemplateView{}, err
	}
	if rec == nil {
		return templateapimodels.TemplateView{}, errors.New("шаблон не найден")
	}
	return toView(*rec), nil
}

func (i impl) List() (list []templateapimodels.TemplateView, err error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	list = make([]templateapimodels.TemplateView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, toView(rec))
	}
	return list, nil
}

func (i impl) Delete(id string) error {
	return i.store.Delete(id)
}

func (i impl) SaveFields(templateID string, request templateapimodels.SaveFieldsRequest) (hMsg string, err error) {
	rec, err := i.store.GetByID(templateID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "шаблон не найден", nil
	}
	usedNames := map[string]bool{}
	fields := make([]dbmodels.TemplateField, 0, len(request.Fields))
	for idx, field := range request.Fields {
		if field.Name == "" {
			return "не указано имя поля", nil
		}
		if usedNames[field.Name] {
			return "имя поля " + field.Name + " уже используется", nil
		}
		usedNames[field.Name] = true
		fields = append(fields, dbmodels.TemplateField{
			Name:         field.Name,
			Label:        field.Label,
			FieldType:    models.FieldType(field.FieldType),
			IsRequired:   field.IsRequired,
			DepartmentID: field.DepartmentID,
			SortOrder:    idx + 1,
			Options:      field.Options,
			IsActive:     true,
		})
	}
	err = i.store.ReplaceFields(templateID, fields)
	if err != nil {
		return "", err
	}
	log.
		WithField("template_id", templateID).
		WithField("fields", len(fields)).
		Info("обновлены поля шаблона")
	return "", nil
}

func toView(rec dbmodels.CardTemplate) templateapimodels.TemplateView {
	view := templateapimodels.TemplateView{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		IsActive:    rec.IsActive,
	}
	for _, field := range rec.Fields {
		view.Fields = append(view.Fields, templateapimodels.FieldData{
			Name:         field.Name,
			Label:        field.Label,
			FieldType:    string(field.FieldType),
			IsRequired:   field.IsRequired,
			DepartmentID: field.DepartmentID,
			Options:      field.Options,
		})
	}
	return view
}
