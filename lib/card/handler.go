package cardhandler

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	cardpermission "transfer-cards-backend/lib/card-permission"
	cardstore "transfer-cards-backend/lib/card/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	"transfer-cards-backend/models"
	cardapimodels "transfer-cards-backend/models/api/card"
	dbmodels "transfer-cards-backend/models/db"
)

type Provider interface {
	Create(actor models.Actor, request cardapimodels.CardCreateRequest) (id string, hMsg string, err error)
	Get(actor models.Actor, id string) (view cardapimodels.CardView, hMsg string, err error)
	List(actor models.Actor, filter cardapimodels.CardFilter) (list []cardapimodels.CardView, rowCount int64, err error)
	Update(actor models.Actor, id string, request cardapimodels.CardUpdateRequest) (hMsg string, err error)
	Delete(actor models.Actor, id string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     cardstore.NewInstance(db.DB),
		flowStore: flowconfigstore.NewInstance(db.DB),
	}
}

type impl struct {
	store     cardstore.Provider
	flowStore flowconfigstore.Provider
}

func (i impl) Create(actor models.Actor, request cardapimodels.CardCreateRequest) (id string, hMsg string, err error) {
	if err = request.Validate(); err != nil {
		return "", err.Error(), nil
	}
	rec := dbmodels.Card{
		CardNumber: newCardNumber(),
		TemplateID: request.TemplateID,
		Title:      request.Title,
		Status:     models.CardStatusDraft,
		CreatorID:  actor.UserID,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка создания карты")
	}
	log.
		WithField("card_number", rec.CardNumber).
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		Info("создана карта")
	return id, "", nil
}

func (i impl) Get(actor models.Actor, id string) (view cardapimodels.CardView, hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return cardapimodels.CardView{}, "", err
	}
	if rec == nil {
		return cardapimodels.CardView{}, "карта не найдена", nil
	}
	flow, err := i.flowStore.ListByTemplate(rec.TemplateID)
	if err != nil {
		return cardapimodels.CardView{}, "", err
	}
	level := cardpermission.Evaluate(actor, *rec, flow)
	if !level.CanView() {
		return cardapimodels.CardView{}, "", models.ErrPermissionDenied
	}
	view = rec.ToModel()
	view.PermissionLevel = string(level)
	return view, "", nil
}

func (i impl) List(actor models.Actor, filter cardapimodels.CardFilter) (list []cardapimodels.CardView, rowCount int64, err error) {
	recList, rowCount, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	// маршруты шаблонов читаются один раз на шаблон, а не на карту
	flowByTemplate := map[string][]dbmodels.FlowDepartment{}
	list = make([]cardapimodels.CardView, 0, len(recList))
	for _, rec := range recList {
		flow, ok := flowByTemplate[rec.TemplateID]
		if !ok {
			flow, err = i.flowStore.ListByTemplate(rec.TemplateID)
			if err != nil {
				return nil, 0, err
			}
			flowByTemplate[rec.TemplateID] = flow
		}
		view := rec.ToModel()
		view.PermissionLevel = string(cardpermission.Evaluate(actor, rec, flow))
		list = append(list, view)
	}
	return list, rowCount, nil
}

func (i impl) Update(actor models.Actor, id string, request cardapimodels.CardUpdateRequest) (hMsg string, err error) {
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "карта не найдена", nil
	}
	if !actor.IsAdmin() && rec.CreatorID != actor.UserID {
		return "", models.ErrPermissionDenied
	}
	err = i.store.Update(id, map[string]interface{}{
		"title": request.Title,
	})
	if err != nil {
		return "", err
	}
	log.WithField("rec_id", id).Info("обновлена карта")
	return "", nil
}

func (i impl) Delete(actor models.Actor, id string) (hMsg string, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "карта не найдена", nil
	}
	if !actor.IsAdmin() {
		// создатель может удалить только черновик
		if rec.CreatorID != actor.UserID || rec.Status != models.CardStatusDraft {
			return "", models.ErrPermissionDenied
		}
	}
	err = i.store.Delete(id)
	if err != nil {
		return "", err
	}
	log.
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		Info("удалена карта")
	return "", nil
}

// newCardNumber генерирует номер вида TC-20260901-A1B2C3D4
func newCardNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("TC-%v-%v", time.Now().Format("20060102"), suffix)
}
