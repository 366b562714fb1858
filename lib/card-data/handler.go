package carddatahandler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/config"
	"transfer-cards-backend/db"
	carddatacache "transfer-cards-backend/lib/card-data/cache"
	carddatastore "transfer-cards-backend/lib/card-data/store"
	cardpermission "transfer-cards-backend/lib/card-permission"
	cardtemplatestore "transfer-cards-backend/lib/card-template/store"
	cardstore "transfer-cards-backend/lib/card/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	"transfer-cards-backend/lib/utils/lock"
	"transfer-cards-backend/models"
	cardapimodels "transfer-cards-backend/models/api/card"
	dbmodels "transfer-cards-backend/models/db"
	"transfer-cards-backend/rediscache"
)

const saveLockWait = 3 * time.Second

type Provider interface {
	Get(ctx context.Context, actor models.Actor, cardID string) (view cardapimodels.CardDataView, hMsg string, err error)
	Save(ctx context.Context, actor models.Actor, cardID string, request cardapimodels.CardDataSaveRequest) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:         carddatastore.NewInstance(db.DB),
		cardStore:     cardstore.NewInstance(db.DB),
		templateStore: cardtemplatestore.NewInstance(db.DB),
		flowStore:     flowconfigstore.NewInstance(db.DB),
		cache: carddatacache.NewInstance(
			rediscache.Client,
			time.Duration(config.Conf.Redis.CardDataTTLInSec)*time.Second,
		),
	}
}

type impl struct {
	store         carddatastore.Provider
	cardStore     cardstore.Provider
	templateStore cardtemplatestore.Provider
	flowStore     flowconfigstore.Provider
	cache         carddatacache.Provider
}

func (i impl) Get(ctx context.Context, actor models.Actor, cardID string) (view cardapimodels.CardDataView, hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return cardapimodels.CardDataView{}, "", err
	}
	if card == nil {
		return cardapimodels.CardDataView{}, "карта не найдена", nil
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return cardapimodels.CardDataView{}, "", err
	}
	if !cardpermission.Evaluate(actor, *card, flow).CanView() {
		return cardapimodels.CardDataView{}, "", models.ErrPermissionDenied
	}

	cached, err := i.cache.Get(ctx, cardID)
	if err != nil {
		// кэш не должен ронять чтение
		log.WithError(err).Warn("ошибка чтения кэша таблицы карты")
	}
	if cached != nil {
		return *cached, "", nil
	}

	view, err = i.buildView(card.TemplateID, cardID)
	if err != nil {
		return cardapimodels.CardDataView{}, "", err
	}
	if err = i.cache.Set(ctx, cardID, view); err != nil {
		log.WithError(err).Warn("ошибка записи кэша таблицы карты")
	}
	return view, "", nil
}

func (i impl) Save(ctx context.Context, actor models.Actor, cardID string, request cardapimodels.CardDataSaveRequest) (hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return "", err
	}
	if card == nil {
		return "карта не найдена", nil
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return "", err
	}
	if !canSaveData(cardpermission.Evaluate(actor, *card, flow), card.Status) {
		return "", models.ErrPermissionDenied
	}
	if request.Status != "" {
		if hMsg = checkStatusChange(card.Status, models.CardStatus(request.Status)); hMsg != "" {
			return hMsg, nil
		}
	}

	success, err := lock.WithDelay(ctx, "card-data:"+cardID, saveLockWait, func() error {
		rows := make([]dbmodels.RowValues, 0, len(request.TableData))
		for _, rowData := range request.TableData {
			rows = append(rows, dbmodels.RowValues(rowData))
		}
		if err := i.store.ReplaceRows(cardID, rows); err != nil {
			return err
		}
		if request.Status != "" {
			return i.cardStore.Update(cardID, map[string]interface{}{
				"status": request.Status,
			})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if !success {
		return "карта занята другим сохранением, повторите попытку", nil
	}
	if err = i.cache.Invalidate(ctx, cardID); err != nil {
		log.WithError(err).Warn("ошибка сброса кэша таблицы карты")
	}
	log.
		WithField("card_id", cardID).
		WithField("user_id", actor.UserID).
		WithField("rows", len(request.TableData)).
		Info("сохранена таблица карты")
	return "", nil
}

func (i impl) buildView(templateID, cardID string) (cardapimodels.CardDataView, error) {
	fields, err := i.templateStore.ListFields(templateID)
	if err != nil {
		return cardapimodels.CardDataView{}, err
	}
	rows, err := i.store.ListRows(cardID)
	if err != nil {
		return cardapimodels.CardDataView{}, err
	}
	view := cardapimodels.CardDataView{
		Fields:    make([]cardapimodels.FieldView, 0, len(fields)),
		TableData: make([]map[string]interface{}, 0, len(rows)),
	}
	for _, field := range fields {
		if !field.IsActive {
			continue
		}
		view.Fields = append(view.Fields, cardapimodels.FieldView{
			Name:         field.Name,
			Label:        field.Label,
			FieldType:    string(field.FieldType),
			IsRequired:   field.IsRequired,
			DepartmentID: field.DepartmentID,
			Options:      field.Options,
		})
	}
	for _, row := range rows {
		view.TableData = append(view.TableData, map[string]interface{}(row.Values))
	}
	return view, nil
}

// canSaveData: право записи есть у текущего отдела (и администратора),
// а также у создателя, пока карта остается черновиком
func canSaveData(level models.PermissionLevel, status models.CardStatus) bool {
	if level.CanEdit() {
		return true
	}
	return level == models.PermissionOwner && status == models.CardStatusDraft
}

func checkStatusChange(current, next models.CardStatus) (hMsg string) {
	if next != models.CardStatusDraft && next != models.CardStatusInProgress {
		return "смена статуса " + string(next) + " при сохранении таблицы недоступна"
	}
	if current.IsTerminal() {
		return "карта в статусе " + current.ToHuman() + " не редактируется"
	}
	return ""
}
