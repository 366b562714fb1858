package cardflowhandler

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/db"
	carddatacache "transfer-cards-backend/lib/card-data/cache"
	carddatastore "transfer-cards-backend/lib/card-data/store"
	oplogstore "transfer-cards-backend/lib/card-flow/oplog-store"
	cardflowstore "transfer-cards-backend/lib/card-flow/store"
	cardpermission "transfer-cards-backend/lib/card-permission"
	cardtemplatestore "transfer-cards-backend/lib/card-template/store"
	cardvalidation "transfer-cards-backend/lib/card-validation"
	cardstore "transfer-cards-backend/lib/card/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	"transfer-cards-backend/lib/smtp"
	usersstore "transfer-cards-backend/lib/users/store"
	"transfer-cards-backend/lib/utils/lock"
	"transfer-cards-backend/models"
	flowapimodels "transfer-cards-backend/models/api/flow"
	dbmodels "transfer-cards-backend/models/db"
	"transfer-cards-backend/rediscache"
)

const flowLockWait = 5 * time.Second

type Provider interface {
	Start(ctx context.Context, actor models.Actor, cardID string) (result flowapimodels.StartResult, hMsg string, err error)
	SubmitToNext(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.SubmitRequest) (result flowapimodels.SubmitResult, hMsg string, err error)
	Reject(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.RejectRequest) (hMsg string, err error)
	Restart(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.RestartRequest) (result flowapimodels.RestartResult, hMsg string, err error)
	Cancel(ctx context.Context, actor models.Actor, cardID string) (hMsg string, err error)
	Status(actor models.Actor, cardID string) (view flowapimodels.FlowStatusView, hMsg string, err error)
	Pending(actor models.Actor) (list []flowapimodels.PendingCardView, err error)
	History(actor models.Actor, filter flowapimodels.HistoryFilter) (list []flowapimodels.FlowOperationView, rowCount int64, hMsg string, err error)
}

var Instance Provider

func NewHandler(cardDataTTL time.Duration) {
	Instance = impl{
		stepStore:     cardflowstore.NewInstance(db.DB),
		oplogStore:    oplogstore.NewInstance(db.DB),
		cardStore:     cardstore.NewInstance(db.DB),
		flowStore:     flowconfigstore.NewInstance(db.DB),
		templateStore: cardtemplatestore.NewInstance(db.DB),
		dataStore:     carddatastore.NewInstance(db.DB),
		userStore:     usersstore.NewInstance(db.DB),
		cache:         carddatacache.NewInstance(rediscache.Client, cardDataTTL),
		mailer:        smtp.Instance,
		now:           time.Now,
	}
}

type impl struct {
	stepStore     cardflowstore.Provider
	oplogStore    oplogstore.Provider
	cardStore     cardstore.Provider
	flowStore     flowconfigstore.Provider
	templateStore cardtemplatestore.Provider
	dataStore     carddatastore.Provider
	userStore     usersstore.Provider
	cache         carddatacache.Provider
	mailer        smtp.Provider
	now           func() time.Time
}

func flowLockKey(cardID string) string {
	return "card-flow:" + cardID
}

// Start запускает маршрут черновика. Ведущие auto_skip шаги закрываются
// сразу с записью пропуска в журнал; если пропускаются все шаги,
// карта завершается без обработки.
func (i impl) Start(ctx context.Context, actor models.Actor, cardID string) (result flowapimodels.StartResult, hMsg string, err error) {
	success, err := lock.WithDelay(ctx, flowLockKey(cardID), flowLockWait, func() error {
		result, hMsg, err = i.start(actor, cardID)
		return err
	})
	if !success && err == nil {
		return flowapimodels.StartResult{}, "карта обрабатывается другой операцией, повторите попытку", nil
	}
	return result, hMsg, err
}

func (i impl) start(actor models.Actor, cardID string) (result flowapimodels.StartResult, hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return flowapimodels.StartResult{}, "", err
	}
	if card == nil {
		return flowapimodels.StartResult{}, "карта не найдена", nil
	}
	if !actor.IsAdmin() && card.CreatorID != actor.UserID {
		return flowapimodels.StartResult{}, "", models.ErrPermissionDenied
	}
	if card.Status != models.CardStatusDraft {
		return flowapimodels.StartResult{}, "",
			errors.Wrap(models.ErrInvalidTransition, "маршрут можно запустить только из черновика")
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return flowapimodels.StartResult{}, "", err
	}
	if len(flow) == 0 {
		return flowapimodels.StartResult{}, "для шаблона карты не настроен маршрут", nil
	}

	now := i.now()
	firstIdx := 0
	for firstIdx < len(flow) && flow[firstIdx].AutoSkip {
		firstIdx++
	}

	steps := make([]dbmodels.CardFlowStep, 0, len(flow))
	for idx, dept := range flow {
		step := dbmodels.CardFlowStep{
			DepartmentID: dept.DepartmentID,
			FlowOrder:    dept.FlowOrder,
			Status:       models.StepStatusPending,
			AutoSkip:     dept.AutoSkip,
			TimeoutHours: dept.TimeoutHours,
		}
		if idx < firstIdx {
			step.Status = models.StepStatusCompleted
			step.CompletedAt = &now
		}
		if idx == firstIdx {
			step.Status = models.StepStatusProcessing
			step.StartedAt = &now
		}
		steps = append(steps, step)
	}
	if err = i.stepStore.ReplaceForCard(cardID, steps); err != nil {
		return flowapimodels.StartResult{}, "", err
	}

	completed := firstIdx == len(flow)
	updMap := map[string]interface{}{
		"total_flow_steps":     len(flow),
		"completed_flow_steps": firstIdx,
		"flow_started_at":      now,
	}
	if completed {
		updMap["status"] = models.CardStatusCompleted
		updMap["current_department_id"] = nil
		updMap["flow_completed_at"] = now
	} else {
		updMap["status"] = models.CardStatusInProgress
		updMap["current_department_id"] = flow[firstIdx].DepartmentID
	}
	if err = i.cardStore.Update(cardID, updMap); err != nil {
		return flowapimodels.StartResult{}, "", err
	}

	i.logOperation(dbmodels.FlowOperationLog{
		CardID:        cardID,
		OperationType: models.OperationStartFlow,
		OperatorID:    actor.UserID,
	})
	for idx := 0; idx < firstIdx; idx++ {
		i.logOperation(dbmodels.FlowOperationLog{
			CardID:         cardID,
			ToDepartmentID: &flow[idx].DepartmentID,
			OperationType:  models.OperationSkip,
			OperatorID:     models.SystemUser,
		})
	}

	result = flowapimodels.StartResult{TotalSteps: len(flow)}
	if completed {
		i.logOperation(dbmodels.FlowOperationLog{
			CardID:        cardID,
			OperationType: models.OperationComplete,
			OperatorID:    models.SystemUser,
			Notes:         "все шаги маршрута пропущены автоматически",
		})
		log.WithField("card_id", cardID).Info("маршрут завершен без обработки, все шаги пропущены")
		return result, "", nil
	}

	result.CurrentDepartmentName = departmentName(flow[firstIdx].Department)
	i.notifyDepartment(flow[firstIdx].DepartmentID, *card, "карта передана в ваш отдел")
	log.
		WithField("card_id", cardID).
		WithField("user_id", actor.UserID).
		WithField("department_id", flow[firstIdx].DepartmentID).
		Info("запущен маршрут карты")
	return result, "", nil
}

// SubmitToNext передает карту следующему отделу. Перед передачей проверяется
// полнота обязательных полей текущего отдела по всей таблице строк.
func (i impl) SubmitToNext(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.SubmitRequest) (result flowapimodels.SubmitResult, hMsg string, err error) {
	success, err := lock.WithDelay(ctx, flowLockKey(cardID), flowLockWait, func() error {
		result, hMsg, err = i.submitToNext(ctx, actor, cardID, request)
		return err
	})
	if !success && err == nil {
		return flowapimodels.SubmitResult{}, "карта обрабатывается другой операцией, повторите попытку", nil
	}
	return result, hMsg, err
}

func (i impl) submitToNext(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.SubmitRequest) (result flowapimodels.SubmitResult, hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}
	if card == nil {
		return flowapimodels.SubmitResult{}, "карта не найдена", nil
	}
	if card.Status != models.CardStatusInProgress {
		return flowapimodels.SubmitResult{}, "",
			errors.Wrap(models.ErrInvalidTransition, "карта не находится в работе")
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}
	if !cardpermission.Evaluate(actor, *card, flow).CanEdit() {
		return flowapimodels.SubmitResult{}, "", models.ErrPermissionDenied
	}
	steps, err := i.stepStore.ListByCard(cardID)
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}
	currentIdx := processingIdx(steps)
	if currentIdx < 0 {
		return flowapimodels.SubmitResult{}, "",
			errors.Wrap(models.ErrInvalidTransition, "у карты нет активного шага маршрута")
	}
	current := steps[currentIdx]

	rows := request.TableData
	if rows == nil {
		stored, err := i.dataStore.ListRows(cardID)
		if err != nil {
			return flowapimodels.SubmitResult{}, "", err
		}
		rows = make([]map[string]interface{}, 0, len(stored))
		for _, row := range stored {
			rows = append(rows, row.Values)
		}
	}
	fields, err := i.templateStore.ListFields(card.TemplateID)
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}
	rowValues := make([]dbmodels.RowValues, 0, len(rows))
	for _, row := range rows {
		rowValues = append(rowValues, dbmodels.RowValues(row))
	}
	if err = cardvalidation.Validate(rowValues, fields, current.DepartmentID); err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}

	if request.TableData != nil {
		if err = i.dataStore.ReplaceRows(cardID, rowValues); err != nil {
			return flowapimodels.SubmitResult{}, "", err
		}
		if err = i.cache.Invalidate(ctx, cardID); err != nil {
			log.WithError(err).Warn("ошибка сброса кэша таблицы карты")
		}
	}

	now := i.now()
	err = i.stepStore.Update(current.ID, map[string]interface{}{
		"status":       models.StepStatusCompleted,
		"completed_at": now,
		"processed_by": actor.UserID,
		"notes":        request.Notes,
	})
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}

	// пропуск auto_skip шагов с фиксацией в журнале
	nextIdx := currentIdx + 1
	for nextIdx < len(steps) && steps[nextIdx].AutoSkip {
		err = i.stepStore.Update(steps[nextIdx].ID, map[string]interface{}{
			"status":       models.StepStatusCompleted,
			"completed_at": now,
		})
		if err != nil {
			return flowapimodels.SubmitResult{}, "", err
		}
		i.logOperation(dbmodels.FlowOperationLog{
			CardID:         cardID,
			ToDepartmentID: &steps[nextIdx].DepartmentID,
			OperationType:  models.OperationSkip,
			OperatorID:     models.SystemUser,
		})
		nextIdx++
	}

	if nextIdx >= len(steps) {
		err = i.cardStore.Update(cardID, map[string]interface{}{
			"status":               models.CardStatusCompleted,
			"current_department_id": nil,
			"completed_flow_steps": len(steps),
			"flow_completed_at":    now,
			"reject_reason":        "",
		})
		if err != nil {
			return flowapimodels.SubmitResult{}, "", err
		}
		i.logOperation(dbmodels.FlowOperationLog{
			CardID:           cardID,
			FromDepartmentID: &current.DepartmentID,
			OperationType:    models.OperationComplete,
			OperatorID:       actor.UserID,
			Notes:            request.Notes,
		})
		log.
			WithField("card_id", cardID).
			WithField("user_id", actor.UserID).
			Info("маршрут карты завершен")
		return flowapimodels.SubmitResult{IsCompleted: true}, "", nil
	}

	next := steps[nextIdx]
	err = i.stepStore.Update(next.ID, map[string]interface{}{
		"status":     models.StepStatusProcessing,
		"started_at": now,
	})
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}
	err = i.cardStore.Update(cardID, map[string]interface{}{
		"status":               models.CardStatusInProgress,
		"current_department_id": next.DepartmentID,
		"completed_flow_steps": nextIdx,
		"reject_reason":        "",
	})
	if err != nil {
		return flowapimodels.SubmitResult{}, "", err
	}
	i.logOperation(dbmodels.FlowOperationLog{
		CardID:           cardID,
		FromDepartmentID: &current.DepartmentID,
		ToDepartmentID:   &next.DepartmentID,
		OperationType:    models.OperationSubmitToNext,
		OperatorID:       actor.UserID,
		Notes:            request.Notes,
	})
	i.notifyDepartment(next.DepartmentID, *card, "карта передана в ваш отдел")
	log.
		WithField("card_id", cardID).
		WithField("user_id", actor.UserID).
		WithField("department_id", next.DepartmentID).
		Info("карта передана следующему отделу")
	return flowapimodels.SubmitResult{NextDepartmentName: departmentName(next.Department)}, "", nil
}

// Reject помечает карту отклоненной. Отдел не меняется: карта остается
// за текущим отделом до повторного запуска маршрута администратором.
func (i impl) Reject(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.RejectRequest) (hMsg string, err error) {
	if err = request.Validate(); err != nil {
		return err.Error(), nil
	}
	success, err := lock.WithDelay(ctx, flowLockKey(cardID), flowLockWait, func() error {
		hMsg, err = i.reject(actor, cardID, request)
		return err
	})
	if !success && err == nil {
		return "карта обрабатывается другой операцией, повторите попытку", nil
	}
	return hMsg, err
}

func (i impl) reject(actor models.Actor, cardID string, request flowapimodels.RejectRequest) (hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return "", err
	}
	if card == nil {
		return "карта не найдена", nil
	}
	if card.Status != models.CardStatusInProgress {
		return "", errors.Wrap(models.ErrInvalidTransition, "отклонить можно только карту в работе")
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return "", err
	}
	if !cardpermission.Evaluate(actor, *card, flow).CanEdit() {
		return "", models.ErrPermissionDenied
	}
	steps, err := i.stepStore.ListByCard(cardID)
	if err != nil {
		return "", err
	}
	currentIdx := processingIdx(steps)
	if currentIdx < 0 {
		return "", errors.Wrap(models.ErrInvalidTransition, "у карты нет активного шага маршрута")
	}

	now := i.now()
	current := steps[currentIdx]
	err = i.stepStore.Update(current.ID, map[string]interface{}{
		"status":       models.StepStatusCompleted,
		"completed_at": now,
		"processed_by": actor.UserID,
		"notes":        request.RejectReason,
	})
	if err != nil {
		return "", err
	}
	// current_department_id не меняется, выход из rejected только через Restart
	err = i.cardStore.Update(cardID, map[string]interface{}{
		"status":               models.CardStatusRejected,
		"completed_flow_steps": currentIdx + 1,
		"reject_reason":        request.RejectReason,
	})
	if err != nil {
		return "", err
	}
	i.logOperation(dbmodels.FlowOperationLog{
		CardID:           cardID,
		FromDepartmentID: &current.DepartmentID,
		OperationType:    models.OperationReject,
		OperatorID:       actor.UserID,
		Notes:            request.RejectReason,
	})
	log.
		WithField("card_id", cardID).
		WithField("user_id", actor.UserID).
		WithField("department_id", current.DepartmentID).
		Info("карта отклонена")
	return "", nil
}

// Restart повторно запускает маршрут, при необходимости с указанного отдела.
// Шаги пересоздаются из актуального маршрута шаблона.
func (i impl) Restart(ctx context.Context, actor models.Actor, cardID string, request flowapimodels.RestartRequest) (result flowapimodels.RestartResult, hMsg string, err error) {
	success, err := lock.WithDelay(ctx, flowLockKey(cardID), flowLockWait, func() error {
		result, hMsg, err = i.restart(actor, cardID, request)
		return err
	})
	if !success && err == nil {
		return flowapimodels.RestartResult{}, "карта обрабатывается другой операцией, повторите попытку", nil
	}
	return result, hMsg, err
}

func (i impl) restart(actor models.Actor, cardID string, request flowapimodels.RestartRequest) (result flowapimodels.RestartResult, hMsg string, err error) {
	if !actor.IsAdmin() {
		return flowapimodels.RestartResult{}, "", models.ErrPermissionDenied
	}
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return flowapimodels.RestartResult{}, "", err
	}
	if card == nil {
		return flowapimodels.RestartResult{}, "карта не найдена", nil
	}
	if card.Status == models.CardStatusDraft {
		return flowapimodels.RestartResult{}, "",
			errors.Wrap(models.ErrInvalidTransition, "маршрут карты еще не запускался")
	}
	if card.Status != models.CardStatusCompleted && card.Status != models.CardStatusRejected {
		return flowapimodels.RestartResult{}, "",
			errors.Wrap(models.ErrInvalidTransition, "повторный запуск доступен только для завершенной или отклоненной карты")
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return flowapimodels.RestartResult{}, "", err
	}
	if len(flow) == 0 {
		return flowapimodels.RestartResult{}, "для шаблона карты не настроен маршрут", nil
	}

	targetIdx := -1
	if request.DepartmentID != "" {
		for idx, dept := range flow {
			if dept.DepartmentID == request.DepartmentID {
				targetIdx = idx
				break
			}
		}
		if targetIdx < 0 {
			return flowapimodels.RestartResult{}, "отдел не входит в маршрут шаблона", nil
		}
	} else {
		targetIdx = 0
		for targetIdx < len(flow) && flow[targetIdx].AutoSkip {
			targetIdx++
		}
		if targetIdx == len(flow) {
			return flowapimodels.RestartResult{}, "все шаги маршрута пропускаются автоматически", nil
		}
	}

	now := i.now()
	steps := make([]dbmodels.CardFlowStep, 0, len(flow))
	for idx, dept := range flow {
		step := dbmodels.CardFlowStep{
			DepartmentID: dept.DepartmentID,
			FlowOrder:    dept.FlowOrder,
			Status:       models.StepStatusPending,
			AutoSkip:     dept.AutoSkip,
			TimeoutHours: dept.TimeoutHours,
		}
		if idx < targetIdx {
			step.Status = models.StepStatusCompleted
			step.CompletedAt = &now
		}
		if idx == targetIdx {
			step.Status = models.StepStatusProcessing
			step.StartedAt = &now
		}
		steps = append(steps, step)
	}
	if err = i.stepStore.ReplaceForCard(cardID, steps); err != nil {
		return flowapimodels.RestartResult{}, "", err
	}
	err = i.cardStore.Update(cardID, map[string]interface{}{
		"status":               models.CardStatusInProgress,
		"current_department_id": flow[targetIdx].DepartmentID,
		"total_flow_steps":     len(flow),
		"completed_flow_steps": targetIdx,
		"reject_reason":        "",
		"flow_started_at":      now,
		"flow_completed_at":    nil,
	})
	if err != nil {
		return flowapimodels.RestartResult{}, "", err
	}
	i.logOperation(dbmodels.FlowOperationLog{
		CardID:         cardID,
		ToDepartmentID: &flow[targetIdx].DepartmentID,
		OperationType:  models.OperationRestart,
		OperatorID:     actor.UserID,
	})
	i.notifyDepartment(flow[targetIdx].DepartmentID, *card, "маршрут карты запущен повторно")
	log.
		WithField("card_id", cardID).
		WithField("user_id", actor.UserID).
		WithField("department_id", flow[targetIdx].DepartmentID).
		Info("маршрут карты запущен повторно")
	return flowapimodels.RestartResult{
		CurrentDepartmentName: departmentName(flow[targetIdx].Department),
		Status:                string(models.CardStatusInProgress),
	}, "", nil
}

func (i impl) Cancel(ctx context.Context, actor models.Actor, cardID string) (hMsg string, err error) {
	success, err := lock.WithDelay(ctx, flowLockKey(cardID), flowLockWait, func() error {
		hMsg, err = i.cancel(actor, cardID)
		return err
	})
	if !success && err == nil {
		return "карта обрабатывается другой операцией, повторите попытку", nil
	}
	return hMsg, err
}

func (i impl) cancel(actor models.Actor, cardID string) (hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return "", err
	}
	if card == nil {
		return "карта не найдена", nil
	}
	if !actor.IsAdmin() && card.CreatorID != actor.UserID {
		return "", models.ErrPermissionDenied
	}
	if card.Status.IsTerminal() {
		return "", errors.Wrap(models.ErrInvalidTransition, "карта уже "+card.Status.ToHuman())
	}
	err = i.cardStore.Update(cardID, map[string]interface{}{
		"status":               models.CardStatusCancelled,
		"current_department_id": nil,
	})
	if err != nil {
		return "", err
	}
	rec := dbmodels.FlowOperationLog{
		CardID:        cardID,
		OperationType: models.OperationCancel,
		OperatorID:    actor.UserID,
	}
	rec.FromDepartmentID = card.CurrentDepartmentID
	i.logOperation(rec)
	log.
		WithField("card_id", cardID).
		WithField("user_id", actor.UserID).
		Info("карта отменена")
	return "", nil
}

func (i impl) Status(actor models.Actor, cardID string) (view flowapimodels.FlowStatusView, hMsg string, err error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return flowapimodels.FlowStatusView{}, "", err
	}
	if card == nil {
		return flowapimodels.FlowStatusView{}, "карта не найдена", nil
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return flowapimodels.FlowStatusView{}, "", err
	}
	level := cardpermission.Evaluate(actor, *card, flow)
	if !level.CanView() {
		return flowapimodels.FlowStatusView{}, "", models.ErrPermissionDenied
	}
	steps, err := i.stepStore.ListByCard(cardID)
	if err != nil {
		return flowapimodels.FlowStatusView{}, "", err
	}
	history, err := i.oplogStore.ListByCard(cardID)
	if err != nil {
		return flowapimodels.FlowStatusView{}, "", err
	}

	view = flowapimodels.FlowStatusView{
		CardInfo: card.ToModel(),
		Steps:    make([]flowapimodels.FlowStepView, 0, len(steps)),
		History:  make([]flowapimodels.FlowOperationView, 0, len(history)),
	}
	view.CardInfo.PermissionLevel = string(level)
	for _, step := range steps {
		view.Steps = append(view.Steps, step.ToModel())
	}
	for _, op := range history {
		view.History = append(view.History, op.ToModel())
	}
	view.IsCurrentProcessor = !card.Status.IsTerminal() &&
		card.CurrentDepartmentID != nil && level.CanEdit()
	return view, "", nil
}

func (i impl) Pending(actor models.Actor) (list []flowapimodels.PendingCardView, err error) {
	departmentID := actor.DepartmentID
	if actor.IsAdmin() {
		departmentID = ""
	} else if departmentID == "" {
		return []flowapimodels.PendingCardView{}, nil
	}
	cards, err := i.stepStore.ListPendingCards(departmentID)
	if err != nil {
		return nil, err
	}
	list = make([]flowapimodels.PendingCardView, 0, len(cards))
	for _, card := range cards {
		view := flowapimodels.PendingCardView{
			CardView:         card.ToModel(),
			CurrentStep:      card.CompletedFlowSteps + 1,
			IsLastDepartment: card.CompletedFlowSteps+1 >= card.TotalFlowSteps,
		}
		view.PermissionLevel = string(models.PermissionCanSubmit)
		list = append(list, view)
	}
	return list, nil
}

// History: журнал по карте доступен всем, кто видит карту,
// сводный журнал по всем картам - только администратору
func (i impl) History(actor models.Actor, filter flowapimodels.HistoryFilter) (list []flowapimodels.FlowOperationView, rowCount int64, hMsg string, err error) {
	if filter.CardID == "" {
		if !actor.IsAdmin() {
			return nil, 0, "", models.ErrPermissionDenied
		}
	} else {
		card, err := i.cardStore.GetByID(filter.CardID)
		if err != nil {
			return nil, 0, "", err
		}
		if card == nil {
			return nil, 0, "карта не найдена", nil
		}
		flow, err := i.flowStore.ListByTemplate(card.TemplateID)
		if err != nil {
			return nil, 0, "", err
		}
		if !cardpermission.Evaluate(actor, *card, flow).CanView() {
			return nil, 0, "", models.ErrPermissionDenied
		}
	}
	recList, rowCount, err := i.oplogStore.List(filter)
	if err != nil {
		return nil, 0, "", err
	}
	list = make([]flowapimodels.FlowOperationView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, rowCount, "", nil
}

func (i impl) logOperation(rec dbmodels.FlowOperationLog) {
	if err := i.oplogStore.Create(rec); err != nil {
		log.
			WithError(err).
			WithField("card_id", rec.CardID).
			WithField("operation", rec.OperationType).
			Error("ошибка записи журнала маршрута")
	}
}

// notifyDepartment рассылает уведомление сотрудникам отдела.
// Ошибки доставки не прерывают операцию маршрута.
func (i impl) notifyDepartment(departmentID string, card dbmodels.Card, subject string) {
	if i.mailer == nil {
		return
	}
	users, err := i.userStore.ListByDepartment(departmentID)
	if err != nil {
		log.WithError(err).Warn("не удалось получить получателей уведомления")
		return
	}
	message := fmt.Sprintf("Карта %v (%v) ожидает обработки вашим отделом.", card.CardNumber, card.Title)
	for _, user := range users {
		if user.Email == "" {
			continue
		}
		if err = i.mailer.SendEMail(user.Email, message, subject); err != nil {
			log.
				WithError(err).
				WithField("recipient", user.Email).
				Warn("не удалось отправить уведомление")
		}
	}
}

func processingIdx(steps []dbmodels.CardFlowStep) int {
	for idx, step := range steps {
		if step.Status == models.StepStatusProcessing {
			return idx
		}
	}
	return -1
}

func departmentName(dept *dbmodels.Department) string {
	if dept == nil {
		return ""
	}
	return dept.Name
}
