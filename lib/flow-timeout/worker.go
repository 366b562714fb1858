package flowtimeout

import (
	"context"
	"fmt"
	"time"

	"transfer-cards-backend/db"
	cardflowstore "transfer-cards-backend/lib/card-flow/store"
	cardstore "transfer-cards-backend/lib/card/store"
	"transfer-cards-backend/lib/smtp"
	usersstore "transfer-cards-backend/lib/users/store"
	baseworker "transfer-cards-backend/lib/utils/base-worker"
	"transfer-cards-backend/lib/utils/helpers"
)

// Worker следит за шагами, висящими в обработке дольше срока,
// скопированного в шаг при запуске маршрута, и шлет напоминание отделу.
// Напоминание по шагу отправляется один раз.
type Worker struct {
	*baseworker.BaseImpl
	stepStore cardflowstore.Provider
	cardStore cardstore.Provider
	userStore usersstore.Provider
	mailer    smtp.Provider
}

func NewWorker(checkInterval time.Duration) *Worker {
	return &Worker{
		BaseImpl:  baseworker.NewInstance("flow-timeout", time.Minute, checkInterval),
		stepStore: cardflowstore.NewInstance(db.DB),
		cardStore: cardstore.NewInstance(db.DB),
		userStore: usersstore.NewInstance(db.DB),
		mailer:    smtp.Instance,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.Run(ctx, w.checkOverdue)
}

func (w *Worker) checkOverdue(ctx context.Context) {
	logger := w.GetLogger()
	steps, err := w.stepStore.ListOverdue(time.Now())
	if err != nil {
		logger.WithError(err).Error("ошибка поиска просроченных шагов")
		return
	}
	for _, step := range steps {
		if helpers.IsContextDone(ctx) {
			return
		}
		card, err := w.cardStore.GetByID(step.CardID)
		if err != nil {
			logger.WithError(err).WithField("card_id", step.CardID).Error("ошибка чтения карты")
			continue
		}
		if card == nil {
			continue
		}

		users, err := w.userStore.ListByDepartment(step.DepartmentID)
		if err != nil {
			logger.WithError(err).WithField("department_id", step.DepartmentID).Error("ошибка чтения получателей")
			continue
		}
		message := fmt.Sprintf(
			"Карта %v (%v) находится в обработке вашего отдела дольше %v ч.",
			card.CardNumber, card.Title, step.TimeoutHours)
		for _, user := range users {
			if user.Email == "" {
				continue
			}
			if err = w.mailer.SendEMail(user.Email, message, "карта просрочена"); err != nil {
				logger.
					WithError(err).
					WithField("recipient", user.Email).
					Warn("не удалось отправить напоминание")
			}
		}

		err = w.stepStore.Update(step.ID, map[string]interface{}{
			"overdue_notified": true,
		})
		if err != nil {
			logger.WithError(err).WithField("step_id", step.ID).Error("ошибка отметки напоминания")
			continue
		}
		logger.
			WithField("card_id", step.CardID).
			WithField("department_id", step.DepartmentID).
			Info("отправлено напоминание о просроченном шаге")
	}
}
