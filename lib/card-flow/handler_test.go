package cardflowhandler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	carddatacache "transfer-cards-backend/lib/card-data/cache"
	"transfer-cards-backend/models"
	cardapimodels "transfer-cards-backend/models/api/card"
	flowapimodels "transfer-cards-backend/models/api/flow"
	dbmodels "transfer-cards-backend/models/db"
)

type fakeCardStore struct {
	cards map[string]*dbmodels.Card
}

func (s *fakeCardStore) Create(rec dbmodels.Card) (string, error) {
	s.cards[rec.ID] = &rec
	return rec.ID, nil
}

func (s *fakeCardStore) GetByID(id string) (*dbmodels.Card, error) {
	card, ok := s.cards[id]
	if !ok {
		return nil, nil
	}
	rec := *card
	return &rec, nil
}

func (s *fakeCardStore) List(_ cardapimodels.CardFilter) ([]dbmodels.Card, int64, error) {
	return nil, 0, nil
}

func (s *fakeCardStore) Update(id string, updMap map[string]interface{}) error {
	card, ok := s.cards[id]
	if !ok {
		return errors.New("карта не найдена")
	}
	for key, value := range updMap {
		switch key {
		case "status":
			card.Status = value.(models.CardStatus)
		case "current_department_id":
			if value == nil {
				card.CurrentDepartmentID = nil
			} else {
				v := value.(string)
				card.CurrentDepartmentID = &v
			}
		case "total_flow_steps":
			card.TotalFlowSteps = value.(int)
		case "completed_flow_steps":
			card.CompletedFlowSteps = value.(int)
		case "reject_reason":
			card.RejectReason = value.(string)
		case "flow_started_at":
			v := value.(time.Time)
			card.FlowStartedAt = &v
		case "flow_completed_at":
			if value == nil {
				card.FlowCompletedAt = nil
			} else {
				v := value.(time.Time)
				card.FlowCompletedAt = &v
			}
		case "title":
			card.Title = value.(string)
		}
	}
	return nil
}

func (s *fakeCardStore) Delete(id string) error {
	delete(s.cards, id)
	return nil
}

type fakeStepStore struct {
	steps   []dbmodels.CardFlowStep
	pending []dbmodels.Card
}

func (s *fakeStepStore) ReplaceForCard(cardID string, recs []dbmodels.CardFlowStep) error {
	s.steps = nil
	for idx, rec := range recs {
		rec.CardID = cardID
		rec.ID = fmt.Sprintf("step-%v", idx+1)
		s.steps = append(s.steps, rec)
	}
	return nil
}

func (s *fakeStepStore) ListByCard(cardID string) ([]dbmodels.CardFlowStep, error) {
	list := []dbmodels.CardFlowStep{}
	for _, rec := range s.steps {
		if rec.CardID == cardID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (s *fakeStepStore) GetProcessing(cardID string) (*dbmodels.CardFlowStep, error) {
	for idx := range s.steps {
		if s.steps[idx].CardID == cardID && s.steps[idx].Status == models.StepStatusProcessing {
			rec := s.steps[idx]
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *fakeStepStore) Update(id string, updMap map[string]interface{}) error {
	for idx := range s.steps {
		if s.steps[idx].ID != id {
			continue
		}
		step := &s.steps[idx]
		for key, value := range updMap {
			switch key {
			case "status":
				step.Status = value.(models.FlowStepStatus)
			case "started_at":
				if value == nil {
					step.StartedAt = nil
				} else {
					v := value.(time.Time)
					step.StartedAt = &v
				}
			case "completed_at":
				if value == nil {
					step.CompletedAt = nil
				} else {
					v := value.(time.Time)
					step.CompletedAt = &v
				}
			case "processed_by":
				if value == nil {
					step.ProcessedBy = nil
				} else {
					v := value.(string)
					step.ProcessedBy = &v
				}
			case "notes":
				step.Notes = value.(string)
			case "overdue_notified":
				step.OverdueNotified = value.(bool)
			}
		}
		return nil
	}
	return errors.New("шаг не найден")
}

func (s *fakeStepStore) ListPendingCards(_ string) ([]dbmodels.Card, error) {
	return s.pending, nil
}

func (s *fakeStepStore) ListOverdue(_ time.Time) ([]dbmodels.CardFlowStep, error) {
	return nil, nil
}

type fakeOplogStore struct {
	records []dbmodels.FlowOperationLog
}

func (s *fakeOplogStore) Create(rec dbmodels.FlowOperationLog) error {
	s.records = append(s.records, rec)
	return nil
}

func (s *fakeOplogStore) ListByCard(cardID string) ([]dbmodels.FlowOperationLog, error) {
	list := []dbmodels.FlowOperationLog{}
	for _, rec := range s.records {
		if rec.CardID == cardID {
			list = append(list, rec)
		}
	}
	return list, nil
}

func (s *fakeOplogStore) List(_ flowapimodels.HistoryFilter) ([]dbmodels.FlowOperationLog, int64, error) {
	return s.records, int64(len(s.records)), nil
}

func (s *fakeOplogStore) operationTypes() []models.FlowOperationType {
	list := make([]models.FlowOperationType, 0, len(s.records))
	for _, rec := range s.records {
		list = append(list, rec.OperationType)
	}
	return list
}

type fakeFlowStore struct {
	flow []dbmodels.FlowDepartment
}

func (s *fakeFlowStore) ListByTemplate(_ string) ([]dbmodels.FlowDepartment, error) {
	return s.flow, nil
}

func (s *fakeFlowStore) ReplaceForTemplate(_ string, _ []dbmodels.FlowDepartment) error {
	return nil
}

type fakeTemplateStore struct {
	fields []dbmodels.TemplateField
}

func (s *fakeTemplateStore) Create(_ dbmodels.CardTemplate) (string, error) { return "", nil }
func (s *fakeTemplateStore) GetByID(_ string) (*dbmodels.CardTemplate, error) {
	return nil, nil
}
func (s *fakeTemplateStore) List() ([]dbmodels.CardTemplate, error)            { return nil, nil }
func (s *fakeTemplateStore) Update(_ string, _ map[string]interface{}) error   { return nil }
func (s *fakeTemplateStore) Delete(_ string) error                             { return nil }
func (s *fakeTemplateStore) ReplaceFields(_ string, _ []dbmodels.TemplateField) error {
	return nil
}
func (s *fakeTemplateStore) ListFields(_ string) ([]dbmodels.TemplateField, error) {
	return s.fields, nil
}

type fakeDataStore struct {
	rows []dbmodels.RowValues
}

func (s *fakeDataStore) ListRows(cardID string) ([]dbmodels.CardRow, error) {
	list := make([]dbmodels.CardRow, 0, len(s.rows))
	for idx, values := range s.rows {
		list = append(list, dbmodels.CardRow{CardID: cardID, RowIndex: idx + 1, Values: values})
	}
	return list, nil
}

func (s *fakeDataStore) ReplaceRows(_ string, rows []dbmodels.RowValues) error {
	s.rows = rows
	return nil
}

type testEnv struct {
	handler   impl
	cardStore *fakeCardStore
	stepStore *fakeStepStore
	oplog     *fakeOplogStore
	dataStore *fakeDataStore
}

func newTestEnv(flow []dbmodels.FlowDepartment, fields []dbmodels.TemplateField, cards ...dbmodels.Card) *testEnv {
	env := &testEnv{
		cardStore: &fakeCardStore{cards: map[string]*dbmodels.Card{}},
		stepStore: &fakeStepStore{},
		oplog:     &fakeOplogStore{},
		dataStore: &fakeDataStore{},
	}
	for _, card := range cards {
		rec := card
		env.cardStore.cards[card.ID] = &rec
	}
	env.handler = impl{
		stepStore:     env.stepStore,
		oplogStore:    env.oplog,
		cardStore:     env.cardStore,
		flowStore:     &fakeFlowStore{flow: flow},
		templateStore: &fakeTemplateStore{fields: fields},
		dataStore:     env.dataStore,
		cache:         carddatacache.NewInstance(nil, 0),
		now:           func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) },
	}
	return env
}

func threeStepFlow() []dbmodels.FlowDepartment {
	return []dbmodels.FlowDepartment{
		{DepartmentID: "dep-a", FlowOrder: 1, IsRequired: true},
		{DepartmentID: "dep-b", FlowOrder: 2, IsRequired: true},
		{DepartmentID: "dep-c", FlowOrder: 3, IsRequired: true},
	}
}

func draftCard() dbmodels.Card {
	return dbmodels.Card{
		BaseModel:  dbmodels.BaseModel{ID: "card-1"},
		CardNumber: "TC-20260901-TEST0001",
		TemplateID: "tpl-1",
		Title:      "Перевод сотрудника",
		Status:     models.CardStatusDraft,
		CreatorID:  "creator",
	}
}

var (
	creator = models.Actor{UserID: "creator", DepartmentID: "dep-x", Role: models.UserRoleUser}
	admin   = models.Actor{UserID: "admin", Role: models.UserRoleAdmin}
	userA   = models.Actor{UserID: "user-a", DepartmentID: "dep-a", Role: models.UserRoleUser}
	userB   = models.Actor{UserID: "user-b", DepartmentID: "dep-b", Role: models.UserRoleUser}
	userC   = models.Actor{UserID: "user-c", DepartmentID: "dep-c", Role: models.UserRoleUser}
)

func TestStartFlow(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()

	result, hMsg, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.Equal(t, 3, result.TotalSteps)

	card := env.cardStore.cards["card-1"]
	require.Equal(t, models.CardStatusInProgress, card.Status)
	require.NotNil(t, card.CurrentDepartmentID)
	require.Equal(t, "dep-a", *card.CurrentDepartmentID)
	require.Equal(t, 3, card.TotalFlowSteps)
	require.Equal(t, 0, card.CompletedFlowSteps)
	require.NotNil(t, card.FlowStartedAt)

	require.Equal(t, models.StepStatusProcessing, env.stepStore.steps[0].Status)
	require.Equal(t, models.StepStatusPending, env.stepStore.steps[1].Status)
	require.Equal(t, []models.FlowOperationType{models.OperationStartFlow}, env.oplog.operationTypes())
}

func TestStartGuards(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()

	t.Run("чужой пользователь не может запустить", func(t *testing.T) {
		_, _, err := env.handler.Start(ctx, userA, "card-1")
		require.True(t, errors.Is(err, models.ErrPermissionDenied))
	})

	t.Run("повторный запуск запрещен", func(t *testing.T) {
		_, _, err := env.handler.Start(ctx, creator, "card-1")
		require.NoError(t, err)
		_, _, err = env.handler.Start(ctx, creator, "card-1")
		require.True(t, errors.Is(err, models.ErrInvalidTransition))
	})

	t.Run("пустой маршрут", func(t *testing.T) {
		empty := newTestEnv(nil, nil, draftCard())
		_, hMsg, err := empty.handler.Start(ctx, creator, "card-1")
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestStartSkipsLeadingAutoSkip(t *testing.T) {
	flow := []dbmodels.FlowDepartment{
		{DepartmentID: "dep-a", FlowOrder: 1, AutoSkip: true},
		{DepartmentID: "dep-b", FlowOrder: 2},
	}
	env := newTestEnv(flow, nil, draftCard())

	_, hMsg, err := env.handler.Start(context.Background(), creator, "card-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)

	card := env.cardStore.cards["card-1"]
	require.Equal(t, "dep-b", *card.CurrentDepartmentID)
	require.Equal(t, 1, card.CompletedFlowSteps)
	require.Equal(t, models.StepStatusCompleted, env.stepStore.steps[0].Status)
	require.Equal(t, []models.FlowOperationType{
		models.OperationStartFlow, models.OperationSkip,
	}, env.oplog.operationTypes())
}

func TestStartAllStepsAutoSkip(t *testing.T) {
	flow := []dbmodels.FlowDepartment{
		{DepartmentID: "dep-a", FlowOrder: 1, AutoSkip: true},
		{DepartmentID: "dep-b", FlowOrder: 2, AutoSkip: true},
	}
	env := newTestEnv(flow, nil, draftCard())

	_, hMsg, err := env.handler.Start(context.Background(), creator, "card-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)

	card := env.cardStore.cards["card-1"]
	require.Equal(t, models.CardStatusCompleted, card.Status)
	require.Nil(t, card.CurrentDepartmentID)
	require.NotNil(t, card.FlowCompletedAt)
}

func TestSubmitWalkThroughFlow(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	result, hMsg, err := env.handler.SubmitToNext(ctx, userA, "card-1", flowapimodels.SubmitRequest{Notes: "готово"})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.False(t, result.IsCompleted)
	card := env.cardStore.cards["card-1"]
	require.Equal(t, "dep-b", *card.CurrentDepartmentID)
	require.Equal(t, 1, card.CompletedFlowSteps)
	require.Equal(t, "готово", env.stepStore.steps[0].Notes)
	require.Equal(t, "user-a", *env.stepStore.steps[0].ProcessedBy)

	result, _, err = env.handler.SubmitToNext(ctx, userB, "card-1", flowapimodels.SubmitRequest{})
	require.NoError(t, err)
	require.False(t, result.IsCompleted)
	require.Equal(t, "dep-c", *env.cardStore.cards["card-1"].CurrentDepartmentID)

	result, _, err = env.handler.SubmitToNext(ctx, userC, "card-1", flowapimodels.SubmitRequest{})
	require.NoError(t, err)
	require.True(t, result.IsCompleted)
	card = env.cardStore.cards["card-1"]
	require.Equal(t, models.CardStatusCompleted, card.Status)
	require.Nil(t, card.CurrentDepartmentID)
	require.Equal(t, 3, card.CompletedFlowSteps)
	require.NotNil(t, card.FlowCompletedAt)

	require.Equal(t, []models.FlowOperationType{
		models.OperationStartFlow,
		models.OperationSubmitToNext,
		models.OperationSubmitToNext,
		models.OperationComplete,
	}, env.oplog.operationTypes())
}

func TestSubmitWrongDepartment(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	_, _, err = env.handler.SubmitToNext(ctx, userB, "card-1", flowapimodels.SubmitRequest{})
	require.True(t, errors.Is(err, models.ErrPermissionDenied))

	// создатель без совпадения отдела тоже не передает
	_, _, err = env.handler.SubmitToNext(ctx, creator, "card-1", flowapimodels.SubmitRequest{})
	require.True(t, errors.Is(err, models.ErrPermissionDenied))
}

func TestSubmitValidatesRequiredFields(t *testing.T) {
	fields := []dbmodels.TemplateField{
		{Name: "position", IsRequired: true, IsActive: true, DepartmentID: "dep-a"},
	}
	env := newTestEnv(threeStepFlow(), fields, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	_, _, err = env.handler.SubmitToNext(ctx, userA, "card-1", flowapimodels.SubmitRequest{
		TableData: []map[string]interface{}{
			{"position": "инженер"},
			{"position": ""},
		},
	})
	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, []models.FieldMiss{{Row: 2, Field: "position"}}, vErr.Misses)

	// карта осталась у текущего отдела
	require.Equal(t, "dep-a", *env.cardStore.cards["card-1"].CurrentDepartmentID)
}

func TestSubmitSavesTableData(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	_, _, err = env.handler.SubmitToNext(ctx, userA, "card-1", flowapimodels.SubmitRequest{
		TableData: []map[string]interface{}{{"position": "инженер"}},
	})
	require.NoError(t, err)
	require.Len(t, env.dataStore.rows, 1)
	require.Equal(t, "инженер", env.dataStore.rows[0]["position"])
}

func TestSubmitSkipsAutoSkipStep(t *testing.T) {
	flow := []dbmodels.FlowDepartment{
		{DepartmentID: "dep-a", FlowOrder: 1},
		{DepartmentID: "dep-b", FlowOrder: 2, AutoSkip: true},
		{DepartmentID: "dep-c", FlowOrder: 3},
	}
	env := newTestEnv(flow, nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	_, _, err = env.handler.SubmitToNext(ctx, userA, "card-1", flowapimodels.SubmitRequest{})
	require.NoError(t, err)

	card := env.cardStore.cards["card-1"]
	require.Equal(t, "dep-c", *card.CurrentDepartmentID)
	require.Equal(t, 2, card.CompletedFlowSteps)
	require.Equal(t, models.StepStatusCompleted, env.stepStore.steps[1].Status)
	require.Equal(t, []models.FlowOperationType{
		models.OperationStartFlow, models.OperationSkip, models.OperationSubmitToNext,
	}, env.oplog.operationTypes())
}

func TestRejectFreezesDepartment(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)
	_, _, err = env.handler.SubmitToNext(ctx, userA, "card-1", flowapimodels.SubmitRequest{})
	require.NoError(t, err)

	hMsg, err := env.handler.Reject(ctx, userB, "card-1", flowapimodels.RejectRequest{RejectReason: "не хватает данных"})
	require.NoError(t, err)
	require.Empty(t, hMsg)

	// отдел заморожен, карта остается за отклонившим отделом
	card := env.cardStore.cards["card-1"]
	require.Equal(t, models.CardStatusRejected, card.Status)
	require.Equal(t, "dep-b", *card.CurrentDepartmentID)
	require.Equal(t, "не хватает данных", card.RejectReason)
	require.Equal(t, 2, card.CompletedFlowSteps)
	require.Equal(t, models.StepStatusCompleted, env.stepStore.steps[1].Status)

	// из rejected нет передачи, выход только через повторный запуск администратором
	_, _, err = env.handler.SubmitToNext(ctx, userB, "card-1", flowapimodels.SubmitRequest{})
	require.True(t, errors.Is(err, models.ErrInvalidTransition))
	_, _, err = env.handler.SubmitToNext(ctx, userA, "card-1", flowapimodels.SubmitRequest{})
	require.True(t, errors.Is(err, models.ErrInvalidTransition))

	_, hMsg, err = env.handler.Restart(ctx, admin, "card-1", flowapimodels.RestartRequest{})
	require.NoError(t, err)
	require.Empty(t, hMsg)
	card = env.cardStore.cards["card-1"]
	require.Equal(t, models.CardStatusInProgress, card.Status)
	require.Equal(t, "dep-a", *card.CurrentDepartmentID)
	require.Empty(t, card.RejectReason)
}

func TestRejectGuards(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	t.Run("пустая причина", func(t *testing.T) {
		hMsg, err := env.handler.Reject(ctx, userA, "card-1", flowapimodels.RejectRequest{})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})

	t.Run("чужой отдел", func(t *testing.T) {
		_, err := env.handler.Reject(ctx, userC, "card-1", flowapimodels.RejectRequest{RejectReason: "причина"})
		require.True(t, errors.Is(err, models.ErrPermissionDenied))
	})

	t.Run("повторное отклонение", func(t *testing.T) {
		hMsg, err := env.handler.Reject(ctx, userA, "card-1", flowapimodels.RejectRequest{RejectReason: "причина"})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		_, err = env.handler.Reject(ctx, userA, "card-1", flowapimodels.RejectRequest{RejectReason: "еще раз"})
		require.True(t, errors.Is(err, models.ErrInvalidTransition))
	})
}

func TestRestart(t *testing.T) {
	ctx := context.Background()
	completedEnv := func(t *testing.T) *testEnv {
		env := newTestEnv(threeStepFlow(), nil, draftCard())
		_, _, err := env.handler.Start(ctx, creator, "card-1")
		require.NoError(t, err)
		for _, actor := range []models.Actor{userA, userB, userC} {
			_, _, err = env.handler.SubmitToNext(ctx, actor, "card-1", flowapimodels.SubmitRequest{})
			require.NoError(t, err)
		}
		require.Equal(t, models.CardStatusCompleted, env.cardStore.cards["card-1"].Status)
		return env
	}

	t.Run("только администратор", func(t *testing.T) {
		env := completedEnv(t)
		_, _, err := env.handler.Restart(ctx, userA, "card-1", flowapimodels.RestartRequest{})
		require.True(t, errors.Is(err, models.ErrPermissionDenied))
	})

	t.Run("перезапуск с первого отдела", func(t *testing.T) {
		env := completedEnv(t)
		result, hMsg, err := env.handler.Restart(ctx, admin, "card-1", flowapimodels.RestartRequest{})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, string(models.CardStatusInProgress), result.Status)

		card := env.cardStore.cards["card-1"]
		require.Equal(t, models.CardStatusInProgress, card.Status)
		require.Equal(t, "dep-a", *card.CurrentDepartmentID)
		require.Equal(t, 0, card.CompletedFlowSteps)
		require.Nil(t, card.FlowCompletedAt)
	})

	t.Run("перезапуск с указанного отдела", func(t *testing.T) {
		env := completedEnv(t)
		_, hMsg, err := env.handler.Restart(ctx, admin, "card-1", flowapimodels.RestartRequest{DepartmentID: "dep-b"})
		require.NoError(t, err)
		require.Empty(t, hMsg)

		card := env.cardStore.cards["card-1"]
		require.Equal(t, "dep-b", *card.CurrentDepartmentID)
		require.Equal(t, 1, card.CompletedFlowSteps)
		require.Equal(t, models.StepStatusCompleted, env.stepStore.steps[0].Status)
		require.Equal(t, models.StepStatusProcessing, env.stepStore.steps[1].Status)
	})

	t.Run("отдел вне маршрута", func(t *testing.T) {
		env := completedEnv(t)
		_, hMsg, err := env.handler.Restart(ctx, admin, "card-1", flowapimodels.RestartRequest{DepartmentID: "dep-z"})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)
	})
}

func TestRestartOnlyFromCompletedOrRejected(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()

	// черновик
	_, _, err := env.handler.Restart(ctx, admin, "card-1", flowapimodels.RestartRequest{})
	require.True(t, errors.Is(err, models.ErrInvalidTransition))

	// карта в работе
	_, _, err = env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)
	_, _, err = env.handler.Restart(ctx, admin, "card-1", flowapimodels.RestartRequest{})
	require.True(t, errors.Is(err, models.ErrInvalidTransition))

	card := env.cardStore.cards["card-1"]
	require.Equal(t, models.CardStatusInProgress, card.Status)
	require.Equal(t, "dep-a", *card.CurrentDepartmentID)
}

func TestCancel(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()

	t.Run("создатель отменяет черновик", func(t *testing.T) {
		hMsg, err := env.handler.Cancel(ctx, creator, "card-1")
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, models.CardStatusCancelled, env.cardStore.cards["card-1"].Status)
	})

	t.Run("повторная отмена запрещена", func(t *testing.T) {
		_, err := env.handler.Cancel(ctx, creator, "card-1")
		require.True(t, errors.Is(err, models.ErrInvalidTransition))
	})

	t.Run("чужой пользователь не отменяет", func(t *testing.T) {
		env := newTestEnv(threeStepFlow(), nil, draftCard())
		_, err := env.handler.Cancel(ctx, userA, "card-1")
		require.True(t, errors.Is(err, models.ErrPermissionDenied))
	})
}

func TestStatusView(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	view, hMsg, err := env.handler.Status(userA, "card-1")
	require.NoError(t, err)
	require.Empty(t, hMsg)
	require.True(t, view.IsCurrentProcessor)
	require.Len(t, view.Steps, 3)
	require.Len(t, view.History, 1)
	require.Equal(t, string(models.PermissionCanSubmit), view.CardInfo.PermissionLevel)

	view, _, err = env.handler.Status(creator, "card-1")
	require.NoError(t, err)
	require.False(t, view.IsCurrentProcessor)
	require.Equal(t, string(models.PermissionOwner), view.CardInfo.PermissionLevel)

	_, _, err = env.handler.Status(userC, "card-1")
	require.True(t, errors.Is(err, models.ErrPermissionDenied))
}

func TestPending(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil)
	depB := "dep-b"
	env.stepStore.pending = []dbmodels.Card{
		{
			BaseModel:           dbmodels.BaseModel{ID: "card-1"},
			Status:              models.CardStatusInProgress,
			CurrentDepartmentID: &depB,
			TotalFlowSteps:      3,
			CompletedFlowSteps:  2,
		},
	}

	list, err := env.handler.Pending(userB)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 3, list[0].CurrentStep)
	require.True(t, list[0].IsLastDepartment)

	// пользователь без отдела не получает чужие карты
	list, err = env.handler.Pending(models.Actor{UserID: "u1", Role: models.UserRoleUser})
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestHistoryAccess(t *testing.T) {
	env := newTestEnv(threeStepFlow(), nil, draftCard())
	ctx := context.Background()
	_, _, err := env.handler.Start(ctx, creator, "card-1")
	require.NoError(t, err)

	t.Run("сводный журнал только администратору", func(t *testing.T) {
		_, _, _, err := env.handler.History(userA, flowapimodels.HistoryFilter{})
		require.True(t, errors.Is(err, models.ErrPermissionDenied))

		list, rowCount, hMsg, err := env.handler.History(admin, flowapimodels.HistoryFilter{})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, int64(1), rowCount)
		require.Len(t, list, 1)
	})

	t.Run("журнал карты по правам просмотра", func(t *testing.T) {
		_, _, hMsg, err := env.handler.History(userA, flowapimodels.HistoryFilter{CardID: "card-1"})
		require.NoError(t, err)
		require.Empty(t, hMsg)

		_, _, _, err = env.handler.History(userC, flowapimodels.HistoryFilter{CardID: "card-1"})
		require.True(t, errors.Is(err, models.ErrPermissionDenied))
	})
}
