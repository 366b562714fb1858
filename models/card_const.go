package models

type CardStatus string

const (
	CardStatusDraft      CardStatus = "draft"
	CardStatusInProgress CardStatus = "in_progress"
	CardStatusCompleted  CardStatus = "completed"
	CardStatusCancelled  CardStatus = "cancelled"
	CardStatusRejected   CardStatus = "rejected"
)

var cardStatusHumanName = map[CardStatus]string{
	CardStatusDraft:      "Черновик",
	CardStatusInProgress: "В работе",
	CardStatusCompleted:  "Завершена",
	CardStatusCancelled:  "Отменена",
	CardStatusRejected:   "Отклонена",
}

func (s CardStatus) ToHuman() string {
	if human, exist := cardStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal - конечные статусы маршрута. Отклоненная карта не терминальна:
// администратор может запустить ее маршрут повторно.
func (s CardStatus) IsTerminal() bool {
	return s == CardStatusCompleted || s == CardStatusCancelled
}

type FlowStepStatus string

const (
	StepStatusPending    FlowStepStatus = "pending"
	StepStatusProcessing FlowStepStatus = "processing"
	StepStatusCompleted  FlowStepStatus = "completed"
)

var stepStatusHumanName = map[FlowStepStatus]string{
	StepStatusPending:    "Ожидает",
	StepStatusProcessing: "В обработке",
	StepStatusCompleted:  "Завершен",
}

func (s FlowStepStatus) ToHuman() string {
	if human, exist := stepStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type FlowOperationType string

const (
	OperationStartFlow    FlowOperationType = "start_flow"
	OperationSubmitToNext FlowOperationType = "submit_to_next"
	OperationReject       FlowOperationType = "reject"
	OperationRestart      FlowOperationType = "restart"
	OperationSkip         FlowOperationType = "skip"
	OperationComplete     FlowOperationType = "complete"
	OperationCancel       FlowOperationType = "cancel"
)

var operationTypeHumanName = map[FlowOperationType]string{
	OperationStartFlow:    "Запуск маршрута",
	OperationSubmitToNext: "Передача в следующий отдел",
	OperationReject:       "Отклонение",
	OperationRestart:      "Повторный запуск",
	OperationSkip:         "Автоматический пропуск",
	OperationComplete:     "Завершение маршрута",
	OperationCancel:       "Отмена",
}

func (t FlowOperationType) ToHuman() string {
	if human, exist := operationTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeSelect  FieldType = "select"
)
