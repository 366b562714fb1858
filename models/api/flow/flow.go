package flowapimodels

import (
	"time"

	"github.com/pkg/errors"

	apimodels "transfer-cards-backend/models/api"
	cardapimodels "transfer-cards-backend/models/api/card"
)

// FlowDepartmentData - шаг маршрута в запросе на сохранение.
// Порядок определяется позицией в массиве, присланный flow_order игнорируется.
type FlowDepartmentData struct {
	DepartmentID string `json:"department_id"`
	IsRequired   *bool  `json:"is_required"`
	AutoSkip     bool   `json:"auto_skip"`
	TimeoutHours int    `json:"timeout_hours"`
}

type SetFlowRequest struct {
	Departments []FlowDepartmentData `json:"departments"`
}

func (r SetFlowRequest) Validate() error {
	if len(r.Departments) == 0 {
		return errors.New("список отделов не может быть пустым")
	}
	for _, dept := range r.Departments {
		if dept.DepartmentID == "" {
			return errors.New("не указан отдел в маршруте")
		}
		if dept.TimeoutHours < 0 {
			return errors.New("срок обработки не может быть отрицательным")
		}
	}
	return nil
}

type FlowDepartmentView struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name"`
	FlowOrder      int    `json:"flow_order"`
	IsRequired     bool   `json:"is_required"`
	AutoSkip       bool   `json:"auto_skip"`
	TimeoutHours   int    `json:"timeout_hours"`
}

type SubmitRequest struct {
	Notes     string                   `json:"notes"`
	TableData []map[string]interface{} `json:"table_data,omitempty"`
}

func (r SubmitRequest) Validate() error {
	return nil
}

type SubmitResult struct {
	NextDepartmentName string `json:"next_department_name,omitempty"`
	IsCompleted        bool   `json:"is_completed"`
}

type RejectRequest struct {
	RejectReason string `json:"reject_reason"`
}

func (r RejectRequest) Validate() error {
	if r.RejectReason == "" {
		return errors.New("причина отклонения не может быть пустой")
	}
	return nil
}

type RestartRequest struct {
	DepartmentID string `json:"department_id,omitempty"`
}

func (r RestartRequest) Validate() error {
	return nil
}

type StartResult struct {
	CurrentDepartmentName string `json:"current_department_name"`
	TotalSteps            int    `json:"total_steps"`
}

type RestartResult struct {
	CurrentDepartmentName string `json:"current_department_name"`
	Status                string `json:"status"`
}

type FlowStepView struct {
	DepartmentID    string     `json:"department_id"`
	DepartmentName  string     `json:"department_name"`
	FlowOrder       int        `json:"flow_order"`
	Status          string     `json:"status"`
	StatusName      string     `json:"status_name"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ProcessedByName string     `json:"processed_by_name,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

type FlowOperationView struct {
	ID                 string    `json:"id"`
	CardID             string    `json:"card_id"`
	CardNumber         string    `json:"card_number,omitempty"`
	CardTitle          string    `json:"card_title,omitempty"`
	FromDepartmentName string    `json:"from_department_name,omitempty"`
	ToDepartmentName   string    `json:"to_department_name,omitempty"`
	OperationType      string    `json:"operation_type"`
	OperationTypeName  string    `json:"operation_type_name"`
	OperatorName       string    `json:"operator_name,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type FlowStatusView struct {
	CardInfo           cardapimodels.CardView `json:"card_info"`
	Steps              []FlowStepView         `json:"flow_status"`
	History            []FlowOperationView    `json:"flow_history"`
	IsCurrentProcessor bool                   `json:"is_current_processor"`
}

type PendingCardView struct {
	cardapimodels.CardView
	CurrentStep      int  `json:"current_step"`
	IsLastDepartment bool `json:"is_last_department"`
}

type HistoryFilter struct {
	apimodels.Pagination
	CardID string `json:"card_id,omitempty"`
}
