package cardapimodels

import (
	"time"

	"github.com/pkg/errors"

	apimodels "transfer-cards-backend/models/api"
)

type CardCreateRequest struct {
	TemplateID string `json:"template_id"`
	Title      string `json:"title"`
}

func (r CardCreateRequest) Validate() error {
	if r.TemplateID == "" {
		return errors.New("не указан шаблон карты")
	}
	if r.Title == "" {
		return errors.New("не указано название карты")
	}
	return nil
}

type CardUpdateRequest struct {
	Title string `json:"title"`
}

func (r CardUpdateRequest) Validate() error {
	if r.Title == "" {
		return errors.New("не указано название карты")
	}
	return nil
}

type CardFilter struct {
	apimodels.Pagination
	Status     string `json:"status"`
	TemplateID string `json:"template_id"`
	Search     string `json:"search"` // по номеру или названию
}

type CardView struct {
	ID                    string    `json:"id"`
	CardNumber            string    `json:"card_number"`
	TemplateID            string    `json:"template_id"`
	TemplateName          string    `json:"template_name"`
	Title                 string    `json:"title"`
	Status                string    `json:"status"`
	StatusName            string    `json:"status_name"`
	CurrentDepartmentID   string    `json:"current_department_id,omitempty"`
	CurrentDepartmentName string    `json:"current_department_name,omitempty"`
	CreatorID             string    `json:"creator_id"`
	RejectReason          string    `json:"reject_reason,omitempty"`
	TotalFlowSteps        int       `json:"total_flow_steps"`
	CompletedFlowSteps    int       `json:"completed_flow_steps"`
	PermissionLevel       string    `json:"permission_level,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

type AttachmentView struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
