package dbmodels

import (
	cardapimodels "transfer-cards-backend/models/api/card"
)

type CardAttachment struct {
	BaseModel
	CardID      string `gorm:"type:varchar(36);index"`
	FileName    string `gorm:"type:varchar(255)"`
	ContentType string `gorm:"type:varchar(150)"`
	Size        int64
	S3Key       string `gorm:"type:varchar(255)"`
	UploadedBy  string `gorm:"type:varchar(36)"`
}

func (r CardAttachment) ToModel() cardapimodels.AttachmentView {
	return cardapimodels.AttachmentView{
		ID:          r.ID,
		FileName:    r.FileName,
		ContentType: r.ContentType,
		Size:        r.Size,
		UploadedBy:  r.UploadedBy,
		CreatedAt:   r.CreatedAt,
	}
}
