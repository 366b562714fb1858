package cardattachmenthandler

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"transfer-cards-backend/config"
	"transfer-cards-backend/db"
	cardattachmentstore "transfer-cards-backend/lib/card-attachment/store"
	cardpermission "transfer-cards-backend/lib/card-permission"
	cardstore "transfer-cards-backend/lib/card/store"
	flowconfigstore "transfer-cards-backend/lib/flow-config/store"
	"transfer-cards-backend/models"
	cardapimodels "transfer-cards-backend/models/api/card"
	dbmodels "transfer-cards-backend/models/db"
	s3client "transfer-cards-backend/s3"
)

type Provider interface {
	Upload(ctx context.Context, actor models.Actor, cardID, fileName, contentType string, content []byte) (id string, hMsg string, err error)
	Download(ctx context.Context, actor models.Actor, attachmentID string) (fileName, contentType string, content []byte, hMsg string, err error)
	List(actor models.Actor, cardID string) (list []cardapimodels.AttachmentView, hMsg string, err error)
	Delete(ctx context.Context, actor models.Actor, attachmentID string) (hMsg string, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:     cardattachmentstore.NewInstance(db.DB),
		cardStore: cardstore.NewInstance(db.DB),
		flowStore: flowconfigstore.NewInstance(db.DB),
		s3:        s3client.Client,
		bucket:    config.Conf.S3.BucketName,
	}
}

type impl struct {
	store     cardattachmentstore.Provider
	cardStore cardstore.Provider
	flowStore flowconfigstore.Provider
	s3        *minio.Client
	bucket    string
}

func (i impl) Upload(ctx context.Context, actor models.Actor, cardID, fileName, contentType string, content []byte) (id string, hMsg string, err error) {
	if i.s3 == nil {
		return "", "хранилище вложений не настроено", nil
	}
	if fileName == "" {
		return "", "не указано имя файла", nil
	}
	card, level, err := i.getCardWithLevel(actor, cardID)
	if err != nil {
		return "", "", err
	}
	if card == nil {
		return "", "карта не найдена", nil
	}
	if !canManageAttachments(level, card.Status) {
		return "", "", models.ErrPermissionDenied
	}

	s3Key := fmt.Sprintf("%v/%v", cardID, uuid.NewString())
	_, err = i.s3.PutObject(ctx, i.bucket, s3Key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}

	id, err = i.store.Create(dbmodels.CardAttachment{
		CardID:      cardID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(content)),
		S3Key:       s3Key,
		UploadedBy:  actor.UserID,
	})
	if err != nil {
		return "", "", err
	}
	log.
		WithField("card_id", cardID).
		WithField("rec_id", id).
		WithField("user_id", actor.UserID).
		Info("загружено вложение карты")
	return id, "", nil
}

func (i impl) Download(ctx context.Context, actor models.Actor, attachmentID string) (fileName, contentType string, content []byte, hMsg string, err error) {
	if i.s3 == nil {
		return "", "", nil, "хранилище вложений не настроено", nil
	}
	rec, err := i.store.GetByID(attachmentID)
	if err != nil {
		return "", "", nil, "", err
	}
	if rec == nil {
		return "", "", nil, "вложение не найдено", nil
	}
	card, level, err := i.getCardWithLevel(actor, rec.CardID)
	if err != nil {
		return "", "", nil, "", err
	}
	if card == nil {
		return "", "", nil, "карта не найдена", nil
	}
	if !level.CanView() {
		return "", "", nil, "", models.ErrPermissionDenied
	}

	object, err := i.s3.GetObject(ctx, i.bucket, rec.S3Key, minio.GetObjectOptions{})
	if err != nil {
		return "", "", nil, "", errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	defer object.Close()
	content, err = io.ReadAll(object)
	if err != nil {
		return "", "", nil, "", errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return rec.FileName, rec.ContentType, content, "", nil
}

func (i impl) List(actor models.Actor, cardID string) (list []cardapimodels.AttachmentView, hMsg string, err error) {
	card, level, err := i.getCardWithLevel(actor, cardID)
	if err != nil {
		return nil, "", err
	}
	if card == nil {
		return nil, "карта не найдена", nil
	}
	if !level.CanView() {
		return nil, "", models.ErrPermissionDenied
	}
	recList, err := i.store.ListByCard(cardID)
	if err != nil {
		return nil, "", err
	}
	list = make([]cardapimodels.AttachmentView, 0, len(recList))
	for _, rec := range recList {
		list = append(list, rec.ToModel())
	}
	return list, "", nil
}

func (i impl) Delete(ctx context.Context, actor models.Actor, attachmentID string) (hMsg string, err error) {
	rec, err := i.store.GetByID(attachmentID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "вложение не найдено", nil
	}
	card, level, err := i.getCardWithLevel(actor, rec.CardID)
	if err != nil {
		return "", err
	}
	if card == nil {
		return "карта не найдена", nil
	}
	// удалять может загрузивший, текущий отдел или администратор
	if rec.UploadedBy != actor.UserID && !canManageAttachments(level, card.Status) {
		return "", models.ErrPermissionDenied
	}

	if i.s3 != nil {
		if err = i.s3.RemoveObject(ctx, i.bucket, rec.S3Key, minio.RemoveObjectOptions{}); err != nil {
			log.
				WithError(err).
				WithField("s3_key", rec.S3Key).
				Warn("не удалось удалить файл из хранилища")
		}
	}
	if err = i.store.Delete(attachmentID); err != nil {
		return "", err
	}
	log.
		WithField("rec_id", attachmentID).
		WithField("user_id", actor.UserID).
		Info("удалено вложение карты")
	return "", nil
}

func (i impl) getCardWithLevel(actor models.Actor, cardID string) (*dbmodels.Card, models.PermissionLevel, error) {
	card, err := i.cardStore.GetByID(cardID)
	if err != nil {
		return nil, models.PermissionNone, err
	}
	if card == nil {
		return nil, models.PermissionNone, nil
	}
	flow, err := i.flowStore.ListByTemplate(card.TemplateID)
	if err != nil {
		return nil, models.PermissionNone, err
	}
	return card, cardpermission.Evaluate(actor, *card, flow), nil
}

func canManageAttachments(level models.PermissionLevel, status models.CardStatus) bool {
	if level.CanEdit() {
		return true
	}
	return level == models.PermissionOwner && status == models.CardStatusDraft
}
