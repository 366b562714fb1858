package carddatacache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	cardapimodels "transfer-cards-backend/models/api/card"
)

// Provider - короткоживущий кэш авторитетной таблицы карты.
// Гасит нагрузку от периодического опроса клиентами синхронизации:
// при окне опроса в секунды достаточно TTL того же порядка.
type Provider interface {
	Get(ctx context.Context, cardID string) (view *cardapimodels.CardDataView, err error)
	Set(ctx context.Context, cardID string, view cardapimodels.CardDataView) error
	Invalidate(ctx context.Context, cardID string) error
}

func NewInstance(client *redis.Client, ttl time.Duration) Provider {
	if client == nil {
		return noopImpl{}
	}
	return &impl{
		client: client,
		ttl:    ttl,
	}
}

type impl struct {
	client *redis.Client
	ttl    time.Duration
}

func cacheKey(cardID string) string {
	return "card-data:" + cardID
}

func (i impl) Get(ctx context.Context, cardID string) (*cardapimodels.CardDataView, error) {
	raw, err := i.client.Get(ctx, cacheKey(cardID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	view := cardapimodels.CardDataView{}
	if err = json.Unmarshal([]byte(raw), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (i impl) Set(ctx context.Context, cardID string, view cardapimodels.CardDataView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return i.client.Set(ctx, cacheKey(cardID), raw, i.ttl).Err()
}

func (i impl) Invalidate(ctx context.Context, cardID string) error {
	return i.client.Del(ctx, cacheKey(cardID)).Err()
}

// noopImpl используется когда redis не настроен, чтение всегда мимо кэша
type noopImpl struct{}

func (noopImpl) Get(_ context.Context, _ string) (*cardapimodels.CardDataView, error) {
	return nil, nil
}

func (noopImpl) Set(_ context.Context, _ string, _ cardapimodels.CardDataView) error {
	return nil
}

func (noopImpl) Invalidate(_ context.Context, _ string) error {
	return nil
}
