package carddatacache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	cardapimodels "transfer-cards-backend/models/api/card"
)

func testCache(t *testing.T) (Provider, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewInstance(client, 2*time.Second), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	view := cardapimodels.CardDataView{
		Fields: []cardapimodels.FieldView{
			{Name: "employee", Label: "Сотрудник", FieldType: "text", IsRequired: true},
		},
		TableData: []map[string]interface{}{
			{"employee": "Иванов"},
		},
	}
	require.NoError(t, cache.Set(ctx, "card-1", view))

	got, err := cache.Get(ctx, "card-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, view.Fields, got.Fields)
	require.Equal(t, "Иванов", got.TableData[0]["employee"])
}

func TestCacheMissReturnsNil(t *testing.T) {
	cache, _ := testCache(t)

	got, err := cache.Get(context.Background(), "unknown")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "card-1", cardapimodels.CardDataView{}))
	require.NoError(t, cache.Invalidate(ctx, "card-1"))

	got, err := cache.Get(ctx, "card-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCacheExpires(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "card-1", cardapimodels.CardDataView{}))
	mr.FastForward(3 * time.Second)

	got, err := cache.Get(ctx, "card-1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNoopCacheWithoutClient(t *testing.T) {
	cache := NewInstance(nil, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "card-1", cardapimodels.CardDataView{}))
	got, err := cache.Get(ctx, "card-1")
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, cache.Invalidate(ctx, "card-1"))
}
