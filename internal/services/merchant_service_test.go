package services_test

import (
	"context"
	"errors"
	"testing"

	"storefront-api/internal/services"
	"storefront-api/internal/storage/memory"
	"storefront-api/internal/transport/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMerchantService(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewMerchantService(store, services.NewValidator(), zap.NewNop())

	list, err := svc.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := svc.CreateMerchant(ctx, &dto.CreateMerchantRequest{Name: "Shop"})
	require.NoError(t, err)
	assert.Equal(t, "Shop", created.Name)

	got, err := svc.GetMerchant(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetMerchant(ctx, created.ID+100)
	assert.ErrorIs(t, err, services.ErrMerchantNotFound)

	_, err = svc.CreateMerchant(ctx, &dto.CreateMerchantRequest{Name: "   "})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Name can't be blank"}, verr.Messages)

	list, err = svc.ListMerchants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
