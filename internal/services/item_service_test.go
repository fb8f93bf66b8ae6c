package services_test

import (
	"context"
	"testing"

	"storefront-api/internal/models"
	"storefront-api/internal/services"
	"storefront-api/internal/storage/memory"
	"storefront-api/internal/transport/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func setupItemService(t *testing.T) (services.ItemService, *memory.Store, *models.Merchant) {
	t.Helper()
	store := memory.NewStore()
	m := seedMerchant(t, store, "Grocer")
	return services.NewItemService(store, services.NewValidator(), zap.NewNop()), store, m
}

func seedItem(t *testing.T, store *memory.Store, merchantID int64, name, price string) *models.Item {
	t.Helper()
	it, err := store.Items().Create(context.Background(), &models.Item{
		Name:        name,
		Description: name + " description",
		UnitPrice:   decimal.RequireFromString(price),
		MerchantID:  merchantID,
	})
	require.NoError(t, err)
	return it
}

func itemNames(items []models.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestItemService_ListItems(t *testing.T) {
	ctx := context.Background()
	svc, store, m := setupItemService(t)
	other := seedMerchant(t, store, "Other")
	seedItem(t, store, m.ID, "middle", "145")
	seedItem(t, store, m.ID, "cheap", "100")
	seedItem(t, store, other.ID, "expensive", "1000")

	t.Run("Natural order", func(t *testing.T) {
		items, err := svc.ListItems(ctx, &dto.ListItemsRequest{})
		require.NoError(t, err)
		assert.Equal(t, []string{"middle", "cheap", "expensive"}, itemNames(items))
	})

	t.Run("Sorted by price", func(t *testing.T) {
		items, err := svc.ListItems(ctx, &dto.ListItemsRequest{Sorted: services.SortByPrice})
		require.NoError(t, err)
		assert.Equal(t, []string{"cheap", "middle", "expensive"}, itemNames(items))
	})

	t.Run("Unknown sort value is ignored", func(t *testing.T) {
		items, err := svc.ListItems(ctx, &dto.ListItemsRequest{Sorted: "name"})
		require.NoError(t, err)
		assert.Equal(t, []string{"middle", "cheap", "expensive"}, itemNames(items))
	})

	t.Run("Scoped to merchant", func(t *testing.T) {
		items, err := svc.ListItems(ctx, &dto.ListItemsRequest{MerchantID: int64Ptr(other.ID)})
		require.NoError(t, err)
		assert.Equal(t, []string{"expensive"}, itemNames(items))
	})

	t.Run("Unknown merchant", func(t *testing.T) {
		_, err := svc.ListItems(ctx, &dto.ListItemsRequest{MerchantID: int64Ptr(999)})
		assert.ErrorIs(t, err, services.ErrMerchantNotFound)
	})
}

func TestItemService_CreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, _, m := setupItemService(t)
		it, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
			Name:        "Widget",
			Description: "A widget",
			UnitPrice:   dto.Numeric("12.50"),
			MerchantID:  m.ID,
		})
		require.NoError(t, err)
		assert.NotZero(t, it.ID)
		assert.True(t, decimal.RequireFromString("12.5").Equal(it.UnitPrice))
	})

	t.Run("Missing unit price", func(t *testing.T) {
		svc, _, m := setupItemService(t)
		_, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
			Name:        "Widget",
			Description: "A widget",
			MerchantID:  m.ID,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrValidation)
		assert.Equal(t, "Validation failed: Unit price can't be blank, Unit price is not a number", err.Error())
	})

	t.Run("Everything missing", func(t *testing.T) {
		svc, _, _ := setupItemService(t)
		_, err := svc.CreateItem(ctx, &dto.CreateItemRequest{})
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{
			"Name can't be blank",
			"Description can't be blank",
			"Unit price can't be blank",
			"Unit price is not a number",
			"Merchant must exist",
		}, verr.Messages)
	})

	priceCases := []struct {
		name    string
		price   string
		message string
	}{
		{"Sub-cent price", "1.005", "Unit price must have at most 2 decimal places"},
		{"Price too large", "10000000000", "Unit price must be less than 10000000000"},
		{"Negative price", "-0.01", "Unit price must be greater than or equal to 0"},
	}
	for _, tc := range priceCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, m := setupItemService(t)
			_, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
				Name:        "Widget",
				Description: "A widget",
				UnitPrice:   dto.Numeric(tc.price),
				MerchantID:  m.ID,
			})
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tc.message}, verr.Messages)

			all, err := store.Items().GetAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}

	t.Run("Largest price that fits", func(t *testing.T) {
		svc, _, m := setupItemService(t)
		it, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
			Name:        "Yacht",
			Description: "A yacht",
			UnitPrice:   dto.Numeric("9999999999.99"),
			MerchantID:  m.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "9999999999.99", it.UnitPrice.String())
	})

	t.Run("Unknown merchant", func(t *testing.T) {
		svc, _, _ := setupItemService(t)
		_, err := svc.CreateItem(ctx, &dto.CreateItemRequest{
			Name:        "Widget",
			Description: "A widget",
			UnitPrice:   dto.Numeric("1"),
			MerchantID:  999,
		})
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Merchant must exist"}, verr.Messages)
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Partial update", func(t *testing.T) {
		svc, store, m := setupItemService(t)
		it := seedItem(t, store, m.ID, "Widget", "5")

		updated, err := svc.UpdateItem(ctx, &dto.UpdateItemRequest{ID: it.ID, Name: strPtr("Gadget")})
		require.NoError(t, err)
		assert.Equal(t, "Gadget", updated.Name)
		assert.Equal(t, it.Description, updated.Description)
		assert.True(t, it.UnitPrice.Equal(updated.UnitPrice))
	})

	t.Run("Unknown item", func(t *testing.T) {
		svc, _, _ := setupItemService(t)
		_, err := svc.UpdateItem(ctx, &dto.UpdateItemRequest{ID: 999, Name: strPtr("x")})
		assert.ErrorIs(t, err, services.ErrItemNotFound)
	})

	t.Run("Unknown merchant", func(t *testing.T) {
		svc, store, m := setupItemService(t)
		it := seedItem(t, store, m.ID, "Widget", "5")
		_, err := svc.UpdateItem(ctx, &dto.UpdateItemRequest{ID: it.ID, MerchantID: int64Ptr(999)})
		assert.ErrorIs(t, err, services.ErrConstraintViolation)

		stored, err := store.Items().GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, m.ID, stored.MerchantID)
	})

	t.Run("Blank name rejected", func(t *testing.T) {
		svc, store, m := setupItemService(t)
		it := seedItem(t, store, m.ID, "Widget", "5")
		_, err := svc.UpdateItem(ctx, &dto.UpdateItemRequest{ID: it.ID, Name: strPtr("")})
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("Non-numeric price rejected", func(t *testing.T) {
		svc, store, m := setupItemService(t)
		it := seedItem(t, store, m.ID, "Widget", "5")
		_, err := svc.UpdateItem(ctx, &dto.UpdateItemRequest{ID: it.ID, UnitPrice: dto.Numeric("abc")})
		var verr *services.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Unit price is not a number"}, verr.Messages)
	})

	t.Run("Price the column would round or overflow is rejected", func(t *testing.T) {
		svc, store, m := setupItemService(t)
		it := seedItem(t, store, m.ID, "Widget", "5")

		for price, message := range map[string]string{
			"2.999":        "Unit price must have at most 2 decimal places",
			"123456789012": "Unit price must be less than 10000000000",
		} {
			_, err := svc.UpdateItem(ctx, &dto.UpdateItemRequest{ID: it.ID, UnitPrice: dto.Numeric(price)})
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr, price)
			assert.Equal(t, []string{message}, verr.Messages, price)
		}

		stored, err := store.Items().GetByID(ctx, it.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5).Equal(stored.UnitPrice))
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	svc, store, m := setupItemService(t)
	it := seedItem(t, store, m.ID, "Widget", "5")

	require.NoError(t, svc.DeleteItem(ctx, it.ID))
	_, err := svc.GetItem(ctx, it.ID)
	assert.ErrorIs(t, err, services.ErrItemNotFound)
	assert.ErrorIs(t, svc.DeleteItem(ctx, it.ID), services.ErrItemNotFound)
}

func TestItemService_FindKeepsSurroundingWhitespace(t *testing.T) {
	ctx := context.Background()
	svc, store, m := setupItemService(t)
	seedItem(t, store, m.ID, "pineapple", "3")
	seedItem(t, store, m.ID, "green apple", "1")

	found, err := svc.FindItem(ctx, &dto.FindItemsRequest{Name: strPtr(" apple")})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "green apple", found.Name)

	all, err := svc.FindAllItems(ctx, &dto.FindItemsRequest{Name: strPtr(" apple")})
	require.NoError(t, err)
	assert.Equal(t, []string{"green apple"}, itemNames(all))
}

func TestItemService_Find(t *testing.T) {
	ctx := context.Background()
	svc, store, m := setupItemService(t)
	seedItem(t, store, m.ID, "grapes", "4.99")
	seedItem(t, store, m.ID, "oreos", "1.05")
	seedItem(t, store, m.ID, "bananas", "15.50")

	t.Run("By name", func(t *testing.T) {
		found, err := svc.FindItem(ctx, &dto.FindItemsRequest{Name: strPtr("REO")})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "oreos", found.Name)
	})

	t.Run("By price picks lowest name", func(t *testing.T) {
		found, err := svc.FindItem(ctx, &dto.FindItemsRequest{MinPrice: strPtr("1"), MaxPrice: strPtr("20")})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "bananas", found.Name)
	})

	t.Run("No match is not an error", func(t *testing.T) {
		found, err := svc.FindItem(ctx, &dto.FindItemsRequest{Name: strPtr("kiwi")})
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("All by price", func(t *testing.T) {
		all, err := svc.FindAllItems(ctx, &dto.FindItemsRequest{MaxPrice: strPtr("5")})
		require.NoError(t, err)
		assert.Equal(t, []string{"oreos", "grapes"}, itemNames(all))
	})

	t.Run("All by name", func(t *testing.T) {
		all, err := svc.FindAllItems(ctx, &dto.FindItemsRequest{Name: strPtr("a")})
		require.NoError(t, err)
		assert.Equal(t, []string{"grapes", "bananas"}, itemNames(all))
	})

	invalid := []struct {
		name    string
		req     dto.FindItemsRequest
		message string
	}{
		{"Nothing given", dto.FindItemsRequest{}, "Must provide a name or a min_price/max_price to search by"},
		{"Name and price", dto.FindItemsRequest{Name: strPtr("a"), MinPrice: strPtr("1")}, "Cannot search by both name and price"},
		{"Empty name", dto.FindItemsRequest{Name: strPtr("")}, "Name cannot be empty"},
		{"Whitespace name", dto.FindItemsRequest{Name: strPtr("   ")}, "Name cannot be empty"},
		{"Negative min", dto.FindItemsRequest{MinPrice: strPtr("-1")}, "Min price cannot be less than 0"},
		{"Non-numeric max", dto.FindItemsRequest{MaxPrice: strPtr("cheap")}, "Max price must be a number"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := svc.FindItem(ctx, &req)
			var verr *services.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tc.message}, verr.Messages)

			_, err = svc.FindAllItems(ctx, &req)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
}
