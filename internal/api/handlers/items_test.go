package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront-api/internal/api/handlers"
	"storefront-api/internal/models"
	"storefront-api/internal/services"
	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupItemRouter() (*gin.Engine, *MockItemService) {
	router := newTestRouter()
	svc := new(MockItemService)
	h := handlers.NewItemHandler(svc, zap.NewNop())
	router.GET("/items", h.GetItems)
	router.POST("/items", h.CreateItem)
	router.GET("/items/find", h.FindItem)
	router.GET("/items/find_all", h.FindAllItems)
	router.GET("/items/:id", h.GetItemByID)
	router.PATCH("/items/:id", h.UpdateItem)
	router.DELETE("/items/:id", h.DeleteItem)
	return router, svc
}

func sampleItem(id int64, name, price string) models.Item {
	return models.Item{
		ID:          id,
		Name:        name,
		Description: name + " description",
		UnitPrice:   decimal.RequireFromString(price),
		MerchantID:  7,
	}
}

func TestItemHandler_GetItems(t *testing.T) {
	router, svc := setupItemRouter()
	items := []models.Item{sampleItem(1, "cheap", "100"), sampleItem(2, "middle", "145.5")}
	svc.On("ListItems", mock.Anything, &dto.ListItemsRequest{Sorted: "price"}).Return(items, nil).Once()

	w := doRequest(router, http.MethodGet, "/items?sorted=price", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "1", resp.Data[0].ID)
	assert.Equal(t, "item", resp.Data[0].Type)
	assert.Equal(t, 145.5, resp.Data[1].Attributes["unit_price"])
	assert.Equal(t, float64(7), resp.Data[1].Attributes["merchant_id"])
	svc.AssertExpectations(t)
}

func TestItemHandler_GetItemByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		router, svc := setupItemRouter()
		item := sampleItem(3, "grapes", "4.99")
		svc.On("GetItem", mock.Anything, int64(3)).Return(&item, nil).Once()

		w := doRequest(router, http.MethodGet, "/items/3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp resourceEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "grapes", resp.Data.Attributes["name"])
		assert.Equal(t, 4.99, resp.Data.Attributes["unit_price"])
	})

	t.Run("Not found", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("GetItem", mock.Anything, int64(100000)).Return(nil, services.ErrItemNotFound).Once()

		w := doRequest(router, http.MethodGet, "/items/100000", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Your query could not be completed", resp.Message)
		assert.Equal(t, []string{"Couldn't find Item with 'id'=100000"}, resp.Errors)
	})

	t.Run("Malformed id", func(t *testing.T) {
		router, svc := setupItemRouter()

		w := doRequest(router, http.MethodGet, "/items/abc", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"Couldn't find Item with 'id'=abc"}, decodeError(t, w).Errors)
		svc.AssertNotCalled(t, "GetItem", mock.Anything, mock.Anything)
	})

	t.Run("Unexpected error", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("GetItem", mock.Anything, int64(1)).Return(nil, errors.New("connection reset")).Once()

		w := doRequest(router, http.MethodGet, "/items/1", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestItemHandler_CreateItem(t *testing.T) {
	t.Run("Created, extra fields ignored", func(t *testing.T) {
		router, svc := setupItemRouter()
		created := sampleItem(10, "name", "354.35")
		svc.On("CreateItem", mock.Anything, mock.MatchedBy(func(req *dto.CreateItemRequest) bool {
			return req.Name == "name" && req.UnitPrice.Raw == "354.35" && req.MerchantID == 7
		})).Return(&created, nil).Once()

		body := `{"name":"name","description":"desc","unit_price":354.35,"extra_field":"malicious stuff","merchant_id":7}`
		w := doRequest(router, http.MethodPost, "/items", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp resourceEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Data.Attributes, "extra_field")
		for _, key := range []string{"name", "description", "unit_price", "merchant_id"} {
			assert.Contains(t, resp.Data.Attributes, key)
		}
		svc.AssertExpectations(t)
	})

	t.Run("Missing price", func(t *testing.T) {
		router, svc := setupItemRouter()
		verr := services.NewValidationError("Unit price can't be blank", "Unit price is not a number")
		svc.On("CreateItem", mock.Anything, mock.Anything).Return(nil, verr).Once()

		w := doRequest(router, http.MethodPost, "/items", `{"name":"name","description":"desc","merchant_id":7}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Validation failed: Unit price can't be blank, Unit price is not a number", decodeError(t, w).Errors[0])
	})

	t.Run("Malformed body", func(t *testing.T) {
		router, svc := setupItemRouter()

		w := doRequest(router, http.MethodPost, "/items", `{"name":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
	})
}

func TestItemHandler_UpdateItem(t *testing.T) {
	t.Run("Updated", func(t *testing.T) {
		router, svc := setupItemRouter()
		updated := sampleItem(5, "stamps", "1")
		svc.On("UpdateItem", mock.Anything, mock.MatchedBy(func(req *dto.UpdateItemRequest) bool {
			return req.ID == 5 && req.Name != nil && *req.Name == "stamps" && req.Description == nil && !req.UnitPrice.Present
		})).Return(&updated, nil).Once()

		w := doRequest(router, http.MethodPatch, "/items/5", `{"name":"stamps"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp resourceEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "stamps", resp.Data.Attributes["name"])
		svc.AssertExpectations(t)
	})

	t.Run("Unknown item", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, services.ErrItemNotFound).Once()

		w := doRequest(router, http.MethodPatch, "/items/235", `{"name":"new name"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"Couldn't find Item with 'id'=235"}, decodeError(t, w).Errors)
	})

	t.Run("Unknown merchant", func(t *testing.T) {
		router, svc := setupItemRouter()
		err := fmt.Errorf("%w: merchant 99999 does not exist", services.ErrConstraintViolation)
		svc.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, err).Once()

		w := doRequest(router, http.MethodPatch, "/items/5", `{"name":"Updated Item","merchant_id":99999}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decodeError(t, w).Errors, "Invalid merchant")
	})
}

func TestItemHandler_DeleteItem(t *testing.T) {
	router, svc := setupItemRouter()
	svc.On("DeleteItem", mock.Anything, int64(4)).Return(nil).Once()
	svc.On("DeleteItem", mock.Anything, int64(678)).Return(services.ErrItemNotFound).Once()

	w := doRequest(router, http.MethodDelete, "/items/4", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(router, http.MethodDelete, "/items/678", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Couldn't find Item with 'id'=678"}, decodeError(t, w).Errors)
}

func TestItemHandler_Find(t *testing.T) {
	t.Run("Query parameters reach the service", func(t *testing.T) {
		router, svc := setupItemRouter()
		item := sampleItem(1, "bananas", "15.5")
		svc.On("FindItem", mock.Anything, mock.MatchedBy(func(req *dto.FindItemsRequest) bool {
			return req.Name == nil && req.MinPrice != nil && *req.MinPrice == "10" && req.MaxPrice == nil
		})).Return(&item, nil).Once()

		w := doRequest(router, http.MethodGet, "/items/find?min_price=10", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp resourceEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "bananas", resp.Data.Attributes["name"])
		svc.AssertExpectations(t)
	})

	t.Run("No match gives empty object", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("FindItem", mock.Anything, mock.Anything).Return(nil, nil).Once()

		w := doRequest(router, http.MethodGet, "/items/find?name=kiwi", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{}}`, w.Body.String())
	})

	t.Run("Empty name is passed through as present", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("FindItem", mock.Anything, mock.MatchedBy(func(req *dto.FindItemsRequest) bool {
			return req.Name != nil && *req.Name == ""
		})).Return(nil, services.NewValidationError("Name cannot be empty")).Once()

		w := doRequest(router, http.MethodGet, "/items/find?name=", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"Name cannot be empty"}, decodeError(t, w).Errors)
	})

	t.Run("Find all with no match gives empty list", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("FindAllItems", mock.Anything, mock.Anything).Return([]models.Item{}, nil).Once()

		w := doRequest(router, http.MethodGet, "/items/find_all?min_price=1000", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("Find all rejects mixed parameters", func(t *testing.T) {
		router, svc := setupItemRouter()
		svc.On("FindAllItems", mock.Anything, mock.Anything).
			Return(nil, services.NewValidationError("Cannot search by both name and price")).Once()

		w := doRequest(router, http.MethodGet, "/items/find_all?name=ring&max_price=5", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
