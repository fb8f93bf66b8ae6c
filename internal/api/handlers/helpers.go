package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"storefront-api/internal/models"
	"storefront-api/internal/services"
	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	queryFailedMessage       = "Your query could not be completed"
	merchantNotFoundMessage  = "Merchant not found"
	couponCapacityMessage    = "A merchant can only have up to 5 active coupons at a time"
	invalidMerchantMessage   = "Invalid merchant"
	noCouponsMessage         = "No coupons found for this merchant"
	couponNotFoundMessage    = "Coupon not found"
	internalErrorMessage     = "Internal Server Error"
	invalidRequestBodyPrefix = "Invalid request body: "
)

// MapItemToResource converts a models.Item to its response resource.
func MapItemToResource(item *models.Item) dto.Resource {
	return dto.Resource{
		ID:   strconv.FormatInt(item.ID, 10),
		Type: "item",
		Attributes: dto.ItemAttributes{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			MerchantID:  item.MerchantID,
		},
	}
}

// MapItemsToResources converts items, keeping their order. Never nil.
func MapItemsToResources(items []models.Item) []dto.Resource {
	out := make([]dto.Resource, 0, len(items))
	for i := range items {
		out = append(out, MapItemToResource(&items[i]))
	}
	return out
}

// MapMerchantToResource converts a models.Merchant to its response resource.
func MapMerchantToResource(merchant *models.Merchant) dto.Resource {
	return dto.Resource{
		ID:         strconv.FormatInt(merchant.ID, 10),
		Type:       "merchant",
		Attributes: dto.MerchantAttributes{Name: merchant.Name},
	}
}

func MapMerchantsToResources(merchants []models.Merchant) []dto.Resource {
	out := make([]dto.Resource, 0, len(merchants))
	for i := range merchants {
		out = append(out, MapMerchantToResource(&merchants[i]))
	}
	return out
}

// MapCouponToResource converts a models.Coupon to its response resource.
func MapCouponToResource(coupon *models.Coupon) dto.Resource {
	attrs := dto.CouponAttributes{
		Name:       coupon.Name,
		Code:       coupon.Code,
		Status:     string(coupon.Status),
		MerchantID: coupon.MerchantID,
	}
	if coupon.PercentOff != nil {
		v := coupon.PercentOff.InexactFloat64()
		attrs.PercentOff = &v
	}
	if coupon.DollarOff != nil {
		v := coupon.DollarOff.InexactFloat64()
		attrs.DollarOff = &v
	}
	return dto.Resource{
		ID:         strconv.FormatInt(coupon.ID, 10),
		Type:       "coupon",
		Attributes: attrs,
	}
}

func MapCouponsToResources(coupons []models.Coupon) []dto.Resource {
	out := make([]dto.Resource, 0, len(coupons))
	for i := range coupons {
		out = append(out, MapCouponToResource(&coupons[i]))
	}
	return out
}

func respondErrors(c *gin.Context, status int, messages ...string) {
	c.JSON(status, dto.ErrorResponse{Message: queryFailedMessage, Errors: messages})
}

// validationStyle selects how a *services.ValidationError is rendered.
type validationStyle int

const (
	// validationSummary renders a single "Validation failed: ..." entry.
	validationSummary validationStyle = iota
	// validationList renders one entry per message.
	validationList
)

// respondServiceError maps a service error to its HTTP status and error body.
// itemID names the item in "Couldn't find Item" messages.
func respondServiceError(c *gin.Context, logger *zap.Logger, err error, itemID string, style validationStyle) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		if style == validationSummary {
			respondErrors(c, http.StatusUnprocessableEntity, verr.Error())
		} else {
			respondErrors(c, http.StatusUnprocessableEntity, verr.Messages...)
		}
	case errors.Is(err, services.ErrCapacityExceeded):
		respondErrors(c, http.StatusUnprocessableEntity, couponCapacityMessage)
	case errors.Is(err, services.ErrConstraintViolation):
		respondErrors(c, http.StatusNotFound, invalidMerchantMessage)
	case errors.Is(err, services.ErrMerchantNotFound):
		respondErrors(c, http.StatusNotFound, merchantNotFoundMessage)
	case errors.Is(err, services.ErrItemNotFound):
		respondErrors(c, http.StatusNotFound, itemNotFoundMessage(itemID))
	case errors.Is(err, services.ErrNoCouponsFound):
		respondErrors(c, http.StatusNotFound, noCouponsMessage)
	case errors.Is(err, services.ErrNotFound):
		respondErrors(c, http.StatusNotFound, couponNotFoundMessage)
	default:
		logger.Error("Unhandled service error", zap.String("path", c.FullPath()), zap.Error(err))
		respondErrors(c, http.StatusInternalServerError, internalErrorMessage)
	}
}

func itemNotFoundMessage(id string) string {
	return fmt.Sprintf("Couldn't find Item with 'id'=%s", id)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// optionalQuery returns a pointer to the query value when the key is present, even if empty.
func optionalQuery(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}
