package handlers

import (
	"errors"
	"net/http"

	"storefront-api/internal/services"
	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	couponSavedMessage       = "Coupon saved successfully!"
	couponActivatedMessage   = "Coupon activated successfully!"
	couponDeactivatedMessage = "Coupon deactivated successfully."
	invalidStatusMessage     = "Invalid coupon status"

	statusOK = "ok"
)

// CouponHandler holds dependencies for coupon operations.
type CouponHandler struct {
	service services.CouponService
	logger  *zap.Logger
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service services.CouponService, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{service: service, logger: logger}
}

// GetCoupons godoc
// @Summary      List a merchant's coupons
// @Tags         coupons
// @Produce      json
// @Param        merchant_id path  int    true  "Merchant ID"
// @Param        status      query string false "Status filter" Enums(active, inactive)
// @Success      200  {object}  dto.DataResponse "Coupons of the merchant"
// @Failure      400  {object}  dto.ErrorResponse "Invalid coupon status"
// @Failure      404  {object}  dto.ErrorResponse "Merchant not found or no coupons"
// @Router       /merchants/{merchant_id}/coupons [get]
func (h *CouponHandler) GetCoupons(c *gin.Context) {
	merchantID, ok := parseID(c, "merchant_id")
	if !ok {
		respondErrors(c, http.StatusNotFound, merchantNotFoundMessage)
		return
	}

	req := dto.ListCouponsRequest{MerchantID: merchantID, Status: optionalQuery(c, "status")}
	coupons, err := h.service.ListCoupons(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondErrors(c, http.StatusBadRequest, invalidStatusMessage)
			return
		}
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapCouponsToResources(coupons)})
}

// GetCouponByID godoc
// @Summary      Get one of a merchant's coupons
// @Tags         coupons
// @Produce      json
// @Param        merchant_id path int true "Merchant ID"
// @Param        id          path int true "Coupon ID"
// @Success      200  {object}  dto.DataResponse "Coupon"
// @Failure      404  {object}  dto.ErrorResponse "Merchant or coupon not found"
// @Router       /merchants/{merchant_id}/coupons/{id} [get]
func (h *CouponHandler) GetCouponByID(c *gin.Context) {
	merchantID, couponID, ok := h.couponPath(c)
	if !ok {
		return
	}

	coupon, err := h.service.GetCoupon(c.Request.Context(), merchantID, couponID)
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapCouponToResource(coupon)})
}

// CreateCoupon godoc
// @Summary      Create a coupon
// @Description  New coupons start inactive. Codes are unique across all merchants.
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Param        merchant_id path int                     true "Merchant ID"
// @Param        coupon      body dto.CreateCouponRequest true "Coupon to create"
// @Success      201  {object}  dto.MessageResponse "Coupon saved"
// @Failure      401  {object}  dto.ErrorResponse "Unauthorized"
// @Failure      403  {object}  dto.ErrorResponse "Forbidden"
// @Failure      404  {object}  dto.ErrorResponse "Merchant not found"
// @Failure      422  {object}  dto.ErrorResponse "Validation failed"
// @Router       /merchants/{merchant_id}/coupons [post]
// @Security     BearerAuth
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	merchantID, ok := parseID(c, "merchant_id")
	if !ok {
		respondErrors(c, http.StatusNotFound, merchantNotFoundMessage)
		return
	}

	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrors(c, http.StatusBadRequest, invalidRequestBodyPrefix+err.Error())
		return
	}
	req.MerchantID = merchantID

	coupon, err := h.service.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse{
		Message: couponSavedMessage,
		Coupon:  &dto.DataResponse{Data: MapCouponToResource(coupon)},
	})
}

// ActivateCoupon godoc
// @Summary      Activate a coupon
// @Description  Fails when the merchant already has five active coupons. Activating an active coupon succeeds without change.
// @Tags         coupons
// @Produce      json
// @Param        merchant_id path int true "Merchant ID"
// @Param        id          path int true "Coupon ID"
// @Success      200  {object}  dto.MessageResponse "Coupon activated"
// @Failure      404  {object}  dto.ErrorResponse "Merchant or coupon not found"
// @Failure      422  {object}  dto.ErrorResponse "Active coupon limit reached"
// @Router       /merchants/{merchant_id}/coupons/{id}/activate [patch]
// @Security     BearerAuth
func (h *CouponHandler) ActivateCoupon(c *gin.Context) {
	merchantID, couponID, ok := h.couponPath(c)
	if !ok {
		return
	}

	if _, err := h.service.Activate(c.Request.Context(), merchantID, couponID); err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: couponActivatedMessage, Status: statusOK})
}

// DeactivateCoupon godoc
// @Summary      Deactivate a coupon
// @Tags         coupons
// @Produce      json
// @Param        merchant_id path int true "Merchant ID"
// @Param        id          path int true "Coupon ID"
// @Success      200  {object}  dto.MessageResponse "Coupon deactivated"
// @Failure      404  {object}  dto.ErrorResponse "Merchant or coupon not found"
// @Router       /merchants/{merchant_id}/coupons/{id}/deactivate [patch]
// @Security     BearerAuth
func (h *CouponHandler) DeactivateCoupon(c *gin.Context) {
	merchantID, couponID, ok := h.couponPath(c)
	if !ok {
		return
	}

	if _, err := h.service.Deactivate(c.Request.Context(), merchantID, couponID); err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: couponDeactivatedMessage, Status: statusOK})
}

// couponPath parses both path identifiers, writing a 404 when either is malformed.
func (h *CouponHandler) couponPath(c *gin.Context) (merchantID, couponID int64, ok bool) {
	merchantID, ok = parseID(c, "merchant_id")
	if !ok {
		respondErrors(c, http.StatusNotFound, merchantNotFoundMessage)
		return 0, 0, false
	}
	couponID, ok = parseID(c, "id")
	if !ok {
		respondErrors(c, http.StatusNotFound, couponNotFoundMessage)
		return 0, 0, false
	}
	return merchantID, couponID, true
}
