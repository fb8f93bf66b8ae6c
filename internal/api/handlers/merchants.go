package handlers

import (
	"net/http"

	"storefront-api/internal/services"
	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MerchantHandler holds dependencies for merchant operations.
type MerchantHandler struct {
	service services.MerchantService
	items   services.ItemService
	logger  *zap.Logger
}

// NewMerchantHandler creates a new MerchantHandler.
func NewMerchantHandler(service services.MerchantService, items services.ItemService, logger *zap.Logger) *MerchantHandler {
	return &MerchantHandler{service: service, items: items, logger: logger}
}

// GetMerchants godoc
// @Summary      List all merchants
// @Tags         merchants
// @Produce      json
// @Success      200  {object}  dto.DataResponse "Successfully retrieved list of merchants"
// @Router       /merchants [get]
func (h *MerchantHandler) GetMerchants(c *gin.Context) {
	merchants, err := h.service.ListMerchants(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapMerchantsToResources(merchants)})
}

// GetMerchantByID godoc
// @Summary      Get a merchant by ID
// @Tags         merchants
// @Produce      json
// @Param        merchant_id path int true "Merchant ID"
// @Success      200  {object}  dto.DataResponse "Successfully retrieved merchant"
// @Failure      404  {object}  dto.ErrorResponse "Merchant not found"
// @Router       /merchants/{merchant_id} [get]
func (h *MerchantHandler) GetMerchantByID(c *gin.Context) {
	id, ok := parseID(c, "merchant_id")
	if !ok {
		respondErrors(c, http.StatusNotFound, merchantNotFoundMessage)
		return
	}

	merchant, err := h.service.GetMerchant(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapMerchantToResource(merchant)})
}

// CreateMerchant godoc
// @Summary      Create a merchant
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        merchant body dto.CreateMerchantRequest true "Merchant to create"
// @Success      201  {object}  dto.DataResponse "Merchant created successfully"
// @Failure      422  {object}  dto.ErrorResponse "Validation failed"
// @Router       /merchants [post]
func (h *MerchantHandler) CreateMerchant(c *gin.Context) {
	var req dto.CreateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrors(c, http.StatusBadRequest, invalidRequestBodyPrefix+err.Error())
		return
	}

	merchant, err := h.service.CreateMerchant(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusCreated, dto.DataResponse{Data: MapMerchantToResource(merchant)})
}

// GetMerchantItems godoc
// @Summary      List a merchant's items
// @Tags         merchants
// @Produce      json
// @Param        merchant_id path  int    true  "Merchant ID"
// @Param        sorted      query string false "Sort order" Enums(price)
// @Success      200  {object}  dto.DataResponse "Successfully retrieved items"
// @Failure      404  {object}  dto.ErrorResponse "Merchant not found"
// @Router       /merchants/{merchant_id}/items [get]
func (h *MerchantHandler) GetMerchantItems(c *gin.Context) {
	id, ok := parseID(c, "merchant_id")
	if !ok {
		respondErrors(c, http.StatusNotFound, merchantNotFoundMessage)
		return
	}

	items, err := h.items.ListItems(c.Request.Context(), &dto.ListItemsRequest{MerchantID: &id, Sorted: c.Query("sorted")})
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationList)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapItemsToResources(items)})
}
