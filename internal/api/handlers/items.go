package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-api/internal/services"
	"storefront-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItemHandler holds the service dependency for item operations
type ItemHandler struct {
	service services.ItemService
	logger  *zap.Logger
}

// NewItemHandler creates a new ItemHandler with the given service
func NewItemHandler(service services.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{service: service, logger: logger}
}

// GetItems godoc
// @Summary      List all items
// @Description  Retrieves every item in identifier order, or by ascending price with sorted=price.
// @Tags         items
// @Produce      json
// @Param        sorted query string false "Sort order" Enums(price)
// @Success      200  {object}  dto.DataResponse "Successfully retrieved list of items"
// @Failure      500  {object}  dto.ErrorResponse "Internal Server Error"
// @Router       /items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	req := dto.ListItemsRequest{Sorted: c.Query("sorted")}

	items, err := h.service.ListItems(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationSummary)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapItemsToResources(items)})
}

// GetItemByID godoc
// @Summary      Get an item by ID
// @Tags         items
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {object}  dto.DataResponse "Successfully retrieved item"
// @Failure      404  {object}  dto.ErrorResponse "Item Not Found"
// @Router       /items/{id} [get]
func (h *ItemHandler) GetItemByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondErrors(c, http.StatusNotFound, itemNotFoundMessage(c.Param("id")))
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.logger, err, c.Param("id"), validationSummary)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapItemToResource(item)})
}

// CreateItem godoc
// @Summary      Create a new item
// @Description  Unknown body fields are ignored.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        item body      dto.CreateItemRequest true  "Item to create"
// @Success      201  {object}  dto.DataResponse "Item created successfully"
// @Failure      400  {object}  dto.ErrorResponse "Bad Request - Malformed body"
// @Failure      422  {object}  dto.ErrorResponse "Validation failed"
// @Router       /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrors(c, http.StatusBadRequest, invalidRequestBodyPrefix+err.Error())
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, "", validationSummary)
		return
	}
	c.JSON(http.StatusCreated, dto.DataResponse{Data: MapItemToResource(item)})
}

// UpdateItem godoc
// @Summary      Update an existing item
// @Description  Only the fields present in the body are changed.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id   path      int                    true  "Item ID"
// @Param        item body      dto.UpdateItemRequest  true  "Fields to update"
// @Success      200  {object}  dto.DataResponse "Item updated successfully"
// @Failure      404  {object}  dto.ErrorResponse "Item Not Found or Invalid merchant"
// @Failure      422  {object}  dto.ErrorResponse "Validation failed"
// @Router       /items/{id} [patch]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondErrors(c, http.StatusNotFound, itemNotFoundMessage(c.Param("id")))
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrors(c, http.StatusBadRequest, invalidRequestBodyPrefix+err.Error())
		return
	}
	req.ID = id

	item, err := h.service.UpdateItem(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err, c.Param("id"), validationSummary)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapItemToResource(item)})
}

// DeleteItem godoc
// @Summary      Delete an item
// @Description  Removes the item together with its invoice items.
// @Tags         items
// @Param        id   path      int  true  "Item ID"
// @Success      204  "No Content"
// @Failure      404  {object}  dto.ErrorResponse "Item Not Found"
// @Router       /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		respondErrors(c, http.StatusNotFound, itemNotFoundMessage(c.Param("id")))
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, h.logger, err, strconv.FormatInt(id, 10), validationSummary)
		return
	}
	c.Status(http.StatusNoContent)
}

// FindItem godoc
// @Summary      Find one item
// @Description  By name fragment (first in identifier order) or by price range (alphabetically first name).
// @Tags         items
// @Produce      json
// @Param        name      query string false "Case-insensitive name fragment"
// @Param        min_price query number false "Inclusive lower price bound"
// @Param        max_price query number false "Inclusive upper price bound"
// @Success      200  {object}  dto.DataResponse "Matching item, or an empty object"
// @Failure      400  {object}  dto.ErrorResponse "Invalid search parameters"
// @Router       /items/find [get]
func (h *ItemHandler) FindItem(c *gin.Context) {
	req := findRequestFromQuery(c)

	item, err := h.service.FindItem(c.Request.Context(), &req)
	if err != nil {
		h.respondFindError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusOK, dto.DataResponse{Data: gin.H{}})
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapItemToResource(item)})
}

// FindAllItems godoc
// @Summary      Find all matching items
// @Description  By name fragment (identifier order) or by price range (ascending price).
// @Tags         items
// @Produce      json
// @Param        name      query string false "Case-insensitive name fragment"
// @Param        min_price query number false "Inclusive lower price bound"
// @Param        max_price query number false "Inclusive upper price bound"
// @Success      200  {object}  dto.DataResponse "Matching items, possibly none"
// @Failure      400  {object}  dto.ErrorResponse "Invalid search parameters"
// @Router       /items/find_all [get]
func (h *ItemHandler) FindAllItems(c *gin.Context) {
	req := findRequestFromQuery(c)

	items, err := h.service.FindAllItems(c.Request.Context(), &req)
	if err != nil {
		h.respondFindError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DataResponse{Data: MapItemsToResources(items)})
}

func findRequestFromQuery(c *gin.Context) dto.FindItemsRequest {
	return dto.FindItemsRequest{
		Name:     optionalQuery(c, "name"),
		MinPrice: optionalQuery(c, "min_price"),
		MaxPrice: optionalQuery(c, "max_price"),
	}
}

// Search parameter errors are client errors, not entity validation failures.
func (h *ItemHandler) respondFindError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondErrors(c, http.StatusBadRequest, verr.Messages...)
		return
	}
	respondServiceError(c, h.logger, err, "", validationSummary)
}
