package dto

// CreateItemRequest defines the structure for creating a new item.
type CreateItemRequest struct {
	Name        string       `json:"name" validate:"notblank"`
	Description string       `json:"description" validate:"notblank"`
	UnitPrice   NumericInput `json:"unit_price"`
	MerchantID  int64        `json:"merchant_id" validate:"required"`
}

// UpdateItemRequest defines the structure for updating an existing item.
// Absent fields are left unchanged.
type UpdateItemRequest struct {
	ID          int64        `json:"-"`
	Name        *string      `json:"name" validate:"omitnil,notblank"`
	Description *string      `json:"description" validate:"omitnil,notblank"`
	UnitPrice   NumericInput `json:"unit_price"`
	MerchantID  *int64       `json:"merchant_id"`
}

// ListItemsRequest defines parameters for listing items, optionally scoped to a merchant.
type ListItemsRequest struct {
	MerchantID *int64 `form:"-"`
	Sorted     string `form:"sorted"`
}

// FindItemsRequest defines the query parameters of the item search endpoints.
// Exactly one of Name or a price bound must be given.
type FindItemsRequest struct {
	Name     *string `form:"name"`
	MinPrice *string `form:"min_price"`
	MaxPrice *string `form:"max_price"`
}

// ItemAttributes is the attribute block of an item resource.
type ItemAttributes struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unit_price"`
	MerchantID  int64   `json:"merchant_id"`
}
