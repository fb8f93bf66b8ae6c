package dto

// CreateMerchantRequest defines the structure for creating a new merchant.
type CreateMerchantRequest struct {
	Name string `json:"name" validate:"notblank"`
}

// MerchantAttributes is the attribute block of a merchant resource.
type MerchantAttributes struct {
	Name string `json:"name"`
}
