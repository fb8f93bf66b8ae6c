package dto

// CreateCouponRequest defines the structure for creating a coupon.
// MerchantID comes from the URL path.
type CreateCouponRequest struct {
	MerchantID int64        `json:"-"`
	Name       string       `json:"name" validate:"notblank"`
	Code       string       `json:"code" validate:"notblank"`
	PercentOff NumericInput `json:"percent_off"`
	DollarOff  NumericInput `json:"dollar_off"`
}

// ListCouponsRequest defines parameters for listing a merchant's coupons.
type ListCouponsRequest struct {
	MerchantID int64   `form:"-"`
	Status     *string `form:"status"`
}

// CouponAttributes is the attribute block of a coupon resource.
type CouponAttributes struct {
	Name       string   `json:"name"`
	Code       string   `json:"code"`
	PercentOff *float64 `json:"percent_off"`
	DollarOff  *float64 `json:"dollar_off"`
	Status     string   `json:"status"`
	MerchantID int64    `json:"merchant_id"`
}
