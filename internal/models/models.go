package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxActiveCoupons is the number of coupons a single merchant may have active at once.
const MaxActiveCoupons = 5

// --- Coupon Status Enum ---
type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusInactive CouponStatus = "inactive"
)

// ParseCouponStatus converts raw input into a CouponStatus, rejecting anything
// outside the two known values.
func ParseCouponStatus(raw string) (CouponStatus, error) {
	switch s := CouponStatus(raw); s {
	case CouponStatusActive, CouponStatusInactive:
		return s, nil
	default:
		return "", fmt.Errorf("invalid coupon status: %q", raw)
	}
}

// Scan implements the sql.Scanner interface for CouponStatus
func (cs *CouponStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan CouponStatus: value is not string or []byte")
		}
	}
	v, err := ParseCouponStatus(strVal)
	if err != nil {
		return err
	}
	*cs = v
	return nil
}

// Value implements the driver.Valuer interface for CouponStatus
func (cs CouponStatus) Value() (driver.Value, error) {
	return string(cs), nil
}

// Merchant owns items and coupons.
type Merchant struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Item represents a sellable product. UnitPrice is stored as NUMERIC.
type Item struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	MerchantID  int64           `json:"merchant_id" db:"merchant_id"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ItemUpdate carries a partial item update. Nil fields are left unchanged.
type ItemUpdate struct {
	Name        *string
	Description *string
	UnitPrice   *decimal.Decimal
	MerchantID  *int64
}

// IsEmpty reports whether the update touches no field.
func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.UnitPrice == nil && u.MerchantID == nil
}

// Coupon represents a promotional code owned by a merchant.
type Coupon struct {
	ID         int64            `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Code       string           `json:"code" db:"code"`
	PercentOff *decimal.Decimal `json:"percent_off,omitempty" db:"percent_off"` // NULL when not a percentage coupon
	DollarOff  *decimal.Decimal `json:"dollar_off,omitempty" db:"dollar_off"`
	Status     CouponStatus     `json:"status" db:"status"`
	MerchantID int64            `json:"merchant_id" db:"merchant_id"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the coupon counts toward its merchant's active cap.
func (c *Coupon) IsActive() bool {
	return c.Status == CouponStatusActive
}
