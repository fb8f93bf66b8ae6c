package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-api/internal/metrics"
	"storefront-api/internal/models"
	"storefront-api/internal/storage"
	"storefront-api/internal/transport/dto"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

type couponService struct {
	store    storage.Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCouponService creates a new instance of CouponService.
func NewCouponService(store storage.Store, validate *validator.Validate, logger *zap.Logger) CouponService {
	return &couponService{store: store, validate: validate, logger: logger}
}

func (s *couponService) ListCoupons(ctx context.Context, req *dto.ListCouponsRequest) ([]models.Coupon, error) {
	if err := s.merchantExists(ctx, s.store, req.MerchantID); err != nil {
		return nil, err
	}

	var status *models.CouponStatus
	if req.Status != nil && *req.Status != "" {
		parsed, err := models.ParseCouponStatus(*req.Status)
		if err != nil {
			return nil, NewValidationError("Invalid coupon status")
		}
		status = &parsed
	}

	coupons, err := s.store.Coupons().ListByMerchant(ctx, req.MerchantID, status)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrCouponNotFound, "listing coupons")
	}
	if len(coupons) == 0 {
		return nil, ErrNoCouponsFound
	}
	return coupons, nil
}

func (s *couponService) GetCoupon(ctx context.Context, merchantID, couponID int64) (*models.Coupon, error) {
	if err := s.merchantExists(ctx, s.store, merchantID); err != nil {
		return nil, err
	}
	return s.ownedCoupon(ctx, s.store, merchantID, couponID)
}

func (s *couponService) CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest) (*models.Coupon, error) {
	if err := s.merchantExists(ctx, s.store, req.MerchantID); err != nil {
		return nil, err
	}

	messages, err := structMessages(s.validate, req)
	if err != nil {
		return nil, err
	}
	percentOff, percentMessages := numericMessages("percent_off", req.PercentOff, false)
	if percentOff != nil && (percentOff.IsNegative() || percentOff.Cmp(hundred) > 0) {
		percentMessages = append(percentMessages, "Percent off must be between 0 and 100")
	}
	dollarOff, dollarMessages := numericMessages("dollar_off", req.DollarOff, false)
	if dollarOff != nil && dollarOff.IsNegative() {
		dollarMessages = append(dollarMessages, "Dollar off must be greater than or equal to 0")
	}

	verr := NewValidationError(collect(messages, "name", "code")...).
		Add(percentMessages...).
		Add(dollarMessages...)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	coupon, err := s.store.Coupons().Create(ctx, &models.Coupon{
		Name:       req.Name,
		Code:       req.Code,
		PercentOff: percentOff,
		DollarOff:  dollarOff,
		Status:     models.CouponStatusInactive,
		MerchantID: req.MerchantID,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			return nil, NewValidationError("Code has already been taken")
		case errors.Is(err, storage.ErrForeignKey):
			return nil, ErrMerchantNotFound
		}
		return nil, mapRepoError(s.logger, err, ErrCouponNotFound, "creating coupon")
	}

	s.logger.Info("Coupon created",
		zap.Int64("merchant_id", coupon.MerchantID), zap.Int64("coupon_id", coupon.ID))
	return coupon, nil
}

// Activate marks a coupon active. The merchant row is locked for the whole
// count-then-write sequence, so concurrent activations for one merchant
// cannot push it past MaxActiveCoupons.
func (s *couponService) Activate(ctx context.Context, merchantID, couponID int64) (coupon *models.Coupon, err error) {
	ctx, span := startSpan(ctx, "CouponService.Activate")
	span.SetAttributes(attribute.Int64("merchant.id", merchantID), attribute.Int64("coupon.id", couponID))
	defer func() { endSpan(span, err) }()

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		if err := tx.Merchants().LockForUpdate(ctx, merchantID); err != nil {
			return mapRepoError(s.logger, err, ErrMerchantNotFound, "locking merchant")
		}

		current, err := s.ownedCoupon(ctx, tx, merchantID, couponID)
		if err != nil {
			return err
		}

		// The cap applies before the no-op: an already-active coupon is
		// rejected too once the merchant is at capacity.
		active, err := tx.Coupons().CountActive(ctx, merchantID)
		if err != nil {
			return mapRepoError(s.logger, err, ErrMerchantNotFound, "counting active coupons")
		}
		if active >= models.MaxActiveCoupons {
			metrics.RecordCouponTransition(metrics.ResultCapacityExceeded)
			s.logger.Info("Coupon activation rejected, merchant at capacity",
				zap.Int64("merchant_id", merchantID), zap.Int64("coupon_id", couponID), zap.Int("active", active))
			return fmt.Errorf("%w: merchant %d already has %d active coupons", ErrCapacityExceeded, merchantID, active)
		}
		if current.IsActive() {
			coupon = current
			return nil
		}

		updated, err := tx.Coupons().UpdateStatus(ctx, couponID, models.CouponStatusActive)
		if err != nil {
			return mapRepoError(s.logger, err, ErrCouponNotFound, "activating coupon")
		}
		metrics.RecordCouponTransition(metrics.ResultActivated)
		coupon = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

// Deactivate marks a coupon inactive. Deactivating an inactive coupon is a no-op.
func (s *couponService) Deactivate(ctx context.Context, merchantID, couponID int64) (coupon *models.Coupon, err error) {
	ctx, span := startSpan(ctx, "CouponService.Deactivate")
	span.SetAttributes(attribute.Int64("merchant.id", merchantID), attribute.Int64("coupon.id", couponID))
	defer func() { endSpan(span, err) }()

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Store) error {
		if err := s.merchantExists(ctx, tx, merchantID); err != nil {
			return err
		}
		current, err := s.ownedCoupon(ctx, tx, merchantID, couponID)
		if err != nil {
			return err
		}
		if !current.IsActive() {
			coupon = current
			return nil
		}

		updated, err := tx.Coupons().UpdateStatus(ctx, couponID, models.CouponStatusInactive)
		if err != nil {
			return mapRepoError(s.logger, err, ErrCouponNotFound, "deactivating coupon")
		}
		metrics.RecordCouponTransition(metrics.ResultDeactivated)
		coupon = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *couponService) merchantExists(ctx context.Context, store storage.Store, merchantID int64) error {
	if _, err := store.Merchants().GetByID(ctx, merchantID); err != nil {
		return mapRepoError(s.logger, err, ErrMerchantNotFound, "getting merchant")
	}
	return nil
}

// ownedCoupon loads a coupon and reports it as missing when another merchant owns it.
func (s *couponService) ownedCoupon(ctx context.Context, store storage.Store, merchantID, couponID int64) (*models.Coupon, error) {
	coupon, err := store.Coupons().GetByID(ctx, couponID)
	if err != nil {
		return nil, mapRepoError(s.logger, err, ErrCouponNotFound, "getting coupon")
	}
	if coupon.MerchantID != merchantID {
		s.logger.Warn("Coupon requested under the wrong merchant",
			zap.Int64("merchant_id", merchantID), zap.Int64("coupon_id", couponID), zap.Int64("owner_id", coupon.MerchantID))
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}
