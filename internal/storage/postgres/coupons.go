package postgres

import (
	"context"
	"errors"
	"fmt"

	"storefront-api/internal/models"
	"storefront-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const couponColumns = `id, name, code, percent_off, dollar_off, status, merchant_id, created_at, updated_at`

// CouponRepo implements the storage.CouponRepository interface using PostgreSQL.
type CouponRepo struct {
	db     Querier
	logger *zap.Logger
}

// NewCouponRepo creates a new CouponRepo.
func NewCouponRepo(db *pgxpool.Pool, logger *zap.Logger) *CouponRepo {
	return &CouponRepo{db: db, logger: logger}
}

// WithTx creates a new CouponRepo bound to the transaction.
func (r *CouponRepo) WithTx(tx pgx.Tx) *CouponRepo {
	return &CouponRepo{db: tx, logger: r.logger}
}

var _ storage.CouponRepository = (*CouponRepo)(nil)

func (r *CouponRepo) GetByID(ctx context.Context, id int64) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.logger.Error("Error querying coupon", zap.Int64("coupon_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get coupon %d: %w", id, err)
	}

	coupon, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Coupon])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		r.logger.Error("Error scanning coupon", zap.Int64("coupon_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to scan coupon %d: %w", id, err)
	}
	return &coupon, nil
}

func (r *CouponRepo) ListByMerchant(ctx context.Context, merchantID int64, status *models.CouponStatus) ([]models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE merchant_id = $1`
	args := []interface{}{merchantID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error querying coupons by merchant", zap.Int64("merchant_id", merchantID), zap.Error(err))
		return nil, fmt.Errorf("failed to query coupons by merchant: %w", err)
	}
	defer rows.Close()

	coupons, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Coupon])
	if err != nil {
		r.logger.Error("Error scanning coupons by merchant", zap.Int64("merchant_id", merchantID), zap.Error(err))
		return nil, fmt.Errorf("failed to scan coupons by merchant: %w", err)
	}

	if coupons == nil {
		coupons = []models.Coupon{}
	}
	return coupons, nil
}

func (r *CouponRepo) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	query := `
		INSERT INTO coupons (name, code, percent_off, dollar_off, status, merchant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + couponColumns

	rows, err := r.db.Query(ctx, query,
		coupon.Name,
		coupon.Code,
		coupon.PercentOff,
		coupon.DollarOff,
		coupon.Status,
		coupon.MerchantID,
	)
	if err != nil {
		r.logger.Error("Error creating coupon", zap.Error(err))
		return nil, fmt.Errorf("failed to create coupon: %w", mapPgError(err))
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Coupon])
	if err != nil {
		mapped := mapPgError(err)
		if errors.Is(mapped, storage.ErrConflict) {
			r.logger.Warn("Attempted to create coupon with duplicate code", zap.String("code", coupon.Code))
		} else {
			r.logger.Error("Error creating coupon", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create coupon: %w", mapped)
	}

	r.logger.Info("Coupon created", zap.Int64("coupon_id", created.ID), zap.Int64("merchant_id", created.MerchantID))
	return &created, nil
}

func (r *CouponRepo) CountActive(ctx context.Context, merchantID int64) (int, error) {
	query := `SELECT COUNT(*) FROM coupons WHERE merchant_id = $1 AND status = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, merchantID, models.CouponStatusActive).Scan(&count); err != nil {
		r.logger.Error("Error counting active coupons", zap.Int64("merchant_id", merchantID), zap.Error(err))
		return 0, fmt.Errorf("failed to count active coupons for merchant %d: %w", merchantID, err)
	}
	return count, nil
}

func (r *CouponRepo) UpdateStatus(ctx context.Context, id int64, status models.CouponStatus) (*models.Coupon, error) {
	args := []interface{}{status}
	query := buildUpdateQuery("coupons", []string{"status = $1"}, &args, id, couponColumns)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error updating coupon status", zap.Int64("coupon_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update coupon status %d: %w", id, err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Coupon])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		r.logger.Error("Error scanning updated coupon", zap.Int64("coupon_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update coupon status %d: %w", id, err)
	}

	r.logger.Info("Coupon status updated", zap.Int64("coupon_id", id), zap.String("status", string(updated.Status)))
	return &updated, nil
}
