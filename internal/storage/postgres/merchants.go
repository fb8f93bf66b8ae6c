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

const merchantColumns = `id, name, created_at, updated_at`

// MerchantRepo implements the storage.MerchantRepository interface using PostgreSQL.
type MerchantRepo struct {
	db     Querier
	logger *zap.Logger
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(db *pgxpool.Pool, logger *zap.Logger) *MerchantRepo {
	return &MerchantRepo{db: db, logger: logger}
}

// WithTx creates a new MerchantRepo bound to the transaction.
func (r *MerchantRepo) WithTx(tx pgx.Tx) *MerchantRepo {
	return &MerchantRepo{db: tx, logger: r.logger}
}

var _ storage.MerchantRepository = (*MerchantRepo)(nil)

func (r *MerchantRepo) GetAll(ctx context.Context) ([]models.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants ORDER BY id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Error querying all merchants", zap.Error(err))
		return nil, fmt.Errorf("failed to query merchants: %w", err)
	}
	defer rows.Close()

	merchants, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Merchant])
	if err != nil {
		r.logger.Error("Error scanning merchants", zap.Error(err))
		return nil, fmt.Errorf("failed to scan merchants: %w", err)
	}

	if merchants == nil {
		merchants = []models.Merchant{}
	}
	return merchants, nil
}

func (r *MerchantRepo) GetByID(ctx context.Context, id int64) (*models.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.logger.Error("Error querying merchant", zap.Int64("merchant_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get merchant %d: %w", id, err)
	}

	merchant, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Merchant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		r.logger.Error("Error scanning merchant", zap.Int64("merchant_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to scan merchant %d: %w", id, err)
	}
	return &merchant, nil
}

func (r *MerchantRepo) Create(ctx context.Context, name string) (*models.Merchant, error) {
	query := `
		INSERT INTO merchants (name, created_at, updated_at)
		VALUES ($1, NOW(), NOW())
		RETURNING ` + merchantColumns

	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		r.logger.Error("Error creating merchant", zap.Error(err))
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	merchant, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Merchant])
	if err != nil {
		r.logger.Error("Error scanning created merchant", zap.Error(err))
		return nil, fmt.Errorf("failed to create merchant: %w", mapPgError(err))
	}

	r.logger.Info("Merchant created", zap.Int64("merchant_id", merchant.ID))
	return &merchant, nil
}

// LockForUpdate locks the merchant row. Every coupon activation for the merchant
// takes this lock first, which serializes them.
func (r *MerchantRepo) LockForUpdate(ctx context.Context, id int64) error {
	query := `SELECT id FROM merchants WHERE id = $1 FOR UPDATE`

	var lockedID int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrNotFound
		}
		r.logger.Error("Error locking merchant", zap.Int64("merchant_id", id), zap.Error(err))
		return fmt.Errorf("failed to lock merchant %d: %w", id, err)
	}
	return nil
}
