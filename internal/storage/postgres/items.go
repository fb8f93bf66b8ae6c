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

const itemColumns = `id, name, description, unit_price, merchant_id, created_at, updated_at`

// ItemRepo implements the storage.ItemRepository interface using PostgreSQL.
type ItemRepo struct {
	db     Querier
	logger *zap.Logger
}

// NewItemRepo creates a new ItemRepo.
func NewItemRepo(db *pgxpool.Pool, logger *zap.Logger) *ItemRepo {
	return &ItemRepo{db: db, logger: logger}
}

// WithTx creates a new ItemRepo bound to the transaction.
func (r *ItemRepo) WithTx(tx pgx.Tx) *ItemRepo {
	return &ItemRepo{db: tx, logger: r.logger}
}

// Compile-time check to ensure ItemRepo implements ItemRepository
var _ storage.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) GetAll(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY id ASC`
	return r.list(ctx, query)
}

func (r *ItemRepo) ListByMerchant(ctx context.Context, merchantID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE merchant_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, merchantID)
}

func (r *ItemRepo) list(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error querying items", zap.Error(err))
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Item])
	if err != nil {
		r.logger.Error("Error scanning items", zap.Error(err))
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}

	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		r.logger.Error("Error querying item", zap.Int64("item_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Item])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		r.logger.Error("Error scanning item", zap.Int64("item_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to scan item %d: %w", id, err)
	}
	return &item, nil
}

func (r *ItemRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	query := `
		INSERT INTO items (name, description, unit_price, merchant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + itemColumns

	rows, err := r.db.Query(ctx, query, item.Name, item.Description, item.UnitPrice, item.MerchantID)
	if err != nil {
		r.logger.Error("Error creating item", zap.Error(err))
		return nil, fmt.Errorf("failed to create item: %w", mapPgError(err))
	}

	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Item])
	if err != nil {
		// Constraint violations surface when the row is read back.
		mapped := mapPgError(err)
		if errors.Is(mapped, storage.ErrForeignKey) {
			r.logger.Warn("Item references unknown merchant", zap.Int64("merchant_id", item.MerchantID))
		} else {
			r.logger.Error("Error creating item", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create item: %w", mapped)
	}

	r.logger.Info("Item created", zap.Int64("item_id", created.ID), zap.Int64("merchant_id", created.MerchantID))
	return &created, nil
}

// Update applies only the fields present in update.
func (r *ItemRepo) Update(ctx context.Context, id int64, update models.ItemUpdate) (*models.Item, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	if update.Name != nil {
		args = append(args, *update.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.UnitPrice != nil {
		args = append(args, *update.UnitPrice)
		sets = append(sets, fmt.Sprintf("unit_price = $%d", len(args)))
	}
	if update.MerchantID != nil {
		args = append(args, *update.MerchantID)
		sets = append(sets, fmt.Sprintf("merchant_id = $%d", len(args)))
	}

	query := buildUpdateQuery("items", sets, &args, id, itemColumns)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error updating item", zap.Int64("item_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update item %d: %w", id, mapPgError(err))
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Item])
	if err != nil {
		mapped := mapPgError(err)
		if !errors.Is(mapped, storage.ErrNotFound) && !errors.Is(mapped, storage.ErrForeignKey) {
			r.logger.Error("Error updating item", zap.Int64("item_id", id), zap.Error(err))
		}
		if errors.Is(mapped, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update item %d: %w", id, mapped)
	}
	return &updated, nil
}

// Delete removes the item. Dependent invoice_items rows go with it (ON DELETE CASCADE).
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Error deleting item", zap.Int64("item_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	r.logger.Info("Item deleted", zap.Int64("item_id", id))
	return nil
}
