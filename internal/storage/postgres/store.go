package postgres

import (
	"context"
	"fmt"

	"storefront-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store implements storage.Store on a pgx pool.
type Store struct {
	pool      *pgxpool.Pool // nil when the store is bound to a transaction
	merchants *MerchantRepo
	items     *ItemRepo
	coupons   *CouponRepo
	logger    *zap.Logger
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		pool:      pool,
		merchants: NewMerchantRepo(pool, logger),
		items:     NewItemRepo(pool, logger),
		coupons:   NewCouponRepo(pool, logger),
		logger:    logger,
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Merchants() storage.MerchantRepository { return s.merchants }
func (s *Store) Items() storage.ItemRepository         { return s.items }
func (s *Store) Coupons() storage.CouponRepository     { return s.coupons }

// RunInTx begins a transaction and hands fn a Store bound to it. A Store that is
// already bound to a transaction runs fn inside that same transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx storage.Store) error) error {
	if s.pool == nil {
		return fn(ctx, s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error("Error beginning transaction", zap.Error(err))
		return fmt.Errorf("internal error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after a successful commit

	if err := fn(ctx, s.withTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error("Error committing transaction", zap.Error(err))
		return fmt.Errorf("internal error committing transaction: %w", err)
	}
	return nil
}

func (s *Store) withTx(tx pgx.Tx) *Store {
	return &Store{
		merchants: s.merchants.WithTx(tx),
		items:     s.items.WithTx(tx),
		coupons:   s.coupons.WithTx(tx),
		logger:    s.logger,
	}
}
