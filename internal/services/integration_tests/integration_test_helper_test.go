package integration_tests

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"storefront-api/internal/database"
	"storefront-api/internal/models"
	"storefront-api/internal/storage/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// getTestPool connects to the database named by TEST_DATABASE_URL and applies
// the schema. Tests are skipped when the variable is not set.
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err, "Failed to create test pool")
	require.NoError(t, pool.Ping(ctx), "Failed to reach test database")
	require.NoError(t, database.Migrate(ctx, pool, zap.NewNop()), "Failed to apply schema")

	t.Cleanup(pool.Close)
	return pool
}

// cleanupTables empties the given tables and resets their sequences.
func cleanupTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool, tables ...string) {
	t.Helper()
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	_, err := pool.Exec(ctx, query)
	require.NoError(t, err, "Failed to clean up tables %v", tables)
}

func newTestStore(pool *pgxpool.Pool) *postgres.Store {
	return postgres.NewStore(pool, zap.NewNop())
}

func createTestMerchant(t *testing.T, ctx context.Context, store *postgres.Store, name string) *models.Merchant {
	t.Helper()
	m, err := store.Merchants().Create(ctx, name)
	require.NoError(t, err, "Failed to create test merchant %s", name)
	return m
}

func createTestCoupons(t *testing.T, ctx context.Context, store *postgres.Store, merchantID int64, status models.CouponStatus, n int) []*models.Coupon {
	t.Helper()
	out := make([]*models.Coupon, 0, n)
	for i := 0; i < n; i++ {
		c, err := store.Coupons().Create(ctx, &models.Coupon{
			Name:       fmt.Sprintf("coupon %d", i),
			Code:       fmt.Sprintf("M%d-%s-%d", merchantID, status, i),
			Status:     status,
			MerchantID: merchantID,
		})
		require.NoError(t, err, "Failed to create test coupon")
		out = append(out, c)
	}
	return out
}
