package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resale-ledger/internal/app"
	"resale-ledger/internal/config"
)

func TestOpenStore_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "ledger.db")
	cfg.Store.BcryptCost = 4

	ctx := context.Background()
	store, closeStore, err := OpenStore(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeStore()

	svc := NewAppService(cfg, store, nil, zap.NewNop())
	seller, err := svc.RegisterSeller(ctx, app.RegisterSellerRequest{
		Email: "a@example.com", Password: "correct-horse", StoreName: "A", StoreSlug: "shop-a",
	})
	require.NoError(t, err)

	loaded, err := svc.LoadDefaultSeller(ctx)
	require.NoError(t, err)
	assert.Equal(t, seller.ID, loaded.ID)

	_, err = svc.ProposeSale(ctx, seller.ID, "sold a lamp")
	assert.ErrorIs(t, err, app.ErrIntakeUnavailable, "no API key configured")
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "mongo"
	_, _, err := OpenStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNewIntake(t *testing.T) {
	cfg := config.Default()
	assert.Nil(t, NewIntake(cfg, zap.NewNop()))
	cfg.OpenAI.APIKey = "sk-test"
	assert.NotNil(t, NewIntake(cfg, zap.NewNop()))
}
