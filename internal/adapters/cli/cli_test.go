package cli

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-ledger/internal/core"
)

func TestParseSell(t *testing.T) {
	req, err := parseSell([]string{"4", "eBay", "$19.99"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), req.ItemID)
	assert.Equal(t, core.PlatformEbay, req.Platform)
	assert.True(t, req.SalePrice.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, 1, req.QuantitySold)
	assert.Empty(t, req.SaleDate)

	req, err = parseSell([]string{"4", "mercari", "10", "3", "2026-05-01"})
	require.NoError(t, err)
	assert.Equal(t, 3, req.QuantitySold)
	assert.Equal(t, "2026-05-01", req.SaleDate)

	_, err = parseSell([]string{"x", "ebay", "10"})
	assert.Error(t, err)
	_, err = parseSell([]string{"4", "ebay", "ten"})
	assert.Error(t, err)
	_, err = parseSell([]string{"4", "ebay", "10", "two"})
	assert.Error(t, err)
}
