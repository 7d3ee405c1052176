package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestPriceLedger_CreateValidation(t *testing.T) {
	ledger := NewPriceLedger(newTestDB(t))
	ctx := context.Background()

	cases := []struct {
		name   string
		in     PriceInput
		fields []string
	}{
		{"zero gold", PriceInput{GoldPrice: dec("0"), SilverPrice: dec("75.10")}, []string{"gold_price"}},
		{"negative silver", PriceInput{GoldPrice: dec("6100"), SilverPrice: dec("-1")}, []string{"silver_price"}},
		{"both invalid", PriceInput{GoldPrice: dec("0"), SilverPrice: dec("0")}, []string{"gold_price", "silver_price"}},
		{"both missing", PriceInput{}, []string{"gold_price", "silver_price"}},
		{"too many decimals", PriceInput{GoldPrice: dec("6100.123"), SilverPrice: dec("75")}, []string{"gold_price"}},
		{"too many digits", PriceInput{GoldPrice: dec("100000000"), SilverPrice: dec("75")}, []string{"gold_price"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Create(ctx, tc.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}

	_, err := ledger.Create(ctx, PriceInput{GoldPrice: dec("0"), SilverPrice: dec("1")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Gold price must be greater than zero."}, verr.Fields["gold_price"])

	_, ok, err := ledger.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "rejected quotations are never stored")
}

func TestPriceLedger_Current(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPriceLedger(db)
	ctx := context.Background()

	price, ok, err := ledger.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, price)

	first, err := ledger.Create(ctx, PriceInput{GoldPrice: dec("6100.50"), SilverPrice: dec("75.25")})
	require.NoError(t, err)

	current, ok, err := ledger.Current(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, current.ID)
	assert.Equal(t, "6100.50", current.GoldPrice.StringFixed(2))
	assert.Equal(t, "75.25", current.SilverPrice.StringFixed(2))

	second, err := ledger.Create(ctx, PriceInput{GoldPrice: dec("6200"), SilverPrice: dec("76")})
	require.NoError(t, err)
	current, _, err = ledger.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	// a back-dated entry does not become current
	_, err = ledger.Create(ctx, PriceInput{GoldPrice: dec("1"), SilverPrice: dec("1")})
	require.NoError(t, err)
	require.NoError(t, db.Exec("UPDATE prices SET effective_date = ? WHERE gold_price = 1", time.Now().Add(-48*time.Hour)).Error)
	current, _, err = ledger.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	page, err := ledger.List(ctx, PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Results, 3)
	assert.Equal(t, second.ID, page.Results[0].ID)
	assert.Equal(t, first.ID, page.Results[1].ID)
}

func TestPriceLedger_UpdateAndDelete(t *testing.T) {
	ledger := NewPriceLedger(newTestDB(t))
	ctx := context.Background()

	price, err := ledger.Create(ctx, PriceInput{GoldPrice: dec("6100"), SilverPrice: dec("75")})
	require.NoError(t, err)

	updated, err := ledger.Update(ctx, price.ID, PriceInput{SilverPrice: dec("80.5")})
	require.NoError(t, err)
	assert.Equal(t, "6100.00", updated.GoldPrice.StringFixed(2))
	assert.Equal(t, "80.50", updated.SilverPrice.StringFixed(2))
	assert.True(t, price.EffectiveDate.Equal(updated.EffectiveDate), "effective date is kept")

	_, err = ledger.Update(ctx, price.ID, PriceInput{GoldPrice: dec("-5")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "gold_price")

	_, err = ledger.Update(ctx, 999, PriceInput{GoldPrice: dec("5")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ledger.Delete(ctx, price.ID))
	_, err = ledger.Get(ctx, price.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, ledger.Delete(ctx, price.ID), ErrNotFound)
}
