package options

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
)

func TestResolveDefaults(t *testing.T) {
	tree := &ast.AST{}
	opts, warnings := Resolve(tree)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, "CNY", opts.OperatingCurrency)
	assert.Equal(t, ast.RoundDown, opts.DefaultRounding)
	assert.Equal(t, 2, opts.DefaultBalanceTolerancePrecision)
}

func TestResolveLastValueWins(t *testing.T) {
	tree := &ast.AST{Options: []*ast.Option{
		{Name: "operating_currency", Value: "USD"},
		{Name: "operating_currency", Value: "CNY"},
	}}
	opts, _ := Resolve(tree)
	assert.Equal(t, "CNY", opts.OperatingCurrency)
}

func TestResolveTimezoneValid(t *testing.T) {
	tree := &ast.AST{Options: []*ast.Option{
		{Name: "timezone", Value: "America/New_York"},
	}}
	opts, warnings := Resolve(tree)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, "America/New_York", opts.Timezone.String())
}

func TestResolveTimezoneInvalidFallsBackToUTCWithWarning(t *testing.T) {
	tree := &ast.AST{Options: []*ast.Option{
		{Name: "timezone", Value: "Not/A_Zone"},
	}}
	opts, warnings := Resolve(tree)
	assert.Equal(t, 1, len(warnings))
	assert.Equal(t, "InvalidTimezoneFallback", string(warnings[0].Kind()))
	assert.True(t, warnings[0].Warning())
	assert.Equal(t, time.UTC, opts.Timezone)
}

func TestResolveRoundingAndPrecision(t *testing.T) {
	tree := &ast.AST{Options: []*ast.Option{
		{Name: "default_rounding", Value: "ROUND_UP"},
		{Name: "default_commodity_precision", Value: "4"},
		{Name: "default_balance_tolerance_precision", Value: "3"},
	}}
	opts, warnings := Resolve(tree)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, ast.RoundUp, opts.DefaultRounding)
	assert.Equal(t, 4, opts.DefaultCommodityPrecision)
	assert.Equal(t, 3, opts.DefaultBalanceTolerancePrecision)
}

func TestToleranceIsPowerOfTenPrecision(t *testing.T) {
	opts := Default()
	opts.DefaultBalanceTolerancePrecision = 2
	assert.True(t, opts.Tolerance().Equal(decimal.RequireFromString("0.01")))
}

func TestContextRoundTrip(t *testing.T) {
	opts := Default()
	opts.Title = "My Ledger"
	ctx := WithContext(context.Background(), opts)
	assert.Equal(t, "My Ledger", FromContext(ctx).Title)
}

func TestFromContextWithoutValueReturnsDefault(t *testing.T) {
	opts := FromContext(context.Background())
	assert.Equal(t, "CNY", opts.OperatingCurrency)
}
