package ast

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestDateString(t *testing.T) {
	t.Run("ValidDate", func(t *testing.T) {
		date, err := ParseDate("2024-12-17")
		assert.NoError(t, err)
		assert.Equal(t, "2024-12-17", date.String())
	})

	t.Run("ZeroDate", func(t *testing.T) {
		var date Date
		assert.Equal(t, "", date.String())
		assert.True(t, date.IsZero())
	})

	t.Run("InvalidDate", func(t *testing.T) {
		_, err := ParseDate("not-a-date")
		assert.Error(t, err)
	})

	t.Run("NewDateRoundTrip", func(t *testing.T) {
		tm := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		date := NewDate(tm)
		assert.Equal(t, "2024-02-29", date.String())
	})
}

func TestAccountNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		acc, err := NewAccount("Assets:US:BofA:Checking")
		assert.NoError(t, err)
		assert.Equal(t, Account("Assets:US:BofA:Checking"), acc)
		assert.Equal(t, Assets, acc.Kind())
	})

	t.Run("UnknownRoot", func(t *testing.T) {
		_, err := NewAccount("Bogus:Checking")
		assert.Error(t, err)
	})

	t.Run("SingleSegment", func(t *testing.T) {
		_, err := NewAccount("Assets")
		assert.Error(t, err)
	})

	t.Run("InvalidSegment", func(t *testing.T) {
		_, err := NewAccount("Assets:checking")
		assert.Error(t, err)
	})
}

func TestAccountParent(t *testing.T) {
	acc := Account("Assets:US:BofA:Checking")
	parent, ok := acc.Parent()
	assert.True(t, ok)
	assert.Equal(t, Account("Assets:US:BofA"), parent)

	root := Account("Assets")
	_, ok = root.Parent()
	assert.False(t, ok)
}

func TestAmountString(t *testing.T) {
	var nilAmount *Amount
	assert.Equal(t, "", nilAmount.String())

	amt := &Amount{Value: "10.00", Currency: "USD"}
	assert.Equal(t, "10.00 USD", amt.String())
}

func TestRoundingModeParse(t *testing.T) {
	m, ok := ParseRoundingMode("ROUND_UP")
	assert.True(t, ok)
	assert.Equal(t, RoundUp, m)
	assert.Equal(t, "RoundUp", m.String())

	_, ok = ParseRoundingMode("nonsense")
	assert.False(t, ok)
}

func TestMetadataValueString(t *testing.T) {
	s := "hello"
	v := &MetadataValue{StringValue: &s}
	assert.Equal(t, "hello", v.String())

	tag := Tag("trip")
	v = &MetadataValue{TagVal: &tag}
	assert.Equal(t, "#trip", v.String())

	b := true
	v = &MetadataValue{BoolValue: &b}
	assert.Equal(t, "TRUE", v.String())

	var nilValue *MetadataValue
	assert.Equal(t, "", nilValue.String())
}

func TestCostIsEmpty(t *testing.T) {
	empty := &Cost{}
	assert.True(t, empty.IsEmpty())

	amt := &Amount{Value: "1", Currency: "USD"}
	withAmount := &Cost{Amount: amt}
	assert.False(t, withAmount.IsEmpty())
}
