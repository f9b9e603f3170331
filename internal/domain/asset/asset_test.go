package asset

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAsset_ScheduleSLM(t *testing.T) {
	a, err := NewAsset(uuid.New(), "Delivery van", "vehicles", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		dec("100000"), dec("10000"), 3, MethodSLM, decimal.Zero)
	require.NoError(t, err)

	schedule := a.Schedule()
	require.Len(t, schedule, 3)
	assert.Equal(t, numbering.FiscalYear("2024-2025"), schedule[0].FiscalYear)
	assert.Equal(t, numbering.FiscalYear("2026-2027"), schedule[2].FiscalYear)
	assert.True(t, dec("30000").Equal(schedule[0].Depreciation))
	assert.True(t, dec("70000").Equal(schedule[0].ClosingValue))
	assert.True(t, dec("10000").Equal(schedule[2].ClosingValue), "ends at salvage")
}

func TestAsset_ScheduleSLMRoundingLandsOnSalvage(t *testing.T) {
	a, err := NewAsset(uuid.New(), "Laptop", "it", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		dec("1000"), dec("0"), 3, MethodSLM, decimal.Zero)
	require.NoError(t, err)

	schedule := a.Schedule()
	assert.Equal(t, numbering.FiscalYear("2024-2025"), schedule[0].FiscalYear)
	assert.True(t, dec("333.33").Equal(schedule[0].Depreciation))
	assert.True(t, dec("333.34").Equal(schedule[2].Depreciation))
	assert.True(t, schedule[2].ClosingValue.IsZero())
}

func TestAsset_ScheduleWDV(t *testing.T) {
	a, err := NewAsset(uuid.New(), "Lathe", "machinery", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		dec("100000"), dec("50000"), 5, MethodWDV, dec("25"))
	require.NoError(t, err)

	schedule := a.Schedule()
	assert.True(t, dec("25000").Equal(schedule[0].Depreciation))
	assert.True(t, dec("18750").Equal(schedule[1].Depreciation))
	assert.True(t, dec("56250").Equal(schedule[1].ClosingValue))
	assert.True(t, dec("6250").Equal(schedule[2].Depreciation), "clamped at salvage")
	assert.True(t, schedule[3].Depreciation.IsZero())
	assert.True(t, dec("50000").Equal(schedule[4].ClosingValue))

	assert.True(t, dec("100000").Equal(a.BookValueAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))))
	assert.True(t, dec("75000").Equal(a.BookValueAt(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))))
}

func TestNewAsset_Validation(t *testing.T) {
	when := time.Now()
	_, err := NewAsset(uuid.New(), "x", "", when, dec("100"), dec("200"), 3, MethodSLM, decimal.Zero)
	assert.ErrorContains(t, err, "salvage_value")
	_, err = NewAsset(uuid.New(), "x", "", when, dec("100"), dec("0"), 3, MethodWDV, decimal.Zero)
	assert.ErrorContains(t, err, "depreciation_rate")
	_, err = NewAsset(uuid.New(), "x", "", when, dec("100"), dec("0"), 0, MethodSLM, decimal.Zero)
	assert.ErrorContains(t, err, "useful_life")
	_, err = NewAsset(uuid.New(), "x", "", when, dec("100"), dec("0"), 3, "ddb", decimal.Zero)
	assert.ErrorContains(t, err, "depreciation_method")
}
