package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/finance-flow/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func tx(amount, typ string, date time.Time) model.Transaction {
	return model.Transaction{Amount: amount, Type: typ, Date: date}
}

func TestComputeTrendsDaily(t *testing.T) {
	now := day(2025, time.March, 10)
	txs := []model.Transaction{
		tx("100.00", model.TypeIncome, day(2025, time.March, 10)),
		tx("25.50", model.TypeExpense, day(2025, time.March, 10)),
		tx("10.00", model.TypeExpense, day(2025, time.March, 8)),
	}

	points := ComputeTrends(txs, IntervalDaily, 7, now)
	require.Len(t, points, 7)

	// Exactly seven consecutive days ending at now, oldest first.
	assert.Equal(t, "2025-03-04", points[0].Date)
	assert.Equal(t, "2025-03-10", points[6].Date)
	for i := 1; i < len(points); i++ {
		prev, _ := time.Parse("2006-01-02", points[i-1].Date)
		cur, _ := time.Parse("2006-01-02", points[i].Date)
		assert.Equal(t, prev.AddDate(0, 0, 1), cur)
	}

	last := points[6]
	assert.Equal(t, "100.00", last.TotalIncome)
	assert.Equal(t, "25.50", last.TotalExpense)
	assert.Equal(t, "74.50", last.NetBalance)

	mar8 := points[4]
	assert.Equal(t, "0.00", mar8.TotalIncome)
	assert.Equal(t, "10.00", mar8.TotalExpense)
	assert.Equal(t, "-10.00", mar8.NetBalance)

	// Days without activity are explicit zero rows.
	assert.Equal(t, "0.00", points[0].TotalIncome)
	assert.Equal(t, "0.00", points[0].TotalExpense)
	assert.Equal(t, "0.00", points[0].NetBalance)
}

func TestComputeTrendsWeeklyGroupsBySundayStart(t *testing.T) {
	// 2025-03-10 is a Monday; its week starts Sunday 2025-03-09.
	now := day(2025, time.March, 10)
	txs := []model.Transaction{
		tx("50.00", model.TypeExpense, day(2025, time.March, 9)),  // Sunday, same week
		tx("20.00", model.TypeExpense, day(2025, time.March, 10)), // Monday, same week
		tx("30.00", model.TypeExpense, day(2025, time.March, 8)),  // Saturday, previous week
	}

	points := ComputeTrends(txs, IntervalWeekly, 2, now)
	require.Len(t, points, 2)

	assert.Equal(t, "2025-03-02", points[0].Date)
	assert.Equal(t, "30.00", points[0].TotalExpense)

	assert.Equal(t, "2025-03-09", points[1].Date)
	assert.Equal(t, "70.00", points[1].TotalExpense)
}

func TestComputeTrendsMonthly(t *testing.T) {
	now := day(2025, time.March, 15)
	txs := []model.Transaction{
		tx("1000.00", model.TypeIncome, day(2025, time.March, 1)),
		tx("200.00", model.TypeExpense, day(2025, time.March, 31)),
		tx("500.00", model.TypeIncome, day(2025, time.January, 20)),
	}

	points := ComputeTrends(txs, IntervalMonthly, 3, now)
	require.Len(t, points, 3)

	assert.Equal(t, "2025-01-01", points[0].Date)
	assert.Equal(t, "500.00", points[0].TotalIncome)

	assert.Equal(t, "2025-02-01", points[1].Date)
	assert.Equal(t, "0.00", points[1].TotalIncome)
	assert.Equal(t, "0.00", points[1].TotalExpense)

	assert.Equal(t, "2025-03-01", points[2].Date)
	assert.Equal(t, "1000.00", points[2].TotalIncome)
	assert.Equal(t, "200.00", points[2].TotalExpense)
	assert.Equal(t, "800.00", points[2].NetBalance)
}

func TestComputeTrendsMonthlyCrossesYearBoundary(t *testing.T) {
	now := day(2025, time.January, 10)
	txs := []model.Transaction{
		tx("75.00", model.TypeExpense, day(2024, time.December, 25)),
	}

	points := ComputeTrends(txs, IntervalMonthly, 2, now)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-12-01", points[0].Date)
	assert.Equal(t, "75.00", points[0].TotalExpense)
	assert.Equal(t, "2025-01-01", points[1].Date)
}

func TestComputeTrendsIgnoresOutOfRangeAndMalformed(t *testing.T) {
	now := day(2025, time.March, 10)
	txs := []model.Transaction{
		tx("100.00", model.TypeIncome, day(2020, time.January, 1)), // far outside window
		tx("garbage", model.TypeIncome, day(2025, time.March, 10)),
	}

	points := ComputeTrends(txs, IntervalDaily, 5, now)
	require.Len(t, points, 5)
	for _, p := range points {
		assert.Equal(t, "0.00", p.TotalIncome)
		assert.Equal(t, "0.00", p.TotalExpense)
	}
}

func TestDefaultLimit(t *testing.T) {
	assert.Equal(t, 30, DefaultLimit(IntervalDaily))
	assert.Equal(t, 12, DefaultLimit(IntervalWeekly))
	assert.Equal(t, 12, DefaultLimit(IntervalMonthly))
}

func TestValidInterval(t *testing.T) {
	assert.True(t, ValidInterval("daily"))
	assert.True(t, ValidInterval("weekly"))
	assert.True(t, ValidInterval("monthly"))
	assert.False(t, ValidInterval("hourly"))
	assert.False(t, ValidInterval(""))
}
