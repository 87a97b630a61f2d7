package repository

import (
	"time"

	"github.com/iliyamo/finance-flow/internal/model"
	"github.com/iliyamo/finance-flow/internal/money"
)

// Supported trend intervals.
const (
	IntervalDaily   = "daily"
	IntervalWeekly  = "weekly"
	IntervalMonthly = "monthly"
)

// Intervals lists the valid interval names.
var Intervals = []string{IntervalDaily, IntervalWeekly, IntervalMonthly}

// ValidInterval reports whether s names a supported interval.
func ValidInterval(s string) bool {
	for _, iv := range Intervals {
		if s == iv {
			return true
		}
	}
	return false
}

// DefaultLimit returns the number of buckets charted by default for an
// interval: 30 days, 12 weeks, 12 months.
func DefaultLimit(interval string) int {
	if interval == IntervalDaily {
		return 30
	}
	return 12
}

// TrendPoint is one calendar bucket of the trend rollup. Date is the bucket
// key (YYYY-MM-DD of the day, the week's Sunday, or the first of the
// month); amounts are 2dp decimal strings.
type TrendPoint struct {
	Date         string `json:"date"`
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	NetBalance   string `json:"net_balance"`
}

// ComputeTrends buckets transactions into calendar periods and returns
// exactly limit points ending at now, oldest first. Two passes: accumulate
// sums keyed by bucket, then enumerate the limit most recent bucket keys
// backward from now and zero-fill any period with no activity, so charts
// render an unbroken series.
func ComputeTrends(txs []model.Transaction, interval string, limit int, now time.Time) []TrendPoint {
	type sums struct{ income, expense int64 }
	buckets := make(map[string]*sums)

	for _, t := range txs {
		cents, err := money.Parse(t.Amount)
		if err != nil {
			continue // malformed row; excluded rather than poisoning the rollup
		}
		key := bucketKey(t.Date, interval)
		b := buckets[key]
		if b == nil {
			b = &sums{}
			buckets[key] = b
		}
		if t.Type == model.TypeIncome {
			b.income += cents
		} else {
			b.expense += cents
		}
	}

	out := make([]TrendPoint, 0, limit)
	for i := limit - 1; i >= 0; i-- {
		key := periodKey(now, interval, i)
		p := TrendPoint{
			Date:         key,
			TotalIncome:  money.Format(0),
			TotalExpense: money.Format(0),
			NetBalance:   money.Format(0),
		}
		if b, ok := buckets[key]; ok {
			p.TotalIncome = money.Format(b.income)
			p.TotalExpense = money.Format(b.expense)
			p.NetBalance = money.Format(b.income - b.expense)
		}
		out = append(out, p)
	}
	return out
}

// bucketKey maps a transaction date onto its calendar bucket: the UTC day,
// the Sunday starting its week, or the first of its month. Keying weekly
// buckets by week start keeps transactions from different weeks apart even
// when they are fewer than seven days from each other.
func bucketKey(d time.Time, interval string) string {
	d = d.UTC()
	switch interval {
	case IntervalWeekly:
		start := d.AddDate(0, 0, -int(d.Weekday()))
		return start.Format("2006-01-02")
	case IntervalMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	default:
		return d.Format("2006-01-02")
	}
}

// periodKey returns the bucket key back steps before the bucket containing
// now.
func periodKey(now time.Time, interval string, back int) string {
	now = now.UTC()
	switch interval {
	case IntervalWeekly:
		return bucketKey(now.AddDate(0, 0, -7*back), interval)
	case IntervalMonthly:
		return time.Date(now.Year(), now.Month()-time.Month(back), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	default:
		return bucketKey(now.AddDate(0, 0, -back), interval)
	}
}
