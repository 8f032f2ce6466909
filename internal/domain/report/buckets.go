package report

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// StartOfDay truncates t to its UTC midnight.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth truncates t to the first of its UTC month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DailyRange returns the window covering the last days UTC days up to and
// including today.
func DailyRange(now time.Time, days int) (from, to time.Time) {
	to = StartOfDay(now).AddDate(0, 0, 1)
	return to.AddDate(0, 0, -days), to
}

// MonthlyRange returns the window covering the last months UTC months up
// to and including the current one.
func MonthlyRange(now time.Time, months int) (from, to time.Time) {
	to = StartOfMonth(now).AddDate(0, 1, 0)
	return to.AddDate(0, -months, 0), to
}

// BucketDaily groups points into one period per day in [from, to), oldest
// first. Days without sales are present with zero values.
func BucketDaily(points []SalePoint, from, to time.Time) []SalesPeriod {
	var keys []string
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(dayLayout))
	}
	return bucket(points, keys, dayLayout)
}

// BucketMonthly groups points into one period per month in [from, to).
func BucketMonthly(points []SalePoint, from, to time.Time) []SalesPeriod {
	var keys []string
	for m := from; m.Before(to); m = m.AddDate(0, 1, 0) {
		keys = append(keys, m.Format(monthLayout))
	}
	return bucket(points, keys, monthLayout)
}

func bucket(points []SalePoint, keys []string, layout string) []SalesPeriod {
	index := make(map[string]int, len(keys))
	periods := make([]SalesPeriod, len(keys))
	for i, k := range keys {
		index[k] = i
		periods[i] = SalesPeriod{Period: k, TotalSales: decimal.Zero, AverageSale: decimal.Zero}
	}

	for _, p := range points {
		i, ok := index[p.InvoiceDate.UTC().Format(layout)]
		if !ok {
			continue
		}
		periods[i].TotalSales = periods[i].TotalSales.Add(p.TotalAmount)
		periods[i].TotalInvoices++
	}

	for i := range periods {
		if periods[i].TotalInvoices > 0 {
			periods[i].AverageSale = periods[i].TotalSales.
				Div(decimal.NewFromInt(periods[i].TotalInvoices)).
				Round(2)
		}
	}
	return periods
}
