// Package reports provides read-only revenue aggregation over paid
// invoices.
package reports

import (
	"time"

	"bricostore/internal/core/types"
)

// DailyRevenue is the sum of totals of paid invoices billed on a calendar
// day. A day with no billed invoices is a valid result with a zero total.
type DailyRevenue struct {
	Date         string      `json:"date"`
	Total        types.Money `json:"total"`
	InvoiceCount int         `json:"invoiceCount"`
}

// DateLayout is the wire format for report dates.
const DateLayout = "2006-01-02"

// DayBounds returns the half-open interval [start, end) covering the
// calendar day of t in its location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
