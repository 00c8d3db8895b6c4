package domain

import "github.com/shopspring/decimal"

// ExpiringSoonDays is the aggregate threshold for the expiringSoon count.
// Admin views may highlight tighter windows, but that is display emphasis,
// not a distinct state.
const ExpiringSoonDays = 7

// Stats are fleet-wide rental counts and revenue, always re-derived from the
// current rental collection so they can never drift from the underlying data.
// TotalRevenue includes cancelled rentals: their historical payments were
// still received, and cancellation never reduces revenue.
type Stats struct {
	Total        int             `json:"total"`
	Pending      int             `json:"pending"`
	Active       int             `json:"active"`
	PaymentDue   int             `json:"paymentDue"`
	ExpiringSoon int             `json:"expiringSoon"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}
