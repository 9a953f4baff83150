package models

// RevenueStats is the aggregate money summary over all orders.
type RevenueStats struct {
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalAdvance float64 `json:"total_advance"`
	TotalDue     float64 `json:"total_due"`
}
