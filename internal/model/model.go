// Package model holds the order record read from the input file and the
// result of aggregating a month of them.
package model

// NotAvailable is reported in every extremal field of a Result when there was
// no order to select from. It is an ordinary string, so a date or user that is
// literally "N/A" prints the same way; OrderCount == 0 tells the two apart.
const NotAvailable = "N/A"

// Order represents one input record. OrderID comes from the key of the
// enclosing JSON object, not from the record body.
type Order struct {
	OrderID  string  `json:"-"`
	Date     string  `json:"date"`
	UserID   UserID  `json:"user_id"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Result is the outcome of one aggregation run.
type Result struct {
	MostExpensiveOrder string  `json:"most_expensive_order"`
	OrderWithMostItems string  `json:"order_with_most_items"`
	BusiestDate        string  `json:"busiest_date"`
	MostActiveUser     string  `json:"most_active_user"`
	TopSpender         string  `json:"top_spender"`
	AverageOrderPrice  float64 `json:"average_order_price"`
	AverageItemPrice   float64 `json:"average_item_price"`

	OrderCount    int64   `json:"order_count"`
	TotalPrice    float64 `json:"total_price"`
	TotalQuantity float64 `json:"total_quantity"`
}

// EmptyResult is what an input without orders aggregates to.
func EmptyResult() Result {
	return Result{
		MostExpensiveOrder: NotAvailable,
		OrderWithMostItems: NotAvailable,
		BusiestDate:        NotAvailable,
		MostActiveUser:     NotAvailable,
		TopSpender:         NotAvailable,
	}
}
