package models

type Customer struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Phone             string  `json:"phone"`
	Address           *string `json:"address"`
	OrderDeliveryDate *string `json:"order_delivery_date"`
	DueAmount         float64 `json:"due_amount"`
}

// CustomerRequest is the request body for creating or updating a customer.
type CustomerRequest struct {
	Name              string   `json:"name"`
	Phone             string   `json:"phone"`
	Address           *string  `json:"address"`
	OrderDeliveryDate *string  `json:"order_delivery_date"`
	DueAmount         *float64 `json:"due_amount"`
}
