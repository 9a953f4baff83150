package models

// Order is the persisted order header. Dates travel as YYYY-MM-DD strings to
// avoid timezone drift between the store and the frontend.
type Order struct {
	ID            int     `json:"id"`
	ReceiptNumber *string `json:"receipt_number"`
	OrderDate     string  `json:"order_date"`
	DeliveryDate  *string `json:"delivery_date"`
	CustomerID    int     `json:"customer_id"`
	TotalPrice    float64 `json:"total_price"`
	AdvancePay    float64 `json:"advance_pay"`
	DueAmount     float64 `json:"due_amount"`
	Notes         *string `json:"notes"`
}

// OrderWithItems is the full order aggregate returned by reads. The customer
// display fields are only populated by the list query.
type OrderWithItems struct {
	Order
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	Items         []OrderItemDetail `json:"items"`
}

// OrderItemDetail is one garment line with its measurement and style columns
// flattened in. Fields are nil when the item has no such sub-record.
type OrderItemDetail struct {
	ID             int     `json:"id"`
	Category       string  `json:"category"`
	Quantity       int     `json:"quantity"`
	ImageReference *string `json:"image_reference"`

	Length   *float64 `json:"length"`
	Chest    *float64 `json:"chest"`
	Waist    *float64 `json:"waist"`
	Shoulder *float64 `json:"shoulder"`
	Sleeve   *float64 `json:"sleeve"`
	Hip      *float64 `json:"hip"`
	Neck     *float64 `json:"neck"`
	Thigh    *float64 `json:"thigh"`
	Cuff     *float64 `json:"cuff"`
	Seat     *float64 `json:"seat"`

	Button      *string `json:"button"`
	CollarStyle *string `json:"collar_style"`
	BottomStyle *string `json:"bottom_style"`
	PleatStyle  *string `json:"pleat_style"`
}

// MeasurementsInput carries the optional per-item measurement payload.
// A nil payload means no measurement row is written for the item.
type MeasurementsInput struct {
	Length   *float64 `json:"length"`
	Chest    *float64 `json:"chest"`
	Waist    *float64 `json:"waist"`
	Shoulder *float64 `json:"shoulder"`
	Sleeve   *float64 `json:"sleeve"`
	Hip      *float64 `json:"hip"`
	Neck     *float64 `json:"neck"`
	Thigh    *float64 `json:"thigh"`
	Cuff     *float64 `json:"cuff"`
	Seat     *float64 `json:"seat"`
}

// StyleOptionsInput carries the optional per-item style payload.
type StyleOptionsInput struct {
	Button      *string `json:"button"`
	CollarStyle *string `json:"collarStyle"`
	BottomStyle *string `json:"bottomStyle"`
	PleatStyle  *string `json:"pleatStyle"`
}

// OrderItemInput is one garment line as supplied by the caller. Quantity
// defaults to 1 when omitted.
type OrderItemInput struct {
	Category       string             `json:"category"`
	Quantity       *int               `json:"quantity"`
	ImageReference *string            `json:"image_reference"`
	Measurements   *MeasurementsInput `json:"measurements"`
	StyleOptions   *StyleOptionsInput `json:"styleOptions"`
}

// CreateOrderRequest is the request body for creating an order aggregate.
// Money fields default to 0 when omitted.
type CreateOrderRequest struct {
	ReceiptNumber *string          `json:"receipt_number"`
	OrderDate     string           `json:"order_date"`
	DeliveryDate  *string          `json:"delivery_date"`
	CustomerID    int              `json:"customer_id"`
	TotalPrice    *float64         `json:"total_price"`
	AdvancePay    *float64         `json:"advance_pay"`
	DueAmount     *float64         `json:"due_amount"`
	Notes         *string          `json:"notes"`
	Items         []OrderItemInput `json:"items"`
}

// UpdateOrderRequest is the request body for replacing an order. The header
// fields are always written; the prior item set is replaced only when Items
// is non-empty.
type UpdateOrderRequest struct {
	ReceiptNumber *string          `json:"receipt_number"`
	OrderDate     string           `json:"order_date"`
	DeliveryDate  *string          `json:"delivery_date"`
	TotalPrice    *float64         `json:"total_price"`
	AdvancePay    *float64         `json:"advance_pay"`
	DueAmount     *float64         `json:"due_amount"`
	Notes         *string          `json:"notes"`
	Items         []OrderItemInput `json:"items"`
}
