package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"tailor-backend/internal/models"
	"tailor-backend/internal/repositories"
)

// ReceiptService renders a printable PDF receipt for one order.
type ReceiptService struct {
	Orders    *repositories.OrderRepository
	Customers *repositories.CustomerRepository
}

func NewReceiptService(orders *repositories.OrderRepository, customers *repositories.CustomerRepository) *ReceiptService {
	return &ReceiptService{Orders: orders, Customers: customers}
}

// GenerateOrderReceipt builds the receipt PDF for the given order id.
// A missing order surfaces as pgx.ErrNoRows from the reader.
func (s *ReceiptService) GenerateOrderReceipt(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	customer, err := s.Customers.Get(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Tailor Software - Order Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Order Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Order Information", "1", 1, "L", true, 0, "")

	receipt := "-"
	if order.ReceiptNumber != nil {
		receipt = *order.ReceiptNumber
	}
	delivery := "-"
	if order.DeliveryDate != nil {
		delivery = *order.DeliveryDate
	}

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Receipt No: %s", receipt), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Order Date: %s", order.OrderDate), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Delivery Date: %s", delivery), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "", "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Items", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Category", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(110, 7, "Measurements", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		measurements := formatMeasurements(item)
		if len(measurements) > 70 {
			measurements = measurements[:67] + "..."
		}
		pdf.CellFormat(60, 6, item.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(110, 6, measurements, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	// Payment Summary
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Payment Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Total: Rs. %.2f", order.TotalPrice), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Advance: Rs. %.2f", order.AdvancePay), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Due: Rs. %.2f", order.DueAmount), "1", 1, "C", false, 0, "")

	if order.Notes != nil && *order.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(190, 5, fmt.Sprintf("Notes: %s", *order.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func formatMeasurements(item models.OrderItemDetail) string {
	fields := []struct {
		label string
		value *float64
	}{
		{"L", item.Length}, {"Ch", item.Chest}, {"W", item.Waist},
		{"Sh", item.Shoulder}, {"Sl", item.Sleeve}, {"Hip", item.Hip},
		{"N", item.Neck}, {"Th", item.Thigh}, {"Cf", item.Cuff}, {"St", item.Seat},
	}

	out := ""
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if out != "" {
			out += "  "
		}
		out += fmt.Sprintf("%s:%.1f", f.label, *f.value)
	}
	if out == "" {
		out = "-"
	}
	return out
}
