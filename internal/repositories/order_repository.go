package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

// OrderRepository reads and writes order aggregates. All writes that touch an
// order together with its items run inside a single transaction: either the
// header, every item and every optional measurement/style row is persisted,
// or none of them is.
type OrderRepository struct {
	DB store.Store
}

func NewOrderRepository(db store.Store) *OrderRepository {
	return &OrderRepository{DB: db}
}

const orderColumns = `id, receipt_number, order_date::text, delivery_date::text,
	       customer_id, total_price, advance_pay, due_amount, notes`

// itemColumns flattens each item with its left-joined measurement and style
// columns. Left joins keep items visible when either sub-record is absent.
const itemQuery = `
	SELECT oi.id, oi.category, oi.quantity, oi.image_reference,
	       om.length, om.chest, om.waist, om.shoulder, om.sleeve,
	       om.hip, om.neck, om.thigh, om.cuff, om.seat,
	       so.button, so.collar_style, so.bottom_style, so.pleat_style
	FROM order_items oi
	LEFT JOIN order_measurements om ON oi.id = om.order_item_id
	LEFT JOIN order_style_options so ON oi.id = so.order_item_id
	WHERE oi.order_id = $1
	ORDER BY oi.id`

// List returns every order aggregate, newest first, with customer display
// fields denormalized in. Items are fetched per order.
func (r *OrderRepository) List(ctx context.Context) ([]*models.OrderWithItems, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT o.id, o.receipt_number, o.order_date::text, o.delivery_date::text,
		        o.customer_id, o.total_price, o.advance_pay, o.due_amount, o.notes,
		        c.name AS customer_name, c.phone AS customer_phone
		 FROM orders o
		 JOIN customers c ON o.customer_id = c.id
		 ORDER BY o.order_date DESC, o.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.OrderWithItems
	for rows.Next() {
		var o models.OrderWithItems
		err := rows.Scan(&o.ID, &o.ReceiptNumber, &o.OrderDate, &o.DeliveryDate,
			&o.CustomerID, &o.TotalPrice, &o.AdvancePay, &o.DueAmount, &o.Notes,
			&o.CustomerName, &o.CustomerPhone)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, o := range orders {
		items, err := r.listItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

// Get returns one order aggregate. A missing id surfaces as pgx.ErrNoRows.
func (r *OrderRepository) Get(ctx context.Context, id int) (*models.OrderWithItems, error) {
	header, err := r.getHeader(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.OrderWithItems{Order: *header, Items: items}, nil
}

// Create persists a new order aggregate in one transaction and returns the
// freshly re-read header. Quantity defaults to 1 and money fields to 0.
func (r *OrderRepository) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var orderID int
	err = tx.QueryRow(ctx,
		`INSERT INTO orders(receipt_number, order_date, delivery_date, customer_id,
		                    total_price, advance_pay, due_amount, notes)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		req.ReceiptNumber, req.OrderDate, req.DeliveryDate, req.CustomerID,
		moneyOrZero(req.TotalPrice), moneyOrZero(req.AdvancePay), moneyOrZero(req.DueAmount),
		req.Notes,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	if err := insertItems(ctx, tx, orderID, req.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.getHeader(ctx, orderID)
}

// Replace updates the order header unconditionally and, only when a non-empty
// items list is supplied, discards the prior item set (children cascade away
// with it) and installs the new one inside the same transaction. It returns
// the re-read header together with the post-write item set.
func (r *OrderRepository) Replace(ctx context.Context, id int, req *models.UpdateOrderRequest) (*models.OrderWithItems, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE orders
		 SET receipt_number=$1, order_date=$2, delivery_date=$3,
		     total_price=$4, advance_pay=$5, due_amount=$6, notes=$7
		 WHERE id=$8`,
		req.ReceiptNumber, req.OrderDate, req.DeliveryDate,
		moneyOrZero(req.TotalPrice), moneyOrZero(req.AdvancePay), moneyOrZero(req.DueAmount),
		req.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	// Item replacement is opt-in per call: an absent or empty list leaves the
	// prior item set untouched.
	if len(req.Items) > 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, id); err != nil {
			return nil, fmt.Errorf("failed to delete prior items: %w", err)
		}
		if err := insertItems(ctx, tx, id, req.Items); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.Get(ctx, id)
}

// Delete removes an order; items and their children go with it via the
// schema's cascade constraints.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	return err
}

func (r *OrderRepository) getHeader(ctx context.Context, id int) (*models.Order, error) {
	var o models.Order
	err := r.DB.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.ReceiptNumber, &o.OrderDate, &o.DeliveryDate,
		&o.CustomerID, &o.TotalPrice, &o.AdvancePay, &o.DueAmount, &o.Notes)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID int) ([]models.OrderItemDetail, error) {
	rows, err := r.DB.Query(ctx, itemQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItemDetail{}
	for rows.Next() {
		var it models.OrderItemDetail
		err := rows.Scan(&it.ID, &it.Category, &it.Quantity, &it.ImageReference,
			&it.Length, &it.Chest, &it.Waist, &it.Shoulder, &it.Sleeve,
			&it.Hip, &it.Neck, &it.Thigh, &it.Cuff, &it.Seat,
			&it.Button, &it.CollarStyle, &it.BottomStyle, &it.PleatStyle)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// insertItems writes the supplied items in input order, each child row bound
// to the generated id of its parent. Shared by Create and Replace.
func insertItems(ctx context.Context, tx pgx.Tx, orderID int, items []models.OrderItemInput) error {
	for _, item := range items {
		qty := 1
		if item.Quantity != nil {
			qty = *item.Quantity
		}

		var itemID int
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items(order_id, category, quantity, image_reference)
			 VALUES($1, $2, $3, $4)
			 RETURNING id`,
			orderID, item.Category, qty, item.ImageReference,
		).Scan(&itemID)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		if m := item.Measurements; m != nil {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_measurements(order_item_id, length, chest, waist, shoulder,
				                                sleeve, hip, neck, thigh, cuff, seat)
				 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				itemID, m.Length, m.Chest, m.Waist, m.Shoulder,
				m.Sleeve, m.Hip, m.Neck, m.Thigh, m.Cuff, m.Seat)
			if err != nil {
				return fmt.Errorf("failed to insert measurements: %w", err)
			}
		}

		if so := item.StyleOptions; so != nil {
			_, err := tx.Exec(ctx,
				`INSERT INTO order_style_options(order_item_id, button, collar_style, bottom_style, pleat_style)
				 VALUES($1, $2, $3, $4, $5)`,
				itemID, so.Button, so.CollarStyle, so.BottomStyle, so.PleatStyle)
			if err != nil {
				return fmt.Errorf("failed to insert style options: %w", err)
			}
		}
	}
	return nil
}

func moneyOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
