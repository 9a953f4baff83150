// Package memstore is an in-memory store.Store used by tests. It understands
// the statements the repositories issue against the five core tables and
// models the schema's constraints: generated ids, the orders->customers
// foreign key, and cascade deletion of items and their children.
//
// Transactions stage their writes on a copy of the dataset; Commit publishes
// the copy and Rollback discards it, so failed writes leave no partial state.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type customerRow struct {
	id           int
	name, phone  string
	address      *string
	deliveryDate *string
	dueAmount    float64
}

type orderRow struct {
	id            int
	receiptNumber *string
	orderDate     string
	deliveryDate  *string
	customerID    int
	totalPrice    float64
	advancePay    float64
	dueAmount     float64
	notes         *string
}

type itemRow struct {
	id             int
	orderID        int
	category       string
	quantity       int
	imageReference *string
}

type measurementRow struct {
	id     int
	itemID int
	// length, chest, waist, shoulder, sleeve, hip, neck, thigh, cuff, seat
	fields [10]*float64
}

type styleRow struct {
	id     int
	itemID int
	// button, collar_style, bottom_style, pleat_style
	fields [4]*string
}

type dataset struct {
	customers    []customerRow
	orders       []orderRow
	items        []itemRow
	measurements []measurementRow
	styles       []styleRow
	nextID       map[string]int
}

func newDataset() *dataset {
	return &dataset{nextID: map[string]int{
		"customers": 1, "orders": 1, "order_items": 1,
		"order_measurements": 1, "order_style_options": 1,
	}}
}

func (d *dataset) clone() *dataset {
	out := &dataset{
		customers:    append([]customerRow(nil), d.customers...),
		orders:       append([]orderRow(nil), d.orders...),
		items:        append([]itemRow(nil), d.items...),
		measurements: append([]measurementRow(nil), d.measurements...),
		styles:       append([]styleRow(nil), d.styles...),
		nextID:       make(map[string]int, len(d.nextID)),
	}
	for k, v := range d.nextID {
		out.nextID[k] = v
	}
	return out
}

func (d *dataset) sequence(table string) int {
	id := d.nextID[table]
	d.nextID[table] = id + 1
	return id
}

type failure struct {
	substr    string
	remaining int
	err       error
}

// Store is the in-memory implementation of store.Store.
type Store struct {
	mu       sync.Mutex
	data     *dataset
	failures []failure
}

func New() *Store {
	return &Store{data: newDataset()}
}

// FailOn makes the nth statement whose SQL contains substr fail with err.
// Counting starts at 1 and spans both pooled and transactional statements.
func (s *Store) FailOn(substr string, nth int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{substr: normalize(substr), remaining: nth, err: err})
}

func (s *Store) checkFailure(q string) error {
	for i := range s.failures {
		f := &s.failures[i]
		if f.remaining > 0 && strings.Contains(q, f.substr) {
			f.remaining--
			if f.remaining == 0 {
				return f.err
			}
		}
	}
	return nil
}

func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := normalize(sql)
	if err := s.checkFailure(q); err != nil {
		return pgconn.CommandTag{}, err
	}
	return s.data.exec(q, args)
}

func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := normalize(sql)
	if err := s.checkFailure(q); err != nil {
		return nil, err
	}
	data, err := s.data.query(q, args)
	if err != nil {
		return nil, err
	}
	return &memRows{data: data}, nil
}

func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := normalize(sql)
	if err := s.checkFailure(q); err != nil {
		return &memRow{err: err}
	}
	return s.data.queryRow(q, args)
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memTx{store: s, staged: s.data.clone()}, nil
}

// memTx stages statements against a dataset copy until Commit. The embedded
// pgx.Tx covers the interface methods the repositories never call.
type memTx struct {
	pgx.Tx
	store  *Store
	staged *dataset
	closed bool
}

func (t *memTx) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.store.data = t.staged
	t.closed = true
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	return nil
}

func (t *memTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	q := normalize(sql)
	if err := t.store.checkFailure(q); err != nil {
		return pgconn.CommandTag{}, err
	}
	return t.staged.exec(q, args)
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	q := normalize(sql)
	if err := t.store.checkFailure(q); err != nil {
		return nil, err
	}
	data, err := t.staged.query(q, args)
	if err != nil {
		return nil, err
	}
	return &memRows{data: data}, nil
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	q := normalize(sql)
	if err := t.store.checkFailure(q); err != nil {
		return &memRow{err: err}
	}
	return t.staged.queryRow(q, args)
}

// exec dispatches mutating statements.
func (d *dataset) exec(q string, args []any) (pgconn.CommandTag, error) {
	switch {
	case strings.HasPrefix(q, "update customers set"):
		id := args[5].(int)
		for i := range d.customers {
			if d.customers[i].id == id {
				d.customers[i].name = args[0].(string)
				d.customers[i].phone = args[1].(string)
				d.customers[i].address = toStringPtr(args[2])
				d.customers[i].deliveryDate = toStringPtr(args[3])
				d.customers[i].dueAmount = args[4].(float64)
				return tag("UPDATE 1"), nil
			}
		}
		return tag("UPDATE 0"), nil

	case strings.HasPrefix(q, "delete from customers"):
		id := args[0].(int)
		for _, o := range d.orders {
			if o.customerID == id {
				return pgconn.CommandTag{}, fkViolation("orders_customer_id_fkey")
			}
		}
		for i, c := range d.customers {
			if c.id == id {
				d.customers = append(d.customers[:i], d.customers[i+1:]...)
				return tag("DELETE 1"), nil
			}
		}
		return tag("DELETE 0"), nil

	case strings.HasPrefix(q, "update orders set"):
		id := args[7].(int)
		for i := range d.orders {
			if d.orders[i].id == id {
				d.orders[i].receiptNumber = toStringPtr(args[0])
				d.orders[i].orderDate = args[1].(string)
				d.orders[i].deliveryDate = toStringPtr(args[2])
				d.orders[i].totalPrice = args[3].(float64)
				d.orders[i].advancePay = args[4].(float64)
				d.orders[i].dueAmount = args[5].(float64)
				d.orders[i].notes = toStringPtr(args[6])
				return tag("UPDATE 1"), nil
			}
		}
		return tag("UPDATE 0"), nil

	case strings.HasPrefix(q, "delete from order_items where order_id"):
		orderID := args[0].(int)
		var kept []itemRow
		for _, it := range d.items {
			if it.orderID == orderID {
				d.deleteItemChildren(it.id)
				continue
			}
			kept = append(kept, it)
		}
		n := len(d.items) - len(kept)
		d.items = kept
		return tag(fmt.Sprintf("DELETE %d", n)), nil

	case strings.HasPrefix(q, "delete from orders"):
		id := args[0].(int)
		for i, o := range d.orders {
			if o.id == id {
				d.orders = append(d.orders[:i], d.orders[i+1:]...)
				var kept []itemRow
				for _, it := range d.items {
					if it.orderID == id {
						d.deleteItemChildren(it.id)
						continue
					}
					kept = append(kept, it)
				}
				d.items = kept
				return tag("DELETE 1"), nil
			}
		}
		return tag("DELETE 0"), nil

	case strings.HasPrefix(q, "insert into order_measurements"):
		itemID := args[0].(int)
		if !d.itemExists(itemID) {
			return pgconn.CommandTag{}, fkViolation("order_measurements_order_item_id_fkey")
		}
		row := measurementRow{id: d.sequence("order_measurements"), itemID: itemID}
		for i := 0; i < 10; i++ {
			row.fields[i] = toFloatPtr(args[i+1])
		}
		d.measurements = append(d.measurements, row)
		return tag("INSERT 0 1"), nil

	case strings.HasPrefix(q, "insert into order_style_options"):
		itemID := args[0].(int)
		if !d.itemExists(itemID) {
			return pgconn.CommandTag{}, fkViolation("order_style_options_order_item_id_fkey")
		}
		row := styleRow{id: d.sequence("order_style_options"), itemID: itemID}
		for i := 0; i < 4; i++ {
			row.fields[i] = toStringPtr(args[i+1])
		}
		d.styles = append(d.styles, row)
		return tag("INSERT 0 1"), nil
	}

	return pgconn.CommandTag{}, fmt.Errorf("memstore: unsupported exec: %s", q)
}

// queryRow dispatches single-row statements.
func (d *dataset) queryRow(q string, args []any) pgx.Row {
	switch {
	case strings.HasPrefix(q, "insert into customers"):
		row := customerRow{
			id:           d.sequence("customers"),
			name:         args[0].(string),
			phone:        args[1].(string),
			address:      toStringPtr(args[2]),
			deliveryDate: toStringPtr(args[3]),
			dueAmount:    args[4].(float64),
		}
		d.customers = append(d.customers, row)
		return &memRow{vals: []any{row.id}}

	case strings.HasPrefix(q, "insert into orders"):
		customerID := args[3].(int)
		if !d.customerExists(customerID) {
			return &memRow{err: fkViolation("orders_customer_id_fkey")}
		}
		row := orderRow{
			id:            d.sequence("orders"),
			receiptNumber: toStringPtr(args[0]),
			orderDate:     args[1].(string),
			deliveryDate:  toStringPtr(args[2]),
			customerID:    customerID,
			totalPrice:    args[4].(float64),
			advancePay:    args[5].(float64),
			dueAmount:     args[6].(float64),
			notes:         toStringPtr(args[7]),
		}
		d.orders = append(d.orders, row)
		return &memRow{vals: []any{row.id}}

	case strings.HasPrefix(q, "insert into order_items"):
		orderID := args[0].(int)
		if !d.orderExists(orderID) {
			return &memRow{err: fkViolation("order_items_order_id_fkey")}
		}
		row := itemRow{
			id:             d.sequence("order_items"),
			orderID:        orderID,
			category:       args[1].(string),
			quantity:       args[2].(int),
			imageReference: toStringPtr(args[3]),
		}
		d.items = append(d.items, row)
		return &memRow{vals: []any{row.id}}

	case strings.Contains(q, "from customers where id"):
		id := args[0].(int)
		for _, c := range d.customers {
			if c.id == id {
				return &memRow{vals: c.columns()}
			}
		}
		return &memRow{err: pgx.ErrNoRows}

	case strings.Contains(q, "from orders where id"):
		id := args[0].(int)
		for _, o := range d.orders {
			if o.id == id {
				return &memRow{vals: o.columns()}
			}
		}
		return &memRow{err: pgx.ErrNoRows}

	case strings.Contains(q, "count(*)"):
		var revenue, advance, due float64
		for _, o := range d.orders {
			revenue += o.totalPrice
			advance += o.advancePay
			due += o.dueAmount
		}
		return &memRow{vals: []any{int64(len(d.orders)), revenue, advance, due}}
	}

	return &memRow{err: fmt.Errorf("memstore: unsupported queryRow: %s", q)}
}

// query dispatches multi-row statements.
func (d *dataset) query(q string, args []any) ([][]any, error) {
	switch {
	case strings.Contains(q, "from customers order by id desc"):
		sorted := append([]customerRow(nil), d.customers...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].id > sorted[j].id })
		out := make([][]any, 0, len(sorted))
		for _, c := range sorted {
			out = append(out, c.columns())
		}
		return out, nil

	case strings.Contains(q, "join customers c on"):
		sorted := append([]orderRow(nil), d.orders...)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].orderDate != sorted[j].orderDate {
				return sorted[i].orderDate > sorted[j].orderDate
			}
			return sorted[i].id > sorted[j].id
		})
		var out [][]any
		for _, o := range sorted {
			for _, c := range d.customers {
				if c.id == o.customerID {
					out = append(out, append(o.columns(), c.name, c.phone))
					break
				}
			}
		}
		return out, nil

	case strings.Contains(q, "from order_items oi"):
		orderID := args[0].(int)
		sorted := append([]itemRow(nil), d.items...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].id < sorted[j].id })
		var out [][]any
		for _, it := range sorted {
			if it.orderID != orderID {
				continue
			}
			vals := []any{it.id, it.category, it.quantity, it.imageReference}
			var m [10]*float64
			for _, mr := range d.measurements {
				if mr.itemID == it.id {
					m = mr.fields
					break
				}
			}
			for i := 0; i < 10; i++ {
				vals = append(vals, m[i])
			}
			var st [4]*string
			for _, sr := range d.styles {
				if sr.itemID == it.id {
					st = sr.fields
					break
				}
			}
			for i := 0; i < 4; i++ {
				vals = append(vals, st[i])
			}
			out = append(out, vals)
		}
		return out, nil
	}

	return nil, fmt.Errorf("memstore: unsupported query: %s", q)
}

func (d *dataset) deleteItemChildren(itemID int) {
	var m []measurementRow
	for _, row := range d.measurements {
		if row.itemID != itemID {
			m = append(m, row)
		}
	}
	d.measurements = m

	var st []styleRow
	for _, row := range d.styles {
		if row.itemID != itemID {
			st = append(st, row)
		}
	}
	d.styles = st
}

func (d *dataset) customerExists(id int) bool {
	for _, c := range d.customers {
		if c.id == id {
			return true
		}
	}
	return false
}

func (d *dataset) orderExists(id int) bool {
	for _, o := range d.orders {
		if o.id == id {
			return true
		}
	}
	return false
}

func (d *dataset) itemExists(id int) bool {
	for _, it := range d.items {
		if it.id == id {
			return true
		}
	}
	return false
}

// MeasurementRowCount reports the measurement rows owned by any item; tests
// use it to check for orphans after item replacement.
func (s *Store) MeasurementRowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.measurements)
}

// StyleRowCount reports the style-option rows owned by any item.
func (s *Store) StyleRowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.styles)
}

// ItemRowCount reports the item rows across all orders.
func (s *Store) ItemRowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.items)
}

func (c customerRow) columns() []any {
	return []any{c.id, c.name, c.phone, c.address, c.deliveryDate, c.dueAmount}
}

func (o orderRow) columns() []any {
	return []any{o.id, o.receiptNumber, o.orderDate, o.deliveryDate,
		o.customerID, o.totalPrice, o.advancePay, o.dueAmount, o.notes}
}

func normalize(sql string) string {
	return strings.ToLower(strings.Join(strings.Fields(sql), " "))
}

func tag(s string) pgconn.CommandTag {
	return pgconn.NewCommandTag(s)
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{
		Code:           "23503",
		Message:        fmt.Sprintf("insert or update violates foreign key constraint %q", constraint),
		ConstraintName: constraint,
	}
}

func toStringPtr(v any) *string {
	if v == nil {
		return nil
	}
	p, _ := v.(*string)
	return clonePtr(p)
}

func toFloatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	p, _ := v.(*float64)
	return clonePtr(p)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
