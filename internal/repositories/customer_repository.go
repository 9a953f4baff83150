package repositories

import (
	"context"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store"
)

type CustomerRepository struct {
	DB store.Store
}

func NewCustomerRepository(db store.Store) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `id, name, phone, address, order_delivery_date::text, due_amount`

func (r *CustomerRepository) Create(ctx context.Context, req *models.CustomerRequest) (*models.Customer, error) {
	due := 0.0
	if req.DueAmount != nil {
		due = *req.DueAmount
	}

	var id int
	err := r.DB.QueryRow(ctx,
		`INSERT INTO customers(name, phone, address, order_delivery_date, due_amount)
		 VALUES($1, $2, $3, $4, $5)
		 RETURNING id`,
		req.Name, req.Phone, req.Address, req.OrderDeliveryDate, due,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	var c models.Customer
	err := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id=$1`, id,
	).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.OrderDeliveryDate, &c.DueAmount)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var c models.Customer
		err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.OrderDeliveryDate, &c.DueAmount)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) Update(ctx context.Context, id int, req *models.CustomerRequest) (*models.Customer, error) {
	due := 0.0
	if req.DueAmount != nil {
		due = *req.DueAmount
	}

	_, err := r.DB.Exec(ctx,
		`UPDATE customers
		 SET name=$1, phone=$2, address=$3, order_delivery_date=$4, due_amount=$5
		 WHERE id=$6`,
		req.Name, req.Phone, req.Address, req.OrderDeliveryDate, due, id)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	return err
}
