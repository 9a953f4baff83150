package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor-backend/internal/models"
	"tailor-backend/internal/store/memstore"
)

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

func seedCustomer(t *testing.T, db *memstore.Store) *models.Customer {
	t.Helper()
	c, err := NewCustomerRepository(db).Create(context.Background(), &models.CustomerRequest{
		Name:  "Ramesh Kumar",
		Phone: "9876543210",
	})
	require.NoError(t, err)
	return c
}

func TestOrderCreateAndGetRoundTrip(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	req := &models.CreateOrderRequest{
		ReceiptNumber: strPtr("R-1001"),
		OrderDate:     "2024-01-01",
		DeliveryDate:  strPtr("2024-01-15"),
		CustomerID:    customer.ID,
		TotalPrice:    f64Ptr(1500),
		AdvancePay:    f64Ptr(500),
		DueAmount:     f64Ptr(1000),
		Notes:         strPtr("urgent"),
		Items: []models.OrderItemInput{
			{
				Category: "shirt",
				Quantity: intPtr(2),
				Measurements: &models.MeasurementsInput{
					Chest: f64Ptr(40),
					Waist: f64Ptr(34),
				},
				StyleOptions: &models.StyleOptionsInput{
					CollarStyle: strPtr("spread"),
				},
			},
			{
				Category: "pant",
			},
		},
	}

	created, err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", created.OrderDate)
	assert.Equal(t, 1500.0, created.TotalPrice)

	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	shirt := got.Items[0]
	assert.Equal(t, "shirt", shirt.Category)
	assert.Equal(t, 2, shirt.Quantity)
	require.NotNil(t, shirt.Chest)
	assert.Equal(t, 40.0, *shirt.Chest)
	require.NotNil(t, shirt.Waist)
	assert.Equal(t, 34.0, *shirt.Waist)
	assert.Nil(t, shirt.Length, "unset measurement stays null")
	require.NotNil(t, shirt.CollarStyle)
	assert.Equal(t, "spread", *shirt.CollarStyle)
	assert.Nil(t, shirt.Button)

	pant := got.Items[1]
	assert.Equal(t, 1, pant.Quantity, "quantity defaults to 1")
	assert.Nil(t, pant.Chest, "no measurement row when payload absent")
	assert.Nil(t, pant.CollarStyle, "no style row when payload absent")
}

func TestOrderCreateDefaultsMoneyToZero(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	created, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-03-05",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	assert.Zero(t, created.TotalPrice)
	assert.Zero(t, created.AdvancePay)
	assert.Zero(t, created.DueAmount)
	assert.Nil(t, created.ReceiptNumber)
	assert.Nil(t, created.DeliveryDate)
}

func TestOrderCreateRollsBackOnItemFailure(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	boom := errors.New("connection reset")
	db.FailOn("INSERT INTO order_items", 2, boom)

	_, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-02-01",
		CustomerID: customer.ID,
		Items: []models.OrderItemInput{
			{Category: "shirt", Measurements: &models.MeasurementsInput{Chest: f64Ptr(38)}},
			{Category: "pant"},
		},
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the failed aggregate may be visible.
	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, db.ItemRowCount())
	assert.Zero(t, db.MeasurementRowCount())
}

func TestOrderCreateRollsBackOnMeasurementFailure(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	boom := errors.New("numeric overflow")
	db.FailOn("INSERT INTO order_measurements", 1, boom)

	_, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-02-01",
		CustomerID: customer.ID,
		Items: []models.OrderItemInput{
			{Category: "shirt", Measurements: &models.MeasurementsInput{Chest: f64Ptr(38)}},
		},
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Zero(t, db.ItemRowCount())
}

func TestOrderCreateRejectsUnknownCustomer(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)

	_, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-02-01",
		CustomerID: 99,
	})
	require.Error(t, err)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderReplaceSwapsItemSet(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	created, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-01-01",
		CustomerID: customer.ID,
		Items: []models.OrderItemInput{
			{Category: "shirt", Measurements: &models.MeasurementsInput{Chest: f64Ptr(40)}},
			{Category: "pant", StyleOptions: &models.StyleOptionsInput{PleatStyle: strPtr("double")}},
		},
	})
	require.NoError(t, err)

	updated, err := repo.Replace(context.Background(), created.ID, &models.UpdateOrderRequest{
		OrderDate:  "2024-01-02",
		TotalPrice: f64Ptr(2000),
		Items: []models.OrderItemInput{
			{Category: "kurta", Quantity: intPtr(3)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-02", updated.OrderDate)
	assert.Equal(t, 2000.0, updated.TotalPrice)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "kurta", updated.Items[0].Category)
	assert.Equal(t, 3, updated.Items[0].Quantity)

	// Children of the discarded items must not linger.
	assert.Equal(t, 1, db.ItemRowCount())
	assert.Zero(t, db.MeasurementRowCount())
	assert.Zero(t, db.StyleRowCount())
}

func TestOrderReplaceWithoutItemsKeepsPriorSet(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	created, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-01-01",
		CustomerID: customer.ID,
		Items: []models.OrderItemInput{
			{Category: "shirt"},
			{Category: "pant"},
		},
	})
	require.NoError(t, err)

	updated, err := repo.Replace(context.Background(), created.ID, &models.UpdateOrderRequest{
		OrderDate: "2024-01-03",
		Notes:     strPtr("fabric changed"),
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-03", updated.OrderDate)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "fabric changed", *updated.Notes)
	assert.Len(t, updated.Items, 2, "empty items list leaves the prior set alone")
}

func TestOrderReplaceRollsBackOnItemFailure(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	created, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-01-01",
		TotalPrice: f64Ptr(900),
		CustomerID: customer.ID,
		Items:      []models.OrderItemInput{{Category: "shirt"}},
	})
	require.NoError(t, err)

	boom := errors.New("disk full")
	db.FailOn("INSERT INTO order_items", 1, boom)

	_, err = repo.Replace(context.Background(), created.ID, &models.UpdateOrderRequest{
		OrderDate:  "2024-06-06",
		TotalPrice: f64Ptr(5000),
		Items:      []models.OrderItemInput{{Category: "suit"}},
	})
	require.ErrorIs(t, err, boom)

	// The header update and the item delete must have been discarded too.
	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.OrderDate)
	assert.Equal(t, 900.0, got.TotalPrice)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "shirt", got.Items[0].Category)
}

func TestOrderReplaceMissingOrderReturnsNoRows(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)

	_, err := repo.Replace(context.Background(), 42, &models.UpdateOrderRequest{
		OrderDate: "2024-01-01",
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestOrderListNewestFirstWithCustomerFields(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	for _, date := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		_, err := repo.Create(context.Background(), &models.CreateOrderRequest{
			OrderDate:  date,
			CustomerID: customer.ID,
			Items:      []models.OrderItemInput{{Category: "shirt"}},
		})
		require.NoError(t, err)
	}

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, "2024-03-01", orders[0].OrderDate)
	assert.Equal(t, "2024-02-01", orders[1].OrderDate)
	assert.Equal(t, "2024-01-01", orders[2].OrderDate)
	for _, o := range orders {
		assert.Equal(t, "Ramesh Kumar", o.CustomerName)
		assert.Equal(t, "9876543210", o.CustomerPhone)
		assert.Len(t, o.Items, 1)
	}
}

func TestOrderGetMissingReturnsNoRows(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)

	_, err := repo.Get(context.Background(), 7)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestOrderDeleteCascades(t *testing.T) {
	db := memstore.New()
	repo := NewOrderRepository(db)
	customer := seedCustomer(t, db)

	created, err := repo.Create(context.Background(), &models.CreateOrderRequest{
		OrderDate:  "2024-01-01",
		CustomerID: customer.ID,
		Items: []models.OrderItemInput{
			{Category: "shirt", Measurements: &models.MeasurementsInput{Neck: f64Ptr(15.5)}},
		},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err = repo.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Zero(t, db.ItemRowCount())
	assert.Zero(t, db.MeasurementRowCount())
}
