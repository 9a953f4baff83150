package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tailor-backend/internal/handlers"
	"tailor-backend/internal/middleware"
)

func NewRouter(
	customerHandler *handlers.CustomerHandler,
	orderHandler *handlers.OrderHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
) *mux.Router {
	r := mux.NewRouter()

	// Metrics run as router middleware so the matched route template is
	// available as the metric label.
	r.Use(middleware.MetricsMiddleware)

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Customers
	api.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	api.HandleFunc("/customers", customerHandler.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", customerHandler.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", customerHandler.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", customerHandler.DeleteCustomer).Methods("DELETE")

	// Orders
	api.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET")
	api.HandleFunc("/orders", orderHandler.CreateOrder).Methods("POST")
	api.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}", orderHandler.UpdateOrder).Methods("PUT")
	api.HandleFunc("/orders/{id}", orderHandler.DeleteOrder).Methods("DELETE")
	api.HandleFunc("/orders/{id}/receipt", orderHandler.OrderReceipt).Methods("GET")

	// Statistics
	api.HandleFunc("/stats/revenue", statsHandler.Revenue).Methods("GET")

	return r
}
