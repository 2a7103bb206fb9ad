package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		ordersTotal,
		ordersExpiredTotal,
		paymentsRevenueTotal,
		webhookEventsTotal,
	)
}

var (
	ordersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_orders_total",
			Help: "Orders by status they entered (pending/payed/expired).",
		},
		[]string{"status"},
	)

	ordersExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "billing_orders_expired_total",
			Help: "Pending orders reclaimed by the expiry sweep.",
		},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_revenue_total",
			Help: "The total monetary value of payed orders, labeled by currency.",
		},
		[]string{"currency"},
	)

	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_webhook_events_total",
			Help: "Gateway webhook deliveries by event type and handling outcome.",
		},
		[]string{"event", "outcome"},
	)
)

func IncOrder(status string) {
	ordersTotal.WithLabelValues(norm(status)).Inc()
}

func AddOrdersExpired(n int) {
	ordersExpiredTotal.Add(float64(n))
}

func AddRevenue(currency string, amount float64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(amount)
}

func IncWebhookEvent(event, outcome string) {
	webhookEventsTotal.WithLabelValues(norm(event), norm(outcome)).Inc()
}
