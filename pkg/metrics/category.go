package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Outcome of every category service operation
	CategoryOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "category_operations_total",
		Help: "Category operations by operation and result",
	}, []string{"operation", "result"})

	// Images written to or removed from the storage backend
	CategoryImages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "category_images_total",
		Help: "Category image storage calls by action and result",
	}, []string{"action", "result"})
)

func Init() {
	prometheus.MustRegister(
		CategoryOperations,
		CategoryImages,
	)
}

// Observe records one operation outcome; err == nil counts as success.
func Observe(vec *prometheus.CounterVec, label string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	vec.WithLabelValues(label, result).Inc()
}
