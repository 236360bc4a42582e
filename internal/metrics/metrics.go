package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики runner'а, отдаются через /metrics.
var (
	// MessagesReceived — все сообщения, полученные из очереди SDR.
	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wildfire_messages_received_total",
		Help: "Total SDR bus messages received.",
	})

	// MessagesIgnored — сообщения, отброшенные фильтром платформа/сенсор/тип.
	MessagesIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wildfire_messages_ignored_total",
		Help: "Messages ignored by the platform/sensor/type filter.",
	})

	// JobsSubmitted — jobs, отправленные в пул.
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wildfire_jobs_submitted_total",
		Help: "CSPP jobs submitted to the worker pool.",
	})

	// JobsEmpty — jobs, завершившиеся без продуктов.
	JobsEmpty = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wildfire_jobs_empty_total",
		Help: "Completed jobs that produced no artifacts.",
	})

	// ProductsPublished — опубликованные уведомления о продуктах.
	ProductsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wildfire_products_published_total",
		Help: "Product notifications published to the bus.",
	})

	// JobDuration — длительность одного запуска CSPP (invoke + collect).
	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wildfire_job_duration_seconds",
		Help:    "Duration of one CSPP job.",
		Buckets: prometheus.ExponentialBuckets(10, 2, 8), // 10s .. ~21min
	})
)
