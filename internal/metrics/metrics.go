package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resampler metrics
var (
	// RowsRead tracks CSV rows successfully parsed into samples
	RowsRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resampler_rows_read_total",
			Help: "Total number of CSV rows parsed into samples",
		},
	)

	// RowsSkipped tracks malformed CSV rows that were dropped
	RowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resampler_rows_skipped_total",
			Help: "Total number of malformed CSV rows skipped",
		},
	)

	// RowsWritten tracks samples written to CSV output
	RowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resampler_rows_written_total",
			Help: "Total number of samples written to CSV output",
		},
	)

	// SegmentsBuilt tracks contiguous segments produced by the gap splitter
	SegmentsBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resampler_segments_built_total",
			Help: "Total number of contiguous segments produced by gap splitting",
		},
	)

	// SamplesInterpolated tracks output samples that were synthesized
	SamplesInterpolated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resampler_samples_interpolated_total",
			Help: "Total number of output samples produced by interpolation",
		},
	)

	// ResampleDuration tracks how long a full resample run takes per property
	ResampleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resampler_duration_seconds",
			Help:    "Duration of a resample run for a single property",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Database metrics
var (
	// DBQueriesTotal tracks the total number of database queries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"query_type", "table", "status"},
	)

	// DBQueryDuration tracks the duration of database queries
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type", "table"},
	)

	// AppInfo provides static information about the application
	AppInfo = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thermospline_app_info",
			Help: "Application information (always 1)",
		},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "thermospline_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppInfo.Set(1)
	AppStartTime.SetToCurrentTime()
}

// RecordDBQuery records a database query execution
func RecordDBQuery(queryType, table string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DBQueriesTotal.WithLabelValues(queryType, table, status).Inc()
	DBQueryDuration.WithLabelValues(queryType, table).Observe(duration.Seconds())
}
