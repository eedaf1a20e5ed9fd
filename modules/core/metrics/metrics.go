package metrics

// Prometheus metric labels.
const (
	// 02-client labels

	LabelClientType = "client_type"
)
