package metrics

import "time"

// Tags annotate a metric with low-cardinality dimensions, e.g. the task id
// or the run outcome.
type Tags map[string]string

// Client records application metrics. The executor and the LLM client emit
// through this interface; wiring a concrete backend is left to the caller,
// and the noop client is used when none is given.
type Client interface {
	// Counter adds value to the named counter.
	Counter(name string, tags Tags, value float64)

	// Distribution records one sample of the named distribution.
	Distribution(name string, tags Tags, value float64)

	// Timing records an elapsed duration for the named metric.
	Timing(name string, tags Tags, duration time.Duration)

	// WithTags returns a client that merges the given tags into every
	// metric it records.
	WithTags(tags Tags) Client
}
