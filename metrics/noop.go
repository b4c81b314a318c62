package metrics

import "time"

// noopClient discards every metric. It is the default when no client is
// configured, so instrumented code never has to nil-check.
type noopClient struct{}

func NewNoopClient() *noopClient {
	return &noopClient{}
}

var _ Client = (*noopClient)(nil)

func (*noopClient) Counter(name string, tags Tags, value float64) {}

func (*noopClient) Distribution(name string, tags Tags, value float64) {}

func (*noopClient) Timing(name string, tags Tags, duration time.Duration) {}

func (nc *noopClient) WithTags(tags Tags) Client {
	return nc
}
