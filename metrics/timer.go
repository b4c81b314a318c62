package metrics

import "time"

type timer struct {
	client Client
	start  time.Time
	name   string
	tags   Tags
}

// Timer starts measuring now; Stop records the elapsed time under name.
func Timer(client Client, name string, tags Tags) *timer {
	return &timer{
		client: client,
		start:  time.Now(),
		name:   name,
		tags:   tags,
	}
}

// Stop records the elapsed milliseconds as a distribution sample.
func (t *timer) Stop() {
	elapsed := time.Since(t.start)
	t.client.Distribution(t.name, t.tags, float64(elapsed/time.Millisecond))
}
