package metrics

const (
	// TaskExecuted is incremented once per task execution attempt
	TaskExecuted = "agents.task.executed"

	// TaskDuration tracks per-task runner latency
	TaskDuration = "agents.task.duration"

	// RunCompleted is incremented once per finished run
	RunCompleted = "agents.run.completed"

	// RunDuration tracks full run latency
	RunDuration = "agents.run.duration"

	// GenerateDuration tracks LLM generate call latency
	GenerateDuration = "agents.llm.generate.duration"

	// CacheHit is incremented on response cache hits
	CacheHit = "agents.llm.cache.hit"

	// Outcome tags task and run metrics with completed/failed
	Outcome = "outcome"
)
