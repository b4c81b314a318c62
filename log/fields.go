package log

const (
	NamespaceKey = "agents"

	RunIDKey      = NamespaceKey + ".run.id"
	WorkflowKey   = NamespaceKey + ".workflow.name"
	TaskIDKey     = NamespaceKey + ".task.id"
	TaskStatusKey = NamespaceKey + ".task.status"
	PriorityKey   = NamespaceKey + ".task.priority"

	ProviderKey = NamespaceKey + ".provider"
	ModelKey    = NamespaceKey + ".model"
	EndpointKey = NamespaceKey + ".endpoint"

	AttemptKey  = NamespaceKey + ".attempt"
	DurationKey = NamespaceKey + ".duration_ms"

	PromptLenKey   = NamespaceKey + ".prompt.len"
	ResponseLenKey = NamespaceKey + ".response.len"

	CacheKey = NamespaceKey + ".cache"
	StuckKey = NamespaceKey + ".stuck"
)
