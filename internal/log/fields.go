package log

// Field names shared across components so records stay greppable.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldUserAgent = "user_agent"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldBackend   = "backend"
	FieldPort      = "port"
	FieldSignal    = "signal"
)

// Component names used by the binaries and the HTTP layer.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentBackend = "backend"
	ComponentWorker  = "worker"
)
