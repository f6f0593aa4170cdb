package chi

// ErrorCode is the machine-readable error code in ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeNotFound         ErrorCode = "not_found"
	CodeMethodNotAllowed ErrorCode = "method_not_allowed"
	CodeStorageError     ErrorCode = "storage_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AddRequest is the body of POST /add.
type AddRequest struct {
	Text string `json:"text"`
}

// AddResponse is returned by POST /add.
type AddResponse struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is returned by POST /ask.
type AskResponse struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	ContextUsed []string `json:"context_used"`
	LatencySec  float64  `json:"latency_sec"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	BackendReady     bool   `json:"backend_ready"`
	FallbackDocCount int    `json:"fallback_doc_count"`
	PipelineReady    bool   `json:"pipeline_ready"`
	BackendDriver    string `json:"backend_driver"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
