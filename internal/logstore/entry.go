package logstore

import "time"

// Log levels used by the request pipeline. Level is free-form; these are
// the values the interceptor emits.
const (
	LevelInfo  = "INFO"
	LevelError = "ERROR"
)

// Entry is one logged event. Entries are immutable once appended; they
// age out of the store by TTL or by displacement, whichever comes first.
type Entry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Request   *RequestInfo           `json:"request,omitempty"`
	Response  *ResponseInfo          `json:"response,omitempty"`
	Error     *ErrorInfo             `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// RequestInfo captures the inbound half of a request/response pair.
type RequestInfo struct {
	Method        string            `json:"method"`
	URL           string            `json:"url"`
	Path          string            `json:"path"`
	Headers       map[string]string `json:"headers,omitempty"`
	QueryParams   string            `json:"query_params,omitempty"`
	Body          string            `json:"body,omitempty"`
	Client        string            `json:"client,omitempty"`
	UserAgent     string            `json:"user_agent,omitempty"`
	ProcessTimeMS float64           `json:"process_time_ms,omitempty"`
}

// ResponseInfo captures the outbound half of a request/response pair.
type ResponseInfo struct {
	StatusCode    int               `json:"status_code"`
	Headers       map[string]string `json:"headers,omitempty"`
	Body          string            `json:"body,omitempty"`
	ProcessTimeMS float64           `json:"process_time_ms"`
}

// ErrorInfo captures an unrecoverable handler failure.
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}
