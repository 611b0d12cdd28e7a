package middleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/radekzitek/crudelty/internal/logstore"
	"github.com/radekzitek/crudelty/internal/metrics"
	"github.com/radekzitek/crudelty/internal/utils"
)

// ContextKey defines the type for context keys to avoid conflicts
type ContextKey string

const (
	// RequestIDKey is the context key for the per-request correlation id
	RequestIDKey ContextKey = "requestID"

	// RequestIDHeader carries the correlation id on every response
	RequestIDHeader = "X-Request-ID"
)

const (
	// maxCapturedBody bounds how much of a response body is stored.
	// Bodies over the bound are replaced wholesale, never truncated.
	maxCapturedBody = 1000

	bodyTooLargePlaceholder    = "(body too large)"
	undecodableBodyPlaceholder = "(unable to decode body)"
)

// EntrySink receives log entries from the interceptor. Append is
// synchronous (the request-received entry is attempted before the
// wrapped handler runs); Submit is fire-and-forget.
type EntrySink interface {
	Append(ctx context.Context, entry *logstore.Entry) error
	Submit(entry *logstore.Entry)
}

// RequestLogging wraps a handler with the request observability
// pipeline: it assigns a correlation id, captures the request and
// response, measures timing and feeds the log sink and the metrics
// aggregator. Failures on the logging path never change what the
// client sees.
func RequestLogging(sink EntrySink, agg *metrics.Aggregator) func(http.Handler) http.Handler {
	logger := utils.NewLogger("request-logger")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			r = r.WithContext(ctx)

			start := time.Now()

			body := captureRequestBody(r)
			requestInfo := &logstore.RequestInfo{
				Method:      r.Method,
				URL:         requestURL(r),
				Path:        r.URL.Path,
				Headers:     flattenHeaders(r.Header),
				QueryParams: r.URL.RawQuery,
				Body:        body,
				Client:      clientHost(r),
				UserAgent:   r.UserAgent(),
			}

			// Attempted before the handler runs; its failure must not
			// affect the request.
			appendCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := sink.Append(appendCtx, &logstore.Entry{
				Level:     logstore.LevelInfo,
				Message:   fmt.Sprintf("Request %s %s", r.Method, r.URL.Path),
				RequestID: requestID,
				Request:   requestInfo,
			}); err != nil {
				logger.Debug("Failed to log request", "error", err)
			}
			cancel()

			rec := newResponseRecorder(w, requestID)

			defer func() {
				if panicked := recover(); panicked != nil {
					elapsed := elapsedMS(start)
					if agg.CountFailures() {
						agg.Record(r.Method, r.URL.Path, http.StatusInternalServerError, elapsed)
					}
					sink.Submit(&logstore.Entry{
						Level:     logstore.LevelError,
						Message:   fmt.Sprintf("Request failed: %v", panicked),
						RequestID: requestID,
						Error: &logstore.ErrorInfo{
							Type:    fmt.Sprintf("%T", panicked),
							Message: fmt.Sprint(panicked),
							Stack:   string(debug.Stack()),
						},
						Request: &logstore.RequestInfo{
							Method:        r.Method,
							URL:           requestURL(r),
							ProcessTimeMS: elapsed,
						},
					})
					panic(panicked)
				}
			}()

			next.ServeHTTP(rec, r)

			elapsed := elapsedMS(start)
			rec.ensureHeader()
			agg.Record(r.Method, r.URL.Path, rec.Status(), elapsed)

			sink.Submit(&logstore.Entry{
				Level:     logstore.LevelInfo,
				Message:   fmt.Sprintf("Response %d for %s %s", rec.Status(), r.Method, r.URL.Path),
				RequestID: requestID,
				Response: &logstore.ResponseInfo{
					StatusCode:    rec.Status(),
					Headers:       flattenHeaders(rec.Header()),
					Body:          rec.CapturedBody(),
					ProcessTimeMS: elapsed,
				},
			})
		})
	}
}

// GetRequestID retrieves the correlation id from the request context
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// captureRequestBody reads the body of a mutating request and puts the
// bytes back so the wrapped handler still sees them.
func captureRequestBody(r *http.Request) string {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ""
	}
	if r.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return undecodableBodyPlaceholder
	}
	if !utf8.Valid(raw) {
		return undecodableBodyPlaceholder
	}
	if len(raw) > maxCapturedBody {
		return bodyTooLargePlaceholder
	}
	return string(raw)
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.RequestURI())
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	flat := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) > 0 {
			flat[key] = values[0]
		}
	}
	return flat
}
