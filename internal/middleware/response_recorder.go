package middleware

import (
	"bytes"
	"net/http"
)

// responseRecorder wraps a ResponseWriter to observe the status code
// and body without altering what the client receives. It also injects
// the correlation id header exactly once, even when the interceptor is
// applied twice.
type responseRecorder struct {
	http.ResponseWriter

	requestID   string
	status      int
	wroteHeader bool
	skipBody    bool
	bodySize    int
	body        bytes.Buffer
}

func newResponseRecorder(w http.ResponseWriter, requestID string) *responseRecorder {
	return &responseRecorder{
		ResponseWriter: w,
		requestID:      requestID,
		status:         http.StatusOK,
	}
}

func (rec *responseRecorder) WriteHeader(status int) {
	if rec.wroteHeader {
		return
	}
	rec.wroteHeader = true
	rec.status = status

	if rec.Header().Get(RequestIDHeader) == "" {
		rec.Header().Set(RequestIDHeader, rec.requestID)
	}
	// Compressed payloads are passed through unobserved; capturing
	// them would require decoding the content encoding.
	if rec.Header().Get("Content-Encoding") != "" {
		rec.skipBody = true
	}

	rec.ResponseWriter.WriteHeader(status)
}

func (rec *responseRecorder) Write(p []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}

	if !rec.skipBody {
		rec.bodySize += len(p)
		// Keep at most one byte past the cap; past that point only the
		// total size matters.
		if remaining := maxCapturedBody + 1 - rec.body.Len(); remaining > 0 {
			if len(p) > remaining {
				rec.body.Write(p[:remaining])
			} else {
				rec.body.Write(p)
			}
		}
	}

	return rec.ResponseWriter.Write(p)
}

// ensureHeader guarantees the correlation id header is present even
// when the handler never wrote a body or status.
func (rec *responseRecorder) ensureHeader() {
	if !rec.wroteHeader && rec.Header().Get(RequestIDHeader) == "" {
		rec.Header().Set(RequestIDHeader, rec.requestID)
	}
}

// Status returns the response status code (200 when never set).
func (rec *responseRecorder) Status() int {
	return rec.status
}

// CapturedBody returns the observed response body, the too-large
// placeholder when it exceeded the cap, or "" when capture was skipped.
func (rec *responseRecorder) CapturedBody() string {
	if rec.skipBody {
		return ""
	}
	if rec.bodySize > maxCapturedBody {
		return bodyTooLargePlaceholder
	}
	return rec.body.String()
}
