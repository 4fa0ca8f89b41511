// Package sse writes Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Writer sends Server-Sent Events to an http.ResponseWriter.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter sets the stream headers and returns a writer. Returns nil if the
// ResponseWriter doesn't support http.Flusher.
func NewWriter(w http.ResponseWriter) *Writer {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}
}

// SendData writes an unnamed event whose data is v encoded as JSON.
func (s *Writer) SendData(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshal SSE data")
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return errors.Wrap(err, "write SSE frame")
	}
	s.flusher.Flush()
	return nil
}

// SendComment writes an SSE comment.
func (s *Writer) SendComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return errors.Wrap(err, "write SSE comment")
	}
	s.flusher.Flush()
	return nil
}
