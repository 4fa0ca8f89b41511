package sse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(rec)
	require.NotNil(t, w)

	require.NoError(t, w.SendData(map[string]string{"type": "done"}))
	require.NoError(t, w.SendComment("error"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "data: {\"type\":\"done\"}\n\n: error\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}

type plainWriter struct{ http.ResponseWriter }

func TestNewWriterRequiresFlusher(t *testing.T) {
	assert.Nil(t, NewWriter(plainWriter{httptest.NewRecorder()}))
}

func TestSendDataMarshalError(t *testing.T) {
	w := NewWriter(httptest.NewRecorder())
	assert.Error(t, w.SendData(func() {}))
}
