package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEWriter_WritesNamedFrames(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewSSEWriter(rec)
	w.Init()

	require.NoError(t, w.WriteEvent("progress", map[string]int{"n": 1}))
	require.NoError(t, w.WriteEvent("result", map[string]string{"ok": "yes"}))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", rec.Header().Get("Connection"))
	assert.True(t, rec.Flushed)
	assert.Equal(t,
		"event: progress\ndata: {\"n\":1}\n\n"+
			"event: result\ndata: {\"ok\":\"yes\"}\n\n",
		rec.Body.String())
}

func TestSSEWriter_MarshalError(t *testing.T) {
	w := NewSSEWriter(httptest.NewRecorder())
	err := w.WriteEvent("bad", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}
