package whisperadapter

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "base", r.FormValue("model"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "en", r.FormValue("language"))
		f, h, err := r.FormFile("file")
		if assert.NoError(t, err) {
			b, _ := io.ReadAll(f)
			assert.Equal(t, "RIFF", string(b))
			assert.Equal(t, "clip.wav", h.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"task": "transcribe", "language": "English", "duration": 3.2,
			"text": " hello there",
			"segments": [{"id": 0, "start": 0.0, "end": 3.2, "text": " hello there"}]
		}`))
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"base","object":"model"}]}`))
	})
	s := httptest.NewServer(mux)
	defer s.Close()

	a := NewAdapter(Config{BaseURL: s.URL + "/v1", Token: "token", Model: "base"})
	out, err := a.Transcribe(context.Background(), []byte("RIFF"), "clip.wav", "en")
	require.NoError(t, err)
	require.Equal(t, "english", out.Language)
	require.Equal(t, " hello there", out.Text)
	require.Len(t, out.Segments, 1)
	require.Equal(t, 3.2, out.Segments[0].End)

	require.NoError(t, a.Ready(context.Background()))
}

func TestReadyUnreachable(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	s.Close()
	a := NewAdapter(Config{BaseURL: s.URL + "/v1"})
	require.Error(t, a.Ready(context.Background()))
}
