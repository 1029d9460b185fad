package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/set-night/shopassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcriptServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcript", r.URL.Path)
		var req TranscriptRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://blobs.example.com/blobs/product-voice/a.ogg", req.AudioURL)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestTranscriptionClient_PrimaryField(t *testing.T) {
	srv := transcriptServer(t, http.StatusOK, `{"transcription":"show me laptops","text":"ignored"}`)
	defer srv.Close()

	text, err := NewTranscriptionClient(srv.URL).Transcribe(context.Background(), "https://blobs.example.com/blobs/product-voice/a.ogg")
	require.NoError(t, err)
	assert.Equal(t, "show me laptops", text)
}

func TestTranscriptionClient_FallbackField(t *testing.T) {
	srv := transcriptServer(t, http.StatusOK, `{"text":"show me phones"}`)
	defer srv.Close()

	text, err := NewTranscriptionClient(srv.URL).Transcribe(context.Background(), "https://blobs.example.com/blobs/product-voice/a.ogg")
	require.NoError(t, err)
	assert.Equal(t, "show me phones", text)
}

func TestTranscriptionClient_BlankPrimaryFallsBack(t *testing.T) {
	srv := transcriptServer(t, http.StatusOK, `{"transcription":"","text":"hello"}`)
	defer srv.Close()

	text, err := NewTranscriptionClient(srv.URL).Transcribe(context.Background(), "https://blobs.example.com/blobs/product-voice/a.ogg")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestTranscriptionClient_NoTextField(t *testing.T) {
	srv := transcriptServer(t, http.StatusOK, `{"language":"en"}`)
	defer srv.Close()

	_, err := NewTranscriptionClient(srv.URL).Transcribe(context.Background(), "https://blobs.example.com/blobs/product-voice/a.ogg")
	assert.ErrorIs(t, err, domain.ErrEmptyTranscription)
}

func TestTranscriptionClient_ErrorStatus(t *testing.T) {
	srv := transcriptServer(t, http.StatusBadGateway, `{"transcription":"x"}`)
	defer srv.Close()

	_, err := NewTranscriptionClient(srv.URL).Transcribe(context.Background(), "https://blobs.example.com/blobs/product-voice/a.ogg")
	assert.ErrorIs(t, err, domain.ErrRemoteStatus)
}

func TestTranscriptionClient_Configured(t *testing.T) {
	assert.False(t, NewTranscriptionClient("").Configured())
	assert.True(t, NewTranscriptionClient("http://backend.local").Configured())
}

func TestTranscriptionClient_NotConfigured(t *testing.T) {
	_, err := NewTranscriptionClient("").Transcribe(context.Background(), "https://blobs.example.com/x.ogg")
	assert.ErrorIs(t, err, domain.ErrBackendNotConfigured)
}

func TestTranscriptResponse_Result(t *testing.T) {
	primary, fallback := "a", "b"

	got, ok := TranscriptResponse{Transcription: &primary, Text: &fallback}.Result()
	assert.True(t, ok)
	assert.Equal(t, "a", got)

	got, ok = TranscriptResponse{Text: &fallback}.Result()
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	empty := ""
	got, ok = TranscriptResponse{Transcription: &empty, Text: &fallback}.Result()
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	got, ok = TranscriptResponse{Transcription: &empty}.Result()
	assert.True(t, ok)
	assert.Empty(t, got)

	_, ok = TranscriptResponse{}.Result()
	assert.False(t, ok)
}
