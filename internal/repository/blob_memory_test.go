package repository

import (
	"context"
	"testing"
	"time"

	"github.com/set-night/shopassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBlobStore_UploadOpenListDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBlobStore("https://bot.example.com/")
	tick := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	url, err := s.Upload(ctx, domain.AudioClip{Name: "b.ogg", ContentType: "audio/ogg", Data: []byte("bb")}, "product-voice")
	require.NoError(t, err)
	assert.Equal(t, "https://bot.example.com/blobs/product-voice/b.ogg", url)

	_, err = s.Upload(ctx, domain.AudioClip{Name: "a.ogg", Data: []byte("a")}, "product-voice")
	require.NoError(t, err)

	obj, data, err := s.Open(ctx, "product-voice", "a.ogg")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
	assert.Equal(t, defaultContentType, obj.ContentType)

	list, err := s.List(ctx, "product-voice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b.ogg", list[0].Name)
	assert.Equal(t, int64(2), list[0].Size)
	assert.Equal(t, "a.ogg", list[1].Name)

	other, err := s.List(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, s.Delete(ctx, "product-voice", "b.ogg"))
	assert.ErrorIs(t, s.Delete(ctx, "product-voice", "b.ogg"), domain.ErrBlobNotFound)
	_, _, err = s.Open(ctx, "product-voice", "b.ogg")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestMemoryBlobStore_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBlobStore("https://bot.example.com")

	_, err := s.Upload(ctx, domain.AudioClip{Name: "x.ogg"}, "product-voice")
	assert.ErrorIs(t, err, domain.ErrEmptyBlob)

	_, err = s.Upload(ctx, domain.AudioClip{Name: "../x.ogg", Data: []byte("x")}, "product-voice")
	assert.Error(t, err)

	_, err = s.Upload(ctx, domain.AudioClip{Name: "x.ogg", Data: []byte("x")}, "")
	assert.Error(t, err)
}

func TestMemoryBlobStore_OpenReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBlobStore("")
	payload := []byte("abc")
	_, err := s.Upload(ctx, domain.AudioClip{Name: "x.ogg", Data: payload}, "c")
	require.NoError(t, err)

	payload[0] = 'z'
	_, data, err := s.Open(ctx, "c", "x.ogg")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)
}

func TestBlobURL_EscapesSegments(t *testing.T) {
	assert.Equal(t, "http://h/blobs/product-voice/voice%201.ogg", BlobURL("http://h/", "product-voice", "voice 1.ogg"))
}
