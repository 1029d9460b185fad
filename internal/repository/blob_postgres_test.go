package repository

import (
	"context"
	"io/fs"
	"os"
	"testing"

	shopassist "github.com/set-night/shopassist"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database when TEST_DATABASE_URL is set.
func TestPostgresBlobStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	migrations, err := fs.Sub(shopassist.MigrationsFS, "migrations")
	require.NoError(t, err)
	require.NoError(t, RunMigrations(dsn, migrations))

	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	category := "test-" + t.Name()
	_, err = pool.Exec(ctx, `DELETE FROM blobs WHERE category = $1`, category)
	require.NoError(t, err)

	s := NewPostgresBlobStore(pool, "https://bot.example.com")

	url, err := s.Upload(ctx, domain.AudioClip{Name: "a.ogg", ContentType: "audio/ogg", Data: []byte("OggS")}, category)
	require.NoError(t, err)
	assert.Contains(t, url, "/blobs/")

	_, err = s.Upload(ctx, domain.AudioClip{Name: "a.ogg", ContentType: "audio/ogg", Data: []byte("OggS2")}, category)
	require.NoError(t, err)

	obj, data, err := s.Open(ctx, category, "a.ogg")
	require.NoError(t, err)
	assert.Equal(t, []byte("OggS2"), data)
	assert.Equal(t, "audio/ogg", obj.ContentType)

	list, err := s.List(ctx, category)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(5), list[0].Size)

	require.NoError(t, s.Delete(ctx, category, "a.ogg"))
	assert.ErrorIs(t, s.Delete(ctx, category, "a.ogg"), domain.ErrBlobNotFound)
}
