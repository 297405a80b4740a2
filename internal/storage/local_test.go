package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "messages/u1/a.png", strings.NewReader("png-bytes"), "image/png"))

	ok, err := s.Exists(ctx, "messages/u1/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "messages/u1/a.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(data))

	url, err := s.URL(ctx, "messages/u1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/messages/u1/a.png", url)

	require.NoError(t, s.Delete(ctx, "messages/u1/a.png"))
	require.NoError(t, s.Delete(ctx, "messages/u1/a.png"))

	_, err = s.Get(ctx, "messages/u1/a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	full, err := s.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, base))

	_, err = s.resolve("")
	assert.Error(t, err)
}
