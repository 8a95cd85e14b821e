package playlist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Radio/internal/domain"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "playlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, `
- title: Speak to Me
  url: http://cdn/01.mp3
- title: Breathe
  url: http://cdn/02.mp3
`)

	pl, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, pl, 2)
	require.Equal(t, "Speak to Me", pl[0].Title)
	require.Equal(t, "http://cdn/02.mp3", pl[1].URL)
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeTemp(t, "[]\n")
	_, err := LoadFile(path)
	require.ErrorIs(t, err, domain.ErrEmptyPlaylist)
}

func TestLoadFileMissingURL(t *testing.T) {
	path := writeTemp(t, "- title: Nameless\n")
	_, err := LoadFile(path)
	require.ErrorIs(t, err, domain.ErrMissingAudioURL)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/playlist", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title":"A","url":"http://cdn/a.mp3"},{"title":"B","url":"http://cdn/b.mp3"}]`))
	}))
	defer srv.Close()

	pl, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, pl, 2)
	require.Equal(t, "A", pl[0].Title)
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestFetchEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, domain.ErrEmptyPlaylist)
}
