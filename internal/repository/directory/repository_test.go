package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/freezer-monitor/internal/config"
)

// TestSourceRepository_File loads a local directory and re-reads it on every call.
func TestSourceRepository_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "freezer-info.csv")
	require.NoError(t, os.WriteFile(path, []byte(validDirectory), config.DefaultFilePermissions))

	repo := NewSourceRepository(path, time.Second)
	require.Equal(t, path, repo.Source())

	entries, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Break the file: the next load must notice.
	require.NoError(t, os.WriteFile(path, []byte("IP\n"), config.DefaultFilePermissions))

	entries, err = repo.Load(context.Background())
	require.ErrorIs(t, err, ErrLoad)
	require.ErrorIs(t, err, errMissingColumn)
	require.Nil(t, entries)
}

// TestSourceRepository_MissingFile verifies a missing file is a load error.
func TestSourceRepository_MissingFile(t *testing.T) {
	t.Parallel()

	repo := NewSourceRepository(filepath.Join(t.TempDir(), "missing.csv"), time.Second)

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrLoad)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestSourceRepository_Remote fetches the directory over HTTP.
func TestSourceRepository_Remote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/freezers.csv" {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte(validDirectory))
	}))
	defer srv.Close()

	entries, err := NewSourceRepository(srv.URL+"/freezers.csv", time.Second).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	_, err = NewSourceRepository(srv.URL+"/other.csv", time.Second).Load(context.Background())
	require.ErrorIs(t, err, ErrLoad)
	require.ErrorIs(t, err, errBadHTTPStatus)
}

// TestMatch returns all entries sharing a key, in order, and nothing for unknown keys.
func TestMatch(t *testing.T) {
	t.Parallel()

	input := validDirectory + "3,BLDG 789,10.12.80.12,c@x.edu,net-l@x.edu,ithelp@x.edu,freezer-monitor@x.edu,\n"

	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	matches := Match(entries, "10.12.80.12")
	require.Len(t, matches, 2)
	require.Equal(t, "BLDG 456", matches[0].Location)
	require.Equal(t, "BLDG 789", matches[1].Location)

	require.Empty(t, Match(entries, "10.99.99.99"))
}
