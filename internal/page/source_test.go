package page

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileSourceLoadMissingSnapshot(t *testing.T) {
	src := &FileSource{Path: filepath.Join(t.TempDir(), "missing.html")}

	_, err := src.Load()
	require.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestFileSourceLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.html")
	out := filepath.Join(dir, "decorated.html")
	require.NoError(t, os.WriteFile(path, []byte(snapshotHTML), 0o644))

	src := &FileSource{Path: path, Output: out}
	doc, err := src.Load()
	require.NoError(t, err)

	rows, err := doc.ThreadRows()
	require.NoError(t, err)
	rows[0].EnsureMarker("follow up")

	require.NoError(t, src.Save(doc))

	decorated, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(decorated), MarkerClass)

	// The source snapshot is untouched when an output path is set.
	original, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(original), MarkerClass)
}

func TestFileSourceLocationOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.html")
	require.NoError(t, os.WriteFile(path, []byte(snapshotHTML), 0o644))

	src := &FileSource{Path: path, Location: "/sales/inbox/forced1"}
	doc, err := src.Load()
	require.NoError(t, err)
	require.Equal(t, "/sales/inbox/forced1", doc.Location())
}

func TestWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	w, err := WatchFile(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("<p>x</p>", 10)), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after writing the snapshot")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	w, err := WatchFile(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("noise"), 0o644))

	select {
	case <-w.Changes():
		t.Fatal("unexpected signal for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
