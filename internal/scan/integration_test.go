package scan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inboxdot/inboxdot/internal/page"
	"github.com/inboxdot/inboxdot/internal/store"
)

const inboxSnapshot = `<!DOCTYPE html>
<html>
<head>
  <link rel="canonical" href="https://www.example.com/sales/inbox/abc123">
</head>
<body>
  <div id="app">
    <div class="pane">
      <div class="list">
        <div class="search-zone">
          <div class="search-box">
            <div class="search-inner">
              <div class="field">
                <input type="text" placeholder="Search messages">
              </div>
            </div>
          </div>
        </div>
        <ul>
          <li><a href="/sales/inbox/abc123?via=list"><strong>Ada Lovelace</strong><span>2d</span></a></li>
          <li><a href="/sales/inbox/xyz999?via=list"><strong>Grace Hopper</strong><span>1h</span></a></li>
        </ul>
      </div>
    </div>
  </div>
  <div class="thread-container">
    <article><p>my opener</p><time datetime="1w"></time></article>
    <article><p aria-label="Message from you">any update?</p><time datetime="2d"></time></article>
  </div>
</body>
</html>`

// The full pipeline against the real document implementation: snapshot in,
// decorated snapshot out, verdicts durable across scanner instances.
func TestScanEndToEndOverSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inbox.html")
	require.NoError(t, os.WriteFile(path, []byte(inboxSnapshot), 0o644))

	kv := newMemKV()
	source := &page.FileSource{Path: path}

	scanner := NewScanner(Config{ThresholdDays: 1}, source, store.New(kv))
	scanner.ScanNow()

	decorated, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(decorated), page.MarkerClass),
		"only the open, due conversation's row is marked")
	require.Contains(t, string(decorated), "No reply for ≥ 1 days (heuristic)")

	// A fresh scanner over the same durable bytes still marks the row even
	// though the new snapshot carries no detail view to evaluate.
	withoutDetail := strings.Replace(inboxSnapshot, "thread-container", "gone", 1)
	require.NoError(t, os.WriteFile(path, []byte(withoutDetail), 0o644))

	rescanner := NewScanner(Config{ThresholdDays: 1}, source, store.New(kv))
	rescanner.ScanNow()

	decorated, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(decorated), page.MarkerClass))
}

// A reply from the other party clears the marker on the next scan.
func TestScanEndToEndMarkerClearsAfterReply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inbox.html")
	require.NoError(t, os.WriteFile(path, []byte(inboxSnapshot), 0o644))

	kv := newMemKV()
	source := &page.FileSource{Path: path}

	NewScanner(Config{ThresholdDays: 1}, source, store.New(kv)).ScanNow()

	// The next capture carries their reply, plus the marker left over from
	// the previous decoration pass.
	replied := strings.Replace(inboxSnapshot,
		`<article><p aria-label="Message from you">any update?</p><time datetime="2d"></time></article>`,
		`<article><p>got it, thanks!</p><time datetime="1h"></time></article>`, 1)
	replied = strings.Replace(replied, "<strong>Ada Lovelace</strong>",
		`<strong>Ada Lovelace<span class="`+page.MarkerClass+`" title="stale"></span></strong>`, 1)
	require.NoError(t, os.WriteFile(path, []byte(replied), 0o644))

	NewScanner(Config{ThresholdDays: 1}, source, store.New(kv)).ScanNow()

	decorated, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Zero(t, strings.Count(string(decorated), page.MarkerClass),
		"their reply supersedes the due verdict and removes the marker")
}
