package page

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const snapshotHTML = `<!DOCTYPE html>
<html>
<head>
  <link rel="canonical" href="https://www.example.com/sales/inbox/abc123?via=nav">
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
          <li><a href="/sales/inbox/abc123?via=list"><div class="artdeco-entity-lockup__title">Ada Lovelace</div><span>2d</span></a></li>
          <li><a href="/sales/inbox/xyz999?via=list"><strong>Grace Hopper</strong><span>Yesterday</span></a></li>
          <li><a href="/sales/inbox/">Inbox</a></li>
          <li><a href="/sales/inbox/tiny?via=list">x</a></li>
        </ul>
      </div>
    </div>
  </div>
  <div class="thread-container">
    <article><p>earlier message</p><time datetime="1w"></time></article>
    <article><p aria-label="Message from you">latest message</p><time datetime="2d"></time></article>
  </div>
</body>
</html>`

func parseFixture(t *testing.T, html string, opts ...DocumentOption) *Document {
	t.Helper()
	doc, err := ParseDocument(strings.NewReader(html), opts...)
	require.NoError(t, err)
	return doc
}

func TestDocumentLocationFromCanonicalLink(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)
	require.Equal(t, "/sales/inbox/abc123", doc.Location())
}

func TestDocumentLocationOverride(t *testing.T) {
	doc := parseFixture(t, snapshotHTML, WithLocation("/sales/inbox/other42"))
	require.Equal(t, "/sales/inbox/other42", doc.Location())
}

func TestDocumentThreadRows(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)

	rows, err := doc.ThreadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2, "bare root and trivial-text anchors must be filtered out")

	require.Equal(t, "/sales/inbox/abc123?via=list", rows[0].Href())
	require.Equal(t, "/sales/inbox/xyz999?via=list", rows[1].Href())
}

func TestDocumentThreadRowsFrenchPlaceholder(t *testing.T) {
	html := strings.Replace(snapshotHTML, `placeholder="Search messages"`, `placeholder="Rechercher des messages"`, 1)
	doc := parseFixture(t, html)

	rows, err := doc.ThreadRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestDocumentScopeNotFound(t *testing.T) {
	html := strings.Replace(snapshotHTML, `placeholder="Search messages"`, `placeholder="Search people"`, 1)
	doc := parseFixture(t, html)

	_, err := doc.ThreadRows()
	require.ErrorIs(t, err, ErrScopeNotFound)
}

func TestDocumentLatestMessage(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)

	msg, ok := doc.LatestMessage()
	require.True(t, ok)
	require.True(t, msg.FromMe)
	require.Equal(t, "2d", msg.TimeText)
}

func TestDocumentLatestMessageTimeTextFallback(t *testing.T) {
	html := strings.Replace(snapshotHTML,
		`<article><p aria-label="Message from you">latest message</p><time datetime="2d"></time></article>`,
		`<article><p>their reply</p><time>Yesterday</time></article>`, 1)
	doc := parseFixture(t, html)

	msg, ok := doc.LatestMessage()
	require.True(t, ok)
	require.False(t, msg.FromMe)
	require.Equal(t, "Yesterday", msg.TimeText)
}

func TestDocumentLatestMessageMissingDetailView(t *testing.T) {
	html := strings.ReplaceAll(snapshotHTML, "thread-container", "something-else")
	doc := parseFixture(t, html)

	_, ok := doc.LatestMessage()
	require.False(t, ok)
}

func TestRowEnsureMarkerIsIdempotent(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)
	rows, err := doc.ThreadRows()
	require.NoError(t, err)

	row := rows[0]
	require.False(t, row.HasMarker())

	row.EnsureMarker("No reply for ≥ 1 days (heuristic)")
	require.True(t, row.HasMarker())
	require.True(t, doc.Dirty())

	row.EnsureMarker("No reply for ≥ 1 days (heuristic)")

	var rendered strings.Builder
	require.NoError(t, doc.Render(&rendered))
	require.Equal(t, 1, strings.Count(rendered.String(), MarkerClass))
}

func TestRowRemoveMarkerIsIdempotent(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)
	rows, err := doc.ThreadRows()
	require.NoError(t, err)

	row := rows[0]
	row.EnsureMarker("follow up")
	require.True(t, row.HasMarker())

	row.RemoveMarker()
	require.False(t, row.HasMarker())
	row.RemoveMarker()
	require.False(t, row.HasMarker())

	var rendered strings.Builder
	require.NoError(t, doc.Render(&rendered))
	require.Zero(t, strings.Count(rendered.String(), MarkerClass))
}

func TestRowMarkerAttachesToTitleElement(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)
	rows, err := doc.ThreadRows()
	require.NoError(t, err)

	rows[0].EnsureMarker("follow up")

	var rendered strings.Builder
	require.NoError(t, doc.Render(&rendered))
	html := rendered.String()
	require.Contains(t, html, `Ada Lovelace<span class="`+MarkerClass+`"`)
}

func TestDocumentNotDirtyWithoutChanges(t *testing.T) {
	doc := parseFixture(t, snapshotHTML)

	rows, err := doc.ThreadRows()
	require.NoError(t, err)
	for _, row := range rows {
		row.RemoveMarker()
	}
	require.False(t, doc.Dirty(), "removing absent markers must not mark the document dirty")
}
