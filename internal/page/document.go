package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/inboxdot/inboxdot/internal/logging"
)

const (
	// MarkerClass is the class of the injected marker element.
	MarkerClass = "inboxdot-dot"

	// DefaultSectionPrefix is the monitored section's path prefix.
	DefaultSectionPrefix = "/sales/inbox"

	// scopeClimb is how many ancestors above the search input the stable
	// thread-list container sits.
	scopeClimb = 6
)

// Page-specific selectors for the one supported host page.
const (
	searchInputSelector = `input[type="text"], input[type="search"]`
	detailArticle       = ".thread-container article"
	fromMeSelector      = `[aria-label="Message from you"]`
	rowTitleSelectors   = `.artdeco-entity-lockup__title, [data-anonymize="person-name"], strong`
	markerSelector      = "span." + MarkerClass
)

// Document is a goquery-backed Page over one HTML snapshot of the host UI.
type Document struct {
	doc           *goquery.Document
	location      string
	sectionPrefix string
	logger        zerolog.Logger

	dirty bool
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithLocation sets the navigational path the snapshot was captured at,
// overriding anything encoded in the document itself.
func WithLocation(location string) DocumentOption {
	return func(d *Document) {
		d.location = location
	}
}

// WithSectionPrefix overrides the monitored section's path prefix.
func WithSectionPrefix(prefix string) DocumentOption {
	return func(d *Document) {
		if prefix != "" {
			d.sectionPrefix = prefix
		}
	}
}

// ParseDocument parses an HTML snapshot.
func ParseDocument(r io.Reader, opts ...DocumentOption) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	d := &Document{
		doc:           doc,
		sectionPrefix: DefaultSectionPrefix,
		logger:        logging.Component("page"),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.location == "" {
		d.location = locationFromDocument(doc)
	}

	return d, nil
}

// Location returns the navigational path of the snapshot. When no explicit
// location was given it falls back to the document's canonical link.
func (d *Document) Location() string {
	return d.location
}

// SectionPrefix returns the monitored section's path prefix.
func (d *Document) SectionPrefix() string {
	return d.sectionPrefix
}

// Dirty reports whether any marker was added or removed since parsing.
func (d *Document) Dirty() bool {
	return d.dirty
}

// Render writes the (possibly decorated) document back out as HTML.
func (d *Document) Render(w io.Writer) error {
	html, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return fmt.Errorf("failed to render snapshot: %w", err)
	}
	_, err = io.WriteString(w, html)
	return err
}

// ThreadRows enumerates candidate thread rows inside the list scope: anchors
// whose target is inside the monitored section, excluding the bare section
// root, with a qualifying deeper path and non-trivial visible text.
func (d *Document) ThreadRows() ([]Row, error) {
	root, err := d.scopeRoot()
	if err != nil {
		return nil, err
	}

	selector := fmt.Sprintf(`a[href*=%q]`, d.sectionPrefix)
	var rows []Row
	root.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !d.isThreadHref(href) {
			return
		}
		if len(strings.TrimSpace(sel.Text())) < 2 {
			return
		}
		rows = append(rows, &documentRow{doc: d, sel: sel, href: href})
	})

	d.logger.Debug().Int("rows", len(rows)).Msg("enumerated thread rows")
	return rows, nil
}

// LatestMessage returns the newest message entry of the detail view.
func (d *Document) LatestMessage() (Message, bool) {
	articles := d.doc.Find(detailArticle)
	if articles.Length() == 0 {
		return Message{}, false
	}
	last := articles.Last()

	msg := Message{
		FromMe: last.Find(fromMeSelector).Length() > 0,
	}

	timeEl := last.Find("time").First()
	if timeEl.Length() > 0 {
		if dt, ok := timeEl.Attr("datetime"); ok && dt != "" {
			msg.TimeText = dt
		} else {
			msg.TimeText = strings.TrimSpace(timeEl.Text())
		}
	}

	return msg, true
}

// scopeRoot anchors on the "search messages" input (English or French
// placeholder) and climbs to a stable-ish container above it.
func (d *Document) scopeRoot() (*goquery.Selection, error) {
	var input *goquery.Selection
	d.doc.Find(searchInputSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		placeholder, _ := sel.Attr("placeholder")
		if isSearchMessagesPlaceholder(placeholder) {
			input = sel
			return false
		}
		return true
	})
	if input == nil {
		return nil, ErrScopeNotFound
	}

	node := input
	for i := 0; i < scopeClimb; i++ {
		node = node.Parent()
		if node.Length() == 0 {
			return nil, ErrScopeNotFound
		}
	}
	return node, nil
}

func isSearchMessagesPlaceholder(placeholder string) bool {
	ph := strings.ToLower(placeholder)
	if strings.Contains(ph, "search") && strings.Contains(ph, "message") {
		return true
	}
	return strings.Contains(ph, "rechercher") && strings.Contains(ph, "message")
}

// isThreadHref filters anchors down to thread selections: inside the section,
// not the bare root, and carrying query params or a deeper path.
func (d *Document) isThreadHref(href string) bool {
	if !strings.Contains(href, d.sectionPrefix) {
		return false
	}
	if href == d.sectionPrefix || href == d.sectionPrefix+"/" {
		return false
	}
	return strings.Contains(href, "?") || len(strings.Split(href, "/")) > 3
}

// locationFromDocument recovers the captured path from the snapshot itself.
func locationFromDocument(doc *goquery.Document) string {
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		return pathOf(href)
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		return pathOf(content)
	}
	return ""
}

func pathOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	if u.Path != "" {
		return u.Path
	}
	return raw
}

// documentRow is a Row over one thread anchor.
type documentRow struct {
	doc  *Document
	sel  *goquery.Selection
	href string
}

func (r *documentRow) Href() string {
	return r.href
}

// titleEl picks the element the marker attaches to: a title/name sub-element
// when present, the row itself otherwise.
func (r *documentRow) titleEl() *goquery.Selection {
	title := r.sel.Find(rowTitleSelectors).First()
	if title.Length() > 0 {
		return title
	}
	return r.sel
}

func (r *documentRow) HasMarker() bool {
	return r.titleEl().ChildrenFiltered(markerSelector).Length() > 0
}

func (r *documentRow) EnsureMarker(label string) {
	title := r.titleEl()
	if title.ChildrenFiltered(markerSelector).Length() > 0 {
		return
	}
	title.AppendHtml(fmt.Sprintf(`<span class=%q title=%q></span>`, MarkerClass, label))
	r.doc.dirty = true
}

func (r *documentRow) RemoveMarker() {
	markers := r.titleEl().ChildrenFiltered(markerSelector)
	if markers.Length() == 0 {
		return
	}
	markers.Remove()
	r.doc.dirty = true
}
