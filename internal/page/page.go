// Package page is the boundary to the host inbox document. The engine only
// sees the Page interface; the concrete implementation here reads HTML
// snapshots of the host UI with goquery and decorates them with follow-up
// markers.
package page

import "errors"

// Boundary errors.
var (
	ErrScopeNotFound    = errors.New("thread list scope not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Message is the latest message entry of the open conversation's detail view.
type Message struct {
	// FromMe is true when the message was sent by the local user.
	FromMe bool

	// TimeText is the displayed or encoded time value, verbatim.
	TimeText string
}

// Row is one rendered thread-list entry, observed and decorated but never
// owned by the engine.
type Row interface {
	// Href returns the row's navigational target.
	Href() string

	// HasMarker reports whether the follow-up marker is attached.
	HasMarker() bool

	// EnsureMarker attaches the follow-up marker, carrying label as its
	// description. Idempotent: a second call never duplicates the marker.
	EnsureMarker(label string)

	// RemoveMarker detaches the follow-up marker if present. Idempotent.
	RemoveMarker()
}

// Page is the host-document surface one scan executes against.
type Page interface {
	// Location returns the current navigational path.
	Location() string

	// ThreadRows enumerates candidate thread rows inside the list scope.
	// Returns ErrScopeNotFound when the scope anchor is missing.
	ThreadRows() ([]Row, error)

	// LatestMessage returns the newest message of the open conversation's
	// detail view. ok is false when the detail view is absent or empty.
	LatestMessage() (Message, bool)
}
