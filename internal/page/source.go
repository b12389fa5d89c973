package page

import (
	"fmt"
	"os"
)

// FileSource loads snapshots from a file and writes decorated snapshots back.
type FileSource struct {
	// Path is the snapshot HTML file.
	Path string

	// Output is where decorated snapshots are written. Empty rewrites Path.
	Output string

	// Location overrides the navigational path encoded in the snapshot.
	Location string

	// SectionPrefix overrides the monitored section's path prefix.
	SectionPrefix string
}

// Load parses the current snapshot.
func (s *FileSource) Load() (*Document, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, s.Path)
		}
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	var opts []DocumentOption
	if s.Location != "" {
		opts = append(opts, WithLocation(s.Location))
	}
	if s.SectionPrefix != "" {
		opts = append(opts, WithSectionPrefix(s.SectionPrefix))
	}

	return ParseDocument(f, opts...)
}

// Acquire loads the current snapshot as a Document.
func (s *FileSource) Acquire() (Page, error) {
	return s.Load()
}

// Commit writes the decorated snapshot out when markers changed.
func (s *FileSource) Commit(p Page) error {
	d, ok := p.(*Document)
	if !ok || !d.Dirty() {
		return nil
	}
	return s.Save(d)
}

// Save renders the decorated document to the output path.
func (s *FileSource) Save(d *Document) error {
	target := s.Output
	if target == "" {
		target = s.Path
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if err := d.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
