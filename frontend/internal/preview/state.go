package preview

import (
	"github.com/previewer-dev/previewer/shared/domain"
)

type Status int

const (
	StatusInitializing Status = iota
	StatusEmpty
	StatusListing
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusEmpty:
		return "empty"
	case StatusListing:
		return "listing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Preview is the selected attachment ready for display. Exactly one of Text and URL is set;
// Text is only set for text/plain attachments.
type Preview struct {
	AttachmentID string
	Title        string
	MimeType     string
	Text         *string
	URL          string
	DownloadURL  string
	Sandbox      domain.SandboxPolicy
	// Width and Height are set for raster images whose header could be read.
	Width  int
	Height int

	handle string
}

func (p *Preview) IsText() bool { return p.Text != nil }

// State is the externally observable state of one previewer mount. Busy is set while a
// selection is loading and gates further selections. Listings are replaced, never mutated,
// so snapshots may share them.
type State struct {
	Status         Status
	Attachments    domain.Attachments
	Selected       *Preview
	Busy           bool
	Failure        string
	SelectionError string
}

func initialState() State {
	return State{Status: StatusInitializing}
}

func (s State) listed(attachments domain.Attachments) State {
	if len(attachments) == 0 {
		return s.empty()
	}
	return State{Status: StatusListing, Attachments: attachments}
}

func (s State) empty() State {
	return State{Status: StatusEmpty}
}

func (s State) failed(reason string) State {
	return State{Status: StatusFailed, Failure: reason}
}

func (s State) beginSelection() (State, error) {
	if s.Busy {
		return s, ErrBusy
	}
	if s.Status != StatusListing {
		return s, ErrNotListing
	}
	s.Busy = true
	s.SelectionError = ""
	return s, nil
}

func (s State) previewing(p *Preview) State {
	s.Selected = p
	s.Busy = false
	s.SelectionError = ""
	return s
}

func (s State) selectionFailed(reason string) State {
	s.Busy = false
	s.SelectionError = reason
	return s
}
