package editor

import (
	"github.com/rpupo63/portfolio-site/gateway"
	"github.com/rpupo63/portfolio-site/registry"
)

// Mode is the state of the add/edit modal.
type Mode int

const (
	Closed Mode = iota
	Adding
	Editing
)

func (m Mode) String() string {
	switch m {
	case Adding:
		return "adding"
	case Editing:
		return "editing"
	}
	return "closed"
}

// Session is the open add/edit modal. The zero value is Closed.
type Session struct {
	Mode      Mode
	Kind      registry.Kind
	Draft     registry.Record
	Uploading bool

	// bumped on every open so late uploads cannot reach a later session
	generation uint64
}

func (s Session) Open() bool {
	return s.Mode != Closed
}

func (s Session) saveMode() gateway.Mode {
	if s.Mode == Editing {
		return gateway.ModeEdit
	}
	return gateway.ModeAdd
}

// DeleteRequest is a delete awaiting confirmation.
type DeleteRequest struct {
	Collection string
	ID         string
	Label      string
}
