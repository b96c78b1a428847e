package editor

import (
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
)

// View is a copy of the workspace state for rendering.
type View struct {
	Tabs      []Tab
	Tab       string
	Resource  *registry.Resource
	Records   []registry.Record
	Messages  []models.Message
	Analytics content.Analytics
	Session   Session
	Delete    *DeleteRequest
	Notices   []string
}

func (w *Workspace) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Tabs:      Tabs(),
		Tab:       w.tab,
		Records:   make([]registry.Record, 0, len(w.records)),
		Messages:  append([]models.Message(nil), w.messages...),
		Analytics: w.analytics,
		Session:   w.session,
		Notices:   append([]string(nil), w.notices...),
	}
	if res, ok := registry.FromTab(w.tab); ok {
		v.Resource = &res
	}
	for _, r := range w.records {
		v.Records = append(v.Records, r.Clone())
	}
	if w.session.Open() {
		v.Session.Draft = w.session.Draft.Clone()
	}
	if w.pending != nil {
		pending := *w.pending
		v.Delete = &pending
	}
	return v
}
