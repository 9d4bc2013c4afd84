// Package browser is the interactive frontend: an object list with a
// breadcrumb bar, a details side pane, and dispatch on enter. It holds
// no launcher state of its own; everything flows through the service on
// the single Bubble Tea goroutine.
package browser

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hpcdesk/launchpad/pkg/descriptor"
	"github.com/hpcdesk/launchpad/pkg/launcher"
)

// Model is the browser TUI model.
type Model struct {
	svc *launcher.Service

	objects []*descriptor.Object
	cursor  int

	keys    KeyMap
	help    help.Model
	details viewport.Model

	width  int
	height int

	sortByTitle   bool
	statusMessage string

	watcher *baseWatcher
}

// New creates a browser for svc.
func New(svc *launcher.Service) Model {
	m := Model{
		svc:     svc,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		details: viewport.New(0, 0),
	}
	m.reload()
	return m
}

// Init starts the filesystem watcher for the current base.
func (m Model) Init() tea.Cmd {
	w, err := newBaseWatcher(m.svc.Current())
	if err != nil {
		// Watching is a convenience; the browser still works with
		// manual rescans.
		return nil
	}
	// Init cannot mutate the model, so the watcher is handed back
	// through a message.
	return tea.Batch(func() tea.Msg { return watcherReadyMsg{w: w} }, w.wait())
}

// reload pulls the service's object list, applying the optional title
// sort. The scan contract stays filename-ordered; sorting is a display
// concern only.
func (m *Model) reload() {
	scanned := m.svc.Objects()
	m.objects = make([]*descriptor.Object, len(scanned))
	copy(m.objects, scanned)

	if m.sortByTitle {
		sortByTitle(m.objects)
	}

	if m.cursor >= len(m.objects) {
		m.cursor = len(m.objects) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.refreshDetails()
}

// sortByTitle orders objects by display title, locale-aware and
// case-insensitive.
func sortByTitle(objects []*descriptor.Object) {
	c := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(objects, func(i, j int) bool {
		return c.CompareString(objects[i].Title, objects[j].Title) < 0
	})
}

// selected returns the object under the cursor, or nil.
func (m *Model) selected() *descriptor.Object {
	if m.cursor < 0 || m.cursor >= len(m.objects) {
		return nil
	}
	return m.objects[m.cursor]
}
