package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpcdesk/launchpad/pkg/dispatch"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.details.Width = m.detailsWidth()
		m.details.Height = m.listHeight()
		m.refreshDetails()
		return m, nil

	case watcherReadyMsg:
		m.watcher = msg.w
		return m, nil

	case rescanMsg:
		m.svc.Rescan()
		m.reload()
		if m.watcher != nil {
			return m, m.watcher.wait()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.watcher != nil {
			m.watcher.close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshDetails()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.objects)-1 {
			m.cursor++
			m.refreshDetails()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m.openSelected()

	case key.Matches(msg, m.keys.Parent):
		crumbs := m.svc.Breadcrumbs()
		if len(crumbs) > 1 {
			m.changeBase(crumbs[len(crumbs)-2].Path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.changeBase(m.svc.Root())
		return m, nil

	case key.Matches(msg, m.keys.Rescan):
		m.svc.Rescan()
		m.reload()
		m.statusMessage = "rescanned"
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.sortByTitle = !m.sortByTitle
		m.reload()
		return m, nil
	}
	return m, nil
}

func (m *Model) openSelected() (tea.Model, tea.Cmd) {
	obj := m.selected()
	if obj == nil {
		return *m, nil
	}

	old := m.svc.Current()
	out := m.svc.Open(obj)
	switch out.Kind {
	case dispatch.OutcomeNavigate:
		m.cursor = 0
		m.reload()
		if m.watcher != nil {
			m.watcher.retarget(old, m.svc.Current())
		}
		m.statusMessage = ""
	case dispatch.OutcomeScript:
		m.statusMessage = fmt.Sprintf("started %s (pid %d)", obj.Title, out.PID)
	case dispatch.OutcomePlugin:
		m.statusMessage = fmt.Sprintf("opened %s", out.Handle.Title)
	default:
		// Stale descriptors are normal; just say so quietly.
		m.statusMessage = "nothing to open"
	}
	return *m, nil
}

func (m *Model) changeBase(dir string) {
	old := m.svc.Current()
	if !m.svc.ChangeBase(dir) {
		return
	}
	m.cursor = 0
	m.reload()
	if m.watcher != nil {
		m.watcher.retarget(old, m.svc.Current())
	}
	m.statusMessage = ""
}
