package browser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	crumbStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	crumbSepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57"))
	launchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	browseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	detailsBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	detailKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	header := m.renderBreadcrumbs()
	list := m.renderList()
	details := detailsBorder.Render(m.details.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, details)

	status := ""
	if m.statusMessage != "" {
		status = statusStyle.Render(m.statusMessage)
	}
	footer := m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, status, footer)
}

func (m Model) renderBreadcrumbs() string {
	crumbs := m.svc.Breadcrumbs()
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		parts[i] = crumbStyle.Render(c.Label)
	}
	return strings.Join(parts, crumbSepStyle.Render(" > "))
}

func (m Model) renderList() string {
	if len(m.objects) == 0 {
		return browseStyle.Render("(no objects here)")
	}

	var b strings.Builder
	for i, obj := range m.objects {
		marker := "  "
		style := browseStyle
		if obj.Launchable() {
			style = launchStyle
		}
		line := obj.Title
		if i == m.cursor {
			marker = "> "
			style = selectedStyle
		}
		b.WriteString(marker + style.Render(line) + "\n")
	}
	return lipgloss.NewStyle().Width(m.listWidth()).Render(b.String())
}

// refreshDetails rebuilds the side pane for the selected object.
func (m *Model) refreshDetails() {
	obj := m.selected()
	if obj == nil {
		m.details.SetContent(browseStyle.Render("Nothing selected."))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", obj.Title)
	fmt.Fprintf(&b, "%s %s\n", detailKeyStyle.Render("file:"), filepath.Base(obj.Source))

	if icon, ok := m.svc.IconPath(obj); ok {
		fmt.Fprintf(&b, "%s %s\n", detailKeyStyle.Render("icon:"), icon)
	}
	if page := m.svc.DetailsPath(obj); page != "" {
		fmt.Fprintf(&b, "%s %s\n", detailKeyStyle.Render("details:"), page)
	}
	if obj.Launchable() {
		fmt.Fprintf(&b, "%s %s %s\n", detailKeyStyle.Render("action:"), obj.OpenAction.Command, obj.OpenAction.Arg0)
	} else {
		fmt.Fprintf(&b, "%s\n", detailKeyStyle.Render("browsable only"))
	}
	m.details.SetContent(b.String())
}

func (m Model) listWidth() int {
	if m.width == 0 {
		return 40
	}
	return m.width * 2 / 3
}

func (m Model) detailsWidth() int {
	if m.width == 0 {
		return 38
	}
	return m.width - m.listWidth() - 4
}

func (m Model) listHeight() int {
	if m.height == 0 {
		return 20
	}
	// Header, spacing, status and help eat a few rows.
	return m.height - 6
}
