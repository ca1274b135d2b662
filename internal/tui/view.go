package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskwiz/internal/service"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(14)

	statusStyles = map[service.Status]lipgloss.Style{
		service.StatusOpen:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		service.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		service.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

// rowPrefixWidth is the cursor marker, the status column and the gap.
const rowPrefixWidth = 2 + 11 + 2

const (
	listHelp    = "j/k move  enter details  a add  o/p/d open/progress/done  D delete  f status  / search  x clear  r reload  q quit"
	detailHelp  = "esc back"
	formHelp    = "enter next  esc cancel"
	confirmHelp = "y confirm  any other key cancels"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("taskwiz: " + m.username))
	b.WriteString("\n")

	if line := filterLine(m.state.Filters); line != "" {
		b.WriteString(filterStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderList())
	}

	switch m.mode {
	case modeSearch:
		b.WriteString("\n" + m.search.View() + "\n")
	case modeAddTitle, modeAddDescription:
		b.WriteString("\n" + m.title.View() + "\n" + m.desc.View() + "\n")
	case modeConfirmDelete:
		if t, ok := m.selected(); ok {
			b.WriteString(fmt.Sprintf("\ndelete %q? (y/n)\n", t.Title))
		}
	}

	b.WriteString("\n")
	if line := m.renderNotice(); line != "" {
		b.WriteString(line + "\n")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m Model) renderList() string {
	if m.state.Loading && len(m.state.Tasks) == 0 {
		return "loading...\n"
	}
	visible := m.state.Visible()
	if len(visible) == 0 {
		return "no tasks found\n"
	}

	var b strings.Builder
	for i, t := range visible {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		status := statusStyles[t.Status].Render(fmt.Sprintf("%-11s", t.Status.Label()))
		fmt.Fprintf(&b, "%s%s  %s\n", marker, status, truncate(t.Title, m.width-rowPrefixWidth))
	}
	fmt.Fprintf(&b, "\n%d task(s) found\n", len(visible))
	return b.String()
}

func (m Model) renderDetail() string {
	t := m.detail
	var b strings.Builder
	b.WriteString(labelStyle.Render("Title:") + t.Title + "\n")
	b.WriteString(labelStyle.Render("Status:") + statusStyles[t.Status].Render(t.Status.Label()) + "\n")
	b.WriteString(labelStyle.Render("ID:") + t.ID + "\n")
	b.WriteString(labelStyle.Render("Description:") + "\n")
	for _, line := range strings.Split(t.Description, "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m Model) renderNotice() string {
	if m.state.Err != nil {
		return errorStyle.Render(m.state.Err.Error())
	}
	if m.notice != "" {
		return successStyle.Render(m.notice)
	}
	return ""
}

func (m Model) help() string {
	switch m.mode {
	case modeDetail:
		return detailHelp
	case modeSearch, modeAddTitle, modeAddDescription:
		return formHelp
	case modeConfirmDelete:
		return confirmHelp
	}
	return listHelp
}

func filterLine(f service.Filter) string {
	if f.IsZero() {
		return ""
	}
	var parts []string
	if f.Status != "" {
		parts = append(parts, "status="+f.Status.Label())
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	return "filter: " + strings.Join(parts, " ")
}

// truncate shortens s to at most n cells, marking the cut with "…".
// n <= 0 means no limit.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
