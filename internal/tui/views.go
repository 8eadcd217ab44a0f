package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/canban/internal/model"
)

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	activeTab    = lipgloss.NewStyle().Padding(0, 1).Bold(true).Reverse(true)
	inactiveTab  = lipgloss.NewStyle().Padding(0, 1)
	columnStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(34)
	carriedStyle = lipgloss.NewStyle().Italic(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (a *App) View() string {
	if a.view == viewArchived {
		return a.renderArchived()
	}
	body := a.renderBoard()
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderBoard() string {
	var tabs []string
	for i, t := range a.tabs {
		style := inactiveTab
		if i == a.tabIdx {
			style = activeTab
		}
		if t.color != "" {
			style = style.Foreground(lipgloss.Color(t.color))
		}
		tabs = append(tabs, style.Render(t.name))
	}
	header := titleStyle.Render("CanBan") + "  " + strings.Join(tabs, " ")

	var cols []string
	for i, status := range model.Statuses {
		cols = append(cols, a.renderColumn(status, i == a.colIdx))
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	help := "[space] pick up  [enter] edit/drop  [n] new card  [d] archive card  [s] suggest\n" +
		"[p] prioritize  [b] briefing  [x] extract  [N/R/X] board new/rename/archive  [A] archived  [tab] board  [r] refresh  [c] ping  [q] quit"

	out := header + "\n" + board + "\n" + help
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderColumn(status model.CardStatus, active bool) string {
	cards := a.store.ColumnCards(status)
	now := time.Now().UTC()

	heading := fmt.Sprintf("%s (%d)", status.Title(), len(cards))
	if active {
		heading = titleStyle.Render(heading)
	}
	lines := []string{heading, ""}
	if len(cards) == 0 {
		lines = append(lines, "  (empty)")
	}
	for i, c := range cards {
		marker := " "
		if active && i == a.rowIdx {
			marker = "▶"
		}
		line := fmt.Sprintf("%s P%d %s", marker, c.Priority, truncate(c.Title, 24))
		if c.Deadline != nil {
			due := c.Deadline.Format("Jan 02")
			if c.Overdue(now) {
				due = overdueStyle.Render(due + "!")
			}
			line += " " + due
		}
		if a.engine.ActiveID() == c.ID {
			line = carriedStyle.Render(line + " ≡")
		}
		lines = append(lines, line)
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderArchived() string {
	out := titleStyle.Render("Archived boards") + "\n"
	if len(a.archived) == 0 {
		out += "  (none)\n"
	}
	for i, b := range a.archived {
		marker := " "
		if i == a.archCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s\n", marker, b.Name)
	}
	out += "[enter] Restore  [esc] Back  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCard, modalBoard:
		lines := []string{titleStyle.Render(a.dialog.title)}
		for _, in := range a.dialog.inputs {
			lines = append(lines, in.View())
		}
		lines = append(lines, "", "[enter] Save  [tab] Next field  [esc] Cancel")
		return strings.Join(lines, "\n")
	case modalConfirmArchive:
		name := ""
		if b, ok := a.currentBoard(); ok {
			name = b.Name
		}
		return titleStyle.Render("Archive board "+name+"?") + "\nIts cards are archived too; restore from the archived view.\n[y] Yes  [n] No"
	case modalExtract:
		return titleStyle.Render("Extract tasks") + "\n" + a.dialog.area.View() + "\n[ctrl+s] Extract  [esc] Cancel"
	case modalExtractPreview:
		out := titleStyle.Render("Extracted tasks") + "\n"
		if a.extractSummary != "" {
			out += a.extractSummary + "\n\n"
		}
		if len(a.extracted) == 0 {
			out += "No tasks found in the text.\n[esc] Close"
			return out
		}
		for _, t := range a.extracted {
			out += fmt.Sprintf("- P%d %s", t.Priority, t.Title)
			if len(t.Tags) > 0 {
				out += " [" + strings.Join(t.Tags, ", ") + "]"
			}
			out += "\n"
		}
		out += "\n[enter] Create cards  [esc] Discard"
		return out
	case modalBriefing:
		if a.briefing == nil {
			return ""
		}
		b := a.briefing
		out := titleStyle.Render("Daily briefing "+b.Date) + "\n" + b.Summary + "\n"
		if len(b.HighPriorityTasks) > 0 {
			out += "\nHigh priority:\n"
			for _, t := range b.HighPriorityTasks {
				out += fmt.Sprintf("- P%d %s\n", t.Priority, t.Title)
			}
		}
		if len(b.OverdueTasks) > 0 {
			out += "\nOverdue:\n"
			for _, t := range b.OverdueTasks {
				out += "- " + t.Title + "\n"
			}
		}
		if len(b.Suggestions) > 0 {
			out += "\nSuggestions:\n"
			for _, s := range b.Suggestions {
				out += "- " + s + "\n"
			}
		}
		out += "\n[esc] Close"
		return out
	case modalSuggest:
		if a.suggestion == nil {
			return ""
		}
		out := titleStyle.Render("Suggestions for "+a.suggestTitle) + "\n"
		for _, s := range a.suggestion.Suggestions {
			out += "- " + s + "\n"
		}
		if a.suggestion.Reasoning != "" {
			out += "\n" + a.suggestion.Reasoning + "\n"
		}
		out += "\n[esc] Close"
		return out
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
