package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rollgrid/internal/model"
	"rollgrid/internal/view"
)

func (m *Model) View() string {
	if m.screen == screenLogin {
		return m.renderLogin()
	}
	v := m.renderGrid()
	if m.modalActive {
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) renderGrid() string {
	width := m.termWidth
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	b.WriteString(m.renderTitle(width))
	b.WriteString("\n")

	cols, widths := m.layout(width)
	b.WriteString(m.renderHeader(cols, widths, width))
	b.WriteString("\n")

	h := m.gridHeight()
	for i := 0; i < h; i++ {
		idx := m.rowOffset + i
		if idx < len(m.rows) {
			b.WriteString(m.renderRow(m.rows[idx], idx, cols, widths))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderSubStatus(width))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(width))
	return b.String()
}

func (m *Model) renderTitle(width int) string {
	left := m.styles.Title.Render("rollgrid")
	who := ""
	if m.account != nil {
		who = m.account.Email
		if m.account.Admin {
			who += " (admin)"
		}
	}
	parts := []string{left, m.styles.Status.Render(who)}
	if m.dirty {
		parts = append(parts, m.styles.Error.Render("*"))
	}
	if m.cfg.Follow {
		parts = append(parts, m.styles.Status.Render("following "+m.cfg.FilePath))
	}
	if m.aiBusy {
		parts = append(parts, m.spin.View())
	}
	return truncPad(strings.Join(parts, "  "), width)
}

func (m *Model) renderHeader(cols model.Columns, widths []int, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", markerWidth))
	for i, c := range cols {
		label := c
		if m.sortSpec != nil && m.sortSpec.Column == c {
			if m.sortSpec.Direction == view.Ascending {
				label += " ^"
			} else {
				label += " v"
			}
		}
		if m.criteria.Patterns[c] != "" {
			label += "*"
		}
		cell := padCell(label, widths[i])
		if c == m.currentColumn() {
			cell = m.styles.HeaderSel.Render(cell)
		} else {
			cell = m.styles.Header.Render(cell)
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}
	return b.String()
}

func (m *Model) renderRow(r model.Record, idx int, cols model.Columns, widths []int) string {
	var b strings.Builder
	marker := "  "
	if m.selected[r.ID] {
		marker = "* "
	}
	b.WriteString(marker)
	for i, c := range cols {
		b.WriteString(padCell(r.Get(c).Text(), widths[i]))
		b.WriteString(" ")
	}
	line := b.String()
	switch {
	case idx == m.cursor:
		return m.styles.CursorRow.Render(line)
	case r.Highlighted:
		return m.styles.Highlighted.Render(line)
	case m.selected[r.ID]:
		return m.styles.SelectedRow.Render(line)
	default:
		return m.styles.Cell.Render(line)
	}
}

func (m *Model) renderSubStatus(width int) string {
	if m.inlineMode != inlineNone {
		return truncPad(m.input.View()+"    [enter]=apply [esc]=cancel", width)
	}
	var parts []string
	for col, p := range m.criteria.Patterns {
		parts = append(parts, fmt.Sprintf("%s~%q", col, p))
	}
	if m.criteria.Expr != "" {
		parts = append(parts, "expr: "+m.criteria.Expr)
	}
	if len(parts) > 0 {
		return truncPad(m.styles.Status.Render("filter "+strings.Join(parts, " AND ")+"    [F]=clear"), width)
	}
	if m.searchPattern != "" {
		return truncPad(m.styles.Status.Render(fmt.Sprintf("search %q (%d hits)    [n/N]=next/prev", m.searchPattern, len(m.searchHits))), width)
	}
	return strings.Repeat(" ", width)
}

func (m *Model) renderStatus(width int) string {
	cur := 0
	if len(m.rows) > 0 {
		cur = m.cursor + 1
	}
	total := len(m.hist.Current().Rows)
	status := fmt.Sprintf("row:%d/%d (of %d)", cur, len(m.rows), total)
	if len(m.selected) > 0 {
		status += fmt.Sprintf(" sel:%d", len(m.selected))
	}
	status += fmt.Sprintf(" undo:%v redo:%v", m.hist.CanUndo(), m.hist.CanRedo())
	status += " | [?]=help"
	if m.lastMsg != "" {
		status += " | " + m.lastMsg
	}
	return truncPad(m.styles.Status.Render(status), width)
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Move", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Page up/down", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},

		{group: "Rows", text: "Add row", key: km.AddRow},
		{group: "Rows", text: "Duplicate selection", key: km.Duplicate},
		{group: "Rows", text: "Delete selection", key: km.DeleteRows},
		{group: "Rows", text: "Toggle highlight", key: km.Highlight},
		{group: "Rows", text: "Edit cell", key: km.EditCell},
		{group: "Rows", text: "Batch update column", key: km.BatchUpdate},
		{group: "Rows", text: "Select row", key: km.ToggleSelect},
		{group: "Rows", text: "Select all visible", key: km.SelectAll},
		{group: "Rows", text: "Clear selection", key: km.ClearSelect},

		{group: "Columns", text: "Add column", key: km.AddColumn},
		{group: "Columns", text: "Rename column", key: km.RenameColumn},
		{group: "Columns", text: "Delete column", key: km.DeleteColumn},
		{group: "Columns", text: "Move column left", key: km.MoveColLeft},
		{group: "Columns", text: "Move column right", key: km.MoveColRight},
		{group: "Columns", text: "Hide column", key: km.HideColumn},
		{group: "Columns", text: "Show all columns", key: km.ShowAllCols},

		{group: "View", text: "Filter current column", key: km.Filter},
		{group: "View", text: "Expression filter", key: km.ExprFilter},
		{group: "View", text: "Clear filters", key: km.ClearFilter},
		{group: "View", text: "Search", key: km.Search},
		{group: "View", text: "Search next", key: km.SearchNext},
		{group: "View", text: "Search prev", key: km.SearchPrev},
		{group: "View", text: "Sort current column", key: km.Sort},

		{group: "History", text: "Undo", key: km.Undo},
		{group: "History", text: "Redo", key: km.Redo},

		{group: "Roster", text: "Export view", key: km.Export},
		{group: "Roster", text: "Edit booth profile", key: km.Profile},
		{group: "Roster", text: "Save now", key: km.Save},
		{group: "Roster", text: "Clear all rows", key: km.ClearRoster},

		{group: "AI", text: "Dictate a row", key: km.Dictate},
		{group: "AI", text: "Analyze selection", key: km.Analyze},

		{group: "App", text: "Manage accounts (admin)", key: km.Accounts},
		{group: "App", text: "Application logs", key: km.AppLogs},
		{group: "App", text: "Log out", key: km.Logout},
		{group: "App", text: "Quit", key: km.Quit},
	}
}

func (m *Model) renderHelpBody() string {
	var b strings.Builder
	group := ""
	for _, it := range m.buildHelpItems() {
		if it.group != group {
			if group != "" {
				b.WriteString("\n")
			}
			group = it.group
			b.WriteString(m.styles.PopupTitle.Render(group) + "\n")
		}
		b.WriteString(fmt.Sprintf("  %-8s %s\n", keyLabel(it.key), it.text))
	}
	return b.String()
}

func keyLabel(k tea.Key) string {
	if k.Type == tea.KeyRunes && len(k.Runes) == 1 && k.Runes[0] == ' ' {
		return "space"
	}
	return k.String()
}

func (m *Model) renderModal() string {
	body := m.modalBody
	switch m.modalKind {
	case modalAccounts:
		body = m.renderAccountsBody()
	case modalProfile:
		body = m.renderProfileBody()
	}
	m.modalVP.SetContent(body)
	content := m.styles.PopupTitle.Render(m.modalTitle) + "\n\n" + m.modalVP.View()
	box := m.styles.PopupBox.Render(content)
	if m.termWidth > 0 && m.termHeight > 0 {
		return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m *Model) renderProfileBody() string {
	var b strings.Builder
	for i, label := range profileLabels {
		b.WriteString(m.styles.Prompt.Render(label+": ") + m.profileIn[i].View() + "\n")
	}
	b.WriteString("\n[tab]=next field [enter]=save [esc]=cancel")
	return b.String()
}

func (m *Model) renderAccountsBody() string {
	var b strings.Builder
	for i, a := range m.accounts {
		cursor := "  "
		if i == m.accountsIdx {
			cursor = "> "
		}
		role := ""
		if a.Admin {
			role = " [admin]"
		}
		b.WriteString(fmt.Sprintf("%s%s <%s>%s\n", cursor, a.Name, a.Email, role))
	}
	b.WriteString("\n[r]=reset password [x]=delete [esc]=close")
	return b.String()
}

func padCell(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		if w <= 1 {
			return string(r[:w])
		}
		return string(r[:w-1]) + "~"
	}
	return s + strings.Repeat(" ", w-len(r))
}

func truncPad(s string, w int) string {
	if lipgloss.Width(s) > w {
		return s // let the terminal clip styled lines rather than splitting escape codes
	}
	return s + strings.Repeat(" ", w-lipgloss.Width(s))
}

func overlay(base, top string) string {
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(top, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}
