package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"rollgrid/internal/auth"
	"rollgrid/internal/model"
	"rollgrid/internal/mutate"
	"rollgrid/internal/store"
	"rollgrid/internal/util/logx"
	"rollgrid/internal/view"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.resizeModal()
		m.ensureRowVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.aiBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case importedMsg:
		if msg.err != nil {
			m.lastMsg = fmtErr(msg.err)
			logx.Errorf("import: %v", msg.err)
			return m, nil
		}
		m.hist.Reset(msg.snap)
		m.selected = mutate.IDSet{}
		m.cursor, m.rowOffset = 0, 0
		m.refresh()
		m.lastMsg = fmt.Sprintf("imported %d rows from %s", len(msg.snap.Rows), msg.name)
		return m, nil

	case followRowMsg:
		if !msg.ok {
			m.lastMsg = "follow stream ended"
			return m, nil
		}
		m.appendFollowRow(msg.row.Cells)
		return m, m.waitFollow()

	case followErrMsg:
		m.lastMsg = fmtErr(msg.err)
		logx.Warnf("follow: %v", msg.err)
		return m, m.waitFollow()

	case exportedMsg:
		if msg.err != nil {
			m.lastMsg = fmtErr(msg.err)
		} else {
			m.lastMsg = "exported to " + msg.path
		}
		return m, nil

	case extractMsg:
		if msg.seq != m.aiSeq {
			return m, nil // superseded request
		}
		m.aiBusy = false
		if msg.err != nil {
			m.lastMsg = fmtErr(msg.err)
			return m, nil
		}
		m.applyExtraction(msg.fields)
		return m, nil

	case analysisMsg:
		if msg.seq != m.aiSeq {
			return m, nil
		}
		m.aiBusy = false
		if msg.err != nil {
			m.lastMsg = fmtErr(msg.err)
			return m, nil
		}
		m.openModal(modalAnalysis, "Roster analysis", msg.text)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenLogin {
			return m.updateLogin(msg)
		}
		if m.modalActive {
			return m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			return m.updateInline(msg)
		}
		return m.updateGridKey(msg)
	}
	return m, nil
}

// commit runs a mutator through the history, surfacing its error in the
// status line instead of committing.
func (m *Model) commit(next model.Snapshot, err error, okMsg string) {
	if err != nil {
		m.lastMsg = fmtErr(err)
		return
	}
	if m.hist.CommitSnapshot(next) {
		m.refresh()
		m.lastMsg = okMsg
	}
}

func (m *Model) updateGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureRowVisible()
	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.ensureRowVisible()
	case msg.Type == tea.KeyLeft:
		if m.selColIdx > 0 {
			m.selColIdx--
		}
	case msg.Type == tea.KeyRight:
		if m.selColIdx < len(m.visibleColumns())-1 {
			m.selColIdx++
		}
	case msg.Type == tea.KeyPgUp:
		m.cursor -= m.gridHeight()
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureRowVisible()
	case msg.Type == tea.KeyPgDown:
		m.cursor += m.gridHeight()
		if m.cursor > len(m.rows)-1 {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.ensureRowVisible()
	case keyMatches(msg, km.Top):
		m.cursor = 0
		m.ensureRowVisible()
	case keyMatches(msg, km.Bottom):
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
		m.ensureRowVisible()

	case keyMatches(msg, km.AddRow):
		m.commit(mutate.AddRow(m.hist.Current()), nil, "row added")
	case keyMatches(msg, km.Duplicate):
		ids := m.targetIDs()
		if len(ids) == 0 {
			m.lastMsg = "nothing to duplicate"
			break
		}
		m.commit(mutate.DuplicateRows(m.hist.Current(), ids), nil, fmt.Sprintf("duplicated %d row(s)", len(ids)))
	case keyMatches(msg, km.DeleteRows):
		if len(m.targetIDs()) == 0 {
			m.lastMsg = "nothing to delete"
			break
		}
		m.openModal(modalConfirmDeleteRows, "Delete rows",
			fmt.Sprintf("Delete %d row(s)? [y]=yes [esc]=cancel", len(m.targetIDs())))
	case keyMatches(msg, km.Highlight):
		ids := m.targetIDs()
		if len(ids) == 0 {
			break
		}
		m.commit(mutate.ToggleHighlight(m.hist.Current(), ids), nil, "highlight toggled")
	case keyMatches(msg, km.EditCell):
		r, ok := m.currentRow()
		col := m.currentColumn()
		if !ok || col == "" {
			break
		}
		if col == model.SerialColumn {
			m.lastMsg = "serial numbers are assigned automatically"
			break
		}
		m.openInline(inlineEditCell, col+": ", r.Get(col).Text())
	case keyMatches(msg, km.BatchUpdate):
		col := m.currentColumn()
		if col == "" {
			break
		}
		if col == model.SerialColumn {
			m.lastMsg = "serial numbers are assigned automatically"
			break
		}
		m.openInline(inlineBatch, fmt.Sprintf("set %s for %d row(s): ", col, len(m.targetIDs())), "")

	case keyMatches(msg, km.ToggleSelect):
		if r, ok := m.currentRow(); ok {
			if m.selected[r.ID] {
				delete(m.selected, r.ID)
			} else {
				m.selected[r.ID] = true
			}
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.ensureRowVisible()
			}
		}
	case keyMatches(msg, km.SelectAll):
		for _, r := range m.rows {
			m.selected[r.ID] = true
		}
		m.lastMsg = fmt.Sprintf("selected %d row(s)", len(m.selected))
	case keyMatches(msg, km.ClearSelect):
		m.selected = mutate.IDSet{}
		m.lastMsg = "selection cleared"

	case keyMatches(msg, km.Filter):
		col := m.currentColumn()
		if col == "" {
			break
		}
		m.openInline(inlineFilter, "filter "+col+": ", m.criteria.Patterns[col])
	case keyMatches(msg, km.ExprFilter):
		m.openInline(inlineExpr, "expr: ", m.criteria.Expr)
	case keyMatches(msg, km.ClearFilter):
		m.criteria = view.Criteria{}
		m.proj, _ = view.NewProjector(m.criteria)
		m.refresh()
		m.lastMsg = "filters cleared"
	case keyMatches(msg, km.Search):
		m.openInline(inlineSearch, "search: ", m.searchPattern)
	case keyMatches(msg, km.SearchNext):
		m.searchNext()
	case keyMatches(msg, km.SearchPrev):
		m.searchPrev()
	case keyMatches(msg, km.Sort):
		m.cycleSort()

	case keyMatches(msg, km.AddColumn):
		m.openInline(inlineAddColumn, "new column: ", "")
	case keyMatches(msg, km.RenameColumn):
		col := m.currentColumn()
		if col == "" {
			break
		}
		if col == model.SerialColumn {
			m.lastMsg = "the serial column cannot be renamed"
			break
		}
		m.openInline(inlineRenameColumn, "rename "+col+" to: ", col)
	case keyMatches(msg, km.DeleteColumn):
		col := m.currentColumn()
		if col == "" {
			break
		}
		m.openModal(modalConfirmDeleteColumn, "Delete column",
			fmt.Sprintf("Delete column %q and all its data? [y]=yes [esc]=cancel", col))
	case keyMatches(msg, km.MoveColLeft):
		m.moveColumn(-1)
	case keyMatches(msg, km.MoveColRight):
		m.moveColumn(1)
	case keyMatches(msg, km.HideColumn):
		col := m.currentColumn()
		if col == "" {
			break
		}
		if len(m.visibleColumns()) <= 1 {
			m.lastMsg = "cannot hide the last column"
			break
		}
		m.hidden[col] = true
		m.clamp()
	case keyMatches(msg, km.ShowAllCols):
		m.hidden = map[string]bool{}

	case keyMatches(msg, km.Undo):
		if m.hist.Undo() {
			m.refresh()
			m.lastMsg = "undo"
		} else {
			m.lastMsg = "nothing to undo"
		}
	case keyMatches(msg, km.Redo):
		if m.hist.Redo() {
			m.refresh()
			m.lastMsg = "redo"
		} else {
			m.lastMsg = "nothing to redo"
		}

	case keyMatches(msg, km.Export):
		m.openInline(inlineExport, "export to (.csv/.xlsx/.pdf): ", "voters.xlsx")
	case keyMatches(msg, km.Dictate):
		if m.extractor == nil {
			m.lastMsg = "AI disabled (set OPENAI_API_KEY, drop --offline)"
			break
		}
		m.openInline(inlineDictate, "dictate: ", "")
	case keyMatches(msg, km.Analyze):
		if m.analyzer == nil {
			m.lastMsg = "AI disabled (set OPENAI_API_KEY, drop --offline)"
			break
		}
		rows := m.rows
		if len(m.selected) > 0 {
			rows = nil
			for _, r := range m.rows {
				if m.selected[r.ID] {
					rows = append(rows, r)
				}
			}
		}
		m.aiBusy = true
		return m, tea.Batch(m.analyzeCmd(m.hist.Current().Columns, rows), m.spin.Tick)

	case keyMatches(msg, km.ClearRoster):
		m.openModal(modalConfirmClear, "Clear roster",
			"Remove every row from the roster? [y]=yes [esc]=cancel")
	case keyMatches(msg, km.Save):
		if err := m.db.SaveRoster(m.account.ID, m.hist.Current()); err != nil {
			m.lastMsg = fmtErr(err)
		} else {
			m.dirty = false
			m.lastMsg = "saved"
		}
	case keyMatches(msg, km.Profile):
		m.openProfileModal()
	case keyMatches(msg, km.Accounts):
		if !m.account.Admin {
			m.lastMsg = "admin only"
			break
		}
		m.loadAccounts()
		m.openModal(modalAccounts, "Accounts", "")
	case keyMatches(msg, km.AppLogs):
		m.openModal(modalLogs, "Application logs", logx.Dump())
	case keyMatches(msg, km.Help):
		m.openModal(modalHelp, "Help", m.renderHelpBody())
	case keyMatches(msg, km.Logout):
		if err := auth.Logout(m.db); err != nil {
			m.lastMsg = fmtErr(err)
			break
		}
		m.account = nil
		m.screen = screenLogin
		m.loginErr = ""
		m.setLoginFocus(1)
	case keyMatches(msg, km.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) cycleSort() {
	col := m.currentColumn()
	if col == "" {
		return
	}
	switch {
	case m.sortSpec == nil || m.sortSpec.Column != col:
		m.sortSpec = &view.SortSpec{Column: col, Direction: view.Ascending}
		m.lastMsg = "sort " + col + " asc"
	case m.sortSpec.Direction == view.Ascending:
		m.sortSpec.Direction = view.Descending
		m.lastMsg = "sort " + col + " desc"
	default:
		m.sortSpec = nil
		m.lastMsg = "sort cleared"
	}
	m.refresh()
}

func (m *Model) moveColumn(delta int) {
	col := m.currentColumn()
	cols := m.hist.Current().Columns
	idx := cols.Index(col)
	swap := idx + delta
	if idx < 0 || swap < 0 || swap >= len(cols) {
		return
	}
	order := cols.Clone()
	order[idx], order[swap] = order[swap], order[idx]
	m.commit(mutate.ReorderColumns(m.hist.Current(), order), nil, "column moved")
	// keep the cursor on the moved column
	for i, c := range m.visibleColumns() {
		if c == col {
			m.selColIdx = i
			break
		}
	}
}

func (m *Model) updateInline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInline()
		return m, nil
	case tea.KeyEnter:
		return m.applyInline()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyInline() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode := m.inlineMode
	m.closeInline()

	switch mode {
	case inlineEditCell:
		r, ok := m.currentRow()
		if !ok {
			return m, nil
		}
		next, err := mutate.SetCell(m.hist.Current(), r.ID, m.currentColumn(), value)
		m.commit(next, err, "cell updated")
	case inlineBatch:
		next, err := mutate.BatchUpdate(m.hist.Current(), m.targetIDs(), m.currentColumn(), value)
		m.commit(next, err, "rows updated")
	case inlineFilter:
		col := m.currentColumn()
		if m.criteria.Patterns == nil {
			m.criteria.Patterns = map[string]string{}
		}
		if strings.TrimSpace(value) == "" {
			delete(m.criteria.Patterns, col)
		} else {
			m.criteria.Patterns[col] = value
		}
		m.proj, _ = view.NewProjector(m.criteria)
		m.refresh()
	case inlineExpr:
		trial := m.criteria
		trial.Expr = strings.TrimSpace(value)
		proj, err := view.NewProjector(trial)
		if err != nil {
			m.lastMsg = fmtErr(err)
			return m, nil
		}
		m.criteria = trial
		m.proj = proj
		m.refresh()
	case inlineSearch:
		m.searchPattern = strings.TrimSpace(value)
		m.collectSearchHits()
		if m.searchPattern != "" {
			m.searchNext()
		}
	case inlineAddColumn:
		next, err := mutate.AddColumn(m.hist.Current(), value)
		m.commit(next, err, "column added")
		if err == nil {
			m.selColIdx = len(m.visibleColumns()) - 1
		}
	case inlineRenameColumn:
		next, err := mutate.RenameColumn(m.hist.Current(), m.currentColumn(), value)
		m.commit(next, err, "column renamed")
	case inlineExport:
		path := strings.TrimSpace(value)
		if path == "" {
			return m, nil
		}
		cols := m.visibleColumns()
		m.lastMsg = "exporting..."
		return m, exportCmd(path, cols, m.rows, m.account)
	case inlineDictate:
		text := strings.TrimSpace(value)
		if text == "" {
			return m, nil
		}
		m.aiBusy = true
		m.lastMsg = "extracting fields..."
		return m, tea.Batch(m.extractCmd(text, candidateColumns(m.hist.Current().Columns)), m.spin.Tick)
	}
	return m, nil
}

func (m *Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.closeModal()
		return m, nil
	}
	switch m.modalKind {
	case modalConfirmDeleteRows:
		if isYes(msg) {
			ids := m.targetIDs()
			m.closeModal()
			m.commit(mutate.DeleteRows(m.hist.Current(), ids), nil, fmt.Sprintf("deleted %d row(s)", len(ids)))
			m.selected = mutate.IDSet{}
		}
	case modalConfirmDeleteColumn:
		if isYes(msg) {
			col := m.currentColumn()
			m.closeModal()
			next, err := mutate.DeleteColumn(m.hist.Current(), col)
			m.commit(next, err, "column deleted")
		}
	case modalConfirmClear:
		if isYes(msg) {
			m.closeModal()
			cols := m.hist.Current().Columns.Clone()
			m.commit(model.Snapshot{Rows: nil, Columns: cols}, nil, "roster cleared")
		}
	case modalAccounts:
		m.updateAccountsModal(msg)
	case modalProfile:
		return m.updateProfileModal(msg)
	default:
		var cmd tea.Cmd
		m.modalVP, cmd = m.modalVP.Update(msg)
		return m, cmd
	}
	return m, nil
}

func isYes(msg tea.KeyMsg) bool {
	return msg.String() == "y" || msg.Type == tea.KeyEnter
}

func (m *Model) updateAccountsModal(msg tea.KeyMsg) {
	switch {
	case msg.Type == tea.KeyUp:
		if m.accountsIdx > 0 {
			m.accountsIdx--
		}
	case msg.Type == tea.KeyDown:
		if m.accountsIdx < len(m.accounts)-1 {
			m.accountsIdx++
		}
	case msg.String() == "r":
		if m.accountsIdx < len(m.accounts) {
			a := m.accounts[m.accountsIdx]
			if err := auth.ResetPassword(m.db, a.Email); err != nil {
				m.lastMsg = fmtErr(err)
			} else {
				m.lastMsg = fmt.Sprintf("password for %s reset to %s", a.Email, auth.DefaultPassword)
			}
		}
	case msg.String() == "x":
		if m.accountsIdx < len(m.accounts) {
			a := m.accounts[m.accountsIdx]
			if a.ID == m.account.ID {
				m.lastMsg = "cannot delete the signed-in account"
				return
			}
			if err := m.db.DeleteAccount(a.ID); err != nil {
				m.lastMsg = fmtErr(err)
			} else {
				m.lastMsg = "deleted " + a.Email
				m.loadAccounts()
			}
		}
	}
}

// profileLabels mirror the keys of the export info block.
var profileLabels = []string{"LAC NO & NAME", "PART NO & NAME", "NAME OF THE BLO", "CONTACT NO"}

// openProfileModal seeds the inputs from the stored booth profile. The
// values end up in the info block of every export.
func (m *Model) openProfileModal() {
	p := m.account.Profile
	for i, v := range []string{p.LacNoName, p.PartNoName, p.OfficerName, p.ContactNo} {
		m.profileIn[i].SetValue(v)
		m.profileIn[i].CursorEnd()
		m.profileIn[i].Blur()
	}
	m.profileIdx = 0
	m.profileIn[0].Focus()
	m.openModal(modalProfile, "Booth profile", "")
}

func (m *Model) setProfileFocus(idx int) {
	m.profileIdx = idx
	for i := range m.profileIn {
		if i == idx {
			m.profileIn[i].Focus()
		} else {
			m.profileIn[i].Blur()
		}
	}
}

func (m *Model) updateProfileModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.profileIn)
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.setProfileFocus((m.profileIdx + 1) % n)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setProfileFocus((m.profileIdx + n - 1) % n)
		return m, nil
	case tea.KeyEnter:
		if m.profileIdx < n-1 {
			m.setProfileFocus(m.profileIdx + 1)
			return m, nil
		}
		m.submitProfile()
		return m, nil
	}
	var cmd tea.Cmd
	m.profileIn[m.profileIdx], cmd = m.profileIn[m.profileIdx].Update(msg)
	return m, cmd
}

func (m *Model) submitProfile() {
	p := store.Profile{
		LacNoName:   strings.TrimSpace(m.profileIn[0].Value()),
		PartNoName:  strings.TrimSpace(m.profileIn[1].Value()),
		OfficerName: strings.TrimSpace(m.profileIn[2].Value()),
		ContactNo:   strings.TrimSpace(m.profileIn[3].Value()),
	}
	if err := m.db.UpdateProfile(m.account.ID, m.account.Name, p); err != nil {
		m.lastMsg = fmtErr(err)
		return
	}
	m.account.Profile = p
	m.closeModal()
	m.lastMsg = "profile saved"
}

func (m *Model) loadAccounts() {
	accts, err := m.db.ListAccounts()
	if err != nil {
		m.lastMsg = fmtErr(err)
		return
	}
	m.accounts = accts
	if m.accountsIdx >= len(accts) {
		m.accountsIdx = 0
	}
}

// appendFollowRow turns a streamed CSV record into one committed row.
// Cells map positionally onto the schema; when the stream has no serial
// column the prepended one is skipped and resequencing fills it in.
func (m *Model) appendFollowRow(cells []string) {
	if len(cells) == 0 {
		return
	}
	cols := m.hist.Current().Columns
	target := cols
	if len(cols) > 0 && cols[0] == model.SerialColumn && len(cells) == len(cols)-1 {
		target = cols[1:]
	}
	// A re-emitted header row is not data.
	if !m.gotHeader && len(target) > 0 && strings.EqualFold(strings.TrimSpace(cells[0]), target[0]) {
		m.gotHeader = true
		return
	}
	rec := model.Record{ID: model.NewID(), Cells: make(map[string]model.Value, len(target))}
	for i, col := range target {
		if i < len(cells) && col != model.SerialColumn {
			rec.Cells[col] = model.String(cells[i])
		}
	}
	snap := m.hist.Current().Clone()
	snap.Rows = append(snap.Rows, rec)
	m.commit(mutate.Resequence(snap), nil, "row received")
}

// applyExtraction appends a fresh row populated with the extracted
// fields as a single undoable commit.
func (m *Model) applyExtraction(fields map[string]string) {
	if len(fields) == 0 {
		m.lastMsg = "no fields recognized"
		return
	}
	next := mutate.AddRow(m.hist.Current())
	id := next.Rows[len(next.Rows)-1].ID
	for col, val := range fields {
		filled, err := mutate.SetCell(next, id, col, val)
		if err != nil {
			continue
		}
		next = filled
	}
	m.commit(next, nil, fmt.Sprintf("row added from dictation (%d fields)", len(fields)))
}

func (m *Model) openInline(mode inlineMode, prompt, seed string) {
	m.inlineMode = mode
	m.input.Prompt = prompt
	m.input.SetValue(seed)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closeInline() {
	m.inlineMode = inlineNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
	m.modalVP.SetContent(body)
	m.modalVP.GotoTop()
}

func (m *Model) closeModal() {
	m.modalActive = false
	m.modalKind = modalNone
}

func (m *Model) resizeModal() {
	w := m.termWidth * 3 / 4
	h := m.termHeight * 3 / 4
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP.Width = w
	m.modalVP.Height = h
}
