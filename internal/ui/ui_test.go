package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"rollgrid/internal/auth"
	"rollgrid/internal/config"
	"rollgrid/internal/model"
	"rollgrid/internal/mutate"
	"rollgrid/internal/store"
	"rollgrid/internal/view"
)

func testModel(t *testing.T, snap model.Snapshot) *Model {
	t.Helper()
	m := &Model{
		cfg:      &config.Config{Theme: config.ThemeDark},
		hist:     model.NewHistory(snap),
		selected: mutate.IDSet{},
		hidden:   map[string]bool{},
		styles:   NewStyles(true),
		keymap:   DefaultKeyMap(),
		screen:   screenGrid,
	}
	m.input = textinput.New()
	m.profileIn = make([]textinput.Model, len(profileLabels))
	for i := range m.profileIn {
		m.profileIn[i] = textinput.New()
	}
	var err error
	m.proj, err = view.NewProjector(view.Criteria{})
	require.NoError(t, err)
	m.termWidth, m.termHeight = 120, 24
	m.refresh()
	return m
}

func snapWithNames(t *testing.T, names ...string) model.Snapshot {
	t.Helper()
	s := model.EmptySnapshot()
	for _, n := range names {
		s = mutate.AddRow(s)
		var err error
		s, err = mutate.SetCell(s, s.Rows[len(s.Rows)-1].ID, "VOTER'S NAME", n)
		require.NoError(t, err)
	}
	return s
}

func TestKeyMatches(t *testing.T) {
	km := DefaultKeyMap()
	require.True(t, keyMatches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, km.AddRow))
	require.False(t, keyMatches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'A'}}, km.AddRow))
	require.True(t, keyMatches(tea.KeyMsg{Type: tea.KeyCtrlR}, km.Redo))
	require.True(t, keyMatches(tea.KeyMsg{Type: tea.KeyEnter}, km.EditCell))
}

func TestPadCell(t *testing.T) {
	require.Equal(t, "ab   ", padCell("ab", 5))
	require.Equal(t, "abcd~", padCell("abcdef", 5))
	require.Equal(t, "abcde", padCell("abcde", 5))
}

func TestOverlayKeepsBaseLines(t *testing.T) {
	base := "one\ntwo\nthree"
	top := "\nTWO\n"
	got := overlay(base, top)
	require.Equal(t, "one\nTWO\nthree", got)
}

func TestTargetIDsFallsBackToCursorRow(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy", "Bob"))
	ids := m.targetIDs()
	require.Len(t, ids, 1)
	require.True(t, ids[m.rows[0].ID])

	m.selected[m.rows[1].ID] = true
	ids = m.targetIDs()
	require.Len(t, ids, 1)
	require.True(t, ids[m.rows[1].ID])
}

func TestCycleSort(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Bob", "Amy"))
	m.selColIdx = 1 // VOTER'S NAME

	m.cycleSort()
	require.NotNil(t, m.sortSpec)
	require.Equal(t, view.Ascending, m.sortSpec.Direction)
	require.Equal(t, "Amy", m.rows[0].Get("VOTER'S NAME").Text())

	m.cycleSort()
	require.Equal(t, view.Descending, m.sortSpec.Direction)
	require.Equal(t, "Bob", m.rows[0].Get("VOTER'S NAME").Text())

	m.cycleSort()
	require.Nil(t, m.sortSpec)
}

func TestAppendFollowRow(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	cols := m.hist.Current().Columns

	// Header re-emission is dropped, not stored as data.
	header := make([]string, len(cols)-1)
	copy(header, cols[1:])
	m.appendFollowRow(header)
	require.Len(t, m.hist.Current().Rows, 1)

	cells := make([]string, len(cols)-1)
	cells[0] = "Tomba Singh"
	m.appendFollowRow(cells)
	rows := m.hist.Current().Rows
	require.Len(t, rows, 2)
	require.Equal(t, "Tomba Singh", rows[1].Get("VOTER'S NAME").Text())
	got, ok := rows[1].Get(model.SerialColumn).Number()
	require.True(t, ok)
	require.Equal(t, float64(2), got)
}

func TestApplyExtraction(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	m.applyExtraction(map[string]string{"VOTER'S NAME": "Ibomcha Singh", "AGE": "44"})

	rows := m.hist.Current().Rows
	require.Len(t, rows, 2)
	require.Equal(t, "Ibomcha Singh", rows[1].Get("VOTER'S NAME").Text())
	require.Equal(t, "44", rows[1].Get("AGE").Text())
	require.True(t, m.hist.CanUndo())
}

func TestApplyExtractionEmpty(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	m.applyExtraction(nil)
	require.Len(t, m.hist.Current().Rows, 1)
	require.Equal(t, "no fields recognized", m.lastMsg)
}

func TestSearchWraps(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy", "Bob", "Ann"))
	m.searchPattern = "a"
	m.collectSearchHits()
	require.Equal(t, []int{0, 2}, m.searchHits)

	m.cursor = 0
	m.searchNext()
	require.Equal(t, 2, m.cursor)
	m.searchNext()
	require.Equal(t, 0, m.cursor) // wrapped
	m.searchPrev()
	require.Equal(t, 2, m.cursor)
}

func TestHiddenColumnsExcluded(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	n := len(m.visibleColumns())
	m.hidden["REMARKS"] = true
	require.Len(t, m.visibleColumns(), n-1)
	for _, c := range m.visibleColumns() {
		require.NotEqual(t, "REMARKS", c)
	}
}

func TestLayoutKeepsSelectedColumnVisible(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	m.termWidth = 40
	m.selColIdx = len(m.visibleColumns()) - 1

	cols, widths := m.layout(m.termWidth)
	require.Equal(t, len(cols), len(widths))
	require.Contains(t, cols, m.currentColumn())
}

func TestRenderGridShowsRows(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy", "Bob"))
	out := m.renderGrid()
	require.True(t, strings.Contains(out, "Amy"))
	require.True(t, strings.Contains(out, model.SerialColumn))
}

func TestDeleteRowsViaUpdate(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy", "Bob"))
	m.selected[m.rows[0].ID] = true

	_, _ = m.updateGridKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	require.True(t, m.modalActive)
	require.Equal(t, modalConfirmDeleteRows, m.modalKind)

	_, _ = m.updateModal(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.False(t, m.modalActive)
	rows := m.hist.Current().Rows
	require.Len(t, rows, 1)
	require.Equal(t, "Bob", rows[0].Get("VOTER'S NAME").Text())
}

func TestUndoRedoKeys(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	_, _ = m.updateGridKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	require.Len(t, m.hist.Current().Rows, 2)

	_, _ = m.updateGridKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	require.Len(t, m.hist.Current().Rows, 1)

	_, _ = m.updateGridKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Len(t, m.hist.Current().Rows, 2)
}

func TestInlineFilterAppliesPattern(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy", "Bob"))
	m.selColIdx = 1
	m.openInline(inlineFilter, "filter: ", "")
	m.input.SetValue("amy")
	_, _ = m.applyInline()

	require.Len(t, m.rows, 1)
	require.Equal(t, "Amy", m.rows[0].Get("VOTER'S NAME").Text())
	require.Equal(t, inlineNone, m.inlineMode)
}

func TestProfileModalSavesBoothInfo(t *testing.T) {
	db, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	acct, err := auth.SignUp(db, "Asha", "asha@example.com", "secret", store.Profile{})
	require.NoError(t, err)

	m := testModel(t, snapWithNames(t, "Amy"))
	m.db = db
	m.account = acct

	_, _ = m.updateGridKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	require.True(t, m.modalActive)
	require.Equal(t, modalProfile, m.modalKind)

	values := []string{"24 - Wabagai", "12 / Ward 3", "Asha Devi", "9876543210"}
	for i, v := range values {
		m.profileIn[i].SetValue(v)
	}
	m.profileIdx = len(m.profileIn) - 1
	_, _ = m.updateModal(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.modalActive)

	stored, err := db.AccountByID(acct.ID)
	require.NoError(t, err)
	require.Equal(t, "24 - Wabagai", stored.Profile.LacNoName)
	require.Equal(t, "Asha Devi", stored.Profile.OfficerName)

	info := RosterInfo(m.account)
	require.Equal(t, "24 - Wabagai", info[0].Value)
	require.Equal(t, "9876543210", info[3].Value)
}

func TestInlineExprRejectsBadExpression(t *testing.T) {
	m := testModel(t, snapWithNames(t, "Amy"))
	m.openInline(inlineExpr, "expr: ", "")
	m.input.SetValue("((")
	_, _ = m.applyInline()

	require.Empty(t, m.criteria.Expr)
	require.Len(t, m.rows, 1)
}
