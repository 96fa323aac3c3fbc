package ui

import (
	"strings"

	"rollgrid/internal/model"
	"rollgrid/internal/mutate"
	"rollgrid/internal/view"
)

const (
	minColWidth    = 6
	maxColWidth    = 28
	widthSampleCap = 50
)

// visibleColumns returns the schema order minus hidden columns.
func (m *Model) visibleColumns() model.Columns {
	all := m.hist.Current().Columns
	out := make(model.Columns, 0, len(all))
	for _, c := range all {
		if !m.hidden[c] {
			out = append(out, c)
		}
	}
	return out
}

// refresh re-projects the current snapshot through the active criteria
// and sort, then clamps cursors into range.
func (m *Model) refresh() {
	if m.proj == nil {
		m.proj, _ = view.NewProjector(view.Criteria{})
	}
	m.rows = m.proj.Project(m.hist.Current(), m.sortSpec)
	m.clamp()
	if m.searchPattern != "" {
		m.collectSearchHits()
	}
}

func (m *Model) clamp() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	cols := m.visibleColumns()
	if m.selColIdx >= len(cols) {
		m.selColIdx = len(cols) - 1
	}
	if m.selColIdx < 0 {
		m.selColIdx = 0
	}
	// Drop selections for rows that no longer exist.
	if len(m.selected) > 0 {
		alive := map[string]bool{}
		for _, r := range m.hist.Current().Rows {
			alive[r.ID] = true
		}
		for id := range m.selected {
			if !alive[id] {
				delete(m.selected, id)
			}
		}
	}
}

func (m *Model) currentColumn() string {
	cols := m.visibleColumns()
	if len(cols) == 0 {
		return ""
	}
	if m.selColIdx >= len(cols) {
		return cols[len(cols)-1]
	}
	return cols[m.selColIdx]
}

func (m *Model) currentRow() (model.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Record{}, false
	}
	return m.rows[m.cursor], true
}

// targetIDs is the mutation target: the selection when one exists,
// otherwise the cursor row.
func (m *Model) targetIDs() mutate.IDSet {
	if len(m.selected) > 0 {
		out := mutate.IDSet{}
		for id := range m.selected {
			out[id] = true
		}
		return out
	}
	if r, ok := m.currentRow(); ok {
		return mutate.NewIDSet(r.ID)
	}
	return mutate.IDSet{}
}

// columnWidth sizes a column from its header and a sample of the
// projected rows, clamped to keep wide free-text columns in check.
func (m *Model) columnWidth(col string) int {
	w := len(col)
	if col == model.SerialColumn {
		if w < minColWidth {
			w = minColWidth
		}
		return w
	}
	n := len(m.rows)
	if n > widthSampleCap {
		n = widthSampleCap
	}
	for i := 0; i < n; i++ {
		if l := len(m.rows[i].Get(col).Text()); l > w {
			w = l
		}
	}
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return w
}

// layout picks the run of columns starting at colOffset that fits the
// terminal width. The selected column is always kept inside the run.
func (m *Model) layout(width int) (model.Columns, []int) {
	cols := m.visibleColumns()
	if len(cols) == 0 {
		return nil, nil
	}
	if m.colOffset >= len(cols) {
		m.colOffset = len(cols) - 1
	}
	if m.selColIdx < m.colOffset {
		m.colOffset = m.selColIdx
	}
	// Walk forward until the selected column fits.
	for {
		fit := 0
		used := markerWidth
		for i := m.colOffset; i < len(cols); i++ {
			w := m.columnWidth(cols[i]) + 1
			if used+w > width && fit > 0 {
				break
			}
			used += w
			fit++
		}
		if m.selColIdx < m.colOffset+fit || m.colOffset == len(cols)-1 {
			vis := cols[m.colOffset : m.colOffset+fit]
			widths := make([]int, len(vis))
			for i, c := range vis {
				widths[i] = m.columnWidth(c)
			}
			return vis, widths
		}
		m.colOffset++
	}
}

// markerWidth reserves the selection/highlight gutter.
const markerWidth = 2

func (m *Model) gridHeight() int {
	// title + header + sub-status + status
	h := m.termHeight - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) ensureRowVisible() {
	h := m.gridHeight()
	if m.cursor < m.rowOffset {
		m.rowOffset = m.cursor
	}
	if m.cursor >= m.rowOffset+h {
		m.rowOffset = m.cursor - h + 1
	}
	if m.rowOffset < 0 {
		m.rowOffset = 0
	}
}

// collectSearchHits finds projected row indexes whose visible cells
// contain the pattern, case-insensitively.
func (m *Model) collectSearchHits() {
	m.searchHits = m.searchHits[:0]
	p := strings.ToLower(m.searchPattern)
	if p == "" {
		return
	}
	cols := m.visibleColumns()
	for i, r := range m.rows {
		for _, c := range cols {
			if strings.Contains(strings.ToLower(r.Get(c).Text()), p) {
				m.searchHits = append(m.searchHits, i)
				break
			}
		}
	}
}

func (m *Model) searchNext() {
	if len(m.searchHits) == 0 {
		m.lastMsg = "no matches"
		return
	}
	for _, i := range m.searchHits {
		if i > m.cursor {
			m.cursor = i
			m.ensureRowVisible()
			return
		}
	}
	m.cursor = m.searchHits[0]
	m.ensureRowVisible()
}

func (m *Model) searchPrev() {
	if len(m.searchHits) == 0 {
		m.lastMsg = "no matches"
		return
	}
	for i := len(m.searchHits) - 1; i >= 0; i-- {
		if m.searchHits[i] < m.cursor {
			m.cursor = m.searchHits[i]
			m.ensureRowVisible()
			return
		}
	}
	m.cursor = m.searchHits[len(m.searchHits)-1]
	m.ensureRowVisible()
}
