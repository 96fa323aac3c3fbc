// Package mutate holds the pure snapshot transforms behind every edit
// operation. Each function takes the current snapshot and returns a fresh
// one suitable for History.CommitSnapshot; validation failures return a
// structured error and leave the input untouched.
package mutate

import (
	"strings"

	"rollgrid/internal/errors"
	"rollgrid/internal/model"
)

// IDSet selects rows by id.
type IDSet map[string]bool

// NewIDSet builds a selection from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// AddRow appends a record with empty values for every non-serial column
// and a fresh id, then resequences.
func AddRow(s model.Snapshot) model.Snapshot {
	out := s.Clone()
	rec := model.Record{ID: model.NewID(), Cells: make(map[string]model.Value, len(out.Columns))}
	for _, col := range out.Columns {
		if col != model.SerialColumn {
			rec.Cells[col] = model.String("")
		}
	}
	out.Rows = append(out.Rows, rec)
	return resequence(out)
}

// DeleteRows removes the selected records and resequences. An empty
// selection produces an equal snapshot, which the history de-dups.
func DeleteRows(s model.Snapshot, ids IDSet) model.Snapshot {
	out := s.Clone()
	kept := out.Rows[:0]
	for _, r := range out.Rows {
		if !ids[r.ID] {
			kept = append(kept, r)
		}
	}
	out.Rows = kept
	return resequence(out)
}

// DuplicateRows copies the selected records, in their current row order,
// as one contiguous block inserted immediately after the last selected
// row. Copies get fresh ids; serials are recomputed afterwards.
func DuplicateRows(s model.Snapshot, ids IDSet) model.Snapshot {
	out := s.Clone()
	lastIdx := -1
	var dups []model.Record
	for i, r := range out.Rows {
		if !ids[r.ID] {
			continue
		}
		lastIdx = i
		dup := r.Clone()
		dup.ID = model.NewID()
		delete(dup.Cells, model.SerialColumn)
		dups = append(dups, dup)
	}
	if len(dups) == 0 {
		return out
	}
	rows := make([]model.Record, 0, len(out.Rows)+len(dups))
	rows = append(rows, out.Rows[:lastIdx+1]...)
	rows = append(rows, dups...)
	rows = append(rows, out.Rows[lastIdx+1:]...)
	out.Rows = rows
	return resequence(out)
}

// ToggleHighlight flips the highlight flag on every selected record.
func ToggleHighlight(s model.Snapshot, ids IDSet) model.Snapshot {
	out := s.Clone()
	for i := range out.Rows {
		if ids[out.Rows[i].ID] {
			out.Rows[i].Highlighted = !out.Rows[i].Highlighted
		}
	}
	return out
}

// BatchUpdate sets column to value on every selected record. The serial
// column is never a legal target.
func BatchUpdate(s model.Snapshot, ids IDSet, column, value string) (model.Snapshot, error) {
	if column == model.SerialColumn {
		return s, errors.NewInvalid("the serial column is system-managed and cannot be updated")
	}
	if s.Columns.Index(column) < 0 {
		return s, errors.NewNotFound("column " + column)
	}
	out := s.Clone()
	for i := range out.Rows {
		if ids[out.Rows[i].ID] {
			out.Rows[i].Cells[column] = model.String(value)
		}
	}
	return out, nil
}

// SetCell updates a single cell on the record with the given id.
func SetCell(s model.Snapshot, id, column, value string) (model.Snapshot, error) {
	if column == model.SerialColumn {
		return s, errors.NewInvalid("the serial column is system-managed and cannot be edited")
	}
	if s.Columns.Index(column) < 0 {
		return s, errors.NewNotFound("column " + column)
	}
	idx := s.IndexByID(id)
	if idx < 0 {
		return s, errors.NewNotFound("row " + id)
	}
	out := s.Clone()
	out.Rows[idx].Cells[column] = model.String(value)
	return out, nil
}

// AddColumn appends a column to the schema and sets it to the empty
// string on every record. The name is trimmed; empty names and
// case-insensitive collisions are rejected.
func AddColumn(s model.Snapshot, name string) (model.Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, errors.NewInvalid("column name cannot be empty")
	}
	if s.Columns.HasFold(name) {
		return s, errors.NewNameExists(name)
	}
	out := s.Clone()
	out.Columns = append(out.Columns, name)
	for i := range out.Rows {
		out.Rows[i].Cells[name] = model.String("")
	}
	return out, nil
}

// DeleteColumn removes a column from the schema and from every record.
// The serial column cannot be deleted.
func DeleteColumn(s model.Snapshot, name string) (model.Snapshot, error) {
	if name == model.SerialColumn {
		return s, errors.NewInvalid("the serial column cannot be deleted")
	}
	idx := s.Columns.Index(name)
	if idx < 0 {
		return s, errors.NewNotFound("column " + name)
	}
	out := s.Clone()
	out.Columns = append(out.Columns[:idx], out.Columns[idx+1:]...)
	for i := range out.Rows {
		delete(out.Rows[i].Cells, name)
	}
	return out, nil
}

// RenameColumn changes a schema entry and re-keys every record,
// preserving cell values. Renaming to the same name is a no-op.
func RenameColumn(s model.Snapshot, oldName, newName string) (model.Snapshot, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return s, errors.NewInvalid("column name cannot be empty")
	}
	idx := s.Columns.Index(oldName)
	if idx < 0 {
		return s, errors.NewNotFound("column " + oldName)
	}
	if newName == oldName {
		return s, nil
	}
	if !strings.EqualFold(newName, oldName) && s.Columns.HasFold(newName) {
		return s, errors.NewNameExists(newName)
	}
	out := s.Clone()
	out.Columns[idx] = newName
	for i := range out.Rows {
		if v, ok := out.Rows[i].Cells[oldName]; ok {
			delete(out.Rows[i].Cells, oldName)
			out.Rows[i].Cells[newName] = v
		}
	}
	return out, nil
}

// ReorderColumns replaces the schema with newOrder verbatim. The caller
// guarantees newOrder is a permutation of the existing schema.
func ReorderColumns(s model.Snapshot, newOrder model.Columns) model.Snapshot {
	out := s.Clone()
	out.Columns = newOrder.Clone()
	return out
}

// Resequence recomputes the serial column as the 1-based row position.
func Resequence(s model.Snapshot) model.Snapshot {
	return resequence(s.Clone())
}

// resequence mutates in place; callers own the snapshot they pass.
func resequence(s model.Snapshot) model.Snapshot {
	for i := range s.Rows {
		if s.Rows[i].Cells == nil {
			s.Rows[i].Cells = make(map[string]model.Value, 1)
		}
		s.Rows[i].Cells[model.SerialColumn] = model.Number(float64(i + 1))
	}
	return s
}
