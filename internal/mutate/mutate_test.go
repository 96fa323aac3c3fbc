package mutate

import (
	"testing"

	"rollgrid/internal/model"
)

func roster(names ...string) model.Snapshot {
	s := model.Snapshot{Columns: model.Columns{model.SerialColumn, "NAME", "STATUS"}}
	for i, n := range names {
		s.Rows = append(s.Rows, model.Record{
			ID: model.NewID(),
			Cells: map[string]model.Value{
				model.SerialColumn: model.Number(float64(i + 1)),
				"NAME":             model.String(n),
				"STATUS":           model.String(""),
			},
		})
	}
	return s
}

func checkSerials(t *testing.T, s model.Snapshot) {
	t.Helper()
	for i, r := range s.Rows {
		n, ok := r.Get(model.SerialColumn).Number()
		if !ok || int(n) != i+1 {
			t.Fatalf("row %d serial = %v, want %d", i, r.Get(model.SerialColumn), i+1)
		}
	}
}

func TestAddRow(t *testing.T) {
	s := roster("Amy", "Bob")
	out := AddRow(s)

	if len(out.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(out.Rows))
	}
	added := out.Rows[2]
	if added.ID == "" || added.ID == out.Rows[0].ID || added.ID == out.Rows[1].ID {
		t.Fatalf("added row needs a fresh id, got %q", added.ID)
	}
	if got := added.Get("NAME").Text(); got != "" {
		t.Fatalf("NAME = %q, want empty", got)
	}
	checkSerials(t, out)
	if len(s.Rows) != 2 {
		t.Fatal("input snapshot was mutated")
	}
}

func TestDeleteRows(t *testing.T) {
	s := roster("Amy", "Bob", "Cid")
	out := DeleteRows(s, NewIDSet(s.Rows[1].ID))

	if len(out.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(out.Rows))
	}
	if out.Rows[1].Get("NAME").Text() != "Cid" {
		t.Fatal("wrong row deleted")
	}
	checkSerials(t, out)

	if !DeleteRows(s, NewIDSet()).Equal(s) {
		t.Fatal("empty selection should leave an equal snapshot")
	}
}

func TestDuplicateRowsBlockInsertion(t *testing.T) {
	s := roster("Amy", "Bob", "Cid", "Dot")
	// select first and third; the block goes after index 2 (Cid)
	out := DuplicateRows(s, NewIDSet(s.Rows[0].ID, s.Rows[2].ID))

	names := make([]string, len(out.Rows))
	for i, r := range out.Rows {
		names[i] = r.Get("NAME").Text()
	}
	want := []string{"Amy", "Bob", "Cid", "Amy", "Cid", "Dot"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("row order = %v, want %v", names, want)
		}
	}
	seen := make(map[string]bool)
	for _, r := range out.Rows {
		if seen[r.ID] {
			t.Fatalf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
	checkSerials(t, out)
}

func TestDuplicateRowsEmptySelection(t *testing.T) {
	s := roster("Amy")
	if !DuplicateRows(s, NewIDSet()).Equal(s) {
		t.Fatal("empty selection should be a no-op")
	}
}

func TestToggleHighlight(t *testing.T) {
	s := roster("Amy", "Bob")
	out := ToggleHighlight(s, NewIDSet(s.Rows[0].ID))
	if !out.Rows[0].Highlighted || out.Rows[1].Highlighted {
		t.Fatal("highlight should flip only selected rows")
	}
	out = ToggleHighlight(out, NewIDSet(out.Rows[0].ID))
	if out.Rows[0].Highlighted {
		t.Fatal("second toggle should clear the flag")
	}
}

func TestBatchUpdate(t *testing.T) {
	s := roster("Amy", "Bob", "Cid", "Dot", "Eve")
	ids := NewIDSet(s.Rows[1].ID, s.Rows[3].ID)
	out, err := BatchUpdate(s, ids, "STATUS", "VERIFIED")
	if err != nil {
		t.Fatal(err)
	}
	changed := 0
	for _, r := range out.Rows {
		if r.Get("STATUS").Text() == "VERIFIED" {
			changed++
		}
	}
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}
	checkSerials(t, out)
}

func TestBatchUpdateRejectsSerialColumn(t *testing.T) {
	s := roster("Amy")
	if _, err := BatchUpdate(s, NewIDSet(s.Rows[0].ID), model.SerialColumn, "9"); err == nil {
		t.Fatal("expected error for serial column target")
	}
}

func TestSetCell(t *testing.T) {
	s := roster("Amy")
	out, err := SetCell(s, s.Rows[0].ID, "NAME", "Amina")
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows[0].Get("NAME").Text() != "Amina" {
		t.Fatal("cell not updated")
	}
	if _, err := SetCell(s, "missing", "NAME", "x"); err == nil {
		t.Fatal("expected not-found error")
	}
	if _, err := SetCell(s, s.Rows[0].ID, model.SerialColumn, "3"); err == nil {
		t.Fatal("expected error for serial column target")
	}
}

func TestAddColumnValidation(t *testing.T) {
	s := roster("Amy")
	if _, err := AddColumn(s, "   "); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := AddColumn(s, " name "); err == nil {
		t.Fatal("expected case-insensitive collision error")
	}

	out, err := AddColumn(s, "WARD")
	if err != nil {
		t.Fatal(err)
	}
	if out.Columns.Index("WARD") != len(out.Columns)-1 {
		t.Fatal("new column should be appended")
	}
	if out.Rows[0].Get("WARD").Text() != "" {
		t.Fatal("new column should default to empty string")
	}
}

func TestAddThenDeleteColumnRestoresSnapshot(t *testing.T) {
	s := roster("Amy", "Bob")
	withCol, err := AddColumn(s, "WARD")
	if err != nil {
		t.Fatal(err)
	}
	back, err := DeleteColumn(withCol, "WARD")
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(s) {
		t.Fatal("add+delete column should restore the original snapshot")
	}
}

func TestDeleteColumnGuards(t *testing.T) {
	s := roster("Amy")
	if _, err := DeleteColumn(s, model.SerialColumn); err == nil {
		t.Fatal("serial column must not be deletable")
	}
	if _, err := DeleteColumn(s, "NOPE"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestRenameColumnRoundTrip(t *testing.T) {
	s := roster("Amy")
	renamed, err := RenameColumn(s, "NAME", "FULL NAME")
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Columns.Index("FULL NAME") != 1 || renamed.Columns.Index("NAME") != -1 {
		t.Fatal("schema entry not renamed in place")
	}
	if renamed.Rows[0].Get("FULL NAME").Text() != "Amy" {
		t.Fatal("cell value not preserved across rename")
	}
	back, err := RenameColumn(renamed, "FULL NAME", "NAME")
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(s) {
		t.Fatal("rename round trip should restore the snapshot")
	}
}

func TestRenameColumnValidation(t *testing.T) {
	s := roster("Amy")
	if _, err := RenameColumn(s, "NAME", ""); err == nil {
		t.Fatal("expected error for empty new name")
	}
	if _, err := RenameColumn(s, "NAME", "status"); err == nil {
		t.Fatal("expected collision error")
	}
	// case-only rename of the same column is legal
	if _, err := RenameColumn(s, "NAME", "Name"); err != nil {
		t.Fatalf("case-only rename failed: %v", err)
	}
}

func TestReorderColumnsKeepsSerialValues(t *testing.T) {
	s := roster("Amy", "Bob")
	out := ReorderColumns(s, model.Columns{"NAME", model.SerialColumn, "STATUS"})
	if out.Columns[0] != "NAME" {
		t.Fatal("schema order not replaced")
	}
	// column-only operation: serial values stay what they were
	checkSerials(t, out)
}
