package model

import (
	"encoding/json"
	"testing"
)

func TestValueText(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null(), ""},
		{String("Amy"), "Amy"},
		{Number(42), "42"},
		{Number(3.5), "3.5"},
	}
	for _, c := range cases {
		if got := c.v.Text(); got != c.want {
			t.Errorf("Text(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	in := map[string]Value{
		"s": String("x"),
		"n": Number(7),
		"z": Null(),
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]Value
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	for k, v := range in {
		if !out[k].Equal(v) {
			t.Errorf("key %s: got %v, want %v", k, out[k], v)
		}
	}
}

func TestSnapshotEqualIsDeep(t *testing.T) {
	a := snap("Amy", "Bob")
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone should be value-equal")
	}
	b.Rows[1].Cells["NAME"] = String("Ben")
	if a.Equal(b) {
		t.Fatal("cell change should break equality")
	}

	c := a.Clone()
	c.Rows[0].Highlighted = true
	if a.Equal(c) {
		t.Fatal("highlight change should break equality")
	}

	d := a.Clone()
	d.Columns = append(d.Columns, "EXTRA")
	if a.Equal(d) {
		t.Fatal("schema change should break equality")
	}
}

func TestColumnsHasFold(t *testing.T) {
	c := Columns{SerialColumn, "Name"}
	if !c.HasFold("  name ") {
		t.Fatal("HasFold should trim and fold case")
	}
	if c.HasFold("age") {
		t.Fatal("unexpected match")
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
