package model

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SerialColumn is the system-managed column holding the 1-based row
// position. It is recomputed after every structural row change and is
// never user-editable.
const SerialColumn = "SERIAL NO"

// DefaultHeader is the schema a fresh roster starts with when nothing
// has been imported yet.
var DefaultHeader = Columns{
	SerialColumn, "VOTER'S NAME", "RELATIVE'S NAME", "HOUSE NO", "AGE", "GENDER",
	"VOTER ID (EPIC No.)", "CONTACT NO", "CATEGORY OF THE VOTER", "LAC NO (SIR 2005)",
	"PS NO (SIR 2005)", "SERIAL NO (SIR 2005)", "MAPPED CATEGORY IN APP",
	"CORRECTION REQUIRED (YES/NO)", "REMARKS",
}

// Columns is an ordered column schema. Names are unique case-insensitively.
type Columns []string

func (c Columns) Index(name string) int {
	for i, n := range c {
		if n == name {
			return i
		}
	}
	return -1
}

// HasFold reports whether name collides case-insensitively with an
// existing column, after trimming.
func (c Columns) HasFold(name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range c {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func (c Columns) Clone() Columns {
	return append(Columns(nil), c...)
}

func (c Columns) Equal(o Columns) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Record is one row: a stable opaque id, a highlight flag and a mapping
// from column name to cell value.
type Record struct {
	ID          string           `json:"id"`
	Highlighted bool             `json:"highlighted,omitempty"`
	Cells       map[string]Value `json:"cells"`
}

// Get returns the cell value for col, Null when absent.
func (r Record) Get(col string) Value {
	if v, ok := r.Cells[col]; ok {
		return v
	}
	return Null()
}

func (r Record) Clone() Record {
	cells := make(map[string]Value, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}
	return Record{ID: r.ID, Highlighted: r.Highlighted, Cells: cells}
}

func (r Record) Equal(o Record) bool {
	if r.ID != o.ID || r.Highlighted != o.Highlighted || len(r.Cells) != len(o.Cells) {
		return false
	}
	for k, v := range r.Cells {
		ov, ok := o.Cells[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Snapshot is the full tabular dataset at one point in time. Snapshots
// are immutable once committed; mutators produce fresh copies.
type Snapshot struct {
	Rows    []Record `json:"rows"`
	Columns Columns  `json:"columns"`
}

// EmptySnapshot returns a zero-row snapshot over the default header.
func EmptySnapshot() Snapshot {
	return Snapshot{Columns: DefaultHeader.Clone()}
}

func (s Snapshot) Clone() Snapshot {
	rows := make([]Record, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = r.Clone()
	}
	return Snapshot{Rows: rows, Columns: s.Columns.Clone()}
}

// Equal is deep value equality: same schema order, same rows in the same
// order with identical ids, flags and cells.
func (s Snapshot) Equal(o Snapshot) bool {
	if !s.Columns.Equal(o.Columns) || len(s.Rows) != len(o.Rows) {
		return false
	}
	for i := range s.Rows {
		if !s.Rows[i].Equal(o.Rows[i]) {
			return false
		}
	}
	return true
}

// IndexByID returns the position of the record with the given id, -1 if absent.
func (s Snapshot) IndexByID(id string) int {
	for i, r := range s.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh row identifier, unique for the session.
func NewID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}
