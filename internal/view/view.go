// Package view derives the displayed row sequence from a snapshot. The
// projection is a pure function of (snapshot, criteria, sort spec): it
// never mutates the snapshot and returns a fresh slice on every call.
package view

import (
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"rollgrid/internal/model"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortSpec is the single active sort key. Changing the key replaces it.
type SortSpec struct {
	Column    string
	Direction Direction
}

// Criteria holds the active filters. Patterns maps column name to a
// case-insensitive substring; a record must match every non-empty
// pattern. Expr is an optional govaluate expression over record fields.
type Criteria struct {
	Patterns map[string]string
	Expr     string
}

// Active reports whether any filter would exclude rows.
func (c Criteria) Active() bool {
	if strings.TrimSpace(c.Expr) != "" {
		return true
	}
	for _, p := range c.Patterns {
		if p != "" {
			return true
		}
	}
	return false
}

// Projector compiles criteria once and projects snapshots into display
// order.
type Projector struct {
	criteria Criteria
	expr     *govaluate.EvaluableExpression
	coll     *collate.Collator
}

// NewProjector compiles the criteria. An invalid expression is reported
// here, before any row is touched.
func NewProjector(c Criteria) (*Projector, error) {
	p := &Projector{
		criteria: c,
		// numeric collation so "Row 9" sorts before "Row 10"
		coll: collate.New(language.Und, collate.Numeric, collate.Loose),
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err := govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
		p.expr = expr
	}
	return p, nil
}

// Project filters and sorts the snapshot's rows. Ties keep their
// relative input order; rows missing the sort value go last in both
// directions.
func (p *Projector) Project(s model.Snapshot, spec *SortSpec) []model.Record {
	out := make([]model.Record, 0, len(s.Rows))
	for _, r := range s.Rows {
		if p.matches(r) {
			out = append(out, r)
		}
	}
	if spec != nil && spec.Column != "" {
		p.sortRows(out, *spec)
	}
	return out
}

func (p *Projector) matches(r model.Record) bool {
	for col, pattern := range p.criteria.Patterns {
		if pattern == "" {
			continue
		}
		text := strings.ToLower(r.Get(col).Text())
		if !strings.Contains(text, strings.ToLower(pattern)) {
			return false
		}
	}
	if p.expr != nil {
		params := make(map[string]any, len(r.Cells)+1)
		for col, v := range r.Cells {
			if n, ok := v.Number(); ok {
				params[col] = n
			} else {
				params[col] = v.Text()
			}
		}
		params["highlighted"] = r.Highlighted
		result, err := p.expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

func (p *Projector) sortRows(rows []model.Record, spec SortSpec) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Get(spec.Column), rows[j].Get(spec.Column)
		aMiss, bMiss := a.IsNull(), b.IsNull()
		if aMiss || bMiss {
			// missing values go last regardless of direction
			return !aMiss && bMiss
		}
		cmp := p.compare(a, b)
		if spec.Direction == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
}

func (p *Projector) compare(a, b model.Value) int {
	an, aok := a.Number()
	bn, bok := b.Number()
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return p.coll.CompareString(a.Text(), b.Text())
}
