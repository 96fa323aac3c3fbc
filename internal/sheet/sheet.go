// Package sheet parses roster spreadsheets into raw tables and seeds
// editing snapshots from them. Parsing stops at the raw table; ids,
// serial-column reconciliation and typing happen in Seed.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"rollgrid/internal/errors"
	"rollgrid/internal/model"
)

// RawTable is the parser output: a header row and string cell rows.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Parse dispatches on the file extension. CSV is the default for
// unknown extensions since follow-mode rosters are extensionless pipes.
func Parse(name string, r io.Reader) (RawTable, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return ParseXLSX(r)
	default:
		return ParseCSV(r)
	}
}

// ParseCSV reads a header row plus data rows. Rows may have varying
// field counts; short rows leave trailing cells absent.
func ParseCSV(r io.Reader) (RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return RawTable{}, errors.NewBadFile("invalid file: %v", err)
	}
	if len(all) == 0 {
		return RawTable{}, errors.NewBadFile("invalid file: no header row")
	}
	return RawTable{Header: all[0], Rows: all[1:]}, nil
}

// ParseXLSX reads the first sheet of a workbook.
func ParseXLSX(r io.Reader) (RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return RawTable{}, errors.NewBadFile("invalid file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RawTable{}, errors.NewBadFile("invalid file: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RawTable{}, errors.NewBadFile("invalid file: %v", err)
	}
	if len(rows) == 0 {
		return RawTable{}, errors.NewBadFile("invalid file: no header row")
	}
	return RawTable{Header: rows[0], Rows: rows[1:]}, nil
}

// Seed builds the snapshot that reseeds the history after an import:
// fresh ids for every row, the serial column inserted first when the
// imported header lacks it, and blank serials backfilled with the 1-based
// row position. Serials already present in the file are kept. Header
// names that collide case-insensitively are suffixed so the schema keeps
// its uniqueness and no two columns share one cell key.
func Seed(raw RawTable) model.Snapshot {
	names := make([]string, len(raw.Header))
	header := make(model.Columns, 0, len(raw.Header)+1)
	hasSerial := false
	for i, h := range raw.Header {
		name := h
		for n := 2; header.HasFold(name); n++ {
			name = fmt.Sprintf("%s (%d)", h, n)
		}
		names[i] = name
		if name == model.SerialColumn {
			hasSerial = true
		}
		header = append(header, name)
	}
	if !hasSerial {
		header = append(model.Columns{model.SerialColumn}, header...)
	}

	rows := make([]model.Record, 0, len(raw.Rows))
	for i, src := range raw.Rows {
		rec := model.Record{ID: model.NewID(), Cells: make(map[string]model.Value, len(header))}
		for j, col := range names {
			if j < len(src) {
				rec.Cells[col] = cellValue(col, src[j])
			}
		}
		serial := rec.Get(model.SerialColumn)
		if serial.IsNull() || serial.Text() == "" {
			rec.Cells[model.SerialColumn] = model.Number(float64(i + 1))
		}
		rows = append(rows, rec)
	}

	return model.Snapshot{Rows: rows, Columns: header}
}

// cellValue types a raw cell. Only the serial column is parsed
// numerically; everything else stays text so identifiers keep leading
// zeros.
func cellValue(col, text string) model.Value {
	if col == model.SerialColumn {
		if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return model.Number(n)
		}
		return model.Null()
	}
	return model.String(text)
}
