// Package export renders the current projected view (visible columns,
// filtered/sorted rows) to CSV, XLSX or PDF. All writers are pure
// functions of their inputs; file handling stays with the caller.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"rollgrid/internal/model"
)

// InfoField is one line of the roster header block (booth, officer,
// contact) included in XLSX and PDF output.
type InfoField struct {
	Key   string
	Value string
}

// ToCSV writes a header row followed by the visible cells of every row.
func ToCSV(w io.Writer, cols model.Columns, rows []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	out := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			out[i] = r.Get(c).Text()
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const (
	dataSheet = "VotersData"
	infoSheet = "Roster Info"
)

// ToXLSX writes a workbook with the roster on one sheet and the info
// block on a second.
func ToXLSX(w io.Writer, cols model.Columns, rows []model.Record, info []InfoField) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return err
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cells := make([]any, len(cols))
		for j, c := range cols {
			v := r.Get(c)
			if n, ok := v.Number(); ok {
				cells[j] = n
			} else {
				cells[j] = v.Text()
			}
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dataSheet, addr, &cells); err != nil {
			return err
		}
	}

	if len(info) > 0 {
		if _, err := f.NewSheet(infoSheet); err != nil {
			return err
		}
		if err := f.SetSheetRow(infoSheet, "A1", &[]any{"Field", "Value"}); err != nil {
			return err
		}
		for i, kv := range info {
			addr, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(infoSheet, addr, &[]any{kv.Key, kv.Value}); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// ToPDF writes a landscape report: title, info block, then the roster as
// a bordered grid.
func ToPDF(w io.Writer, title string, info []InfoField, cols model.Columns, rows []model.Record) error {
	if len(cols) == 0 {
		return fmt.Errorf("pdf export: no visible columns")
	}
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, kv := range info {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 6, kv.Key+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, kv.Value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(cols))

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(255, 255, 224)
	for _, c := range cols {
		pdf.CellFormat(colW, 6, c, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		for _, c := range cols {
			pdf.CellFormat(colW, 5, r.Get(c).Text(), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
