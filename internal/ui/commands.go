package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"rollgrid/internal/ai"
	"rollgrid/internal/export"
	"rollgrid/internal/ingest"
	"rollgrid/internal/model"
	"rollgrid/internal/sheet"
	"rollgrid/internal/store"
)

func importCmd(path string, useStdin bool) tea.Cmd {
	return func() tea.Msg {
		if useStdin {
			raw, err := sheet.ParseCSV(os.Stdin)
			if err != nil {
				return importedMsg{err: err}
			}
			return importedMsg{snap: sheet.Seed(raw), name: "stdin"}
		}
		f, err := os.Open(path)
		if err != nil {
			return importedMsg{err: err}
		}
		defer f.Close()
		raw, err := sheet.Parse(path, f)
		if err != nil {
			return importedMsg{err: err}
		}
		return importedMsg{snap: sheet.Seed(raw), name: filepath.Base(path)}
	}
}

func (m *Model) startFollow() tea.Cmd {
	m.followRows, m.followErrs = ingest.Read(m.ctx, ingest.Options{Source: ingest.SourceFollow, Path: m.cfg.FilePath})
	m.gotHeader = false
	return m.waitFollow()
}

func (m *Model) waitFollow() tea.Cmd {
	rows, errs := m.followRows, m.followErrs
	return func() tea.Msg {
		select {
		case r, ok := <-rows:
			return followRowMsg{row: r, ok: ok}
		case err, ok := <-errs:
			if !ok {
				return followRowMsg{}
			}
			return followErrMsg{err: err}
		}
	}
}

// writeExport writes the given projection to path, choosing the format
// from the extension.
func writeExport(path string, cols model.Columns, rows []model.Record, title string, info []export.InfoField) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return export.ToXLSX(f, cols, rows, info)
	case ".pdf":
		return export.ToPDF(f, title, info, cols, rows)
	default:
		return export.ToCSV(f, cols, rows)
	}
}

// RosterInfo flattens an account profile into the export info block.
func RosterInfo(acct *store.Account) []export.InfoField {
	if acct == nil {
		return nil
	}
	return []export.InfoField{
		{Key: "LAC NO & NAME", Value: acct.Profile.LacNoName},
		{Key: "PART NO & NAME", Value: acct.Profile.PartNoName},
		{Key: "NAME OF THE BLO", Value: acct.Profile.OfficerName},
		{Key: "CONTACT NO", Value: acct.Profile.ContactNo},
	}
}

func exportCmd(path string, cols model.Columns, rows []model.Record, acct *store.Account) tea.Cmd {
	return func() tea.Msg {
		err := writeExport(path, cols, rows, "Voters Data", RosterInfo(acct))
		return exportedMsg{path: path, err: err}
	}
}

func (m *Model) extractCmd(text string, candidates []string) tea.Cmd {
	m.aiSeq++
	seq := m.aiSeq
	ext, ctx := m.extractor, m.ctx
	return func() tea.Msg {
		fields, err := ext.Extract(ctx, text, candidates)
		return extractMsg{seq: seq, fields: fields, err: err}
	}
}

func (m *Model) analyzeCmd(cols model.Columns, rows []model.Record) tea.Cmd {
	m.aiSeq++
	seq := m.aiSeq
	an, ctx := m.analyzer, m.ctx
	return func() tea.Msg {
		text, err := an.Analyze(ctx, cols, rows)
		return analysisMsg{seq: seq, text: text, err: err}
	}
}

func candidateColumns(cols model.Columns) []string {
	return ai.CandidateColumns([]string(cols))
}

func fmtErr(err error) string {
	return fmt.Sprintf("error: %v", err)
}
