package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rollgrid/internal/model"
)

func TestParseCSV(t *testing.T) {
	in := "NAME,AGE\nAmy,34\nBob,71\n"
	raw, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"NAME", "AGE"}, raw.Header)
	require.Len(t, raw.Rows, 2)
	require.Equal(t, []string{"Bob", "71"}, raw.Rows[1])
}

func TestParseCSVEmptyIsBadFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"NAME", "AGE"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Amy", 34}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	raw, err := Parse("roster.xlsx", &buf)
	require.NoError(t, err)
	require.Equal(t, []string{"NAME", "AGE"}, raw.Header)
	require.Len(t, raw.Rows, 1)
	require.Equal(t, "Amy", raw.Rows[0][0])
}

func TestParseXLSXGarbageIsBadFile(t *testing.T) {
	_, err := Parse("roster.xlsx", strings.NewReader("not a zip"))
	require.Error(t, err)
}

func TestSeedInsertsSerialColumnFirst(t *testing.T) {
	raw := RawTable{
		Header: []string{"NAME", "AGE"},
		Rows:   [][]string{{"Amy", "34"}, {"Bob", "71"}},
	}
	s := Seed(raw)

	require.Equal(t, model.Columns{model.SerialColumn, "NAME", "AGE"}, s.Columns)
	for i, r := range s.Rows {
		n, ok := r.Get(model.SerialColumn).Number()
		require.True(t, ok)
		require.Equal(t, float64(i+1), n)
		require.NotEmpty(t, r.ID)
	}
	require.NotEqual(t, s.Rows[0].ID, s.Rows[1].ID)
}

func TestSeedKeepsExistingSerialsAndBackfillsBlanks(t *testing.T) {
	raw := RawTable{
		Header: []string{model.SerialColumn, "NAME"},
		Rows:   [][]string{{"7", "Amy"}, {"", "Bob"}},
	}
	s := Seed(raw)

	require.Equal(t, model.Columns{model.SerialColumn, "NAME"}, s.Columns)
	n, _ := s.Rows[0].Get(model.SerialColumn).Number()
	require.Equal(t, float64(7), n)
	n, _ = s.Rows[1].Get(model.SerialColumn).Number()
	require.Equal(t, float64(2), n)
}

func TestSeedShortRowsLeaveCellsAbsent(t *testing.T) {
	raw := RawTable{
		Header: []string{"NAME", "AGE", "REMARKS"},
		Rows:   [][]string{{"Amy"}},
	}
	s := Seed(raw)
	require.True(t, s.Rows[0].Get("AGE").IsNull())
	require.Equal(t, "", s.Rows[0].Get("AGE").Text())
}

func TestSeedSuffixesCaseCollidingHeaders(t *testing.T) {
	raw := RawTable{
		Header: []string{"NAME", "name", "Name"},
		Rows:   [][]string{{"Amy", "Bob", "Cid"}},
	}
	s := Seed(raw)

	require.Equal(t, model.Columns{model.SerialColumn, "NAME", "name (2)", "Name (3)"}, s.Columns)
	require.Equal(t, "Amy", s.Rows[0].Get("NAME").Text())
	require.Equal(t, "Bob", s.Rows[0].Get("name (2)").Text())
	require.Equal(t, "Cid", s.Rows[0].Get("Name (3)").Text())
}

func TestSeedKeepsLeadingZeros(t *testing.T) {
	raw := RawTable{
		Header: []string{"NAME", "VOTER ID (EPIC No.)"},
		Rows:   [][]string{{"Amy", "007"}},
	}
	s := Seed(raw)
	require.Equal(t, "007", s.Rows[0].Get("VOTER ID (EPIC No.)").Text())
}
