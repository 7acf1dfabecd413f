package csvrows

import (
	"beat-planning-service/internal/domain"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	in := "\xEF\xBB\xBFsalespersonId,salesperson,lat,lng,label\n" +
		"sp_1,Asha,12.9,77.5,\"Shop, Main St\"\n" +
		"\n" +
		"sp_2,Ravi,13.0\n" +
		"sp_3,Meena,1,2,x,extra\n"

	rows, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	want := []domain.RawRow{
		{"salespersonId": "sp_1", "salesperson": "Asha", "lat": "12.9", "lng": "77.5", "label": "Shop, Main St"},
		{"salespersonId": "sp_2", "salesperson": "Ravi", "lat": "13.0"},
		{"salespersonId": "sp_3", "salesperson": "Meena", "lat": "1", "lng": "2", "label": "x"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("salespersonId,lat,lng\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"salespersonId", "lat", "lng"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"sp_1", 12.5, 77.25}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"sp_2", "1", "2"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Read("plan.XLSX", buf)
	require.NoError(t, err)

	want := []domain.RawRow{
		{"salespersonId": "sp_1", "lat": "12.5", "lng": "77.25"},
		{"salespersonId": "sp_2", "lat": "1", "lng": "2"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRejectsLegacyExcel(t *testing.T) {
	_, err := Read("plan.xls", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
