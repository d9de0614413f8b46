package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildBook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRows(t *testing.T) {
	buf := buildBook(t, [][]any{
		{"name", "description", "unit_price", "unit", "tax_rate"},
		{"Hora soporte", "Remoto", "85000", "hora", "19"},
		{"Licencia", "", 120.5, "und", ""},
	})

	rows, err := NewSheetReader().ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "unit_price", rows[0][2])
	assert.Equal(t, "Hora soporte", rows[1][0])
	assert.Equal(t, "120.5", rows[2][2])
}

func TestReadRows_ArchivoInvalido(t *testing.T) {
	_, err := NewSheetReader().ReadRows(strings.NewReader("no es un xlsx"))
	assert.Error(t, err)
}
