// Package excel lee libros xlsx para la importación del catálogo.
package excel

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetReader implementa catalog.SheetReader con excelize.
type SheetReader struct{}

// NewSheetReader construye el lector.
func NewSheetReader() *SheetReader { return &SheetReader{} }

// ReadRows devuelve las filas de la primera hoja con el valor formateado de cada celda.
func (SheetReader) ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}
