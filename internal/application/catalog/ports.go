package catalog

import "io"

// SheetReader lee la primera hoja de un libro de cálculo como filas de celdas en texto.
type SheetReader interface {
	ReadRows(r io.Reader) ([][]string, error)
}
