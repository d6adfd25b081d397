// Package sheet provides read access to tabular spreadsheet data and a
// bounded sequential row scanner over it.
package sheet

// Source yields sheet names and cell values from an opened spreadsheet.
// How the workbook was obtained or DRM-unlocked is the caller's concern;
// the extraction engine only consumes this view.
type Source interface {
	// SheetNames returns sheet names in workbook order.
	SheetNames() []string
	// Cell returns the value at the given column letter and 1-based row.
	// An empty string means the cell is blank or absent.
	Cell(sheet, col string, row int) (string, error)
}

// HasSheet reports whether src contains a sheet with the given name.
func HasSheet(src Source, name string) bool {
	for _, s := range src.SheetNames() {
		if s == name {
			return true
		}
	}
	return false
}
