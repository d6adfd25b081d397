package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSX is a Source backed by an Office Open XML workbook.
type XLSX struct {
	f *excelize.File
}

// OpenXLSX reads a workbook from r (typically an uploaded file body).
func OpenXLSX(r io.Reader) (*XLSX, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &XLSX{f: f}, nil
}

// OpenXLSXFile opens a workbook from disk.
func OpenXLSXFile(path string) (*XLSX, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &XLSX{f: f}, nil
}

func (x *XLSX) SheetNames() []string {
	return x.f.GetSheetList()
}

func (x *XLSX) Cell(sheet, col string, row int) (string, error) {
	v, err := x.f.GetCellValue(sheet, fmt.Sprintf("%s%d", col, row))
	if err != nil {
		return "", fmt.Errorf("read cell %s%d on %q: %w", col, row, sheet, err)
	}
	return v, nil
}

// Close releases the underlying workbook.
func (x *XLSX) Close() error {
	return x.f.Close()
}
