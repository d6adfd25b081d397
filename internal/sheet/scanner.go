package sheet

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// DefaultMaxRows bounds a single scan. The tabular source cannot report a
// sheet's extent up front, so the scanner refuses to walk past this many
// rows even if the key column never goes blank.
const DefaultMaxRows = 100

// Row is one scanned spreadsheet row.
type Row struct {
	Num   int               // 1-based row number
	Key   string            // trimmed value of the key column
	Cells map[string]string // non-key cell values by column letter
}

// Scanner walks a sheet row by row starting at a given row. The scan ends
// at the first blank key cell or after the row ceiling, whichever comes
// first. Usage mirrors bufio.Scanner: call Next until it returns false,
// then check Err.
type Scanner struct {
	src    Source
	sheet  string
	keyCol string
	cols   []string
	row    int
	maxRow int
	log    *slog.Logger
	cur    Row
	err    error
}

// NewScanner creates a scanner over sheet starting at startRow. keyCol is
// the column whose blank cell terminates the scan; cols are the non-key
// columns captured per row. maxRows <= 0 falls back to DefaultMaxRows.
func NewScanner(src Source, sheet string, startRow int, keyCol string, cols []string, maxRows int, log *slog.Logger) *Scanner {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scanner{
		src:    src,
		sheet:  sheet,
		keyCol: keyCol,
		cols:   cols,
		row:    startRow,
		maxRow: startRow + maxRows - 1,
		log:    log,
	}
}

// Next advances to the following row. It returns false at the end of the
// section or on a fatal read error (see Err).
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	if s.row > s.maxRow {
		s.log.Warn("row ceiling reached, ending scan",
			"sheet", s.sheet, "row", s.row)
		return false
	}

	key, err := s.src.Cell(s.sheet, s.keyCol, s.row)
	if err != nil {
		// The key column decides row boundaries; if it cannot be read the
		// whole scan is unreliable.
		s.err = fmt.Errorf("sheet %q row %d: %w", s.sheet, s.row, err)
		return false
	}
	if strings.TrimSpace(key) == "" {
		return false
	}

	cells := make(map[string]string, len(s.cols))
	for _, col := range s.cols {
		v, err := s.src.Cell(s.sheet, col, s.row)
		if err != nil {
			// Recoverable: the row survives with this field at its default.
			s.log.Warn("cell read failed, using default",
				"sheet", s.sheet, "cell", col+strconv.Itoa(s.row), "error", err)
			v = ""
		}
		cells[col] = v
	}

	s.cur = Row{Num: s.row, Key: strings.TrimSpace(key), Cells: cells}
	s.row++
	return true
}

// Row returns the row read by the last successful Next.
func (s *Scanner) Row() Row {
	return s.cur
}

// Err returns the fatal error that stopped the scan, if any.
func (s *Scanner) Err() error {
	return s.err
}
