package sheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
)

type fakeSource struct {
	sheets []string
	cells  map[string]string // "sheet!A1" -> value
	broken map[string]bool   // cells whose read fails
}

func (f *fakeSource) SheetNames() []string { return f.sheets }

func (f *fakeSource) Cell(sheet, col string, row int) (string, error) {
	key := fmt.Sprintf("%s!%s%d", sheet, col, row)
	if f.broken[key] {
		return "", errors.New("cell unreadable")
	}
	return f.cells[key], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScanner_StopsAtBlankKey(t *testing.T) {
	src := &fakeSource{
		sheets: []string{"s"},
		cells: map[string]string{
			"s!A2": "first", "s!B2": "x",
			"s!A3": "second", "s!B3": "y",
			// A4 blank ends the section even though A5 has data again.
			"s!A5": "orphan",
		},
	}

	sc := NewScanner(src, "s", 2, "A", []string{"B"}, 0, testLogger())
	var keys []string
	for sc.Next() {
		keys = append(keys, sc.Row().Key)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "first" || keys[1] != "second" {
		t.Errorf("expected [first second], got %v", keys)
	}
}

func TestScanner_RowCeiling(t *testing.T) {
	cells := map[string]string{}
	for r := 2; r <= 50; r++ {
		cells[fmt.Sprintf("s!A%d", r)] = fmt.Sprintf("row%d", r)
	}
	src := &fakeSource{sheets: []string{"s"}, cells: cells}

	sc := NewScanner(src, "s", 2, "A", nil, 5, testLogger())
	count := 0
	for sc.Next() {
		count++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("ceiling is not an error, got: %v", err)
	}
	if count != 5 {
		t.Errorf("expected 5 rows before ceiling, got %d", count)
	}
}

func TestScanner_NonKeyCellErrorKeepsRow(t *testing.T) {
	src := &fakeSource{
		sheets: []string{"s"},
		cells:  map[string]string{"s!A2": "only", "s!C2": "kept"},
		broken: map[string]bool{"s!B2": true},
	}

	sc := NewScanner(src, "s", 2, "A", []string{"B", "C"}, 0, testLogger())
	if !sc.Next() {
		t.Fatalf("expected row to survive a broken non-key cell")
	}
	row := sc.Row()
	if row.Cells["B"] != "" {
		t.Errorf("broken cell should degrade to empty, got %q", row.Cells["B"])
	}
	if row.Cells["C"] != "kept" {
		t.Errorf("readable cell lost, got %q", row.Cells["C"])
	}
	if sc.Next() {
		t.Errorf("expected scan to end after row 2")
	}
	if err := sc.Err(); err != nil {
		t.Errorf("non-key cell failure must not be fatal: %v", err)
	}
}

func TestScanner_KeyCellErrorIsFatal(t *testing.T) {
	src := &fakeSource{
		sheets: []string{"s"},
		cells:  map[string]string{"s!A2": "ok"},
		broken: map[string]bool{"s!A3": true},
	}

	sc := NewScanner(src, "s", 2, "A", nil, 0, testLogger())
	if !sc.Next() {
		t.Fatalf("expected first row")
	}
	if sc.Next() {
		t.Fatalf("expected scan to stop on broken key cell")
	}
	if sc.Err() == nil {
		t.Errorf("expected fatal error for unreadable key cell")
	}
}

func TestScanner_TrimsKey(t *testing.T) {
	src := &fakeSource{
		sheets: []string{"s"},
		cells:  map[string]string{"s!A2": "  padded  "},
	}
	sc := NewScanner(src, "s", 2, "A", nil, 0, testLogger())
	if !sc.Next() {
		t.Fatalf("expected one row")
	}
	if got := sc.Row().Key; got != "padded" {
		t.Errorf("expected trimmed key, got %q", got)
	}
}

func TestHasSheet(t *testing.T) {
	src := &fakeSource{sheets: []string{"one", "two"}}
	if !HasSheet(src, "two") {
		t.Errorf("expected sheet %q to be found", "two")
	}
	if HasSheet(src, "three") {
		t.Errorf("did not expect sheet %q", "three")
	}
}
