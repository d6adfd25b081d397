package policy

import "fmt"

// ExtractionError reports an unrecoverable failure while parsing a sheet
// that is present in the source. No partial document accompanies it.
type ExtractionError struct {
	Sheet string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract sheet %q: %v", e.Sheet, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
