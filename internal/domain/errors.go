package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRow matches any *MalformedRowError via errors.Is.
	ErrMalformedRow = errors.New("malformed row")

	// ErrEmptyInput matches any *EmptyInputError via errors.Is.
	ErrEmptyInput = errors.New("empty input")
)

// MalformedRowError reports a row that is missing a mandatory field. The row is
// dropped; loading continues with the remaining rows.
type MalformedRowError struct {
	Line  int // 1-based data line, 0 when unknown
	Field string
}

func (e *MalformedRowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed row %d: missing %s", e.Line, e.Field)
	}
	return fmt.Sprintf("malformed row: missing %s", e.Field)
}

func (e *MalformedRowError) Is(target error) bool { return target == ErrMalformedRow }

// EmptyInputError reports an aggregation or density estimate requested over
// zero records. Callers decide whether to render an empty chart.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no input records", e.Op)
}

func (e *EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }
