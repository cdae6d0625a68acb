package hobby

import "fmt"

// ValidationError reports invalid input to an operation. The operation has
// not changed any state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DecodeError reports a malformed document. The import that returned it has
// not changed any state.
type DecodeError struct {
	Section string // sheet name, empty for workbook level failures
	Row     int    // 1-based sheet row, 0 when not applicable
	Column  string
	Err     error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Section == "":
		return fmt.Sprintf("cannot decode document: %v", e.Err)
	case e.Row == 0:
		return fmt.Sprintf("cannot decode %s: %v", e.Section, e.Err)
	case e.Column == "":
		return fmt.Sprintf("cannot decode %s row %d: %v", e.Section, e.Row, e.Err)
	default:
		return fmt.Sprintf("cannot decode %s row %d column %q: %v", e.Section, e.Row, e.Column, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }
