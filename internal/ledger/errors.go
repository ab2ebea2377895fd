package ledger

import (
	"errors"
	"fmt"
)

// Lookup failures originate in the data-access layer, not the computation;
// they are kept distinct so callers can tell "fetch went wrong" apart from
// "input data is corrupt".
var (
	// ErrLeaseNotFound means the requested lease does not exist.
	ErrLeaseNotFound = errors.New("lease not found")
	// ErrNotOwner means the lease belongs to a different user than the caller.
	ErrNotOwner = errors.New("lease owned by another user")
)

// RecordError is a data-integrity failure in one supplied record: a missing
// or unparseable date, or a field the engine cannot work with. The engine
// never substitutes a default for a bad date; it names the offending record
// and stops.
type RecordError struct {
	Kind  string // "payment" or "adjustment"
	ID    uint
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %d: field %s: %v", e.Kind, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %d: field %s is invalid", e.Kind, e.ID, e.Field)
}

func (e *RecordError) Unwrap() error { return e.Err }
