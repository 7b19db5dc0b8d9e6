package otengine

import (
	"errors"
	"fmt"

	"github.com/adq/picotherm/internal/otcodec"
)

// Outcome classifies the result of one exchange (spec §3 "Exchange
// record"). Exchange reports ACK-OK to its caller as a nil error;
// OutcomeACKOK is only passed to the Recorder.
type Outcome int

const (
	OutcomeACKOK Outcome = iota
	OutcomeDataInvalid
	OutcomeUnknownDataID
	OutcomeParityError
	OutcomeManchesterError
	OutcomeTimeout
	OutcomeWrongAckID
)

func (o Outcome) String() string {
	switch o {
	case OutcomeACKOK:
		return "ACK-OK"
	case OutcomeDataInvalid:
		return "DATA-INVALID"
	case OutcomeUnknownDataID:
		return "UNKNOWN-DATAID"
	case OutcomeParityError:
		return "PARITY-ERROR"
	case OutcomeManchesterError:
		return "MANCHESTER-ERROR"
	case OutcomeTimeout:
		return "TIMEOUT"
	case OutcomeWrongAckID:
		return "WRONG-ACK-ID"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Error wraps an Outcome as an error, giving every exchange failure a
// uniform shape the retry wrapper and callers can inspect with
// errors.As.
type Error struct {
	Outcome Outcome
	DataID  uint8
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("otengine: data-id %#x: %s: %v", e.DataID, e.Outcome, e.err)
	}
	return fmt.Sprintf("otengine: data-id %#x: %s", e.DataID, e.Outcome)
}

func (e *Error) Unwrap() error { return e.err }

func newError(outcome Outcome, dataID uint8, wrapped error) *Error {
	return &Error{Outcome: outcome, DataID: dataID, err: wrapped}
}

// ErrTimeout, ErrManchester and ErrParity let callers match a failure
// with errors.Is against the underlying otbus/otcodec sentinel,
// without needing to know about the Error wrapper.
var (
	ErrTimeout    = errors.New("otengine: timeout")
	ErrManchester = otcodec.ErrManchester
	ErrParity     = otcodec.ErrParity
)

// BusFaultError reports a driver-level I/O failure (bus.Transmit or
// bus.Receive returning something other than a plain otbus.ErrTimeout
// or context cancellation): a broken chardev fd, a GPIO line claimed
// out from under the driver, a PIO state-machine stall. This is
// deliberately not an Outcome: the taxonomy in spec §3 classifies
// slave protocol behavior, not driver health, and the control loop
// treats a BusFaultError as fatal to the whole bus (BACKOFF) rather
// than a single retryable exchange.
type BusFaultError struct {
	err error
}

func (e *BusFaultError) Error() string { return fmt.Sprintf("otengine: bus fault: %v", e.err) }
func (e *BusFaultError) Unwrap() error { return e.err }

func newBusFault(err error) *BusFaultError { return &BusFaultError{err: err} }

// Retryable reports whether the retry wrapper should retry a failure
// with this outcome (spec §4.C step 8, §7 "Propagation policy").
// DATA-INVALID and UNKNOWN-DATAID are legitimate slave responses, not
// transient faults, and must never be retried.
func (o Outcome) Retryable() bool {
	switch o {
	case OutcomeTimeout, OutcomeManchesterError, OutcomeParityError, OutcomeWrongAckID:
		return true
	default:
		return false
	}
}
