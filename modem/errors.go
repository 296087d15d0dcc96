package modem

import (
	"fmt"

	"github.com/sequans/monarch2/command/mqtt"
)

// ErrorKind classifies a high-level operation's failure, per the four-kind
// taxonomy: underlying AT/codec failure, a higher-level deadline exceeded,
// clock synchronisation giving up, or an MQTT session-level rejection.
type ErrorKind int

// ErrorKind values.
const (
	ErrAT ErrorKind = iota
	ErrTimeout
	ErrClockSync
	ErrMQTT
	// ErrPrecondition reports a caller mistake the driver can check ahead
	// of sending anything to the modem (a reserved NVM index, an
	// out-of-range TLS profile id). Go libraries return these as errors,
	// not panics, since the mistake is caller-suppliable data rather than
	// an invariant violation inside the driver itself.
	ErrPrecondition
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAT:
		return "AT"
	case ErrTimeout:
		return "timeout"
	case ErrClockSync:
		return "clock synchronization"
	case ErrMQTT:
		return "MQTT"
	case ErrPrecondition:
		return "precondition"
	default:
		return "unknown"
	}
}

// Error is returned by every Modem operation. Cause, when set, is the
// underlying AT/codec error or context error; callers that need the raw
// AT failure can errors.As/errors.Is against it via Unwrap.
type Error struct {
	Kind     ErrorKind
	MQTTCode mqtt.StatusCode
	Cause    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrMQTT:
		return fmt.Sprintf("modem: MQTT error: rc=%d", e.MQTTCode)
	case ErrAT:
		return fmt.Sprintf("modem: AT error: %v", e.Cause)
	case ErrPrecondition:
		return fmt.Sprintf("modem: precondition violated: %v", e.Cause)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("modem: %s: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("modem: %s", e.Kind)
	}
}

// Unwrap exposes the underlying AT/codec or context error.
func (e *Error) Unwrap() error { return e.Cause }

// atErr wraps a raw at.Client/codec error as a Kind-AT modem.Error, or
// returns nil unchanged.
func atErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrAT, Cause: err}
}

// timeoutErr wraps a context/Signal.Wait error as a Kind-Timeout
// modem.Error.
func timeoutErr(err error) error {
	return &Error{Kind: ErrTimeout, Cause: err}
}

// preconditionErr builds a Kind-Precondition modem.Error.
func preconditionErr(cause error) error {
	return &Error{Kind: ErrPrecondition, Cause: cause}
}
