// Package device implements the modem's device-level AT commands: power
// state (factory reset, shutdown), the wall clock, and the active radio
// access technology.
package device

import (
	"strconv"
	"strings"
	"time"

	"github.com/sequans/monarch2/at"
)

// RAT identifies a radio access technology the modem can be pinned to.
type RAT int

// RAT values, matching the modem's +SQNMODEACTIVE discriminants.
const (
	RATLteM  RAT = 1
	RATNBIoT RAT = 2
	// RATReserved is never selectable; it exists only to keep the
	// discriminant space aligned with the modem's own enumeration.
	RATReserved RAT = 3
)

func (r RAT) String() string {
	switch r {
	case RATLteM:
		return "LTE-M"
	case RATNBIoT:
		return "NB-IoT"
	default:
		return "reserved"
	}
}

func parseRAT(tok string) (RAT, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	switch RAT(v) {
	case RATLteM, RATNBIoT, RATReserved:
		return RAT(v), nil
	default:
		return 0, &at.FieldError{Kind: at.ErrUnknownEnum, Value: tok}
	}
}

// Ping issues a bare AT, verifying the command channel is alive.
type Ping struct{}

func (Ping) Prefix() string { return "" }

func (Ping) EncodeArgs(e *at.Encoder) error { return nil }

// FactoryReset issues AT+SQNSFACTORYRESET, restoring the modem's
// configuration to the last saved restoration point (or factory defaults
// when none was ever saved). A reboot is needed to commit it.
type FactoryReset struct{}

func (FactoryReset) Prefix() string { return "+SQNSFACTORYRESET" }

func (FactoryReset) EncodeArgs(e *at.Encoder) error { return nil }

// ResetToFactoryState issues the same AT+SQNSFACTORYRESET command text as
// FactoryReset but is kept as a distinct command because the firmware
// documents it with its own, longer completion budget: this variant also
// flushes the modem's cached cell data and user credentials.
type ResetToFactoryState struct{}

func (ResetToFactoryState) Prefix() string { return "+SQNSFACTORYRESET" }

func (ResetToFactoryState) EncodeArgs(e *at.Encoder) error { return nil }

func (ResetToFactoryState) Timeout() time.Duration { return 10 * time.Second }

// Shutdown issues AT+SQNSSHDN, detaching from the network and powering
// the modem off gracefully. The modem accepts no further command; on
// restart it must be reset via the RESETN line.
type Shutdown struct{}

func (Shutdown) Prefix() string { return "+SQNSSHDN" }

func (Shutdown) EncodeArgs(e *at.Encoder) error { return nil }

func (Shutdown) Timeout() time.Duration { return time.Second }

// GetClock issues AT+CCLK? and reports the modem's wall clock.
type GetClock struct{}

func (GetClock) Prefix() string { return "+CCLK?" }

func (GetClock) EncodeArgs(e *at.Encoder) error { return nil }

// Clock is the response to GetClock.
type Clock struct {
	Time time.Time
}

// clockLayout matches the modem's "yy/MM/dd,HH:mm:ss+zz" format, where zz
// is a count of quarter hours (not minutes) for the UTC offset.
const clockLayout = "06/01/02,15:04:05"

func (c *Clock) DecodeFields(d *at.Decoder) error {
	raw, err := d.String(0)
	if err != nil {
		return err
	}
	t, err := parseClock(raw)
	if err != nil {
		return &at.FieldError{Pos: 0, Kind: at.ErrInvalidField, Reason: err.Error(), Value: raw}
	}
	c.Time = t
	return nil
}

// parseClock parses the modem's timestamp format and coerces it to
// time.Unix(0, 0) UTC when it falls below MinValidTimestamp, mirroring the
// firmware's habit of reporting an un-synchronised clock as a fixed epoch
// sentinel rather than a plausible-looking date.
func parseClock(raw string) (time.Time, error) {
	body, offset, err := splitClockOffset(raw)
	if err != nil {
		return time.Time{}, err
	}
	loc := time.FixedZone("", offset*15*60)
	t, err := time.ParseInLocation(clockLayout, body, loc)
	if err != nil {
		return time.Time{}, err
	}
	if t.Unix() < MinValidTimestamp {
		return time.Unix(0, 0).UTC(), nil
	}
	return t, nil
}

// MinValidTimestamp is the earliest Unix time the modem's clock can report
// and be trusted; anything below it indicates the clock has never been
// synchronised (2023-01-01T00:00:00Z).
const MinValidTimestamp = 1_672_531_200

func splitClockOffset(raw string) (body string, quarterHours int, err error) {
	sign := 1
	idx := strings.LastIndexAny(raw, "+-")
	if idx <= 0 {
		return raw, 0, nil
	}
	if raw[idx] == '-' {
		sign = -1
	}
	body = raw[:idx]
	n, err := strconv.Atoi(raw[idx+1:])
	if err != nil {
		return "", 0, err
	}
	return body, sign * n, nil
}

// GetOperatingMode issues AT+SQNMODEACTIVE? and reports the RAT the modem
// is currently pinned to.
type GetOperatingMode struct{}

func (GetOperatingMode) Prefix() string { return "+SQNMODEACTIVE?" }

func (GetOperatingMode) EncodeArgs(e *at.Encoder) error { return nil }

// ActiveRAT is the response to GetOperatingMode.
type ActiveRAT struct {
	Mode RAT
}

func (a *ActiveRAT) DecodeFields(d *at.Decoder) error {
	tok, err := d.String(0)
	if err != nil {
		return err
	}
	mode, err := parseRAT(tok)
	if err != nil {
		return err
	}
	a.Mode = mode
	return nil
}

// SetOperatingMode issues AT+SQNMODEACTIVE=<mode>, pinning the modem to a
// specific radio access technology. Only accepted in CFUN=0 state; the
// setting persists across reboot and upgrade.
type SetOperatingMode struct {
	Mode RAT
}

func (c SetOperatingMode) Prefix() string { return "+SQNMODEACTIVE=" }

func (c SetOperatingMode) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.Mode))
	return nil
}

// ShutdownPrefix is the dispatch prefix of the "+SHUTDOWN" URC, reported
// when the modem has completed its shutdown procedure.
const ShutdownPrefix = "+SHUTDOWN"

// StartPrefix is the dispatch prefix of the "+SYSSTART" URC, reported when
// the modem has (re)started and is ready to operate.
const StartPrefix = "+SYSSTART"
