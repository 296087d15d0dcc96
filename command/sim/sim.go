// Package sim implements SIM PIN management via +CPIN.
package sim

import (
	"time"

	"github.com/sequans/monarch2/at"
)

// SIMState enumerates the password the modem is currently waiting for, as
// reported by +CPIN?.
type SIMState int

// SIMState values.
const (
	Ready                      SIMState = 1
	PinRequired                SIMState = 2
	PukRequired                SIMState = 3
	PhoneToSimPinRequired      SIMState = 4
	PhoneToFirstSimPinRequired SIMState = 5
	PhoneToFirstSimPukRequired SIMState = 6
	Pin2Required               SIMState = 7
	Puk2Required               SIMState = 8
	NetworkPinRequired         SIMState = 9
	NetworkPukRequired         SIMState = 10
	NetworkSubsetPinRequired   SIMState = 11
	NetworkSubsetPukRequired   SIMState = 12
	ServiceProviderPinRequired SIMState = 13
	ServiceProviderPukRequired SIMState = 14
	CorporateSimRequired       SIMState = 15
	CorporatePukRequired       SIMState = 16
)

var simStateNames = map[string]SIMState{
	"READY":         Ready,
	"SIM PIN":       PinRequired,
	"SIM PUK":       PukRequired,
	"PH-SIM PIN":    PhoneToSimPinRequired,
	"PH-FSIM PIN":   PhoneToFirstSimPinRequired,
	"PH-FSIM PUK":   PhoneToFirstSimPukRequired,
	"SIM PIN2":      Pin2Required,
	"SIM PUK2":      Puk2Required,
	"PH-NET PIN":    NetworkPinRequired,
	"PH-NET PUK":    NetworkPukRequired,
	"PH-NETSUB PIN": NetworkSubsetPinRequired,
	"PH-NETSUB PUK": NetworkSubsetPukRequired,
	"PH-SP PIN":     ServiceProviderPinRequired,
	"PH-SP PUK":     ServiceProviderPukRequired,
	"PH-CORP PIN":   CorporateSimRequired,
	"PH-CORP PUK":   CorporatePukRequired,
}

func parseSIMState(tok string) (SIMState, error) {
	if s, ok := simStateNames[tok]; ok {
		return s, nil
	}
	return 0, &at.FieldError{Kind: at.ErrUnknownEnum, Value: tok}
}

// EnterPin issues AT+CPIN=<pin>[,<newpin>], sending the password the MT is
// currently waiting for (SIM PIN, SIM PUK, PH-SIM PIN, ...). If no PIN
// request is pending the modem answers with +CME ERROR rather than
// silently accepting it.
type EnterPin struct {
	Pin    string
	NewPin *string
}

func (EnterPin) Prefix() string { return "+CPIN=" }

func (EnterPin) Timeout() time.Duration { return 300 * time.Millisecond }

func (c EnterPin) EncodeArgs(e *at.Encoder) error {
	if err := e.AddString(c.Pin, 6); err != nil {
		return err
	}
	if c.NewPin == nil {
		e.AddOptional(nil)
		return nil
	}
	if err := checkLen(*c.NewPin); err != nil {
		return err
	}
	tok := `"` + *c.NewPin + `"`
	e.AddOptional(&tok)
	return nil
}

func checkLen(s string) error {
	if len(s) > 6 {
		return &at.FieldError{Pos: 1, Kind: at.ErrTooLong}
	}
	return nil
}

// GetPinStatus issues AT+CPIN? and reports which password, if any, the MT
// is waiting for.
type GetPinStatus struct{}

func (GetPinStatus) Prefix() string { return "+CPIN?" }

func (GetPinStatus) EncodeArgs(e *at.Encoder) error { return nil }

// PinStatus is the response to GetPinStatus.
type PinStatus struct {
	State SIMState
}

func (p *PinStatus) DecodeFields(d *at.Decoder) error {
	tok, err := d.String(0)
	if err != nil {
		return err
	}
	s, err := parseSIMState(tok)
	if err != nil {
		return err
	}
	p.State = s
	return nil
}
