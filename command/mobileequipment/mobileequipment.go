// Package mobileequipment implements the modem's generic mobile-equipment
// AT commands: functionality level and signal quality.
package mobileequipment

import (
	"strconv"

	"github.com/sequans/monarch2/at"
)

// FunctionalMode selects the modem's RF/SIM functionality level via +CFUN.
type FunctionalMode int

// FunctionalMode values.
const (
	Minimum      FunctionalMode = 0
	Full         FunctionalMode = 1
	AirplaneMode FunctionalMode = 4
)

// ResetFlag controls whether +CFUN resets the modem before applying the
// new functionality level.
type ResetFlag int

// ResetFlag values.
const (
	NoReset ResetFlag = 0
	DoReset ResetFlag = 1
)

// SetFunctionality issues AT+CFUN=<fun>[,<rst>].
type SetFunctionality struct {
	Fun FunctionalMode
	Rst *ResetFlag
}

func (SetFunctionality) Prefix() string { return "+CFUN=" }

func (c SetFunctionality) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.Fun))
	if c.Rst == nil {
		e.AddOptional(nil)
	} else {
		tok := strconv.Itoa(int(*c.Rst))
		e.AddOptional(&tok)
	}
	return nil
}

// GetSignalQuality issues AT+CSQ and reports received signal quality.
type GetSignalQuality struct{}

func (GetSignalQuality) Prefix() string { return "+CSQ" }

func (GetSignalQuality) EncodeArgs(e *at.Encoder) error { return nil }

// SignalQuality is the response to GetSignalQuality. Rssi is the raw
// 0..31/99 indicator, Ber the bit error rate indicator; both are reported
// verbatim, uninterpreted, since their dBm/percentage mapping is
// firmware-revision specific.
type SignalQuality struct {
	Rssi int
	Ber  int
}

func (s *SignalQuality) DecodeFields(d *at.Decoder) error {
	rssi, err := d.Int(0)
	if err != nil {
		return err
	}
	ber, err := d.Int(1)
	if err != nil {
		return err
	}
	s.Rssi = rssi
	s.Ber = ber
	return nil
}
