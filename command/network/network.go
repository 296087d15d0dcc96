// Package network implements PLMN selection and registration status
// reporting via +COPS and +CEREG.
package network

import (
	"strconv"

	"github.com/sequans/monarch2/at"
)

// NetworkSelectionMode selects +COPS's selection strategy.
type NetworkSelectionMode int

// NetworkSelectionMode values.
const (
	Automatic NetworkSelectionMode = 0
	Manual    NetworkSelectionMode = 1
	// Unregister detaches from the current network without selecting
	// another.
	Unregister NetworkSelectionMode = 2
	// SetFormat only changes the <format> used by subsequent +COPS? reads;
	// no registration is attempted.
	SetFormat NetworkSelectionMode = 3
	// ManualAutoFallback tries the given operator first, entering automatic
	// mode if the manual selection fails.
	ManualAutoFallback NetworkSelectionMode = 4
)

// OperatorNameFormat selects how +COPS reports/accepts the operator field.
type OperatorNameFormat int

// OperatorNameFormat values.
const (
	LongAlphanumeric  OperatorNameFormat = 0
	ShortAlphanumeric OperatorNameFormat = 1
	Numeric           OperatorNameFormat = 2
)

// NetworkRegistrationState enumerates the +CEREG registration status
// values, matching 3GPP TS 27.007 §7.2.
type NetworkRegistrationState int

// NetworkRegistrationState values.
const (
	NotSearching             NetworkRegistrationState = 0
	RegisteredHome           NetworkRegistrationState = 1
	Searching                NetworkRegistrationState = 2
	Denied                   NetworkRegistrationState = 3
	Unknown                  NetworkRegistrationState = 4
	RegisteredRoaming        NetworkRegistrationState = 5
	RegisteredSmsOnlyHome    NetworkRegistrationState = 6
	RegisteredSmsOnlyRoaming NetworkRegistrationState = 7
	AttachedEmergencyOnly    NetworkRegistrationState = 8
	// RegisteredCsfbNotPreferredHome/Roaming and RegisteredTempConnLoss are
	// reported by newer firmware revisions per 3GPP TS 27.007's later
	// releases; LteConnect/LteDisconnect never treat them as terminal.
	RegisteredCsfbNotPreferredHome    NetworkRegistrationState = 9
	RegisteredCsfbNotPreferredRoaming NetworkRegistrationState = 10
	RegisteredTempConnLoss            NetworkRegistrationState = 80
)

// PLMNSelection issues AT+COPS=<mode>[,<format>[,<oper>]].
type PLMNSelection struct {
	Mode   NetworkSelectionMode
	Format *OperatorNameFormat
	Oper   *string
}

func (PLMNSelection) Prefix() string { return "+COPS=" }

func (c PLMNSelection) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.Mode))
	if c.Format == nil {
		e.AddOptional(nil)
	} else {
		tok := strconv.Itoa(int(*c.Format))
		e.AddOptional(&tok)
	}
	if c.Oper == nil {
		e.AddOptional(nil)
	} else {
		if err := checkOperLen(*c.Oper); err != nil {
			return err
		}
		tok := `"` + *c.Oper + `"`
		e.AddOptional(&tok)
	}
	return nil
}

func checkOperLen(s string) error {
	if len(s) > 16 {
		return &at.FieldError{Pos: 2, Kind: at.ErrTooLong}
	}
	return nil
}

// NetworkRegistrationStatus reports the unsolicited "+CEREG:" status
// notification emitted whenever the modem's EPS registration state
// changes.
type NetworkRegistrationStatus struct {
	Stat NetworkRegistrationState
}

// NetworkRegistrationStatusPrefix is the URC's registered dispatch prefix.
const NetworkRegistrationStatusPrefix = "+CEREG:"

func (u *NetworkRegistrationStatus) DecodeLine(line string) error {
	d, err := at.MatchPrefix(line, NetworkRegistrationStatusPrefix)
	if err != nil {
		return err
	}
	v, err := d.Int(0)
	if err != nil {
		return err
	}
	u.Stat = NetworkRegistrationState(v)
	return nil
}
