// Package systemfeatures implements the modem's error-reporting and
// registration-reporting verbosity toggles: +CMEE and +CEREG (the write
// form; the unsolicited status report itself lives in command/network).
package systemfeatures

import (
	"time"

	"github.com/sequans/monarch2/at"
)

// CMEErrorReportMode selects how +CME ERROR failures are rendered.
type CMEErrorReportMode int

// CMEErrorReportMode values.
const (
	Off     CMEErrorReportMode = 0
	Numeric CMEErrorReportMode = 1
	Verbose CMEErrorReportMode = 2
)

// ConfigureCMEErrorReports issues AT+CMEE=<mode>. begin() sends this with
// Numeric once per modem lifetime so that command failures surface as a
// parseable code rather than a bare ERROR.
type ConfigureCMEErrorReports struct {
	Mode CMEErrorReportMode
}

func (ConfigureCMEErrorReports) Prefix() string { return "+CMEE=" }

func (ConfigureCMEErrorReports) Timeout() time.Duration { return 300 * time.Millisecond }

func (c ConfigureCMEErrorReports) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.Mode))
	return nil
}

// CEREGReportMode selects the verbosity of unsolicited +CEREG registration
// reports, per 3GPP TS 27.007 §7.2. Level 1 (the level begin() requests)
// reports bare status; higher levels add location/cause information this
// driver does not decode.
type CEREGReportMode int

// CEREGReportMode values.
const (
	Disabled            CEREGReportMode = 0
	StatusOnly          CEREGReportMode = 1
	StatusAndLocation   CEREGReportMode = 2
	StatusAndCause      CEREGReportMode = 3
	StatusLocationPSM   CEREGReportMode = 4
	StatusLocationCause CEREGReportMode = 5
)

// ConfigureCEREGReports issues AT+CEREG=<mode>.
type ConfigureCEREGReports struct {
	Mode CEREGReportMode
}

func (ConfigureCEREGReports) Prefix() string { return "+CEREG=" }

func (c ConfigureCEREGReports) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.Mode))
	return nil
}
