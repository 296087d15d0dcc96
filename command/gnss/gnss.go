//go:build gm02sp

// Package gnss implements the GM02SP variant's on-chip GNSS commands:
// receiver configuration, assistance-data refresh, approximate position
// seeding, and fix programming. Every type in this package is compiled
// only when the gm02sp build tag is set.
package gnss

import (
	"strings"

	"github.com/sequans/monarch2/at"
)

// LocationMode selects how the receiver resolves a position. In
// on-device mode the GNSS subsystem computes position, speed and their
// estimated error itself.
type LocationMode int

// LocationMode values.
const (
	OnDeviceLocation LocationMode = 0
	LocationDisabled LocationMode = 1
)

// FixSensitivity sets how long the receiver is actually on per fix
// attempt. Higher sensitivity costs more power.
type FixSensitivity int

// FixSensitivity values.
const (
	SensitivityLow    FixSensitivity = 1
	SensitivityMedium FixSensitivity = 2
	SensitivityHigh   FixSensitivity = 3
)

// UrcNotificationSetting selects how much detail +LPGNSSFIXREADY carries.
type UrcNotificationSetting int

// UrcNotificationSetting values.
const (
	NotificationDisabled UrcNotificationSetting = 0
	NotificationShort    UrcNotificationSetting = 1
	NotificationFull     UrcNotificationSetting = 2
)

// AcquisitionMode selects the receiver's start strategy. Hot start
// requires a position known to within 100km; when no ephemerides or time
// are available the receiver falls back to cold start automatically.
type AcquisitionMode int

// AcquisitionMode values.
const (
	ColdWarmStart AcquisitionMode = 0
	HotStart      AcquisitionMode = 1
)

// GetGnssConfig issues AT+LPGNSSCFG? and reports the receiver's current
// configuration.
type GetGnssConfig struct{}

func (GetGnssConfig) Prefix() string { return "+LPGNSSCFG?" }

func (GetGnssConfig) EncodeArgs(e *at.Encoder) error { return nil }

// Config is the response to GetGnssConfig. Position 3 of the record is
// reserved and ignored.
type Config struct {
	LocationMode   LocationMode
	FixSensitivity FixSensitivity
	UrcSettings    UrcNotificationSetting
	Reserved       at.Reserved
	Metrics        at.Bool
}

func (c *Config) DecodeFields(d *at.Decoder) error {
	locMode, err := d.Int(0)
	if err != nil {
		return err
	}
	sensitivity, err := d.Int(1)
	if err != nil {
		return err
	}
	urcSettings, err := d.Int(2)
	if err != nil {
		return err
	}
	metrics, err := d.Bool(4)
	if err != nil {
		return err
	}
	c.LocationMode = LocationMode(locMode)
	c.FixSensitivity = FixSensitivity(sensitivity)
	c.UrcSettings = UrcNotificationSetting(urcSettings)
	c.Metrics = metrics
	return nil
}

// SetGnssConfig issues AT+LPGNSSCFG=<loc_mode>,<fix_sensi>,<urc_settings>,
// <reserved>,<metrics>,<acq_mode>,<early_abort>. Position 3 is reserved
// and always sent empty.
type SetGnssConfig struct {
	LocationMode    LocationMode
	FixSensitivity  FixSensitivity
	UrcSettings     UrcNotificationSetting
	Reserved        at.Reserved
	Metrics         at.Bool
	AcquisitionMode AcquisitionMode
	EarlyAbort      at.Bool
}

func (SetGnssConfig) Prefix() string { return "+LPGNSSCFG=" }

func (c SetGnssConfig) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.LocationMode))
	e.AddInt(int(c.FixSensitivity))
	e.AddInt(int(c.UrcSettings))
	e.AddReserved()
	e.AddBool(c.Metrics)
	e.AddInt(int(c.AcquisitionMode))
	e.AddBool(c.EarlyAbort)
	return nil
}

// SetApproximatePositionAssistance issues AT+LPGNSSAPASSISTANCE=<lat>,
// <lon>,<altitude>,<uncertainty>, seeding the receiver with a coarse
// last-known position so a hot start can be attempted.
type SetApproximatePositionAssistance struct {
	Latitude    at.QuotedF32
	Longitude   at.QuotedF32
	Altitude    at.QuotedF32
	Uncertainty int
}

func (SetApproximatePositionAssistance) Prefix() string { return "+LPGNSSAPASSISTANCE=" }

func (c SetApproximatePositionAssistance) EncodeArgs(e *at.Encoder) error {
	e.AddRawToken(`"` + c.Latitude.String() + `"`)
	e.AddRawToken(`"` + c.Longitude.String() + `"`)
	e.AddRawToken(`"` + c.Altitude.String() + `"`)
	e.AddInt(c.Uncertainty)
	return nil
}

// AssistanceType classifies a GNSS assistance data set.
type AssistanceType int

// AssistanceType values.
const (
	Almanac           AssistanceType = 0
	RealTimeEphemeris AssistanceType = 1
	// PredictedEphemeris is reported by GetGnssAssistance but is
	// informational only; UpdateGnssAssistance is never issued for it.
	PredictedEphemeris AssistanceType = 2
)

// UpdateGnssAssistance issues AT+LPGNSSASSISTANCE=<typ>, connecting to
// the GNSS cloud and downloading one assistance data set into persistent
// memory. Requires an available LTE connection. Typ must be Almanac or
// RealTimeEphemeris.
type UpdateGnssAssistance struct {
	Typ AssistanceType
}

func (UpdateGnssAssistance) Prefix() string { return "+LPGNSSASSISTANCE=" }

func (c UpdateGnssAssistance) EncodeArgs(e *at.Encoder) error {
	e.AddInt(int(c.Typ))
	return nil
}

// GetGnssAssistance issues AT+LPGNSSASSISTANCE? and reports the status of
// every assistance data set, one record per +LPGNSSASSISTANCE: line (one
// per AssistanceType).
type GetGnssAssistance struct{}

func (GetGnssAssistance) Prefix() string { return "+LPGNSSASSISTANCE?" }

func (GetGnssAssistance) EncodeArgs(e *at.Encoder) error { return nil }

// AssistanceStatusPrefix is the response/record prefix shared by
// GetGnssAssistance and the UpdateGnssAssistance acknowledgement.
const AssistanceStatusPrefix = "+LPGNSSASSISTANCE:"

// AssistanceStatus is one +LPGNSSASSISTANCE: record.
type AssistanceStatus struct {
	Typ              AssistanceType
	Available        bool
	LastUpdate       int64
	TimeToUpdate     int64
	TimeToExpiration int64
}

// NeedsUpdate reports whether this assistance set should be refreshed:
// either it has never been downloaded, or its validity window has
// already elapsed.
func (s AssistanceStatus) NeedsUpdate() bool {
	return !s.Available || s.TimeToUpdate <= 0
}

// AssistanceList accumulates the records reported by GetGnssAssistance.
type AssistanceList struct {
	Records []AssistanceStatus
}

func (l *AssistanceList) DecodeLine(line string) error {
	d, err := at.MatchPrefix(line, AssistanceStatusPrefix)
	if err != nil {
		return err
	}
	typ, err := d.Int(0)
	if err != nil {
		return err
	}
	available, err := d.Bool(1)
	if err != nil {
		return err
	}
	lastUpdate, err := d.Int(2)
	if err != nil {
		return err
	}
	timeToUpdate, err := d.Int(3)
	if err != nil {
		return err
	}
	timeToExpiration, err := d.Int(4)
	if err != nil {
		return err
	}
	l.Records = append(l.Records, AssistanceStatus{
		Typ:              AssistanceType(typ),
		Available:        available.AsBool(),
		LastUpdate:       int64(lastUpdate),
		TimeToUpdate:     int64(timeToUpdate),
		TimeToExpiration: int64(timeToExpiration),
	})
	return nil
}

// ByType returns the record for typ, and whether GetGnssAssistance
// reported one.
func (l AssistanceList) ByType(typ AssistanceType) (AssistanceStatus, bool) {
	for _, r := range l.Records {
		if r.Typ == typ {
			return r, true
		}
	}
	return AssistanceStatus{}, false
}

// ProgramAction selects what ProgramGnss asks the receiver to do. It is
// one of the catalog's textual enums: the wire carries the quoted
// literals "single" and "stop".
type ProgramAction int

// ProgramAction values.
const (
	Single ProgramAction = iota
	Stop
)

func (a ProgramAction) wireName() string {
	if a == Stop {
		return "stop"
	}
	return "single"
}

// ProgramGnss issues AT+LPGNSSFIXPROG=<action>, programming a single fix
// attempt or cancelling one already in progress. The modem rejects a
// program while attached to LTE (LTE_CONCURRENCY) or when another fix is
// in flight (FIX_IN_PROGRESS).
type ProgramGnss struct {
	Action ProgramAction
}

func (ProgramGnss) Prefix() string { return "+LPGNSSFIXPROG=" }

func (c ProgramGnss) EncodeArgs(e *at.Encoder) error {
	return e.AddString(c.Action.wireName(), 0)
}

// GetGnssCloudServerName issues AT+LPGNSSCLOUDSEL? and reports the
// hostname the receiver downloads assistance data from.
type GetGnssCloudServerName struct{}

func (GetGnssCloudServerName) Prefix() string { return "+LPGNSSCLOUDSEL?" }

func (GetGnssCloudServerName) EncodeArgs(e *at.Encoder) error { return nil }

// CloudServerName is the response to GetGnssCloudServerName.
type CloudServerName struct {
	Hostname string
}

func (c *CloudServerName) DecodeFields(d *at.Decoder) error {
	hostname, err := d.String(0)
	if err != nil {
		return err
	}
	c.Hostname = hostname
	return nil
}

// SetGnssCloudServerName issues AT+LPGNSSCLOUDSEL=<hostname>. The name is
// saved and preserved at reboot/reset.
type SetGnssCloudServerName struct {
	Hostname string
}

func (SetGnssCloudServerName) Prefix() string { return "+LPGNSSCLOUDSEL=" }

func (c SetGnssCloudServerName) EncodeArgs(e *at.Encoder) error {
	return e.AddString(c.Hostname, 256)
}

// GetGnssTimeout issues AT+LPGNSSTIMEOUT? and reports the receiver's
// search timeout, in seconds.
type GetGnssTimeout struct{}

func (GetGnssTimeout) Prefix() string { return "+LPGNSSTIMEOUT?" }

func (GetGnssTimeout) EncodeArgs(e *at.Encoder) error { return nil }

// GnssTimeout is the response to GetGnssTimeout.
type GnssTimeout struct {
	Seconds int
}

func (t *GnssTimeout) DecodeFields(d *at.Decoder) error {
	seconds, err := d.Int(0)
	if err != nil {
		return err
	}
	t.Seconds = seconds
	return nil
}

// SetGnssTimeout issues AT+LPGNSSTIMEOUT=<seconds>, bounding GNSS
// processing; 0 (the default) means no limit. When the timeout is
// reached the receiver reports +LPGNSSFIXSTOP with reason TIMEOUT.
type SetGnssTimeout struct {
	Seconds int
}

func (SetGnssTimeout) Prefix() string { return "+LPGNSSTIMEOUT=" }

func (c SetGnssTimeout) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Seconds)
	return nil
}

// Satellite is one entry of a FixReady's trailing satellite list, e.g.
// ("XX",21) for satellite "XX" at signal strength 21.
type Satellite struct {
	SatNo          string
	SignalStrength int
}

// FixReadyPrefix is the +LPGNSSFIXREADY URC's dispatch prefix.
const FixReadyPrefix = "+LPGNSSFIXREADY:"

// FixReady is the decoded body of a +LPGNSSFIXREADY URC: a single GNSS
// position solution. Only the fields the driver's operations consume are
// decoded positionally; everything between Confidence and the trailing
// satellite list is carried verbatim in Extra, since the modem's
// documented field count in that span varies with the configured
// UrcNotificationSetting.
type FixReady struct {
	FixId      int
	Timestamp  string
	Ttf        int
	Confidence at.QuotedF32
	Extra      []string
	Satellites []Satellite
}

// DecodeLine parses a +LPGNSSFIXREADY record. The trailing satellite
// tuples contain commas of their own ("XX",21),("YY",22) so they cannot be
// split by the default comma splitter; this uses a dedicated
// paren-and-quote-aware splitter instead.
func (f *FixReady) DecodeLine(line string) error {
	if !strings.HasPrefix(line, FixReadyPrefix) {
		return &at.FieldError{Pos: -1, Kind: at.ErrPrefixMismatch, Value: line}
	}
	body := strings.TrimSpace(strings.TrimPrefix(line, FixReadyPrefix))
	toks := splitFixReadyTokens(body)
	if len(toks) < 4 {
		return &at.FieldError{Pos: len(toks), Kind: at.ErrMissingField}
	}
	d := at.NewDecoder(strings.Join(toks[:4], ","))
	fixID, err := d.Int(0)
	if err != nil {
		return err
	}
	timestamp, err := d.String(1)
	if err != nil {
		return err
	}
	ttf, err := d.Int(2)
	if err != nil {
		return err
	}
	confidence, err := d.QuotedF32(3)
	if err != nil {
		return err
	}
	f.FixId = fixID
	f.Timestamp = timestamp
	f.Ttf = ttf
	f.Confidence = confidence
	f.Extra = nil
	f.Satellites = nil
	for _, tok := range toks[4:] {
		if strings.HasPrefix(tok, "(") {
			sat, err := parseSatellite(tok)
			if err != nil {
				return err
			}
			f.Satellites = append(f.Satellites, sat)
			continue
		}
		f.Extra = append(f.Extra, tok)
	}
	return nil
}

// splitFixReadyTokens splits body on top-level commas, treating both
// quoted substrings and parenthesised groups as atomic; a plain
// quote-aware splitter alone would misparse ("XX",21)'s inner comma.
func splitFixReadyTokens(body string) []string {
	var toks []string
	var cur strings.Builder
	inQuote := false
	depth := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == '(' && !inQuote:
			depth++
			cur.WriteByte(c)
		case c == ')' && !inQuote:
			depth--
			cur.WriteByte(c)
		case c == ',' && !inQuote && depth == 0:
			toks = append(toks, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	toks = append(toks, cur.String())
	return toks
}

// parseSatellite parses a single ("XX",21) tuple.
func parseSatellite(tok string) (Satellite, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "("), ")")
	d := at.NewDecoder(inner)
	satNo, err := d.String(0)
	if err != nil {
		return Satellite{}, err
	}
	strength, err := d.Int(1)
	if err != nil {
		return Satellite{}, err
	}
	return Satellite{SatNo: satNo, SignalStrength: strength}, nil
}
