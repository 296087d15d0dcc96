// Package pdp implements the +CGDCONT PDP context definition command.
package pdp

import (
	"github.com/sequans/monarch2/at"
)

// PDPDComp selects +CGDCONT's data compression mechanism.
type PDPDComp int

// PDPDComp values.
const (
	DCompOff    PDPDComp = 0
	DCompOn     PDPDComp = 1
	DCompV42BIS PDPDComp = 2
	DCompV44    PDPDComp = 3
	DCompUnspec PDPDComp = 99
)

// PDPHComp selects +CGDCONT's header compression mechanism.
type PDPHComp int

// PDPHComp values.
const (
	HCompOff     PDPHComp = 0
	HCompOn      PDPHComp = 1
	HCompRFC1144 PDPHComp = 2
	HCompRFC2507 PDPHComp = 3
	HCompRFC3095 PDPHComp = 4
	HCompUnspec  PDPHComp = 99
)

// PDPIPv4Alloc selects the IPv4 address allocation method.
type PDPIPv4Alloc int

// PDPIPv4Alloc values.
const (
	IPv4AllocNAS  PDPIPv4Alloc = 0
	IPv4AllocDHCP PDPIPv4Alloc = 1
)

// PDPRequestType classifies the kind of PDP context activation being
// requested, per 3GPP TS 24.301 §6.5.1.2.
type PDPRequestType int

// PDPRequestType values.
const (
	RequestNewOrHandover     PDPRequestType = 0
	RequestEmergency         PDPRequestType = 1
	RequestNew               PDPRequestType = 2
	RequestHandover          PDPRequestType = 3
	RequestEmergencyHandover PDPRequestType = 4
)

// PDPPCSCF selects the P-CSCF discovery method.
type PDPPCSCF int

// PDPPCSCF values.
const (
	PCSCFAuto PDPPCSCF = 0
	PCSCFNAS  PDPPCSCF = 1
)

// PDPType is the packet data protocol type. Unlike the other PDP enums it
// is rendered as a quoted string rather than a bare digit, and two of its
// wire forms ("Non-IP", "X.25") don't match their Go identifier, so it
// carries its own String/parse pair instead of a simple int cast.
type PDPType int

// PDPType values.
const (
	TypeIP PDPType = iota
	TypeIPv4V6
	TypeIPv6
	TypeNonIP
	TypeOSPIH
	TypePPP
	TypeX25
)

func (t PDPType) String() string {
	switch t {
	case TypeIP:
		return "IP"
	case TypeIPv4V6:
		return "IPV4V6"
	case TypeIPv6:
		return "IPV6"
	case TypeNonIP:
		return "Non-IP"
	case TypeOSPIH:
		return "OSPIH"
	case TypePPP:
		return "PPP"
	case TypeX25:
		return "X.25"
	default:
		return ""
	}
}

func parsePDPType(tok string) (PDPType, error) {
	switch tok {
	case "IP":
		return TypeIP, nil
	case "IPV4V6":
		return TypeIPv4V6, nil
	case "IPV6":
		return TypeIPv6, nil
	case "Non-IP":
		return TypeNonIP, nil
	case "OSPIH":
		return TypeOSPIH, nil
	case "PPP":
		return TypePPP, nil
	case "X.25":
		return TypeX25, nil
	default:
		return 0, &at.FieldError{Kind: at.ErrUnknownEnum, Value: tok}
	}
}

// DefinePDPContext issues AT+CGDCONT=<cid>,<PDP_type>,<APN>,<PDP_addr>,...
// defining the parameters of a PDP context. Reboot persistent; the module
// must not be attached when it is sent.
type DefinePDPContext struct {
	Cid               int
	PdpType           PDPType
	Apn               string
	PdpAddr           string
	DComp             PDPDComp
	HComp             PDPHComp
	Ipv4Alloc         PDPIPv4Alloc
	RequestType       PDPRequestType
	PdpPcscfDiscovery PDPPCSCF
	ForIMCN           at.Bool
	Nslpi             at.Bool
	SecurePCO         at.Bool
	Ipv4MtuDiscovery  at.Bool
	LocalAddrInd      at.Bool
	NonIPMtuDiscovery at.Bool
}

func (DefinePDPContext) Prefix() string { return "+CGDCONT=" }

func (c DefinePDPContext) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Cid)
	if err := e.AddString(c.PdpType.String(), 12); err != nil {
		return err
	}
	if err := e.AddString(c.Apn, 64); err != nil {
		return err
	}
	if err := e.AddString(c.PdpAddr, 64); err != nil {
		return err
	}
	e.AddInt(int(c.DComp))
	e.AddInt(int(c.HComp))
	e.AddInt(int(c.Ipv4Alloc))
	e.AddInt(int(c.RequestType))
	e.AddInt(int(c.PdpPcscfDiscovery))
	e.AddBool(c.ForIMCN)
	e.AddBool(c.Nslpi)
	e.AddBool(c.SecurePCO)
	e.AddBool(c.Ipv4MtuDiscovery)
	e.AddBool(c.LocalAddrInd)
	e.AddBool(c.NonIPMtuDiscovery)
	return nil
}

// GetPDPContexts issues AT+CGDCONT? and reports every currently defined
// PDP context, one DefinePDPContext record per line.
type GetPDPContexts struct{}

func (GetPDPContexts) Prefix() string { return "+CGDCONT?" }

func (GetPDPContexts) EncodeArgs(e *at.Encoder) error { return nil }

// PDPContextList accumulates the contexts reported by GetPDPContexts.
type PDPContextList struct {
	Contexts []DefinePDPContext
}

func (l *PDPContextList) DecodeLine(line string) error {
	d, err := at.MatchPrefix(line, "+CGDCONT:")
	if err != nil {
		return err
	}
	cid, err := d.Int(0)
	if err != nil {
		return err
	}
	typTok, err := d.String(1)
	if err != nil {
		return err
	}
	typ, err := parsePDPType(typTok)
	if err != nil {
		return err
	}
	apn, err := d.String(2)
	if err != nil {
		return err
	}
	addr, err := d.String(3)
	if err != nil {
		return err
	}
	l.Contexts = append(l.Contexts, DefinePDPContext{
		Cid:     cid,
		PdpType: typ,
		Apn:     apn,
		PdpAddr: addr,
	})
	return nil
}
