//go:build gm02sp

// Package coap decodes the GM02SP variant's CoAP connection-established
// URC. The driver issues no CoAP commands of its own; this is URC
// decoding only, gated behind the gm02sp build tag alongside GNSS because
// both are GM02SP-exclusive firmware features.
package coap

import (
	"github.com/sequans/monarch2/at"
)

// Connected is the decoded body of a +SQNCOAPCONNECTED URC, reported when
// a CoAP profile establishes its underlying (D)TLS/UDP connection.
type Connected struct {
	ProfileId int
	Server    string
	Port      int
	LocalPort int
	Dtls      at.Bool
}

// ConnectedPrefix is the URC's registered dispatch prefix.
const ConnectedPrefix = "+SQNCOAPCONNECTED:"

func (c *Connected) DecodeLine(line string) error {
	d, err := at.MatchPrefix(line, ConnectedPrefix)
	if err != nil {
		return err
	}
	profileID, err := d.Int(0)
	if err != nil {
		return err
	}
	server, err := d.String(1)
	if err != nil {
		return err
	}
	port, err := d.Int(2)
	if err != nil {
		return err
	}
	localPort, err := d.Int(3)
	if err != nil {
		return err
	}
	dtls, err := d.Bool(4)
	if err != nil {
		return err
	}
	c.ProfileId = profileID
	c.Server = server
	c.Port = port
	c.LocalPort = localPort
	c.Dtls = dtls
	return nil
}
