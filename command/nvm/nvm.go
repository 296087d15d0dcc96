// Package nvm implements writing certificates and private keys into the
// modem's non-volatile memory via AT+SQNSNVW.
//
// The wire exchange is two-step: PrepareWrite announces the data type,
// index and byte count; once the modem answers with its data prompt, Write
// streams the raw bytes with no AT framing at all.
package nvm

import (
	"github.com/sequans/monarch2/at"
)

// DataType selects the kind of credential being written.
type DataType int

// DataType values.
const (
	Certificate DataType = iota
	PrivateKey
)

func (d DataType) wireName() string {
	if d == PrivateKey {
		return "privatekey"
	}
	return "certificate"
}

// MaxCertificateSize is the largest certificate the modem will accept.
const MaxCertificateSize = 8 * 1024

// MaxPrivateKeySize is the largest private key the modem will accept.
const MaxPrivateKeySize = 2 * 1024

// MaxTotalCapacity is the modem's total NVM capacity across every stored
// credential.
const MaxTotalCapacity = 200 * 1024

// PrepareWrite issues AT+SQNSNVW="certificate"|"privatekey",<index>,<size>,
// announcing an upcoming raw write. The modem replies with its data prompt
// once this line is accepted; the caller must follow with a Write carrying
// exactly size bytes.
type PrepareWrite struct {
	DataType DataType
	Index    int
	Size     int
}

func (PrepareWrite) Prefix() string { return `+SQNSNVW=` }

func (c PrepareWrite) EncodeArgs(e *at.Encoder) error {
	if err := e.AddString(c.DataType.wireName(), 0); err != nil {
		return err
	}
	e.AddInt(c.Index)
	e.AddInt(c.Size)
	return nil
}

// Write carries the credential's opaque bytes sent once the modem's data
// prompt has been seen, via Client.ExecPrompted. It has no prefix, no
// field separators and no trailing CRLF framing of its own.
type Write struct {
	Data []byte
}
