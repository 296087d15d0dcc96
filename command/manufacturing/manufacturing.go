// Package manufacturing implements the one-time provisioning command used
// to burn the upgrade-package public key into the modem during production.
// Every command here requires the modem be in AT+CFUN=5 (manufacturing
// test mode) first; the driver does not enforce that precondition itself.
package manufacturing

import (
	"time"

	"github.com/sequans/monarch2/at"
)

// KeyType selects the public-key algorithm being burned. The modem takes
// it as a quoted textual discriminant, not a numeric one.
type KeyType int

// KeyType values.
const (
	Ecdsa256 KeyType = iota
	Rsa2048
)

func (k KeyType) wireName() string {
	if k == Rsa2048 {
		return "RSA 2048"
	}
	return "ECDSA 256"
}

// BurnPublicKey issues AT+SMNPK=<size>,<key_type>, then expects the
// modem's data prompt before the <size>-byte PEM encoded key is streamed
// via Client.ExecPrompted. Requires CFUN=5, the OTP unlocked and no key
// already set; once burned the key cannot be replaced.
type BurnPublicKey struct {
	Size    int
	KeyType KeyType
}

func (BurnPublicKey) Prefix() string { return "+SMNPK=" }

func (BurnPublicKey) Timeout() time.Duration { return 300 * time.Millisecond }

func (c BurnPublicKey) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Size)
	return e.AddString(c.KeyType.wireName(), 0)
}

// KeyPayload carries the raw public-key bytes sent once the modem's data
// prompt has been seen, via Client.ExecPrompted.
type KeyPayload struct {
	Data []byte
}
