// Package ssltls implements SSL/TLS security profile configuration via
// +SQNSPCFG.
package ssltls

import (
	"github.com/sequans/monarch2/at"
)

// SslTlsVersion selects the TLS protocol version a security profile
// negotiates.
type SslTlsVersion int

// SslTlsVersion values.
const (
	Tls10 SslTlsVersion = 0
	Tls11 SslTlsVersion = 1
	Tls12 SslTlsVersion = 2
	Tls13 SslTlsVersion = 3
	// VersionReset restores the profile's version to its factory default.
	VersionReset SslTlsVersion = 255
)

// StorageId identifies where a profile's private key is stored.
type StorageId int

// StorageId values.
const (
	StorageNVM                StorageId = 0
	StorageHostedCryptoEngine StorageId = 1
	StorageReserved           StorageId = 2
)

// Resume selects whether TLS session resumption is enabled for a profile.
type Resume int

// Resume values.
const (
	ResumeDisabled Resume = 0
	ResumeEnabled  Resume = 1
)

// Configure issues AT+SQNSPCFG=<sp_id>,<version>,<cipher_specs>,
// <cert_valid_level>,<ca_cert_id>,<client_cert_id>,<client_private_key_id>,
// <psk>,<psk_identity>,<storage_id>,<resume>,<lifetime>. Up to 6 security
// profiles can be configured.
type Configure struct {
	SpId               int
	Version            SslTlsVersion
	CipherSpecs        string
	CertValidLevel     uint8
	CaCertId           int
	ClientCertId       int
	ClientPrivateKeyId int
	Psk                string
	PskIdentity        *string
	StorageId          StorageId
	Resume             Resume
	Lifetime           uint32
}

func (Configure) Prefix() string { return "+SQNSPCFG=" }

func (c Configure) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.SpId)
	e.AddInt(int(c.Version))
	if err := e.AddString(c.CipherSpecs, 256); err != nil {
		return err
	}
	e.AddInt(int(c.CertValidLevel))
	e.AddInt(c.CaCertId)
	e.AddInt(c.ClientCertId)
	e.AddInt(c.ClientPrivateKeyId)
	if err := e.AddString(c.Psk, 64); err != nil {
		return err
	}
	if c.PskIdentity == nil {
		e.AddOptional(nil)
	} else {
		tok := `"` + *c.PskIdentity + `"`
		e.AddOptional(&tok)
	}
	e.AddInt(int(c.StorageId))
	e.AddInt(int(c.Resume))
	e.AddInt(int(c.Lifetime))
	return nil
}

// MaxProfiles is the number of security profiles the modem can hold
// simultaneously.
const MaxProfiles = 6

// GetConfiguration issues AT+SQNSPCFG=<sp_id> (read form) and reports the
// currently stored parameters for one security profile. The original
// command schema's response type was not present in the retrieved draft;
// this mirrors Configure's own field layout, which is the only documented
// shape the firmware could plausibly echo back.
type GetConfiguration struct {
	SpId int
}

func (GetConfiguration) Prefix() string { return "+SQNSPCFG=" }

func (c GetConfiguration) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.SpId)
	return nil
}

// Configuration is the response to GetConfiguration.
type Configuration struct {
	SpId           int
	Version        SslTlsVersion
	CipherSpecs    string
	CertValidLevel uint8
	StorageId      StorageId
	Resume         Resume
}

func (cfg *Configuration) DecodeFields(d *at.Decoder) error {
	spID, err := d.Int(0)
	if err != nil {
		return err
	}
	version, err := d.Int(1)
	if err != nil {
		return err
	}
	cipherSpecs, err := d.String(2)
	if err != nil {
		return err
	}
	certValidLevel, err := d.Int(3)
	if err != nil {
		return err
	}
	storageID, err := d.Int(9)
	if err != nil {
		return err
	}
	resume, err := d.Int(10)
	if err != nil {
		return err
	}
	cfg.SpId = spID
	cfg.Version = SslTlsVersion(version)
	cfg.CipherSpecs = cipherSpecs
	cfg.CertValidLevel = uint8(certValidLevel)
	cfg.StorageId = StorageId(storageID)
	cfg.Resume = Resume(resume)
	return nil
}
