package ssltls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/ssltls"
)

func TestConfigureEncode(t *testing.T) {
	e := at.NewEncoder()
	cmd := ssltls.Configure{
		SpId:               1,
		Version:            ssltls.Tls12,
		CipherSpecs:        "0x8C;0x8D",
		ClientCertId:       1,
		ClientPrivateKeyId: 2,
		StorageId:          ssltls.StorageNVM,
		Resume:             ssltls.ResumeEnabled,
		Lifetime:           3600,
	}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `1,2,"0x8C;0x8D",0,0,1,2,"",,0,1,3600`, e.String())
}

func TestConfigurationDecode(t *testing.T) {
	d, err := at.MatchPrefix(`+SQNSPCFG: 1,2,"0x8C;0x8D",1,0,0,0,"",,0,1,3600`, "+SQNSPCFG:")
	require.NoError(t, err)
	var cfg ssltls.Configuration
	require.NoError(t, cfg.DecodeFields(d))
	assert.Equal(t, 1, cfg.SpId)
	assert.Equal(t, ssltls.Tls12, cfg.Version)
	assert.Equal(t, ssltls.ResumeEnabled, cfg.Resume)
}
