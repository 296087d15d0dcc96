package nvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/nvm"
)

func TestPrepareWriteCertificateEncode(t *testing.T) {
	e := at.NewEncoder()
	cmd := nvm.PrepareWrite{DataType: nvm.Certificate, Index: 5, Size: 1200}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `"certificate",5,1200`, e.String())
}

func TestPrepareWritePrivateKeyEncode(t *testing.T) {
	e := at.NewEncoder()
	cmd := nvm.PrepareWrite{DataType: nvm.PrivateKey, Index: 11, Size: 512}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `"privatekey",11,512`, e.String())
}
