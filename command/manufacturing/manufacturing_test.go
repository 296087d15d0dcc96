package manufacturing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/manufacturing"
)

func TestBurnPublicKeyEncodesTextualKeyType(t *testing.T) {
	e := at.NewEncoder()
	cmd := manufacturing.BurnPublicKey{Size: 451, KeyType: manufacturing.Ecdsa256}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `451,"ECDSA 256"`, e.String())

	e = at.NewEncoder()
	cmd = manufacturing.BurnPublicKey{Size: 1024, KeyType: manufacturing.Rsa2048}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `1024,"RSA 2048"`, e.String())
}
