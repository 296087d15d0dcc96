package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/network"
)

func TestPLMNSelectionAutomaticTrimsTail(t *testing.T) {
	e := at.NewEncoder()
	cmd := network.PLMNSelection{Mode: network.Automatic}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, "0", e.String())
}

func TestPLMNSelectionManualWithOperator(t *testing.T) {
	e := at.NewEncoder()
	format := network.Numeric
	oper := "310260"
	cmd := network.PLMNSelection{Mode: network.Manual, Format: &format, Oper: &oper}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `1,2,"310260"`, e.String())
}

func TestNetworkRegistrationStatusDecode(t *testing.T) {
	var u network.NetworkRegistrationStatus
	require.NoError(t, u.DecodeLine("+CEREG: 1"))
	assert.Equal(t, network.RegisteredHome, u.Stat)
}
