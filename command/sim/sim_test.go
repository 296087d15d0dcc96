package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/sim"
)

func TestEnterPinWithoutNewPin(t *testing.T) {
	e := at.NewEncoder()
	cmd := sim.EnterPin{Pin: "1234"}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `"1234"`, e.String())
}

func TestEnterPinWithNewPin(t *testing.T) {
	e := at.NewEncoder()
	newPin := "5678"
	cmd := sim.EnterPin{Pin: "1234", NewPin: &newPin}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `"1234","5678"`, e.String())
}

func TestPinStatusDecode(t *testing.T) {
	d, err := at.MatchPrefix("+CPIN: SIM PIN", "+CPIN:")
	require.NoError(t, err)
	var p sim.PinStatus
	require.NoError(t, p.DecodeFields(d))
	assert.Equal(t, sim.PinRequired, p.State)
}
