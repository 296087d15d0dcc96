package mobileequipment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/mobileequipment"
)

func TestSetFunctionalityTrimsAbsentReset(t *testing.T) {
	e := at.NewEncoder()
	cmd := mobileequipment.SetFunctionality{Fun: mobileequipment.Full}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, "1", e.String())
}

func TestSetFunctionalityKeepsReset(t *testing.T) {
	e := at.NewEncoder()
	rst := mobileequipment.DoReset
	cmd := mobileequipment.SetFunctionality{Fun: mobileequipment.Full, Rst: &rst}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, "1,1", e.String())
}

func TestSignalQualityDecode(t *testing.T) {
	d, err := at.MatchPrefix("+CSQ: 22,99", "+CSQ:")
	require.NoError(t, err)
	var s mobileequipment.SignalQuality
	require.NoError(t, s.DecodeFields(d))
	assert.Equal(t, 22, s.Rssi)
	assert.Equal(t, 99, s.Ber)
}
