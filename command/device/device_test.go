package device_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/device"
)

func TestSetOperatingModeEncode(t *testing.T) {
	e := at.NewEncoder()
	cmd := device.SetOperatingMode{Mode: device.RATNBIoT}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, "2", e.String())
	assert.Equal(t, "+SQNMODEACTIVE=", cmd.Prefix())
}

func TestActiveRATDecode(t *testing.T) {
	d, err := at.MatchPrefix("+SQNMODEACTIVE: 1", "+SQNMODEACTIVE:")
	require.NoError(t, err)
	var a device.ActiveRAT
	require.NoError(t, a.DecodeFields(d))
	assert.Equal(t, device.RATLteM, a.Mode)
}

func TestClockParsesPositiveOffset(t *testing.T) {
	d, err := at.MatchPrefix(`+CCLK: "24/03/15,10:30:00+04"`, "+CCLK:")
	require.NoError(t, err)
	var c device.Clock
	require.NoError(t, c.DecodeFields(d))
	assert.Equal(t, 2024, c.Time.Year())
	assert.Equal(t, 10, c.Time.Hour())
}

func TestClockKeepsQuarterHourOffset(t *testing.T) {
	d, err := at.MatchPrefix(`+CCLK: "24/05/30,13:22:45+08"`, "+CCLK:")
	require.NoError(t, err)
	var c device.Clock
	require.NoError(t, c.DecodeFields(d))
	assert.GreaterOrEqual(t, c.Time.Unix(), int64(device.MinValidTimestamp))
	_, offset := c.Time.Zone()
	assert.Equal(t, 8*15*60, offset)
}

func TestClockParsesNegativeOffset(t *testing.T) {
	d, err := at.MatchPrefix(`+CCLK: "24/05/30,13:22:45-04"`, "+CCLK:")
	require.NoError(t, err)
	var c device.Clock
	require.NoError(t, c.DecodeFields(d))
	_, offset := c.Time.Zone()
	assert.Equal(t, -4*15*60, offset)
}

func TestClockCoercesUnsynchronisedTimestamp(t *testing.T) {
	d, err := at.MatchPrefix(`+CCLK: "80/01/01,00:00:00+00"`, "+CCLK:")
	require.NoError(t, err)
	var c device.Clock
	require.NoError(t, c.DecodeFields(d))
	assert.Equal(t, int64(0), c.Time.Unix())
}
