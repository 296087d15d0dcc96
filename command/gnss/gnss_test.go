//go:build gm02sp

package gnss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/gnss"
)

func TestProgramGnssEncodesTextualAction(t *testing.T) {
	e := at.NewEncoder()
	require.NoError(t, gnss.ProgramGnss{Action: gnss.Single}.EncodeArgs(e))
	assert.Equal(t, `"single"`, e.String())

	e = at.NewEncoder()
	require.NoError(t, gnss.ProgramGnss{Action: gnss.Stop}.EncodeArgs(e))
	assert.Equal(t, `"stop"`, e.String())
}

func TestSetGnssConfigKeepsReservedSlot(t *testing.T) {
	e := at.NewEncoder()
	cmd := gnss.SetGnssConfig{
		LocationMode:    gnss.OnDeviceLocation,
		FixSensitivity:  gnss.SensitivityHigh,
		UrcSettings:     gnss.NotificationFull,
		AcquisitionMode: gnss.ColdWarmStart,
	}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, "0,3,2,,0,0,0", e.String())
}

func TestConfigDecodeSkipsReservedSlot(t *testing.T) {
	d, err := at.MatchPrefix("+LPGNSSCFG: 0,2,1,,1", "+LPGNSSCFG:")
	require.NoError(t, err)
	var cfg gnss.Config
	require.NoError(t, cfg.DecodeFields(d))
	assert.Equal(t, gnss.SensitivityMedium, cfg.FixSensitivity)
	assert.True(t, cfg.Metrics.AsBool())
}

func TestAssistanceListDecodesThreeLines(t *testing.T) {
	var l gnss.AssistanceList
	lines := []string{
		"+LPGNSSASSISTANCE: 0,1,81390742,0,0",
		"+LPGNSSASSISTANCE: 1,0,0,0,0",
		"+LPGNSSASSISTANCE: 2,0,0,0,0",
	}
	for _, line := range lines {
		require.NoError(t, l.DecodeLine(line))
	}
	require.Len(t, l.Records, 3)
	almanac, ok := l.ByType(gnss.Almanac)
	require.True(t, ok)
	assert.True(t, almanac.Available)
	assert.Equal(t, int64(81390742), almanac.LastUpdate)
	// available but with an elapsed update window (time_to_update 0)
	assert.True(t, almanac.NeedsUpdate())

	rte, ok := l.ByType(gnss.RealTimeEphemeris)
	require.True(t, ok)
	assert.True(t, rte.NeedsUpdate())
}

func TestFixReadyDecodesSatelliteTail(t *testing.T) {
	var f gnss.FixReady
	line := `+LPGNSSFIXREADY: 0,"2025-06-24T15:55:20.000000",66563,"20000000.000000","0.000000",("XX",21)`
	require.NoError(t, f.DecodeLine(line))
	assert.Equal(t, 0, f.FixId)
	assert.Equal(t, 66563, f.Ttf)
	assert.InDelta(t, 20000000.0, float64(f.Confidence), 1)
	require.Len(t, f.Satellites, 1)
	assert.Equal(t, "XX", f.Satellites[0].SatNo)
	assert.Equal(t, 21, f.Satellites[0].SignalStrength)
}

func TestFixReadyDecodesMultipleSatellites(t *testing.T) {
	var f gnss.FixReady
	line := `+LPGNSSFIXREADY: 1,"2025-06-24T15:55:20.000000",1000,"500.0",("XX",21),("YY",22)`
	require.NoError(t, f.DecodeLine(line))
	require.Len(t, f.Satellites, 2)
	assert.Equal(t, "YY", f.Satellites[1].SatNo)
	assert.Equal(t, 22, f.Satellites[1].SignalStrength)
}
