//go:build gm02sp

package modem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/modem"
)

func TestGetGnssFixReturnsLatchedFix(t *testing.T) {
	tr := newFakeTransport()
	defer tr.close()
	m, cancel := newModem(t, tr)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()

	go func() {
		time.Sleep(50 * time.Millisecond)
		tr.inject(`+LPGNSSFIXREADY: 0,"2025-06-24T15:55:20.000000",66563,"20000000.000000","0.000000",("XX",21)`)
	}()

	fix, err := m.GetGnssFix(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fix.FixId)
	assert.Equal(t, 66563, fix.Ttf)
	require.Len(t, fix.Satellites, 1)
	assert.Equal(t, "XX", fix.Satellites[0].SatNo)
}

func TestGetGnssFixTimesOutAndStops(t *testing.T) {
	tr := newFakeTransport()
	defer tr.close()
	m, cancel := newModem(t, tr)
	defer cancel()
	ctx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()

	_, err := m.GetGnssFix(ctx)
	require.Error(t, err)
	var merr *modem.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, modem.ErrTimeout, merr.Kind)
}
