//go:build gm02sp

package modem

import (
	"context"
	"time"

	"github.com/sequans/monarch2/command/gnss"
)

// gnssFlags carries the assistance-data staleness facts the last
// CheckAssistanceData call derived, embedded in Modem on GM02SP builds.
type gnssFlags struct {
	updateAlmanac   bool
	updateEphemeris bool
}

// gnssFixTimeout bounds how long GetGnssFix waits for the receiver to
// report a fix after being programmed.
const gnssFixTimeout = 180 * time.Second

// gnssAssistancePollInterval/Attempts bound how long UpdateGnssAssistance
// waits, after requesting a refresh, for the assistance status to clear.
const (
	gnssAssistancePollInterval = 10 * time.Second
	gnssAssistancePollAttempts = 10
)

// SetGnssConfig configures the receiver for on-device location at the
// given sensitivity, with full fix notifications, metrics off and
// cold/warm start acquisition.
func (m *Modem) SetGnssConfig(ctx context.Context, sensitivity gnss.FixSensitivity) error {
	_, err := m.c.Exec(ctx, gnss.SetGnssConfig{
		LocationMode:    gnss.OnDeviceLocation,
		FixSensitivity:  sensitivity,
		UrcSettings:     gnss.NotificationFull,
		AcquisitionMode: gnss.ColdWarmStart,
	}, nil)
	return atErr(err)
}

// GetGnssFix requests a single GNSS fix and waits up to 180s for it. On
// timeout it asks the receiver to stop searching before returning
// Kind-Timeout.
func (m *Modem) GetGnssFix(ctx context.Context) (gnss.FixReady, error) {
	m.state.resetFix()
	if _, err := m.c.Exec(ctx, gnss.ProgramGnss{Action: gnss.Single}, nil); err != nil {
		return gnss.FixReady{}, atErr(err)
	}
	wctx, cancel := context.WithTimeout(ctx, gnssFixTimeout)
	defer cancel()
	v, err := m.state.waitFix(wctx)
	if err != nil {
		if _, stopErr := m.c.Exec(ctx, gnss.ProgramGnss{Action: gnss.Stop}, nil); stopErr != nil {
			m.log.Debugw("failed to stop GNSS program after fix timeout", "error", stopErr)
		}
		return gnss.FixReady{}, timeoutErr(err)
	}
	return v.(gnss.FixReady), nil
}

// CheckAssistanceData reads the assistance status off the modem and
// latches, per assistance set, whether a refresh is due: a set that has
// never been downloaded or whose update window has elapsed is flagged.
// Predicted ephemeris is read for visibility only and never flagged.
func (m *Modem) CheckAssistanceData(ctx context.Context) error {
	var list gnss.AssistanceList
	if _, err := m.c.Exec(ctx, gnss.GetGnssAssistance{}, &list); err != nil {
		return atErr(err)
	}
	almanac, _ := list.ByType(gnss.Almanac)
	m.updateAlmanac = almanac.NeedsUpdate()
	if almanac.Available {
		m.log.Debugw("almanac data available", "time_to_update", almanac.TimeToUpdate)
	} else {
		m.log.Debugw("almanac data not available")
	}

	rte, _ := list.ByType(gnss.RealTimeEphemeris)
	m.updateEphemeris = rte.NeedsUpdate()
	if rte.Available {
		m.log.Debugw("real-time ephemeris data available", "time_to_update", rte.TimeToUpdate)
	} else {
		m.log.Debugw("real-time ephemeris data not available")
	}
	return nil
}

// UpdateGnssAssistance refreshes almanac/real-time-ephemeris assistance
// data when the receiver reports either as unavailable or past its
// update window. It detaches from LTE first (the receiver cannot fix
// while attached), synchronises the clock if needed, attaches only when
// a download is actually due, and detaches again after polling for the
// status to clear, whether or not it cleared.
func (m *Modem) UpdateGnssAssistance(ctx context.Context) error {
	if err := m.LteDisconnect(ctx); err != nil {
		return err
	}
	if _, err := m.GetTime(ctx); err != nil {
		return err
	}
	if err := m.CheckAssistanceData(ctx); err != nil {
		return err
	}
	if !m.updateAlmanac && !m.updateEphemeris {
		return nil
	}
	if err := m.LteConnect(ctx); err != nil {
		return err
	}
	if m.updateAlmanac {
		if _, err := m.c.Exec(ctx, gnss.UpdateGnssAssistance{Typ: gnss.Almanac}, nil); err != nil {
			return atErr(err)
		}
	}
	if m.updateEphemeris {
		if _, err := m.c.Exec(ctx, gnss.UpdateGnssAssistance{Typ: gnss.RealTimeEphemeris}, nil); err != nil {
			return atErr(err)
		}
	}
	if err := m.pollAssistanceClear(ctx); err != nil {
		return err
	}
	return m.LteDisconnect(ctx)
}

func (m *Modem) pollAssistanceClear(ctx context.Context) error {
	for i := 0; i < gnssAssistancePollAttempts; i++ {
		select {
		case <-time.After(gnssAssistancePollInterval):
		case <-ctx.Done():
			return atErr(ctx.Err())
		}
		if err := m.CheckAssistanceData(ctx); err != nil {
			m.log.Debugw("assistance status poll failed", "attempt", i, "error", err)
			continue
		}
		if !m.updateAlmanac && !m.updateEphemeris {
			return nil
		}
	}
	m.log.Errorw("assistance data still stale after refresh",
		"almanac", m.updateAlmanac, "ephemeris", m.updateEphemeris)
	return nil
}
