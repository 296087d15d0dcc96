package modem

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/device"
	"github.com/sequans/monarch2/command/mobileequipment"
	"github.com/sequans/monarch2/command/mqtt"
	"github.com/sequans/monarch2/command/network"
	"github.com/sequans/monarch2/command/nvm"
	"github.com/sequans/monarch2/command/pdp"
	"github.com/sequans/monarch2/command/ssltls"
	"github.com/sequans/monarch2/command/systemfeatures"
)

// unsyncedClock is the sentinel GetClock reports when the modem's wall
// clock has never been set; device.parseClock already coerces any
// timestamp before MinValidTimestamp to it.
var unsyncedClock = time.Unix(0, 0).UTC()

// Modem is the single handle an application drives every high-level
// operation through. It owns the AT client and the State a background
// UrcHandler mutates; operations take Modem by pointer, which
// single-threads every AT exchange against the transport (the transport
// is half-duplex, so only one request may be outstanding at a time).
// Two Modem instances must never be built over the same at.Client.
type Modem struct {
	c     *at.Client
	state *State
	log   *zap.SugaredLogger

	initialized bool
	gnssFlags
}

// Option configures a Modem at construction time.
type Option func(*Modem)

// WithLogger attaches a structured logger for debug/error level logs
// around operation transitions. Without this option the Modem logs
// nothing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(m *Modem) { m.log = l }
}

// New constructs a Modem driving c.
func New(c *at.Client, opts ...Option) *Modem {
	m := &Modem{c: c, state: newState(), log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State exposes the shared, URC-latched facts (RegistrationState and the
// MqttConnected signal) for callers that want to observe them without
// driving an operation.
func (m *Modem) State() *State { return m.state }

// NewUrcHandler builds the background URC handler for this Modem. The
// caller must run it (go handler.Run(ctx)) for the Modem's entire
// lifetime before calling any operation that waits on latched state
// (LteConnect, LteDisconnect, MqttConnect, GetGnssFix).
func (m *Modem) NewUrcHandler() *UrcHandler {
	return NewUrcHandler(m.c, m.state, m.log)
}

// Begin performs the modem's one-time configuration: numeric +CME ERROR
// reports and status-only +CEREG reports. Idempotent; safe to call on
// every Modem construction.
func (m *Modem) Begin(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	if _, err := m.c.Exec(ctx, systemfeatures.ConfigureCMEErrorReports{Mode: systemfeatures.Numeric}, nil); err != nil {
		return atErr(err)
	}
	if _, err := m.c.Exec(ctx, systemfeatures.ConfigureCEREGReports{Mode: systemfeatures.StatusOnly}, nil); err != nil {
		return atErr(err)
	}
	m.initialized = true
	return nil
}

// LteConnect attaches to the LTE network: +CFUN=1 (full functionality),
// +COPS=0 (automatic PLMN selection), then polls the latched registration
// state every second until it reaches RegisteredHome or
// RegisteredRoaming. There is no outer timeout; cancel ctx to give up.
func (m *Modem) LteConnect(ctx context.Context) error {
	if _, err := m.c.Exec(ctx, mobileequipment.SetFunctionality{Fun: mobileequipment.Full}, nil); err != nil {
		return atErr(err)
	}
	if _, err := m.c.Exec(ctx, network.PLMNSelection{Mode: network.Automatic}, nil); err != nil {
		return atErr(err)
	}
	return m.pollUntil(ctx, time.Second, func() bool {
		s, ok := m.state.RegistrationState()
		return ok && (s == network.RegisteredHome || s == network.RegisteredRoaming)
	})
}

// LteDisconnect detaches from the LTE network: +CFUN=0 (minimum
// functionality), then polls every 100ms until the registration state
// returns to NotSearching (reported as NetworkRegistrationState 0).
func (m *Modem) LteDisconnect(ctx context.Context) error {
	if _, err := m.c.Exec(ctx, mobileequipment.SetFunctionality{Fun: mobileequipment.Minimum}, nil); err != nil {
		return atErr(err)
	}
	return m.pollUntil(ctx, 100*time.Millisecond, func() bool {
		s, ok := m.state.RegistrationState()
		return ok && s == network.NotSearching
	})
}

// Ping issues a bare AT, verifying the command channel is alive.
func (m *Modem) Ping(ctx context.Context) error {
	_, err := m.c.Exec(ctx, device.Ping{}, nil)
	return atErr(err)
}

// OperatingMode reports the radio access technology the modem is pinned
// to.
func (m *Modem) OperatingMode(ctx context.Context) (device.RAT, error) {
	var active device.ActiveRAT
	if _, err := m.c.Exec(ctx, device.GetOperatingMode{}, &active); err != nil {
		return 0, atErr(err)
	}
	return active.Mode, nil
}

// SetOperatingMode pins the modem to a radio access technology. Only
// accepted while detached (+CFUN=0).
func (m *Modem) SetOperatingMode(ctx context.Context, mode device.RAT) error {
	_, err := m.c.Exec(ctx, device.SetOperatingMode{Mode: mode}, nil)
	return atErr(err)
}

// DefinePDPContext defines context 1 with the given APN (empty for
// autodetect), PDP type IP and every other parameter at its default. The
// modem must not be attached when this is sent.
func (m *Modem) DefinePDPContext(ctx context.Context, apn string) error {
	_, err := m.c.Exec(ctx, pdp.DefinePDPContext{
		Cid:     1,
		PdpType: pdp.TypeIP,
		Apn:     apn,
	}, nil)
	return atErr(err)
}

// pollUntil ticks at interval until done reports true or ctx is done. On
// every tick it also issues a best-effort +CSQ read, mirroring the
// original firmware's habit of logging signal quality throughout
// registration; a failed read is logged and never aborts the poll.
func (m *Modem) pollUntil(ctx context.Context, interval time.Duration, done func() bool) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if done() {
			return nil
		}
		var sq mobileequipment.SignalQuality
		if _, err := m.c.Exec(ctx, mobileequipment.GetSignalQuality{}, &sq); err != nil {
			m.log.Debugw("signal quality poll failed", "error", err)
		} else {
			m.log.Debugw("signal quality", "rssi", sq.Rssi, "ber", sq.Ber)
		}
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// clockSyncRetries is the number of additional GetClock attempts GetTime
// makes, spaced clockSyncInterval apart, once it has attached to LTE.
const clockSyncRetries = 5

// clockSyncInterval is the spacing between GetTime's retry attempts.
const clockSyncInterval = 500 * time.Millisecond

// GetTime returns the modem's wall clock, reading it directly if it has
// already been synchronised. If not, it attaches to LTE, retries GetClock
// up to clockSyncRetries times, and detaches again regardless of outcome.
func (m *Modem) GetTime(ctx context.Context) (time.Time, error) {
	t, err := m.readClock(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if !t.Equal(unsyncedClock) {
		return t, nil
	}
	if err := m.LteConnect(ctx); err != nil {
		return time.Time{}, err
	}
	synced, syncErr := m.retryClockSync(ctx)
	if syncErr != nil {
		_ = m.LteDisconnect(ctx)
		return time.Time{}, syncErr
	}
	if err := m.LteDisconnect(ctx); err != nil {
		return time.Time{}, err
	}
	return synced, nil
}

func (m *Modem) readClock(ctx context.Context) (time.Time, error) {
	var clock device.Clock
	if _, err := m.c.Exec(ctx, device.GetClock{}, &clock); err != nil {
		return time.Time{}, atErr(err)
	}
	return clock.Time, nil
}

func (m *Modem) retryClockSync(ctx context.Context) (time.Time, error) {
	for i := 0; i < clockSyncRetries; i++ {
		select {
		case <-time.After(clockSyncInterval):
		case <-ctx.Done():
			return time.Time{}, atErr(ctx.Err())
		}
		t, err := m.readClock(ctx)
		if err != nil {
			m.log.Debugw("clock sync attempt failed", "attempt", i, "error", err)
			continue
		}
		if !t.Equal(unsyncedClock) {
			return t, nil
		}
	}
	return time.Time{}, &Error{Kind: ErrClockSync}
}

// MQTTAuth carries optional MQTT session credentials. A nil auth passed
// to MqttConfigure clears username, password and security profile to
// empty.
type MQTTAuth struct {
	Username string
	Password string
	SpId     *int
}

// MqttConfigure sets the client identifier and, if auth is non-nil, the
// credentials an MQTT session presents on the next MqttConnect.
func (m *Modem) MqttConfigure(ctx context.Context, clientID string, auth *MQTTAuth) error {
	cfg := mqtt.Configure{Id: 0, ClientId: clientID}
	if auth != nil {
		cfg.Username = auth.Username
		cfg.Password = auth.Password
		cfg.SpId = auth.SpId
	}
	_, err := m.c.Exec(ctx, cfg, nil)
	return atErr(err)
}

// defaultMQTTPort is used when MqttConnect's port argument is nil.
const defaultMQTTPort = 1883

// mqttConnectTimeout bounds how long MqttConnect waits for the session's
// +SQNSMQTTONCONNECT URC after the command itself is accepted.
const mqttConnectTimeout = 30 * time.Second

// MqttConnect attaches to LTE, then opens an MQTT session against host
// (and port, defaulting to 1883) and waits up to 30s for the session's
// connect result. A non-Success result code fails with a Kind-MQTT Error
// carrying the code.
func (m *Modem) MqttConnect(ctx context.Context, host string, port *int) error {
	if err := m.LteConnect(ctx); err != nil {
		return err
	}
	p := defaultMQTTPort
	if port != nil {
		p = *port
	}
	m.state.mqttConnected.Reset()
	if _, err := m.c.Exec(ctx, mqtt.Connect{Id: 0, Host: host, Port: p}, nil); err != nil {
		return atErr(err)
	}
	wctx, cancel := context.WithTimeout(ctx, mqttConnectTimeout)
	defer cancel()
	payload, err := m.state.mqttConnected.Wait(wctx)
	if err != nil {
		return timeoutErr(err)
	}
	if payload.Rc != mqtt.Success {
		return &Error{Kind: ErrMQTT, MQTTCode: payload.Rc}
	}
	return nil
}

// MqttSend publishes data to topic at the given quality of service: it
// announces the payload length with PreparePublish, then streams data raw
// once the modem's data prompt appears.
func (m *Modem) MqttSend(ctx context.Context, topic string, qos mqtt.QoS, data []byte) error {
	cmd := mqtt.PreparePublish{Id: 0, Topic: topic, Qos: &qos, Length: len(data)}
	_, err := m.c.ExecPrompted(ctx, cmd, data, nil)
	return atErr(err)
}

// MqttDisconnect closes the active MQTT session and detaches from LTE.
func (m *Modem) MqttDisconnect(ctx context.Context) error {
	if _, err := m.c.Exec(ctx, mqtt.Disconnect{Id: 0}, nil); err != nil {
		return atErr(err)
	}
	return m.LteDisconnect(ctx)
}

// validNvmIndex reports whether index is an application-writable NVM
// slot: {5,6} ∪ [11,∞). Indices 0-4 and 7-10 are reserved by the modem
// itself and must never be written by the application.
func validNvmIndex(index int) bool {
	return index == 5 || index == 6 || index >= 11
}

// NvmWrite persists data to the modem's non-volatile memory at index,
// asserting index is not one of the modem's reserved slots. Writing an
// empty data deletes the entry.
func (m *Modem) NvmWrite(ctx context.Context, kind nvm.DataType, index int, data []byte) error {
	if !validNvmIndex(index) {
		return preconditionErr(fmt.Errorf("nvm index %d is reserved", index))
	}
	cmd := nvm.PrepareWrite{DataType: kind, Index: index, Size: len(data)}
	_, err := m.c.ExecPrompted(ctx, cmd, data, nil)
	return atErr(err)
}

// ConfigureTLSProfile issues a fixed-policy TLS 1.3 security profile
// configuration for spID: certificate validity, root and CN checks all
// enabled (cert_valid_level = 0b111), credentials referenced by their NVM
// indices (as written by NvmWrite), storage in NVM, session resumption
// disabled, no fixed session lifetime. caCertID/clientCertID/clientKeyID
// of nil are sent as 0 ("none configured").
func (m *Modem) ConfigureTLSProfile(ctx context.Context, spID int, caCertID, clientCertID, clientKeyID *int) error {
	if spID < 1 || spID > ssltls.MaxProfiles {
		return preconditionErr(fmt.Errorf("tls profile id %d out of range 1..=%d", spID, ssltls.MaxProfiles))
	}
	cfg := ssltls.Configure{
		SpId:               spID,
		Version:            ssltls.Tls13,
		CertValidLevel:     0b111,
		CaCertId:           derefOr(caCertID, 0),
		ClientCertId:       derefOr(clientCertID, 0),
		ClientPrivateKeyId: derefOr(clientKeyID, 0),
		StorageId:          ssltls.StorageNVM,
		Resume:             ssltls.ResumeDisabled,
		Lifetime:           0,
	}
	_, err := m.c.Exec(ctx, cfg, nil)
	return atErr(err)
}

func derefOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
