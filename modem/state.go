// Package modem implements the driver's modem state machine and
// high-level operations: the async workflows that compose primitive AT
// commands (attach/detach, clock sync, MQTT connect/publish, NVM writes,
// assistance-data refresh) on top of the at package's codec and URC
// dispatch.
package modem

import (
	"context"
	"sync"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/mqtt"
	"github.com/sequans/monarch2/command/network"
)

// State holds every fact the background UrcHandler latches from
// unsolicited result codes, shared by reference between the handler and
// every high-level operation. Registration state is guarded by a
// read/write mutex; the Signal fields carry their own synchronisation.
type State struct {
	mu       sync.RWMutex
	regState network.NetworkRegistrationState
	regSet   bool

	mqttConnected *at.Signal[mqtt.ConnectedPayload]

	// fixSignal latches the most recent GNSS fix as an untyped value so
	// this file, which is compiled regardless of the gm02sp build tag,
	// never has to import the gm02sp-only gnss package. The gm02sp-gated
	// urchandler_gnss.go puts gnss.FixReady values on it, and
	// modem_gnss.go asserts them back to that type after waiting.
	fixSignal *at.Signal[interface{}]
}

// newState returns a State with every Signal ready to receive.
func newState() *State {
	return &State{
		mqttConnected: at.NewSignal[mqtt.ConnectedPayload](),
		fixSignal:     at.NewSignal[interface{}](),
	}
}

// RegistrationState returns the most recently latched +CEREG status and
// whether any report has arrived yet.
func (s *State) RegistrationState() (network.NetworkRegistrationState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regState, s.regSet
}

func (s *State) setRegistrationState(v network.NetworkRegistrationState) {
	s.mu.Lock()
	s.regState = v
	s.regSet = true
	s.mu.Unlock()
}

// MqttConnected returns the signal the URC handler latches MQTT connect
// results onto and mqtt_connect waits on.
func (s *State) MqttConnected() *at.Signal[mqtt.ConnectedPayload] {
	return s.mqttConnected
}

// putFix latches an untyped GNSS fix value; only called from
// urchandler_gnss.go.
func (s *State) putFix(v interface{}) { s.fixSignal.Put(v) }

// resetFix clears any unreceived fix; only called from modem_gnss.go.
func (s *State) resetFix() { s.fixSignal.Reset() }

// waitFix blocks for the next latched fix; only called from
// modem_gnss.go.
func (s *State) waitFix(ctx context.Context) (interface{}, error) {
	return s.fixSignal.Wait(ctx)
}
