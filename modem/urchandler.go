package modem

import (
	"context"

	"go.uber.org/zap"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/device"
	"github.com/sequans/monarch2/command/mqtt"
	"github.com/sequans/monarch2/command/network"
)

// UrcHandler is the long-running task that owns one subscription per
// registered URC prefix and the exclusive write capability to a State.
// It never blocks inside dispatch beyond signalling: registration updates
// take an uncontended mutex, MQTT/GNSS results Put onto a Signal, and
// everything else is logged and discarded.
type UrcHandler struct {
	state *State
	log   *zap.SugaredLogger
	subs  map[string]*at.UrcSubscription
}

// NewUrcHandler registers every URC this driver understands on c and
// returns a handler ready to Run. Call this once per Modem.
func NewUrcHandler(c *at.Client, state *State, log *zap.SugaredLogger) *UrcHandler {
	h := &UrcHandler{state: state, log: log, subs: make(map[string]*at.UrcSubscription)}
	h.add(c, network.NetworkRegistrationStatusPrefix)
	h.add(c, mqtt.ConnectedPrefix)
	h.add(c, mqtt.DisconnectedPrefix)
	h.add(c, mqtt.PublishedPrefix)
	h.add(c, mqtt.SubscribedPrefix)
	h.add(c, mqtt.MessageReceivedPrefix)
	h.add(c, mqtt.PromptToPublishPrefix)
	h.add(c, device.ShutdownPrefix)
	h.add(c, device.StartPrefix)
	h.registerGnss(c)
	return h
}

func (h *UrcHandler) add(c *at.Client, prefix string) {
	h.subs[prefix] = c.Subscribe(prefix)
}

type urcEvent struct {
	prefix string
	line   string
}

// Run dispatches every URC delivered to this handler's subscriptions
// until ctx is done. It is meant to run for the lifetime of the Modem in
// its own goroutine.
func (h *UrcHandler) Run(ctx context.Context) {
	events := make(chan urcEvent)
	for prefix, sub := range h.subs {
		go h.pump(ctx, prefix, sub, events)
	}
	for {
		select {
		case ev := <-events:
			h.dispatch(ev.prefix, ev.line)
		case <-ctx.Done():
			return
		}
	}
}

func (h *UrcHandler) pump(ctx context.Context, prefix string, sub *at.UrcSubscription, events chan<- urcEvent) {
	for {
		select {
		case line, ok := <-sub.C():
			if !ok {
				return
			}
			select {
			case events <- urcEvent{prefix, line}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// dispatch decodes one URC line per its registered prefix and applies its
// state transition. Decode failures are logged, not
// propagated: a malformed URC must never take down the handler.
func (h *UrcHandler) dispatch(prefix, line string) {
	switch prefix {
	case network.NetworkRegistrationStatusPrefix:
		var u network.NetworkRegistrationStatus
		if err := u.DecodeLine(line); err != nil {
			h.log.Debugw("malformed CEREG URC", "line", line, "error", err)
			return
		}
		h.state.setRegistrationState(u.Stat)
	case mqtt.ConnectedPrefix:
		var p mqtt.ConnectedPayload
		if err := p.DecodeLine(line); err != nil {
			h.log.Debugw("malformed MQTT connect URC", "line", line, "error", err)
			return
		}
		h.state.mqttConnected.Put(p)
	case mqtt.DisconnectedPrefix, mqtt.PublishedPrefix, mqtt.SubscribedPrefix,
		mqtt.MessageReceivedPrefix, mqtt.PromptToPublishPrefix,
		device.ShutdownPrefix, device.StartPrefix:
		h.log.Debugw("URC", "prefix", prefix, "line", line)
	default:
		if !h.dispatchGnss(prefix, line) {
			h.log.Debugw("unhandled URC prefix", "prefix", prefix, "line", line)
		}
	}
}
