//go:build gm02sp

package modem

import (
	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/coap"
	"github.com/sequans/monarch2/command/gnss"
)

func (h *UrcHandler) registerGnss(c *at.Client) {
	h.add(c, gnss.FixReadyPrefix)
	h.add(c, coap.ConnectedPrefix)
}

// dispatchGnss handles the GM02SP-only URCs. It reports whether prefix
// was one of its own so the common dispatcher's default case can fall
// back to "unhandled" for anything else.
func (h *UrcHandler) dispatchGnss(prefix, line string) bool {
	switch prefix {
	case gnss.FixReadyPrefix:
		var f gnss.FixReady
		if err := f.DecodeLine(line); err != nil {
			h.log.Debugw("malformed GNSS fix URC", "line", line, "error", err)
			return true
		}
		h.state.putFix(f)
		return true
	case coap.ConnectedPrefix:
		h.log.Debugw("URC", "prefix", prefix, "line", line)
		return true
	default:
		return false
	}
}
