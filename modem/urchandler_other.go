//go:build !gm02sp

package modem

import "github.com/sequans/monarch2/at"

// gnssFlags is empty on non-GM02SP builds; the GM02SP variant carries the
// assistance-data staleness flags here.
type gnssFlags struct{}

func (h *UrcHandler) registerGnss(c *at.Client) {}

func (h *UrcHandler) dispatchGnss(prefix, line string) bool { return false }
