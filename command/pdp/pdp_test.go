package pdp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/pdp"
)

func TestDefinePDPContextEncode(t *testing.T) {
	e := at.NewEncoder()
	cmd := pdp.DefinePDPContext{
		Cid:     1,
		PdpType: pdp.TypeIP,
		Apn:     "ibox.tel",
	}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Equal(t, `1,"IP","ibox.tel","",0,0,0,0,0,0,0,0,0,0,0`, e.String())
}

func TestDefinePDPContextNonIPQuoting(t *testing.T) {
	e := at.NewEncoder()
	cmd := pdp.DefinePDPContext{Cid: 2, PdpType: pdp.TypeNonIP, Apn: "m2m"}
	require.NoError(t, cmd.EncodeArgs(e))
	assert.Contains(t, e.String(), `"Non-IP"`)
}

func TestPDPContextListDecode(t *testing.T) {
	var list pdp.PDPContextList
	require.NoError(t, list.DecodeLine(`+CGDCONT: 1,"IP","ibox.tel",,0,0`))
	require.Len(t, list.Contexts, 1)
	assert.Equal(t, pdp.TypeIP, list.Contexts[0].PdpType)
	assert.Equal(t, "ibox.tel", list.Contexts[0].Apn)
}
