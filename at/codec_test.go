package at_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
)

func TestEncoderTrimsTrailingOptional(t *testing.T) {
	e := at.NewEncoder()
	e.AddInt(1)
	e.AddOptional(nil)
	e.AddOptional(nil)
	assert.Equal(t, "1", e.String())
}

func TestEncoderKeepsInteriorEmptyNullable(t *testing.T) {
	e := at.NewEncoder()
	e.AddInt(1)
	at.AddNullable(e, at.Null[int](), func(v int) string { return strconv.Itoa(v) })
	e.AddInt(3)
	assert.Equal(t, "1,,3", e.String())
}

func TestEncoderReserved(t *testing.T) {
	e := at.NewEncoder()
	e.AddInt(1)
	e.AddReserved()
	e.AddInt(3)
	assert.Equal(t, "1,,3", e.String())
}

func TestDecoderNullable(t *testing.T) {
	d := at.NewDecoder(`1,,3`)
	n, err := at.DecodeNullable(d, 1, strconv.Atoi)
	require.NoError(t, err)
	v, ok := n.Get()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestDecoderQuotedF32(t *testing.T) {
	d := at.NewDecoder(`"20000000.000000"`)
	f, err := d.QuotedF32(0)
	require.NoError(t, err)
	assert.InDelta(t, 20000000.0, float64(f), 1)
}

func TestDecoderMissingField(t *testing.T) {
	d := at.NewDecoder(`1`)
	_, err := d.Int(5)
	require.Error(t, err)
	var fe *at.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, at.ErrMissingField, fe.Kind)
}

func TestMatchPrefixMismatch(t *testing.T) {
	_, err := at.MatchPrefix("+CGDCONT: 1", "+CEREG:")
	require.Error(t, err)
	var fe *at.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, at.ErrPrefixMismatch, fe.Kind)
}
