package at_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequans/monarch2/at"
)

// mockModem is a hand-rolled io.ReadWriter fake: writes are matched
// against a fixed command set and queue the configured reply.
type mockModem struct {
	cmdSet map[string][]string
	r      chan []byte
}

func newMockModem(cmdSet map[string][]string) *mockModem {
	return &mockModem{cmdSet: cmdSet, r: make(chan []byte, 10)}
}

func (m *mockModem) Write(p []byte) (int, error) {
	cmd := string(bytes.TrimRight(p, "\r\n"))
	if lines, ok := m.cmdSet[cmd]; ok {
		for _, l := range lines {
			m.r <- []byte(l + "\r\n")
		}
	}
	return len(p), nil
}

func (m *mockModem) Read(p []byte) (int, error) {
	b, ok := <-m.r
	if !ok {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

func (m *mockModem) close() { close(m.r) }

type echoCmd struct{ prefix string }

func (c echoCmd) Prefix() string { return c.prefix }

func (c echoCmd) EncodeArgs(e *at.Encoder) error { return nil }

type slowCmd struct{ echoCmd }

func (slowCmd) Timeout() time.Duration { return 10 * time.Millisecond }

func TestCommandOK(t *testing.T) {
	m := newMockModem(map[string][]string{
		"ATZ": {"OK"},
	})
	defer m.close()
	c := at.New(m, at.WithTimeout(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	info, err := c.Exec(ctx, echoCmd{prefix: "Z"}, nil)
	require.NoError(t, err)
	assert.Empty(t, info)
}

func TestCommandCMEError(t *testing.T) {
	m := newMockModem(map[string][]string{
		"AT+CFUN=1": {"+CME ERROR: 10"},
	})
	defer m.close()
	c := at.New(m, at.WithTimeout(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.Exec(ctx, echoCmd{prefix: "+CFUN=1"}, nil)
	require.Error(t, err)
	var cme at.CMEError
	require.ErrorAs(t, err, &cme)
	assert.Equal(t, at.CMEError("10"), cme)
}

func TestCommandInfoLines(t *testing.T) {
	m := newMockModem(map[string][]string{
		"AT+CGDCONT?": {`+CGDCONT: 1,"IP","ibox.tel",,0,0`, "OK"},
	})
	defer m.close()
	c := at.New(m, at.WithTimeout(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	info, err := c.Exec(ctx, echoCmd{prefix: "+CGDCONT?"}, nil)
	require.NoError(t, err)
	require.Len(t, info, 1)
	assert.Contains(t, info[0], "ibox.tel")
}

func TestCommandDefaultTimeout(t *testing.T) {
	m := newMockModem(nil) // never replies
	defer m.close()
	c := at.New(m, at.WithTimeout(20*time.Millisecond))
	_, err := c.Exec(context.Background(), echoCmd{prefix: "+CFUN?"}, nil)
	require.ErrorIs(t, err, at.ErrTimeout)
}

func TestCommandSchemaTimeoutOverride(t *testing.T) {
	m := newMockModem(nil)
	defer m.close()
	c := at.New(m, at.WithTimeout(time.Minute))
	start := time.Now()
	_, err := c.Exec(context.Background(), slowCmd{echoCmd{prefix: "+CFUN?"}}, nil)
	require.ErrorIs(t, err, at.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCommandCancellationIsNotTimeout(t *testing.T) {
	m := newMockModem(nil)
	defer m.close()
	c := at.New(m, at.WithTimeout(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := c.Exec(ctx, echoCmd{prefix: "+CFUN?"}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUrcInterleavedWithCommand(t *testing.T) {
	m := newMockModem(map[string][]string{
		"AT+CFUN=1": {"+CEREG: 2", "OK"},
	})
	defer m.close()
	c := at.New(m, at.WithTimeout(time.Second))
	sub := c.Subscribe("+CEREG:")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	info, err := c.Exec(ctx, echoCmd{prefix: "+CFUN=1"}, nil)
	require.NoError(t, err)
	assert.Empty(t, info, "URC must not leak into the command's response")
	select {
	case line := <-sub.C():
		assert.Equal(t, "+CEREG: 2", line)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for interleaved URC")
	}
}

func TestUrcDispatch(t *testing.T) {
	m := newMockModem(nil)
	defer m.close()
	c := at.New(m)
	sub := c.Subscribe("+CEREG:")
	m.r <- []byte("+CEREG: 1\r\n")
	select {
	case line := <-sub.C():
		assert.Equal(t, "+CEREG: 1", line)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for URC")
	}
}

func TestUrcOverrun(t *testing.T) {
	m := newMockModem(nil)
	defer m.close()
	c := at.New(m, at.WithUrcBuffer(1))
	sub := c.Subscribe("+CEREG:")
	m.r <- []byte("+CEREG: 1\r\n")
	m.r <- []byte("+CEREG: 2\r\n")
	m.r <- []byte("+CEREG: 3\r\n")
	time.Sleep(50 * time.Millisecond)
	<-sub.C()
	assert.True(t, sub.Overrun())
}
