// Package at provides a schema-driven driver for AT command modems: a
// codec for the modem's positional wire format, a serialised command
// dispatcher, and a bounded-broadcast URC fan-out.
package at

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client represents a modem managed over an io.ReadWriter transport using
// AT commands. Commands are serialised: only one is ever outstanding on
// the wire at a time. The Client closes its Closed channel when the
// transport is lost (Read returns an error); once closed it cannot be
// reused.
type Client struct {
	modem          io.ReadWriter
	cmdCh          chan func()
	closed         chan struct{}
	lines          chan string
	urc            *UrcChannel
	defaultTimeout time.Duration
	urcBuffer      int
	log            *zap.SugaredLogger

	wgmu    sync.Mutex
	guarded bool
	wGuard  <-chan time.Time
}

// New creates a Client driving modem. Callers normally pass a
// serial.Port, a trace decorator, or an in-memory fake for tests.
func New(modem io.ReadWriter, opts ...Option) *Client {
	c := &Client{
		modem:          modem,
		cmdCh:          make(chan func()),
		lines:          make(chan string),
		closed:         make(chan struct{}),
		urc:            NewUrcChannel(),
		defaultTimeout: time.Second,
		urcBuffer:      4,
		log:            zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	rawLines := make(chan string)
	go lineReader(c.modem, rawLines)
	go c.urcLoop(rawLines, c.lines)
	go c.cmdLoop()
	return c
}

// Closed returns a channel that is closed once the transport is lost.
func (c *Client) Closed() <-chan struct{} { return c.closed }

// Urc returns the channel used to register URC subscriptions.
func (c *Client) Urc() *UrcChannel { return c.urc }

// Subscribe registers a URC subscription for lines beginning with prefix,
// using the Client's configured buffer capacity.
func (c *Client) Subscribe(prefix string) *UrcSubscription {
	return c.urc.Subscribe(prefix, c.urcBuffer)
}

// Timeouter is implemented by commands whose schema overrides the
// Client's default final-result deadline, e.g. the MQTT session commands
// (300ms) or ResetToFactoryState (10s).
type Timeouter interface {
	Timeout() time.Duration
}

// Exec sends cmd to the modem and waits for its final result code. If
// resp implements Response, each line matching the command's response
// prefix is decoded into it in turn, so a later matching line overwrites
// an earlier one. If resp implements
// SequenceResponse, every matching line is decoded in turn. resp may be
// nil, in which case info lines are only returned verbatim. The raw info
// lines (those not consumed as the decoded response) are always
// returned.
//
// The wait for the final result code is bounded by the command's schema
// timeout (Timeouter, defaulting to the Client's WithTimeout value) in
// addition to any deadline ctx itself carries; exceeding the schema
// deadline fails with ErrTimeout.
func (c *Client) Exec(ctx context.Context, cmd Command, resp interface{}) ([]string, error) {
	done := make(chan execResult, 1)
	select {
	case <-c.closed:
		return nil, ErrClosed
	case c.cmdCh <- func() {
		done <- c.processReq(ctx, cmd, resp)
	}:
		r := <-done
		return r.info, r.err
	}
}

type execResult struct {
	info []string
	err  error
}

// ExecPrompted behaves like Exec, but after sending cmd it waits for the
// modem's bare data prompt ("> ") before writing payload straight to the
// transport, with no AT framing of its own. This is the staged-payload
// pattern the modem uses for both NVM credential writes and MQTT publish:
// the command line announces a byte count, the modem answers with a
// prompt once it is ready to receive them, and only then is the payload
// itself written.
func (c *Client) ExecPrompted(ctx context.Context, cmd Command, payload []byte, resp interface{}) ([]string, error) {
	done := make(chan execResult, 1)
	select {
	case <-c.closed:
		return nil, ErrClosed
	case c.cmdCh <- func() {
		done <- c.processPromptedReq(ctx, cmd, payload, resp)
	}:
		r := <-done
		return r.info, r.err
	}
}

func (c *Client) cmdTimeout(cmd Command) time.Duration {
	if t, ok := cmd.(Timeouter); ok {
		return t.Timeout()
	}
	return c.defaultTimeout
}

func (c *Client) processReq(ctx context.Context, cmd Command, resp interface{}) execResult {
	c.waitWriteGuard()
	line, err := c.renderCommand(cmd)
	if err != nil {
		return execResult{err: err}
	}
	if err := c.writeLineTerm(cmd, line); err != nil {
		return execResult{err: err}
	}
	wctx, cancel := context.WithTimeout(ctx, c.cmdTimeout(cmd))
	defer cancel()
	return c.waitFinalResult(ctx, wctx, responsePrefix(cmd), resp)
}

func (c *Client) processPromptedReq(ctx context.Context, cmd Command, payload []byte, resp interface{}) execResult {
	c.waitWriteGuard()
	line, err := c.renderCommand(cmd)
	if err != nil {
		return execResult{err: err}
	}
	if err := c.writeLineTerm(cmd, line); err != nil {
		return execResult{err: err}
	}
	wctx, cancel := context.WithTimeout(ctx, c.cmdTimeout(cmd))
	defer cancel()
	if err := c.waitForPrompt(ctx, wctx); err != nil {
		return execResult{err: err}
	}
	if _, err := c.modem.Write(payload); err != nil {
		return execResult{err: err}
	}
	return c.waitFinalResult(ctx, wctx, responsePrefix(cmd), resp)
}

// deadlineErr distinguishes the schema timeout elapsing from the caller's
// own context expiring: the former is reported as ErrTimeout, the latter
// is passed through untouched so callers see their own cancellation.
func deadlineErr(ctx, wctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if wctx.Err() == context.DeadlineExceeded {
		return ErrTimeout
	}
	return wctx.Err()
}

func (c *Client) waitForPrompt(ctx, wctx context.Context) error {
	for {
		select {
		case <-wctx.Done():
			return deadlineErr(ctx, wctx)
		case l, ok := <-c.lines:
			if !ok {
				return ErrClosed
			}
			switch {
			case l == ">":
				return nil
			case hasPrefixFold(l, "ERROR"), hasPrefixFold(l, "+CME ERROR"), hasPrefixFold(l, "+CMS ERROR"):
				return newResultError(l)
			}
		}
	}
}

func (c *Client) waitFinalResult(ctx, wctx context.Context, prefix string, resp interface{}) execResult {
	var r execResult
	for {
		select {
		case <-wctx.Done():
			r.err = deadlineErr(ctx, wctx)
			return r
		case l, ok := <-c.lines:
			if !ok {
				return execResult{err: ErrClosed}
			}
			if l == "" {
				continue
			}
			consumed, final, err := c.consumeLine(l, prefix, resp)
			if !consumed {
				r.info = append(r.info, l)
			}
			if err != nil {
				r.err = err
				return r
			}
			if final {
				return r
			}
		}
	}
}

// consumeLine classifies one line of a response: OK/ERROR terminate the
// exchange, a line matching the schema's response prefix is decoded into
// resp, everything else is passed back as info.
func (c *Client) consumeLine(line, prefix string, resp interface{}) (consumed, final bool, err error) {
	switch {
	case line == "OK":
		return true, true, nil
	case hasPrefixFold(line, "ERROR"), hasPrefixFold(line, "+CME ERROR"), hasPrefixFold(line, "+CMS ERROR"):
		return true, true, newResultError(line)
	case prefix != "" && hasPrefixFold(line, prefix):
		if resp == nil {
			return false, false, nil
		}
		d, derr := MatchPrefix(line, prefix)
		if derr != nil {
			return true, false, derr
		}
		switch r := resp.(type) {
		case SequenceResponse:
			return true, false, r.DecodeLine(line)
		case Response:
			return true, false, r.DecodeFields(d)
		default:
			return false, false, nil
		}
	default:
		return false, false, nil
	}
}

func responsePrefix(cmd Command) string {
	p := cmd.Prefix()
	if idx := strings.IndexAny(p, "=?"); idx >= 0 {
		return p[:idx]
	}
	return p
}

func (c *Client) renderCommand(cmd Command) (string, error) {
	e := NewEncoder()
	if err := cmd.EncodeArgs(e); err != nil {
		return "", err
	}
	args := e.String()
	if args == "" {
		return cmd.Prefix(), nil
	}
	return cmd.Prefix() + args, nil
}

// CustomTerminator is implemented by the handful of commands whose wire
// line does not end in the default "\r\n", e.g. MQTT's staged-publish
// announcement, which the modem expects terminated by a bare "\r" so it
// can prompt for the payload without waiting for a second newline.
type CustomTerminator interface {
	Terminator() string
}

func (c *Client) writeLineTerm(cmd Command, line string) error {
	term := "\r\n"
	if t, ok := cmd.(CustomTerminator); ok {
		term = t.Terminator()
	}
	c.log.Debugw("send", "line", line)
	_, err := c.modem.Write([]byte("AT" + line + term))
	return err
}

// cmdLoop serialises command execution: it runs queued Exec closures one
// at a time, and discards any response lines that arrive while no command
// is outstanding (residual results after a timeout or reset). It
// terminates, closing Closed, when the line pipeline shuts down.
func (c *Client) cmdLoop() {
	for {
		select {
		case cmd := <-c.cmdCh:
			cmd()
		case l, ok := <-c.lines:
			if !ok {
				close(c.closed)
				return
			}
			if l != "" {
				c.log.Debugw("discarding unsolicited line", "line", l)
			}
		}
	}
}

// urcLoop pulls URCs out of the stream of lines read from the modem and
// dispatches them to their subscribers; everything else is passed
// downstream to the command currently waiting (or to cmdLoop to be
// discarded). Running this separately from cmdLoop keeps URC delivery
// live while a command is mid-exchange.
func (c *Client) urcLoop(in <-chan string, out chan<- string) {
	defer c.urc.closeAll()
	for line := range in {
		if c.routeUrc(line) {
			continue
		}
		out <- line
	}
	close(out)
}

// routeUrc dispatches line to a matching URC subscriber, trying longest
// registered prefix first so e.g. "+CEREG" doesn't shadow a longer
// registered prefix sharing its spelling.
func (c *Client) routeUrc(line string) bool {
	prefixes := c.urc.Prefixes()
	best := ""
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) && len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return false
	}
	return c.urc.Dispatch(best, line)
}

func lineReader(m io.Reader, out chan<- string) {
	scanner := bufio.NewScanner(m)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	scanner.Split(scanLines)
	for scanner.Scan() {
		out <- scanner.Text()
	}
	close(out)
}

// scanLines is bufio.ScanLines extended to recognise the bare data prompt
// ("> ") the modem emits mid-command for staged writes such as
// AT+SQNSMQTTPUBLISH payload delivery.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if len(data) >= 1 && data[0] == '>' {
		i := 1
		for ; i < len(data) && data[i] == ' '; i++ {
		}
		return i, data[0:1], nil
	}
	return bufio.ScanLines(data, atEOF)
}

// startWriteGuard imposes a short quiet period before the next write,
// giving the modem time to flush any residual response after a reset.
func (c *Client) startWriteGuard() {
	c.wgmu.Lock()
	c.guarded = true
	c.wGuard = time.After(20 * time.Millisecond)
	c.wgmu.Unlock()
}

// waitWriteGuard waits out any active write guard, draining and
// discarding residual lines so they are not misread as part of the next
// command's response.
func (c *Client) waitWriteGuard() {
	c.wgmu.Lock()
	defer c.wgmu.Unlock()
	if !c.guarded {
		return
	}
	for {
		select {
		case _, ok := <-c.lines:
			if !ok {
				return
			}
		case <-c.wGuard:
			c.guarded = false
			c.wGuard = nil
			return
		}
	}
}

// WriteRaw writes literal bytes to the modem, bypassing command dispatch,
// used to escape a half-finished staged write during recovery.
func (c *Client) WriteRaw(b []byte) error {
	_, err := c.modem.Write(b)
	return err
}

// StartWriteGuard exposes startWriteGuard for callers that write raw
// bytes outside of Exec and need the same post-write quiet period before
// the next command.
func (c *Client) StartWriteGuard() { c.startWriteGuard() }
