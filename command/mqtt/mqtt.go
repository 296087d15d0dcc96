// Package mqtt implements the modem's embedded MQTT client: connection
// configuration, connect/disconnect, and the staged publish/subscribe
// exchanges built on +SQNSMQTT*.
package mqtt

import (
	"strconv"
	"time"

	"github.com/sequans/monarch2/at"
)

// QoS selects the MQTT quality-of-service level for a publish or
// subscribe.
type QoS int

// QoS values.
const (
	AtMostOnce  QoS = 0
	AtLeastOnce QoS = 1
	ExactlyOnce QoS = 2
)

// StatusCode is the result code reported by the modem for an MQTT session
// operation, delivered asynchronously via URC.
type StatusCode int

// StatusCode values, per the modem's +SQNSMQTTON* documentation.
const (
	Success           StatusCode = 0
	WrongParameters   StatusCode = 1
	AlreadyConnected  StatusCode = 2
	ConnectionRefused StatusCode = 3
	NotConnected      StatusCode = 4
	ConnectionLost    StatusCode = 5
	SessionNotFound   StatusCode = 6
	SendError         StatusCode = 7
	Timeout           StatusCode = 8
)

// Configure issues AT+SQNSMQTTCFG=<id>,<client_id>,<username>,<password>
// [,<sp_id>], setting the client identifier and credentials an MQTT
// session will present on the next Connect.
type Configure struct {
	Id       int
	ClientId string
	Username string
	Password string
	SpId     *int
}

func (Configure) Prefix() string { return "+SQNSMQTTCFG=" }

func (Configure) Timeout() time.Duration { return sessionCmdTimeout }

func (c Configure) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Id)
	if err := e.AddString(c.ClientId, 64); err != nil {
		return err
	}
	if err := e.AddString(c.Username, 64); err != nil {
		return err
	}
	if err := e.AddString(c.Password, 64); err != nil {
		return err
	}
	if c.SpId == nil {
		e.AddOptional(nil)
	} else {
		tok := strconv.Itoa(*c.SpId)
		e.AddOptional(&tok)
	}
	return nil
}

// sessionCmdTimeout is the schema deadline shared by the MQTT session
// commands. The commands themselves only queue work inside the modem's
// MQTT stack and acknowledge quickly; the slow part (DNS, TCP, TLS,
// broker handshake) is reported later via URC.
const sessionCmdTimeout = 300 * time.Millisecond

// Connect issues AT+SQNSMQTTCONNECT=<id>,<host>,<port>[,<keepalive>],
// initiating the TCP+MQTT handshake. The command itself only confirms the
// request was accepted; the session result arrives later as a
// +SQNSMQTTONCONNECT URC.
type Connect struct {
	Id        int
	Host      string
	Port      int
	Keepalive *int
}

func (Connect) Prefix() string { return "+SQNSMQTTCONNECT=" }

func (Connect) Timeout() time.Duration { return sessionCmdTimeout }

func (c Connect) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Id)
	if err := e.AddString(c.Host, 128); err != nil {
		return err
	}
	e.AddInt(c.Port)
	if c.Keepalive == nil {
		e.AddOptional(nil)
	} else {
		tok := strconv.Itoa(*c.Keepalive)
		e.AddOptional(&tok)
	}
	return nil
}

// Disconnect issues AT+SQNSMQTTDISCONNECT=<id>, tearing down an active
// MQTT session.
type Disconnect struct {
	Id int
}

func (Disconnect) Prefix() string { return "+SQNSMQTTDISCONNECT=" }

func (c Disconnect) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Id)
	return nil
}

// PreparePublish issues AT+SQNSMQTTPUBLISH=<id>,<topic>,<qos>,<length>,
// announcing an upcoming raw payload write. Unlike every other command in
// the catalog this line is terminated by a bare "\r", not "\r\n": the
// modem prompts for the payload as soon as it sees the carriage return,
// without waiting for a line feed. The caller follows with the raw
// payload bytes via Client.ExecPrompted.
type PreparePublish struct {
	Id     int
	Topic  string
	Qos    *QoS
	Length int
}

func (PreparePublish) Prefix() string { return "+SQNSMQTTPUBLISH=" }

// Terminator overrides the default "\r\n" framing; see the type doc.
func (PreparePublish) Terminator() string { return "\r" }

func (PreparePublish) Timeout() time.Duration { return sessionCmdTimeout }

func (c PreparePublish) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Id)
	if err := e.AddString(c.Topic, 128); err != nil {
		return err
	}
	if c.Qos == nil {
		e.AddOptional(nil)
	} else {
		tok := strconv.Itoa(int(*c.Qos))
		e.AddOptional(&tok)
	}
	e.AddInt(c.Length)
	return nil
}

// Publish carries the raw payload bytes sent once the modem's data prompt
// has been seen, via Client.ExecPrompted. It has no prefix, no field
// separators and no terminator of its own.
type Publish struct {
	Payload []byte
}

// Subscribe issues AT+SQNSMQTTSUBSCRIBE=<id>,<topic>,<qos>, registering
// interest in topic on an active MQTT session.
type Subscribe struct {
	Id    int
	Topic string
	Qos   QoS
}

func (Subscribe) Prefix() string { return "+SQNSMQTTSUBSCRIBE=" }

func (Subscribe) Timeout() time.Duration { return sessionCmdTimeout }

func (c Subscribe) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Id)
	if err := e.AddString(c.Topic, 128); err != nil {
		return err
	}
	e.AddInt(int(c.Qos))
	return nil
}

// Receive issues AT+SQNSMQTTRCVMESSAGE=<id>,<msg_id>, retrieving the body
// of a message previously announced by a MqttMessageReceived URC.
type Receive struct {
	Id    int
	MsgId int
}

func (Receive) Prefix() string { return "+SQNSMQTTRCVMESSAGE=" }

func (Receive) Timeout() time.Duration { return sessionCmdTimeout }

func (c Receive) EncodeArgs(e *at.Encoder) error {
	e.AddInt(c.Id)
	e.AddInt(c.MsgId)
	return nil
}

// ReceivedMessage is the response to Receive.
type ReceivedMessage struct {
	Topic   string
	Payload []byte
}

func (m *ReceivedMessage) DecodeFields(d *at.Decoder) error {
	topic, err := d.String(0)
	if err != nil {
		return err
	}
	payload, err := d.String(1)
	if err != nil {
		return err
	}
	m.Topic = topic
	m.Payload = []byte(payload)
	return nil
}

// ConnectedPayload is the decoded body of a +SQNSMQTTONCONNECT URC.
type ConnectedPayload struct {
	Id int
	Rc StatusCode
}

// ConnectedPrefix is the URC's registered dispatch prefix.
const ConnectedPrefix = "+SQNSMQTTONCONNECT:"

// DecodeLine decodes a +SQNSMQTTONCONNECT record.
func (p *ConnectedPayload) DecodeLine(line string) error {
	d, err := at.MatchPrefix(line, ConnectedPrefix)
	if err != nil {
		return err
	}
	id, err := d.Int(0)
	if err != nil {
		return err
	}
	rc, err := d.Int(1)
	if err != nil {
		return err
	}
	p.Id = id
	p.Rc = StatusCode(rc)
	return nil
}

// DisconnectedPrefix is the +SQNSMQTTONDISCONNECT URC's dispatch prefix:
// session teardown, no payload of interest beyond the session id.
const DisconnectedPrefix = "+SQNSMQTTONDISCONNECT:"

// PublishedPrefix is the +SQNSMQTTONPUBLISH URC's dispatch prefix,
// confirming a prior PreparePublish/Publish pair completed.
const PublishedPrefix = "+SQNSMQTTONPUBLISH:"

// SubscribedPrefix is the +SQNSMQTTONSUBSCRIBE URC's dispatch prefix.
const SubscribedPrefix = "+SQNSMQTTONSUBSCRIBE:"

// MessageReceivedPrefix is the +SQNSMQTTONMESSAGE URC's dispatch prefix,
// announcing that a subscribed topic has a new message waiting and must
// be retrieved with Receive.
const MessageReceivedPrefix = "+SQNSMQTTONMESSAGE:"

// PromptToPublishPrefix is the +SQNSMQTTPUBLISH URC's dispatch prefix,
// carrying the publishing message id the modem assigned to a staged
// publish. Note the URC form carries a ":" where the command form ends in
// "="; the two never collide at dispatch.
const PromptToPublishPrefix = "+SQNSMQTTPUBLISH:"
