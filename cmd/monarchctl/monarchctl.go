// monarchctl drives a Sequans Monarch 2 modem through its LTE attach and
// MQTT publish sequence from the command line.
//
// This serves as an example of how to wire up the at, serial, trace and
// modem packages, as well as providing a quick way to publish a message
// during bring-up.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sequans/monarch2/at"
	"github.com/sequans/monarch2/command/mqtt"
	"github.com/sequans/monarch2/modem"
	"github.com/sequans/monarch2/serial"
	"github.com/sequans/monarch2/trace"
)

var version = "undefined"

func main() {
	dev := flag.String("d", "/dev/ttyUSB0", "path to modem device")
	baud := flag.Int("b", 115200, "baud rate")
	timeout := flag.Duration("t", 2*time.Second, "command timeout period")
	verbose := flag.Bool("v", false, "trace raw modem reads/writes")
	host := flag.String("mqtt-host", "", "MQTT broker host; when set, connect and publish after LTE attach")
	topic := flag.String("mqtt-topic", "monarchctl/status", "MQTT topic to publish to")
	msg := flag.String("mqtt-msg", "hello", "MQTT payload to publish")
	vsn := flag.Bool("version", false, "report version and exit")
	flag.Parse()
	if *vsn {
		fmt.Printf("%s %s\n", os.Args[0], version)
		os.Exit(0)
	}

	p, err := serial.New(serial.WithPort(*dev), serial.WithBaud(*baud))
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	var mio io.ReadWriter = p
	if *verbose {
		mio = trace.New(p, log.New(os.Stderr, "", log.LstdFlags))
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	sugar := logger.Sugar()

	c := at.New(mio, at.WithTimeout(*timeout), at.WithLogger(sugar))
	m := modem.New(c, modem.WithLogger(sugar))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := m.NewUrcHandler()
	go handler.Run(ctx)

	if err := m.Begin(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("attaching to LTE...")
	if err := m.LteConnect(ctx); err != nil {
		log.Fatal(err)
	}
	t, err := m.GetTime(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("attached, modem clock: %s\n", t.Format(time.RFC3339))

	if *host == "" {
		return
	}
	if err := m.MqttConfigure(ctx, "monarchctl", nil); err != nil {
		log.Fatal(err)
	}
	if err := m.MqttConnect(ctx, *host, nil); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("connected to %s, publishing to %s\n", *host, *topic)
	if err := m.MqttSend(ctx, *topic, mqtt.AtLeastOnce, []byte(*msg)); err != nil {
		log.Fatal(err)
	}
	if err := m.MqttDisconnect(ctx); err != nil {
		log.Fatal(err)
	}
}
