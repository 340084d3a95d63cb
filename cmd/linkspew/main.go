package main

// linkspew is a small debugging peer for the hostlink daemon. It frames
// requests into the daemon's inbound pipe and decodes the frame stream the
// daemon writes on stdout.

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/microrpc/hostlink/internal/prot"
)

var requestTypes = map[string]prot.MessageIdentifier{
	"ping":     prot.CorePingV1,
	"status":   prot.CoreStatusV1,
	"shutdown": prot.CoreShutdownV1,
	"exec":     prot.ExecRunV1,
}

func main() {
	app := cli.NewApp()
	app.Name = "linkspew"
	app.Usage = "frame requests into a hostlink pipe and decode its responses"
	app.Commands = []cli.Command{
		{
			Name:  "send",
			Usage: "frame a request and write it into the inbound pipe",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "pipe",
					Value: "/tmp/fifo.in",
					Usage: "path of the daemon's inbound fifo",
				},
				cli.StringFlag{
					Name:  "type",
					Value: "ping",
					Usage: "request type: ping, status, shutdown, exec, or a raw hex identifier",
				},
				cli.Uint64Flag{
					Name:  "id",
					Value: 1,
					Usage: "sequence id to correlate the response",
				},
				cli.StringFlag{
					Name:  "payload",
					Value: "{}",
					Usage: "JSON request payload",
				},
			},
			Action: send,
		},
		{
			Name:   "decode",
			Usage:  "decode a frame stream from stdin and log each message",
			Action: decode,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func send(c *cli.Context) error {
	typ, ok := requestTypes[c.String("type")]
	if !ok {
		raw, err := strconv.ParseUint(c.String("type"), 0, 32)
		if err != nil {
			return fmt.Errorf("unknown request type %q", c.String("type"))
		}
		typ = prot.MessageIdentifier(raw)
	}

	payload := []byte(c.String("payload"))
	if !json.Valid(payload) {
		return fmt.Errorf("payload is not valid JSON: %s", payload)
	}

	msg := make([]byte, prot.MessageHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(msg[0:], uint32(typ))
	binary.LittleEndian.PutUint32(msg[4:], uint32(len(msg)))
	binary.LittleEndian.PutUint64(msg[8:], c.Uint64("id"))
	copy(msg[prot.MessageHeaderSize:], payload)

	// Opening the write side blocks until the daemon holds the read side.
	f, err := os.OpenFile(c.String("pipe"), os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("failed to open pipe %s: %s", c.String("pipe"), err)
	}
	defer f.Close()

	if _, err := f.Write(msg); err != nil {
		return fmt.Errorf("failed to write frame: %s", err)
	}
	logrus.WithFields(logrus.Fields{
		"type":  fmt.Sprintf("0x%08x", uint32(typ)),
		"id":    c.Uint64("id"),
		"bytes": len(msg),
	}).Info("frame sent")
	return nil
}

func decode(c *cli.Context) error {
	r := os.Stdin
	for {
		var hdr [prot.MessageHeaderSize]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("failed to read frame header: %s", err)
		}
		typ := binary.LittleEndian.Uint32(hdr[0:])
		size := binary.LittleEndian.Uint32(hdr[4:])
		id := binary.LittleEndian.Uint64(hdr[8:])
		if size < prot.MessageHeaderSize || size > prot.MaxMessageSize {
			return fmt.Errorf("invalid frame size %d", size)
		}
		payload := make([]byte, size-prot.MessageHeaderSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			return fmt.Errorf("failed to read frame payload: %s", err)
		}

		fields := logrus.Fields{
			"type": fmt.Sprintf("0x%08x", typ),
			"id":   id,
		}
		var body map[string]interface{}
		if err := json.Unmarshal(payload, &body); err != nil {
			// Not JSON; show it raw rather than dropping it.
			fields["payload"] = string(payload)
		} else {
			for k, v := range body {
				fields[k] = v
			}
		}
		logrus.WithFields(fields).Info("frame received")
	}
}
