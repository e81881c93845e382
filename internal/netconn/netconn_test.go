package netconn

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gosuda/silkbridge/internal/wire"
)

func TestNetConnectionSendAndReceive(t *testing.T) {
	local, remote := net.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nc := Wrap(ctx, local)
	defer nc.Close()

	id := wire.New().WithKind(wire.KindGame).WithOperation(7)
	msg, err := wire.NewMessage(id, []byte("ping"))
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	// Peer writes directly to the raw pipe; NetConnection's inbound loop
	// must frame it into Take().
	out := make([]byte, msg.Header.MessageSize())
	msg.Encode(out)
	go func() {
		remote.Write(out)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := nc.Take(); ok {
			if got.Header.ID != id || string(got.Data) != "ping" {
				t.Fatalf("unexpected message: %+v", got)
			}
			goto sendBack
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for inbound message")

sendBack:
	nc.Put(msg)

	buf := make([]byte, msg.Header.MessageSize())
	remote.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := readFull(remote, buf); err != nil {
		t.Fatalf("reading outbound bytes: %v", err)
	}
	decoded, _, err := wire.DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded.Header.ID != id || string(decoded.Data) != "ping" {
		t.Fatalf("unexpected outbound message: %+v", decoded)
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
