package transmitter

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/netmeasure/udptester/internal/config"
	"github.com/netmeasure/udptester/pkg/wire"
)

// packetRecorder keeps each Write as one datagram.
type packetRecorder struct {
	packets [][]byte
}

func (r *packetRecorder) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	r.packets = append(r.packets, buf)
	return len(p), nil
}

func testTransmitter(cfg config.Transmitter) *Transmitter {
	tx := New(cfg, io.Discard)
	tx.now = func() float64 { return 1000.0 }
	return tx
}

func TestSendLoopLossless(t *testing.T) {
	cfg := config.NewTransmitter()
	cfg.MessageSize = 450
	cfg.PacketSize = 150
	cfg.MessageCount = 10
	cfg.Interval = time.Millisecond

	sink := &packetRecorder{}
	tx := testTransmitter(cfg)
	if err := tx.sendLoop(context.Background(), sink); err != nil {
		t.Fatal(err)
	}

	if len(sink.packets) != 30 {
		t.Fatalf("packet count: got %d, want 30", len(sink.packets))
	}

	var hdr wire.Header
	for i, p := range sink.packets {
		if err := hdr.Unmarshal(p); err != nil {
			t.Fatal(err)
		}
		if hdr.MsgIndex != int32(i/3) || hdr.PacketIndex != int32(i%3) {
			t.Fatalf("packet %d: got (%d,%d)", i, hdr.MsgIndex, hdr.PacketIndex)
		}
	}
}

func TestSendLoopFullLossiness(t *testing.T) {
	cfg := config.NewTransmitter()
	cfg.MessageCount = 20
	cfg.Interval = time.Millisecond
	cfg.Lossiness = 100

	sink := &packetRecorder{}
	tx := testTransmitter(cfg)
	if err := tx.sendLoop(context.Background(), sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.packets) != 0 {
		t.Fatalf("100%% lossiness still sent %d packets", len(sink.packets))
	}
}

func TestSendLoopZeroLossinessNeverSkips(t *testing.T) {
	cfg := config.NewTransmitter()
	cfg.MessageCount = 100
	cfg.Interval = time.Microsecond

	sink := &packetRecorder{}
	tx := testTransmitter(cfg)
	if err := tx.sendLoop(context.Background(), sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.packets) != 100 {
		t.Fatalf("packet count: got %d, want 100", len(sink.packets))
	}
}

func TestSendLoopZeroInterval(t *testing.T) {
	// The original tool accepts -i 0 for full speed sending; the
	// loop must send everything without pacing, not panic.
	cfg := config.NewTransmitter()
	cfg.Address = "239.0.0.1"
	cfg.Outgoing = "192.168.2.8"
	cfg.MessageCount = 50
	cfg.Interval = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero interval rejected: %v", err)
	}

	sink := &packetRecorder{}
	tx := testTransmitter(cfg)
	if err := tx.sendLoop(context.Background(), sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.packets) != 50 {
		t.Fatalf("packet count: got %d, want 50", len(sink.packets))
	}
}

func TestSendLoopCancelled(t *testing.T) {
	cfg := config.NewTransmitter()
	cfg.MessageCount = 1000000
	cfg.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	sink := &packetRecorder{}
	tx := testTransmitter(cfg)
	if err := tx.sendLoop(ctx, sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.packets) == 0 || len(sink.packets) == cfg.MessageCount {
		t.Fatalf("cancellation did not stop mid run: %d packets", len(sink.packets))
	}
}

func TestProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := newProgressBar(&out, 10)
	for i := 1; i <= 10; i++ {
		bar.show(i)
	}
	rendered := out.String()
	if !bytes.HasSuffix(out.Bytes(), []byte("  Progress |##########|\n")) {
		t.Errorf("final bar missing: %q", rendered)
	}
}
