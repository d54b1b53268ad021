// transmitter emits sequenced, timestamped test messages over a
// multicast group at a configured pace.
package transmitter

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/netmeasure/udptester/internal/config"
	"github.com/netmeasure/udptester/internal/logger"
	"github.com/netmeasure/udptester/pkg/mcast"
	"github.com/netmeasure/udptester/pkg/wire"
)

const pkgName = "Transmitter. "

type Transmitter struct {
	cfg     config.Transmitter
	console io.Writer
	rnd     *rand.Rand
	now     func() float64
}

func New(cfg config.Transmitter, console io.Writer) *Transmitter {
	return &Transmitter{
		cfg:     cfg,
		console: console,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     wire.Now,
	}
}

func (t *Transmitter) banner() {
	fmt.Fprintf(t.console, `
    address is set to       %s
    messagesize is set to   %d bytes
    interval is set to      %d milliseconds
    totalcount is set to    %d
    port is set to          %d
    packetsize is set to    %d bytes
    outgoing is set to      %s
    lossiness is set to     %d%%
`,
		t.cfg.Address, t.cfg.MessageSize, t.cfg.Interval.Milliseconds(),
		t.cfg.MessageCount, t.cfg.Port, t.cfg.PacketSize,
		t.cfg.Outgoing, t.cfg.Lossiness)
}

// skipPacket decides whether to drop one packet when lossiness is
// configured. 0 never drops, 100 always drops.
func (t *Transmitter) skipPacket() bool {
	return t.cfg.Lossiness > 0 && t.rnd.Intn(100) < t.cfg.Lossiness
}

// Run opens the multicast socket and sends the configured message
// count, then closes the socket on every exit path.
func (t *Transmitter) Run(ctx context.Context) error {
	group, err := config.ParseMulticastAddress(t.cfg.Address)
	if err != nil {
		return err
	}
	outgoing, err := config.ParseInterfaceAddress(t.cfg.Outgoing)
	if err != nil {
		return err
	}

	conn, err := mcast.Dial(group, t.cfg.Port, outgoing, t.cfg.TTL)
	if err != nil {
		return fmt.Errorf("transmitter socket: %w", err)
	}
	defer conn.Close()

	t.banner()
	return t.sendLoop(ctx, conn)
}

// sendLoop writes each fragment of each message as one datagram.
// The sink is the connected multicast socket in production and a
// recording writer in tests.
func (t *Transmitter) sendLoop(ctx context.Context, sink io.Writer) error {
	frag := NewFragmenter(t.cfg.MessageSize, t.cfg.PacketSize)
	progress := newProgressBar(t.console, t.cfg.MessageCount)

	fmt.Fprintf(t.console, "  Sending %d messages now...\n", t.cfg.MessageCount)

	// A zero interval means full speed: no ticker, just a
	// cancellation check between messages.
	var pace <-chan time.Time
	if t.cfg.Interval > 0 {
		pacing := time.NewTicker(t.cfg.Interval)
		defer pacing.Stop()
		pace = pacing.C
	}

	for i := 0; i < t.cfg.MessageCount; i++ {
		for _, packet := range frag.Fragment(int32(i), t.now()) {
			// In case of lossiness, randomly skip sending the packet.
			// The packet index advances anyway, so receiver side gaps
			// are genuine.
			if t.skipPacket() {
				continue
			}
			if _, err := sink.Write(packet); err != nil {
				return fmt.Errorf("sending packet: %w", err)
			}
		}
		progress.show(i + 1)

		if pace == nil {
			if ctx.Err() != nil {
				logger.Info().Println(pkgName, "interrupted after", i+1, "messages")
				return nil
			}
			continue
		}
		select {
		case <-pace:
		case <-ctx.Done():
			logger.Info().Println(pkgName, "interrupted after", i+1, "messages")
			return nil
		}
	}
	return nil
}
