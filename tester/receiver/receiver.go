// receiver joins the multicast group, verifies sequence continuity of
// the test stream and reports loss and latency statistics.
package receiver

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/netmeasure/udptester/internal/config"
	"github.com/netmeasure/udptester/internal/logger"
	"github.com/netmeasure/udptester/pkg/mcast"
	"github.com/netmeasure/udptester/pkg/waitset"
	"github.com/netmeasure/udptester/pkg/wire"
	"github.com/netmeasure/udptester/tester/exporter"
)

const pkgName = "Receiver. "

// packetSource is the receive side of the socket. *net.UDPConn
// satisfies it; tests substitute a scripted source.
type packetSource interface {
	ReadFromUDP(b []byte) (int, *net.UDPAddr, error)
}

// readinessWaiter reports when the source has data, bounded by a
// timeout and interruptible through ctx.
type readinessWaiter interface {
	Wait(ctx context.Context, timeout time.Duration) (bool, error)
}

type Receiver struct {
	cfg     config.Receiver
	console io.Writer
	metrics *exporter.Metrics // may be nil
}

func New(cfg config.Receiver, console io.Writer, metrics *exporter.Metrics) *Receiver {
	return &Receiver{
		cfg:     cfg,
		console: console,
		metrics: metrics,
	}
}

func (r *Receiver) banner() {
	fmt.Fprintf(r.console, `
    messagesize is set to   %d bytes
    totalcount is set to    %d
    port is set to          %d
    packetsize is set to    %d bytes
    receivebuffer is set to %d bytes
    joinaddress is set to   %s
    quiet is set to         %v
`,
		r.cfg.MessageSize, r.cfg.MessageCount, r.cfg.Port,
		r.cfg.PacketSize, r.cfg.ReceiveBuffer, r.cfg.Address, r.cfg.Quiet)
}

// Run joins the group and consumes packets until all expected
// messages are accounted for, the wait times out or ctx is
// cancelled. The final summary is printed and the socket closed on
// every exit path.
func (r *Receiver) Run(ctx context.Context) error {
	group, err := config.ParseMulticastAddress(r.cfg.Address)
	if err != nil {
		return err
	}
	var ifaceAddr net.IP
	if r.cfg.Interface != "" {
		ifaceAddr, err = config.ParseInterfaceAddress(r.cfg.Interface)
		if err != nil {
			return err
		}
	}

	conn, err := mcast.Listen(group, r.cfg.Port, ifaceAddr, r.cfg.ReceiveBuffer)
	if err != nil {
		return fmt.Errorf("receiver socket: %w", err)
	}
	defer conn.Close()

	ws, err := waitset.New(conn)
	if err != nil {
		return fmt.Errorf("receiver waitset: %w", err)
	}

	r.banner()
	return r.receiveLoop(ctx, ws, conn)
}

func (r *Receiver) receiveLoop(ctx context.Context, ws readinessWaiter, src packetSource) error {
	tracker := NewTracker(r.cfg)
	reporter := NewReporter(r.cfg, r.console)

	bufSize := r.cfg.PacketSize
	if bufSize < wire.MinPacketSize {
		bufSize = wire.MinPacketSize
	}
	buf := make([]byte, bufSize)

	fmt.Fprintf(r.console, "  Waiting for %d messages now...\n", r.cfg.MessageCount)

	timeout := config.ReceiveTimeoutInitial
	for !tracker.Done() {
		ready, err := ws.Wait(ctx, timeout)
		if err != nil {
			logger.Info().Println(pkgName, "interrupted whilst waiting for packets")
			break
		}
		if !ready {
			logger.Warning().Printf("%stimed out after %v whilst waiting for packets", pkgName, timeout)
			break
		}

		n, _, err := src.ReadFromUDP(buf)
		if err != nil {
			return fmt.Errorf("receiving packet: %w", err)
		}

		var hdr wire.Header
		if err := hdr.Unmarshal(buf[:n]); err != nil {
			return fmt.Errorf("decoding packet of %d bytes: %w", n, err)
		}

		obs := tracker.Observe(hdr)
		r.metrics.ObservePacket(n, obs.Duplicate)
		if obs.Completed {
			r.metrics.ObserveMessage()
		}

		if items := reporter.Maybe(tracker); items != nil {
			r.metrics.SetReportMeanLatency(items[0].Average)
		}

		timeout = config.ReceiveTimeout
	}

	reporter.Final(tracker, r.cfg.MessageCount)
	return nil
}
