// config holds the session configuration for both tester roles.
// It is resolved once at startup and immutable afterwards.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/netmeasure/udptester/pkg/wire"
)

const pkgName = "UdpTesterConfig. "

// Defaults shared with the historical tool, so mixed deployments see
// the same traffic.
const (
	DefaultPort           = 10350
	DefaultMessageSize    = 100
	DefaultPacketSize     = 1300
	DefaultMessageCount   = 1000
	DefaultReportInterval = 100
	DefaultReceiveBuffer  = 120000
	DefaultInterval       = 20 * time.Millisecond
	DefaultMulticastTTL   = 64
)

// Receive timeouts. The initial one tolerates a transmitter that has
// not been started yet; once traffic flows the shorter one applies.
const (
	ReceiveTimeout        = 10 * time.Second
	ReceiveTimeoutInitial = 100 * time.Second
)

// Transmitter is the session configuration of the sending role.
type Transmitter struct {
	Address      string        // multicast group to send to
	Outgoing     string        // local interface address to send from
	Port         int
	MessageSize  int           // bytes per logical message
	PacketSize   int           // bytes per datagram
	MessageCount int           // messages to send
	Interval     time.Duration // pause between messages
	Lossiness    int           // percentage of packets to skip, 0..100
	TTL          int
}

// Receiver is the session configuration of the receiving role.
type Receiver struct {
	Address        string // multicast group to join
	Interface      string // local interface address to join on, empty for any
	Port           int
	MessageSize    int
	PacketSize     int
	MessageCount   int // messages expected
	ReportInterval int // messages per statistics report
	ReceiveBuffer  int // kernel receive buffer, bytes
	Quiet          bool
}

// NewTransmitter returns a transmitter configuration with defaults.
func NewTransmitter() Transmitter {
	return Transmitter{
		Port:         DefaultPort,
		MessageSize:  DefaultMessageSize,
		PacketSize:   DefaultPacketSize,
		MessageCount: DefaultMessageCount,
		Interval:     DefaultInterval,
		TTL:          DefaultMulticastTTL,
	}
}

// NewReceiver returns a receiver configuration with defaults.
func NewReceiver() Receiver {
	return Receiver{
		Port:           DefaultPort,
		MessageSize:    DefaultMessageSize,
		PacketSize:     DefaultPacketSize,
		MessageCount:   DefaultMessageCount,
		ReportInterval: DefaultReportInterval,
		ReceiveBuffer:  DefaultReceiveBuffer,
	}
}

// ParseMulticastAddress validates a multicast group address string.
// It must be a dotted quad in the 224.0.0.0 - 239.255.255.255 range.
func ParseMulticastAddress(address string) (net.IP, error) {
	ip := net.ParseIP(address)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%q is not a valid IPv4 address", address)
	}
	ip = ip.To4()
	if ip[0] < 224 || ip[0] > 239 {
		return nil, fmt.Errorf("%q is outside the multicast range 224.0.0.0 - 239.255.255.255", address)
	}
	return ip, nil
}

// ParseInterfaceAddress validates a local interface address string.
func ParseInterfaceAddress(address string) (net.IP, error) {
	ip := net.ParseIP(address)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%q is not a valid IPv4 interface address", address)
	}
	return ip.To4(), nil
}

func checkSizes(messageSize, packetSize, count int) error {
	// A message smaller than the header is fine: the fragmenter
	// pads every chunk up to the header width.
	if messageSize < 1 {
		return fmt.Errorf("message size %d must be positive", messageSize)
	}
	if packetSize < wire.MinPacketSize {
		return fmt.Errorf("packet size %d is below the minimum %d", packetSize, wire.MinPacketSize)
	}
	if count < 1 {
		return fmt.Errorf("message count %d must be positive", count)
	}
	return nil
}

// Validate checks the transmitter configuration before any socket IO.
func (c *Transmitter) Validate() error {
	if _, err := ParseMulticastAddress(c.Address); err != nil {
		return err
	}
	if c.Outgoing == "" {
		return fmt.Errorf("outgoing interface address is required")
	}
	if _, err := ParseInterfaceAddress(c.Outgoing); err != nil {
		return err
	}
	if err := checkSizes(c.MessageSize, c.PacketSize, c.MessageCount); err != nil {
		return err
	}
	if c.Lossiness < 0 || c.Lossiness > 100 {
		return fmt.Errorf("lossiness %d%% is outside 0-100", c.Lossiness)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval %v must not be negative", c.Interval)
	}
	return nil
}

// Validate checks the receiver configuration before any socket IO.
func (c *Receiver) Validate() error {
	if _, err := ParseMulticastAddress(c.Address); err != nil {
		return err
	}
	if c.Interface != "" {
		if _, err := ParseInterfaceAddress(c.Interface); err != nil {
			return err
		}
	}
	if err := checkSizes(c.MessageSize, c.PacketSize, c.MessageCount); err != nil {
		return err
	}
	if c.ReportInterval < 1 {
		return fmt.Errorf("report interval %d must be positive", c.ReportInterval)
	}
	return nil
}

// PacketsPerMessage is the fragment count of one message.
func (c *Receiver) PacketsPerMessage() int {
	return (c.MessageSize + c.PacketSize - 1) / c.PacketSize
}

// TotalPacketsExpected is the packet count of a loss-free session.
func (c *Receiver) TotalPacketsExpected() int {
	return c.PacketsPerMessage() * c.MessageCount
}
