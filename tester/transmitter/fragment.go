package transmitter

import (
	"github.com/netmeasure/udptester/pkg/wire"
)

// Fragmenter splits logical messages into header-stamped datagrams.
type Fragmenter struct {
	messageSize int
	packetSize  int
}

func NewFragmenter(messageSize, packetSize int) *Fragmenter {
	return &Fragmenter{
		messageSize: messageSize,
		packetSize:  packetSize,
	}
}

// PacketsPerMessage is the number of datagrams one message becomes.
func (f *Fragmenter) PacketsPerMessage() int {
	return (f.messageSize + f.packetSize - 1) / f.packetSize
}

// ceilToMinPacketSize pads a chunk up to the header width, so a
// configuration smaller than the header still produces decodable
// packets.
func ceilToMinPacketSize(size int) int {
	if size < wire.MinPacketSize {
		return wire.MinPacketSize
	}
	return size
}

// Fragment builds the packets of message msgIndex. The whole message
// carries one timestamp; the last chunk may be smaller than the
// configured packet size but never smaller than the header.
func (f *Fragmenter) Fragment(msgIndex int32, timestamp float64) [][]byte {
	packets := make([][]byte, 0, f.PacketsPerMessage())

	remaining := f.messageSize
	packetIndex := int32(0)
	for remaining > 0 {
		var bufSize int
		if remaining > f.packetSize {
			bufSize = ceilToMinPacketSize(f.packetSize)
		} else {
			bufSize = ceilToMinPacketSize(remaining)
		}

		hdr := wire.Header{
			MsgIndex:    msgIndex,
			PacketIndex: packetIndex,
			Timestamp:   timestamp,
		}
		buf := make([]byte, bufSize)
		// The buffer is always at least header sized here.
		hdr.Marshal(buf)
		packets = append(packets, buf)

		remaining -= bufSize
		packetIndex++
	}

	return packets
}
