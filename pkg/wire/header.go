// wire implements the fixed test packet header shared by the
// transmitter and the receiver.
// The C equivalent of the header is
//	struct udpTestHeader_s {
//	    int msgIndex;
//	    int packetIndex;
//	    double timestamp;
//	};
// All fields are little endian on the wire. Both ends must be built
// from the same header definition - a mismatch is a deployment error.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// HeaderSize is the wire size of the header: two int32 and one float64.
// It is also the minimum accepted packet and message size.
const (
	HeaderSize     = 16
	MinPacketSize  = HeaderSize
	MinMessageSize = HeaderSize
)

var ErrShortPacket = errors.New("packet shorter than header")

// Header is the fixed prefix of every test packet. Bytes beyond it
// are unspecified filler used only to reach the configured packet size.
type Header struct {
	MsgIndex    int32
	PacketIndex int32
	Timestamp   float64 // seconds since epoch, transmitter's clock
}

// Marshal writes the header into the first HeaderSize bytes of b.
func (h *Header) Marshal(b []byte) error {
	if len(b) < HeaderSize {
		return ErrShortPacket
	}
	binary.LittleEndian.PutUint32(b[0:], uint32(h.MsgIndex))
	binary.LittleEndian.PutUint32(b[4:], uint32(h.PacketIndex))
	binary.LittleEndian.PutUint64(b[8:], math.Float64bits(h.Timestamp))
	return nil
}

// Unmarshal reads the header from the first HeaderSize bytes of b.
// Trailing bytes are ignored. A buffer shorter than the header is
// a fatal condition for that packet, no partial decode is attempted.
func (h *Header) Unmarshal(b []byte) error {
	if len(b) < HeaderSize {
		return ErrShortPacket
	}
	h.MsgIndex = int32(binary.LittleEndian.Uint32(b[0:]))
	h.PacketIndex = int32(binary.LittleEndian.Uint32(b[4:]))
	h.Timestamp = math.Float64frombits(binary.LittleEndian.Uint64(b[8:]))
	return nil
}

// Now returns the current wall clock as header timestamp seconds.
func Now() float64 {
	return float64(time.Now().UnixNano()) * 1e-9
}
