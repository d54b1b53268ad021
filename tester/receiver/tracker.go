package receiver

import (
	"github.com/netmeasure/udptester/internal/config"
	"github.com/netmeasure/udptester/internal/logger"
	"github.com/netmeasure/udptester/pkg/latstats"
	"github.com/netmeasure/udptester/pkg/wire"
)

// Tracker reconstructs per-message completeness from packets in
// arrival order. Completeness is tracked with a single incomplete
// flag per message, not a per-fragment bitmap: it detects that some
// fragment is missing, not which one, in O(1) state per packet.
type Tracker struct {
	expectedCount     int32
	packetsPerMessage int32
	quiet             bool

	expectedMsgIndex    int32
	expectedPacketIndex int32
	msgIncomplete       bool

	totalPackets     int
	totalMessages    int
	subTotalMessages int
	duplicatePackets int

	// Receive count per (message, fragment) cell. Sized once from
	// configuration, never grown.
	tally []uint32

	samples *latstats.Store
	now     func() float64
}

// Observation is the outcome of accounting one packet.
type Observation struct {
	Duplicate bool
	Completed bool    // terminal fragment arrived and the message was whole
	Latency   float64 // microseconds, valid when Completed
}

func NewTracker(cfg config.Receiver) *Tracker {
	ppm := cfg.PacketsPerMessage()
	return &Tracker{
		expectedCount:     int32(cfg.MessageCount),
		packetsPerMessage: int32(ppm),
		quiet:             cfg.Quiet,
		tally:             make([]uint32, cfg.MessageCount*ppm),
		samples:           latstats.NewStore(cfg.ReportInterval),
		now:               wire.Now,
	}
}

// Observe runs one state machine transition for a decoded packet.
func (t *Tracker) Observe(h wire.Header) Observation {
	var obs Observation

	// Duplicate and range accounting. Out of range indices bypass
	// the tally but still run the gap logic and packet counters.
	var count uint32
	if h.MsgIndex >= 0 && h.MsgIndex < t.expectedCount &&
		h.PacketIndex >= 0 && h.PacketIndex < t.packetsPerMessage {
		cell := &t.tally[int(h.MsgIndex)*int(t.packetsPerMessage)+int(h.PacketIndex)]
		*cell++
		count = *cell
		if count > 1 {
			t.duplicatePackets++
			obs.Duplicate = true
		}
	}

	// Gap detection. A mismatch means the stream skipped or
	// reordered; resynchronize on the received message. A packet
	// that is not its message's first fragment means that message
	// already lost one.
	if h.MsgIndex != t.expectedMsgIndex || h.PacketIndex != t.expectedPacketIndex {
		if !t.quiet {
			logger.Warning().Printf("%sexpected msgIndex %d and packetIndex %d, received msgIndex %d and packetIndex %d with count %d",
				pkgName, t.expectedMsgIndex, t.expectedPacketIndex, h.MsgIndex, h.PacketIndex, count)
		}
		t.expectedMsgIndex = h.MsgIndex
		t.msgIncomplete = h.PacketIndex != 0
	}

	if h.PacketIndex == t.packetsPerMessage-1 {
		// Terminal fragment. The message counts as complete only if
		// no gap was seen since its first fragment.
		t.expectedMsgIndex++
		t.expectedPacketIndex = 0
		if t.msgIncomplete {
			t.msgIncomplete = false
		} else {
			t.totalMessages++
			t.subTotalMessages++
			obs.Completed = true
			obs.Latency = (t.now() - h.Timestamp) * 1e6
			t.samples.Append(obs.Latency)
		}
	} else {
		t.expectedPacketIndex = h.PacketIndex + 1
	}

	t.totalPackets++
	return obs
}

// Done reports whether all expected messages are accounted for,
// complete or not.
func (t *Tracker) Done() bool {
	return t.expectedMsgIndex >= t.expectedCount
}

func (t *Tracker) ExpectedMsgIndex() int32 {
	return t.expectedMsgIndex
}

func (t *Tracker) TotalPackets() int {
	return t.totalPackets
}

func (t *Tracker) TotalMessages() int {
	return t.totalMessages
}

func (t *Tracker) SubTotalMessages() int {
	return t.subTotalMessages
}

func (t *Tracker) DuplicatePackets() int {
	return t.duplicatePackets
}

// Samples is the latency store of the current reporting window.
func (t *Tracker) Samples() *latstats.Store {
	return t.samples
}

// ResetWindow clears the since-last-report counters and samples.
func (t *Tracker) ResetWindow() {
	t.subTotalMessages = 0
	t.samples.Reset()
}
