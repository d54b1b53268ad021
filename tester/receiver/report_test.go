package receiver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/netmeasure/udptester/pkg/wire"
)

func TestReporterSnapshotCadence(t *testing.T) {
	cfg := testConfig(6, 100, 1300) // 1 fragment per message
	cfg.ReportInterval = 2

	var out bytes.Buffer
	tr := NewTracker(cfg)
	rep := NewReporter(cfg, &out)

	snapshots := 0
	for m := int32(0); m < 6; m++ {
		tr.Observe(wire.Header{MsgIndex: m, PacketIndex: 0})
		if items := rep.Maybe(tr); items != nil {
			snapshots++
			if len(items) != 4 {
				t.Errorf("percentile rows: got %d, want 4", len(items))
			}
			// Window counters must reset after each snapshot.
			if tr.SubTotalMessages() != 0 || tr.Samples().Len() != 0 {
				t.Error("window not reset after snapshot")
			}
		}
	}

	if snapshots != 3 {
		t.Errorf("snapshots: got %d, want 3", snapshots)
	}

	text := out.String()
	if !strings.Contains(text, "Expecting message with index 2:") {
		t.Errorf("missing snapshot header:\n%s", text)
	}
	if !strings.Contains(text, "complete messages since the last report.") {
		t.Errorf("missing window counter line:\n%s", text)
	}
}

func TestReporterPacketProgressCadence(t *testing.T) {
	cfg := testConfig(10, 300, 150) // 2 fragments per message
	cfg.ReportInterval = 2          // progress line every 4 packets

	var out bytes.Buffer
	tr := NewTracker(cfg)
	rep := NewReporter(cfg, &out)

	for m := int32(0); m < 4; m++ {
		for p := int32(0); p < 2; p++ {
			tr.Observe(wire.Header{MsgIndex: m, PacketIndex: p})
			rep.Maybe(tr)
		}
	}

	progress := strings.Count(out.String(), "received 4 packets, expecting 20 in total") +
		strings.Count(out.String(), "received 8 packets, expecting 20 in total")
	if progress != 2 {
		t.Errorf("progress lines: got %d, want 2\n%s", progress, out.String())
	}
}

func TestReporterFinalSummary(t *testing.T) {
	cfg := testConfig(4, 100, 1300)

	var out bytes.Buffer
	tr := NewTracker(cfg)
	rep := NewReporter(cfg, &out)

	// 3 of 4 messages arrive.
	for m := int32(0); m < 3; m++ {
		tr.Observe(wire.Header{MsgIndex: m, PacketIndex: 0})
		rep.Maybe(tr)
	}
	rep.Final(tr, cfg.MessageCount)

	text := out.String()
	for _, want := range []string{
		"Done\n",
		"Received 3 packets out of 4, lost 25.0%",
		"Received 3 complete messages out of 4, lost 25.0%",
		"Received 0 duplicate packets",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("final summary missing %q:\n%s", want, text)
		}
	}
}
