package receiver

import (
	"fmt"
	"io"

	"github.com/netmeasure/udptester/internal/config"
	"github.com/netmeasure/udptester/pkg/latstats"
)

// Reporter emits the periodic console statistics. It runs two
// independent cadences: a raw packet-count progress line and a full
// snapshot whenever the expected message index crosses a report
// interval boundary.
type Reporter struct {
	out               io.Writer
	reportInterval    int
	packetsPerMessage int
	totalExpected     int

	reportCount      int
	nextAnalyseIndex int32
}

func NewReporter(cfg config.Receiver, out io.Writer) *Reporter {
	return &Reporter{
		out:               out,
		reportInterval:    cfg.ReportInterval,
		packetsPerMessage: cfg.PacketsPerMessage(),
		totalExpected:     cfg.TotalPacketsExpected(),
		reportCount:       cfg.ReportInterval * cfg.PacketsPerMessage(),
		nextAnalyseIndex:  int32(cfg.ReportInterval),
	}
}

// Maybe runs both cadences after one tracked packet. When a full
// snapshot is emitted, it returns the percentile rows and resets the
// tracker's reporting window; otherwise it returns nil.
func (r *Reporter) Maybe(t *Tracker) []latstats.ReportItem {
	r.reportCount--
	if r.reportCount == 0 {
		fmt.Fprintf(r.out, "received %d packets, expecting %d in total\n",
			t.TotalPackets(), r.totalExpected)
		r.reportCount = r.reportInterval * r.packetsPerMessage
	}

	expected := t.ExpectedMsgIndex()
	if expected < r.nextAnalyseIndex {
		return nil
	}

	fmt.Fprintf(r.out, "Expecting message with index %d:\n", expected)
	fmt.Fprintf(r.out, "    %5d complete messages so far.\n", t.TotalMessages())
	fmt.Fprintf(r.out, "    %5d complete messages since the last report.\n", t.SubTotalMessages())

	items := t.Samples().Reports(latstats.Percentiles)
	for _, item := range items {
		fmt.Fprintf(r.out, "    %s\n", item)
	}

	t.ResetWindow()
	r.nextAnalyseIndex = expected + int32(r.reportInterval) - expected%int32(r.reportInterval)
	return items
}

// Final prints the end of run loss and duplication summary. It runs
// on every exit path: completion, timeout and interrupt.
func (r *Reporter) Final(t *Tracker, expectedMessages int) {
	fmt.Fprintln(r.out, "Done")

	lost := 100.0 * float64(r.totalExpected-t.TotalPackets()) / float64(r.totalExpected)
	fmt.Fprintf(r.out, "Received %d packets out of %d, lost %.1f%%\n",
		t.TotalPackets(), r.totalExpected, lost)

	lost = 100.0 * float64(expectedMessages-t.TotalMessages()) / float64(expectedMessages)
	fmt.Fprintf(r.out, "Received %d complete messages out of %d, lost %.1f%%\n",
		t.TotalMessages(), expectedMessages, lost)

	fmt.Fprintf(r.out, "Received %d duplicate packets\n", t.DuplicatePackets())
}
