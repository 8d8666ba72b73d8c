package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/phyten/todovet/internal/termcolor"
)

// Observer receives snapshots while a run is in progress. Done is called once
// after the last stage.
type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

type NoopObserver struct{}

func (NoopObserver) Publish(Snapshot) {}
func (NoopObserver) Done(Snapshot)    {}

// ObserverFunc adapts a function to an Observer that ignores Done.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (ObserverFunc) Done(Snapshot)        {}

type tee []Observer

// Tee forwards every snapshot to each non-nil observer in order.
func Tee(obs ...Observer) Observer {
	t := make(tee, 0, len(obs))
	for _, ob := range obs {
		if ob != nil {
			t = append(t, ob)
		}
	}
	switch len(t) {
	case 0:
		return NoopObserver{}
	case 1:
		return t[0]
	}
	return t
}

func (t tee) Publish(s Snapshot) {
	for _, ob := range t {
		ob.Publish(s)
	}
}

func (t tee) Done(s Snapshot) {
	for _, ob := range t {
		ob.Done(s)
	}
}

// ShouldShow decides whether progress is printed to w. --no-progress wins
// over --progress; without either only terminals get it.
func ShouldShow(force, no bool, w io.Writer) bool {
	switch {
	case no:
		return false
	case force:
		return true
	}
	return termcolor.IsTerminal(w)
}

// Printer writes snapshots to a stream. On a terminal it keeps rewriting one
// status line; otherwise every snapshot becomes a key=value record.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	redraw bool
}

func NewObserver(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	return &Printer{w: w, redraw: termcolor.IsTerminal(w)}
}

func (p *Printer) Publish(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.redraw {
		_, _ = io.WriteString(p.w, "\r\x1b[K"+statusLine(s))
		return
	}
	_, _ = io.WriteString(p.w, record(s)+"\n")
}

func (p *Printer) Done(Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.redraw {
		_, _ = io.WriteString(p.w, "\r\x1b[K")
	}
}

var stageUnits = map[Stage]string{
	StageScan:  "files",
	StageCheck: "todos",
}

func statusLine(s Snapshot) string {
	eta := "--:--:--"
	if !s.Warmup && s.ETA > 0 {
		eta = clock(s.ETA)
	}
	return fmt.Sprintf("[%s] %3d%% %d/%d %s ETA %s",
		s.Stage, percent(s.Done, s.Total), s.Done, s.Total, stageUnits[s.Stage], eta)
}

func record(s Snapshot) string {
	eta := -1.0
	if s.ETA > 0 {
		eta = s.ETA.Seconds()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "progress stage=%s total=%d done=%d", s.Stage, s.Total, s.Done)
	fmt.Fprintf(&b, " rate=%.3f eta=%g warmup=%t", s.Rate, eta, s.Warmup)
	b.WriteString(" updated_at=" + s.UpdatedAt.Format(time.RFC3339Nano))
	return b.String()
}

// clock renders d as hh:mm:ss, saturating at 99:59:59.
func clock(d time.Duration) string {
	secs := int64(math.Round(d.Seconds()))
	secs = min(max(secs, 0), 99*3600+59*60+59)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func percent(done, total int) int {
	if total <= 0 {
		if done > 0 {
			return 100
		}
		return 0
	}
	return min(max(done*100/total, 0), 100)
}
