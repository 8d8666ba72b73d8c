package progress

import (
	"math"
	"sync"
	"time"
)

// Stage names one pass of a run.
type Stage string

const (
	StageScan  Stage = "scan"
	StageCheck Stage = "check"
)

// Snapshot is the state of the current stage. Done and Total reset when the
// stage changes.
type Snapshot struct {
	Stage     Stage         `json:"stage"`
	Done      int           `json:"done"`
	Total     int           `json:"total"`
	Remaining int           `json:"remaining"`
	Rate      float64       `json:"rate_per_sec"`
	RateP50   float64       `json:"rate_p50"`
	ETA       time.Duration `json:"eta"`
	Warmup    bool          `json:"warmup"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Config tunes an Estimator. Zero fields take the defaults.
type Config struct {
	Alpha          float64
	WindowSize     int
	WarmupSamples  int
	NotifyInterval time.Duration
}

func DefaultConfig() Config {
	return Config{Alpha: 0.2, WindowSize: 32, WarmupSamples: 8, NotifyInterval: 200 * time.Millisecond}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Alpha > 0 && c.Alpha <= 1 {
		d.Alpha = c.Alpha
	}
	if c.WindowSize > 0 {
		d.WindowSize = c.WindowSize
	}
	if c.WarmupSamples > 0 {
		d.WarmupSamples = c.WarmupSamples
	}
	if c.NotifyInterval > 0 {
		d.NotifyInterval = c.NotifyInterval
	}
	return d
}

// meter smooths instantaneous rates.
type meter struct {
	alpha float64
	ema   float64
	win   *window
}

func (m *meter) observe(rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = 0
	}
	if m.ema == 0 {
		m.ema = rate
	} else {
		m.ema += m.alpha * (rate - m.ema)
	}
	m.win.Add(rate)
}

// median prefers the window median and falls back to the EMA.
func (m *meter) median() float64 {
	if p := m.win.Quantile(0.5); p > 0 {
		return p
	}
	return m.ema
}

// Estimator counts finished units of the current stage and estimates the
// time left from the median recent rate.
type Estimator struct {
	mu       sync.Mutex
	cfg      Config
	now      func() time.Time
	stage    Stage
	done     int
	total    int
	rates    meter
	started  time.Time
	lastTick time.Time
	lastSent time.Time
}

func NewEstimator(stage Stage, total int, cfg Config) *Estimator {
	e := &Estimator{cfg: cfg.withDefaults(), now: time.Now}
	e.reset(stage, total)
	return e
}

func (e *Estimator) reset(stage Stage, total int) {
	t := e.now()
	e.stage, e.done, e.total = stage, 0, total
	e.rates = meter{alpha: e.cfg.Alpha, win: newWindow(e.cfg.WindowSize)}
	e.started, e.lastTick, e.lastSent = t, t, t
}

// Begin switches to a new stage with its own total.
func (e *Estimator) Begin(stage Stage, total int) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset(stage, total)
	return e.snapshot(e.started)
}

// Advance records delta finished units. notify reports whether observers
// should be told, which is throttled by NotifyInterval except for the last unit.
func (e *Estimator) Advance(delta int) (snap Snapshot, notify bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t := e.now()
	if delta <= 0 {
		return e.snapshot(t), false
	}
	if t.Before(e.lastTick) {
		t = e.lastTick
	}
	elapsed := max(t.Sub(e.lastTick).Seconds(), 1e-6)
	e.done += delta
	e.rates.observe(float64(delta) / elapsed)
	e.lastTick = t

	snap = e.snapshot(t)
	if snap.Remaining == 0 || t.Sub(e.lastSent) >= e.cfg.NotifyInterval {
		e.lastSent = t
		notify = true
	}
	return snap, notify
}

func (e *Estimator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot(e.now())
}

// Complete marks the stage finished.
func (e *Estimator) Complete() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.done = max(e.done, e.total)
	return e.snapshot(e.now())
}

func (e *Estimator) snapshot(at time.Time) Snapshot {
	s := Snapshot{
		Stage:     e.stage,
		Done:      e.done,
		Total:     e.total,
		Remaining: max(e.total-e.done, 0),
		Rate:      e.rates.ema,
		RateP50:   e.rates.median(),
		Warmup:    e.done < e.cfg.WarmupSamples,
		StartedAt: e.started,
		UpdatedAt: at,
	}
	if !s.Warmup && s.Remaining > 0 && s.RateP50 > 0 {
		s.ETA = seconds(float64(s.Remaining) / s.RateP50)
	}
	return s
}

func seconds(v float64) time.Duration {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= float64(math.MaxInt64)/float64(time.Second):
		return math.MaxInt64
	}
	return time.Duration(v * float64(time.Second))
}
