// Package telemetry rolls per-tick game samples up into fixed-size windows and
// exports them.
package telemetry

import "time"

// Sample is what one tick reports.
type Sample struct {
	Tick        uint64
	Enemies     int
	Projectiles int
	Kills       int // during this tick
	Fired       int // during this tick
	Spawned     int // during this tick
	Expired     int // during this tick
	Cost        time.Duration
}

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Enemies     int `csv:"enemies"`
	Projectiles int `csv:"projectiles"`

	// Events during window
	Kills   int `csv:"kills"`
	Fired   int `csv:"fired"`
	Spawned int `csv:"spawned"`
	Expired int `csv:"expired"`

	// Hit rate is kills per projectile fired in the window, 0 when nothing was fired.
	HitRate float64 `csv:"hit_rate"`

	MeanTickCostUS float64 `csv:"tick_cost_mean_us"`
	MaxTickCostUS  float64 `csv:"tick_cost_max_us"`
}

// Recorder accumulates samples and emits a WindowStats every window ticks.
type Recorder struct {
	window int
	dt     float64

	current WindowStats
	count   int
	costSum time.Duration
	costMax time.Duration

	rows  []WindowStats
	costs costSample
	sinks []func(WindowStats) error
	err   error
}

// NewRecorder creates a recorder that closes a window every window ticks of dt seconds.
func NewRecorder(window int, dt float64) *Recorder {
	if window < 1 {
		window = 60
	}
	return &Recorder{window: window, dt: dt, costs: newCostSample()}
}

// OnWindow registers fn to receive each closed window. The first error a sink
// returns is kept and reported by Err; later windows are still recorded.
func (r *Recorder) OnWindow(fn func(WindowStats) error) {
	r.sinks = append(r.sinks, fn)
}

// Record adds one tick's sample.
func (r *Recorder) Record(s Sample) {
	if r.count == 0 {
		r.current = WindowStats{WindowStartTick: s.Tick}
		r.costSum = 0
		r.costMax = 0
	}
	r.count++

	r.current.WindowEndTick = s.Tick
	r.current.Enemies = s.Enemies
	r.current.Projectiles = s.Projectiles
	r.current.Kills += s.Kills
	r.current.Fired += s.Fired
	r.current.Spawned += s.Spawned
	r.current.Expired += s.Expired

	r.costSum += s.Cost
	r.costMax = max(r.costMax, s.Cost)
	r.costs.add(micros(s.Cost))

	if r.count == r.window {
		r.flush()
	}
}

// Flush closes a partially filled window, if any.
func (r *Recorder) Flush() {
	if r.count > 0 {
		r.flush()
	}
}

func (r *Recorder) flush() {
	w := r.current
	w.SimTimeSec = float64(w.WindowEndTick) * r.dt
	if w.Fired > 0 {
		w.HitRate = float64(w.Kills) / float64(w.Fired)
	}
	w.MeanTickCostUS = micros(r.costSum) / float64(r.count)
	w.MaxTickCostUS = micros(r.costMax)

	r.rows = append(r.rows, w)
	r.count = 0

	for _, sink := range r.sinks {
		if err := sink(w); err != nil && r.err == nil {
			r.err = err
		}
	}
}

// Windows returns every closed window so far.
func (r *Recorder) Windows() []WindowStats {
	return r.rows
}

// CostSamples returns how many tick costs are held for the quantiles.
func (r *Recorder) CostSamples() int {
	return len(r.costs.values)
}

// Err returns the first sink error.
func (r *Recorder) Err() error {
	return r.err
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
