package telemetry

import "gonum.org/v1/gonum/stat"

// Summary describes a whole session.
type Summary struct {
	Ticks   int
	Windows int
	Kills   int
	Fired   int
	Spawned int
	HitRate float64

	// Tick cost distribution in microseconds
	CostMean   float64
	CostStdDev float64
	CostP50    float64
	CostP95    float64
	CostP99    float64
	CostMax    float64

	// Mean enemies alive at window ends
	MeanEnemies float64
}

// Summarize computes the session summary. Counts, mean, deviation and max cover
// every recorded tick; the quantiles come from at most CostSampleSize of them.
func (r *Recorder) Summarize() Summary {
	s := Summary{Ticks: r.costs.seen, Windows: len(r.rows)}

	enemies := make([]float64, len(r.rows))
	for i, w := range r.rows {
		s.Kills += w.Kills
		s.Fired += w.Fired
		s.Spawned += w.Spawned
		enemies[i] = float64(w.Enemies)
	}
	if s.Fired > 0 {
		s.HitRate = float64(s.Kills) / float64(s.Fired)
	}
	if len(enemies) > 0 {
		s.MeanEnemies = stat.Mean(enemies, nil)
	}

	if r.costs.seen == 0 {
		return s
	}
	sorted := r.costs.sorted()

	s.CostMean = r.costs.mean
	s.CostStdDev = r.costs.stdDev()
	s.CostMax = r.costs.max
	s.CostP50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.CostP95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	s.CostP99 = stat.Quantile(0.99, stat.Empirical, sorted, nil)
	return s
}
