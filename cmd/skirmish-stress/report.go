package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/shooter"
	"github.com/plus3/skirmish/telemetry"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Report struct {
	// Configuration
	Ticks    int
	TimeStep time.Duration
	Policy   string
	GridCell float32

	// Results
	Completed      uint64
	WallTime       time.Duration
	SimTime        time.Duration
	Score          shooter.Score
	Summary        telemetry.Summary
	Systems        []ecs.SystemStats
	Entities       int
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

// Speedup is simulated time over wall time.
func (r *Report) Speedup() float64 {
	if r.WallTime <= 0 {
		return 0
	}
	return r.SimTime.Seconds() / r.WallTime.Seconds()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Skirmish Stress Report

## Configuration
- **Ticks Requested:** {{num .Ticks}}
- **Time Step:** {{.TimeStep}}
- **Collision Policy:** {{.Policy}}{{if gt .GridCell 0.0}} (grid cell {{.GridCell}}){{else}} (naive scan){{end}}

## Session
- **Ticks Completed:** {{num .Completed}}
- **Simulated Time:** {{.SimTime}}
- **Wall Time:** {{.WallTime}} ({{printf "%.1f" .Speedup}}x real time)
- **Fired / Kills / Expired:** {{num .Score.Fired}} / {{num .Score.Kills}} / {{num .Score.Expired}}
- **Enemies Spawned:** {{num .Score.Spawned}}
- **Hit Rate:** {{printf "%.3f" .Summary.HitRate}}
- **Mean Enemies Alive:** {{printf "%.1f" .Summary.MeanEnemies}}
- **Entities At End:** {{num .Entities}}

## Tick Cost (µs)
- **Mean:** {{printf "%.2f" .Summary.CostMean}} (σ {{printf "%.2f" .Summary.CostStdDev}})
- **p50 / p95 / p99:** {{printf "%.2f" .Summary.CostP50}} / {{printf "%.2f" .Summary.CostP95}} / {{printf "%.2f" .Summary.CostP99}}
- **Max:** {{printf "%.2f" .Summary.CostMax}}

## Systems
| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{num .ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{num .MemStatsStart.HeapAlloc}} (start) -> {{num .MemStatsEnd.HeapAlloc}} (end) -> delta: {{num (bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc)}}
- Total Alloc:    {{num .MemStatsStart.TotalAlloc}} (start) -> {{num .MemStatsEnd.TotalAlloc}} (end) -> delta: {{num (bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc)}}
- Sys Memory:     {{num .MemStatsStart.Sys}} (start) -> {{num .MemStatsEnd.Sys}} (end) -> delta: {{num (bsub .MemStatsEnd.Sys .MemStatsStart.Sys)}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}`

	printer := message.NewPrinter(language.English)
	fm := template.FuncMap{
		"num": func(v any) string {
			return printer.Sprintf("%d", v)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
