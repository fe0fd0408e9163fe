package render

import (
	"fmt"
	"math"
)

// Mode selects the avatar algorithm.
type Mode string

// Supported modes.
const (
	ModeGrid       Mode = "grid"
	ModeVoronoiEuc Mode = "voronoi-euc"
	ModeVoronoiMan Mode = "voronoi-man"
)

// DefaultMode is the mode used when none is requested.
const DefaultMode = ModeVoronoiEuc

// Modes lists every supported mode in presentation order.
var Modes = []Mode{ModeGrid, ModeVoronoiEuc, ModeVoronoiMan}

// ParseMode converts a mode name. An empty name selects [DefaultMode].
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return DefaultMode, nil
	}
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode: %q (must be one of: grid, voronoi-euc, voronoi-man)", s)
}

// IsVoronoi reports whether m renders a Voronoi diagram.
func (m Mode) IsVoronoi() bool {
	return m == ModeVoronoiEuc || m == ModeVoronoiMan
}

// Metric returns the distance metric used by a Voronoi mode.
func (m Mode) Metric() Metric {
	if m == ModeVoronoiMan {
		return Manhattan
	}
	return Euclidean
}

// Next returns the mode after m in [Modes], wrapping around.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return DefaultMode
}

func (m Mode) String() string { return string(m) }

// Metric measures the distance between a pixel and a seed point.
type Metric int

// Supported metrics.
const (
	Euclidean Metric = iota
	Manhattan
)

// Distance returns the distance between (x1, y1) and (x2, y2).
func (d Metric) Distance(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	if d == Manhattan {
		return math.Abs(dx) + math.Abs(dy)
	}
	return math.Sqrt(dx*dx + dy*dy)
}

func (d Metric) String() string {
	if d == Manhattan {
		return "manhattan"
	}
	return "euclidean"
}
