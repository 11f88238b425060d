package model

import "math"

// Position is a point on the deployment map, in metres.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Position) DistanceTo(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// StationPlacement is a square deployment of side MapSize with the access
// point at its centre. The contention model never reads it.
type StationPlacement struct {
	MapSize     float64    `json:"map_size"`
	AccessPoint Position   `json:"access_point"`
	Stations    []Position `json:"stations"`
}

// Len returns the number of placed stations.
func (s StationPlacement) Len() int { return len(s.Stations) }
