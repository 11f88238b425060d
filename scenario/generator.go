// Package scenario places stations on a square deployment map. Its output
// feeds presentation only; the contention model does not depend on it.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/signalsfoundry/wlan-contention/model"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMapSize is the side of the reference deployment, in metres.
const DefaultMapSize = 10.0

// ErrInvalidScenario is returned for a non-positive station count or map size.
var ErrInvalidScenario = errors.New("invalid scenario")

// Generator draws station positions from a seeded source. It is safe for
// concurrent use; draws are serialised on the shared source.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with seed. Equal seeds produce
// equal placements.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// GeneratePositions returns count stations drawn independently and uniformly
// from [0,mapSize]^2, with the access point at the centre of the map.
func (g *Generator) GeneratePositions(count int, mapSize float64) (model.StationPlacement, error) {
	if count < 1 {
		return model.StationPlacement{}, fmt.Errorf("%w: station count must be >= 1, got %d", ErrInvalidScenario, count)
	}
	if math.IsNaN(mapSize) || math.IsInf(mapSize, 0) || mapSize <= 0 {
		return model.StationPlacement{}, fmt.Errorf("%w: map size must be > 0, got %v", ErrInvalidScenario, mapSize)
	}

	axis := distuv.Uniform{Min: 0, Max: mapSize}
	stations := make([]model.Position, count)

	g.mu.Lock()
	for i := range stations {
		stations[i] = model.Position{
			X: axis.Quantile(g.rng.Float64()),
			Y: axis.Quantile(g.rng.Float64()),
		}
	}
	g.mu.Unlock()

	return model.StationPlacement{
		MapSize:     mapSize,
		AccessPoint: AccessPoint(mapSize),
		Stations:    stations,
	}, nil
}

// AccessPoint returns the access point location for a map of the given size.
func AccessPoint(mapSize float64) model.Position {
	return model.Position{X: mapSize / 2, Y: mapSize / 2}
}
