// Package report renders station placements and contention model results.
// It consumes plain values and never calls back into the model.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/signalsfoundry/wlan-contention/model"
)

// ErrNothingToPresent is returned for an input with no stations.
var ErrNothingToPresent = errors.New("nothing to present")

// Input carries everything a presenter renders for one run.
type Input struct {
	RunID     string
	Placement model.StationPlacement
	Result    model.PerformanceResult
	// Sweep holds optional extra evaluations, one per contention window.
	Sweep []model.PerformanceResult
}

// NewInput stamps a fresh run ID on the placement and result.
func NewInput(placement model.StationPlacement, result model.PerformanceResult, sweep []model.PerformanceResult) Input {
	return Input{
		RunID:     uuid.NewString(),
		Placement: placement,
		Result:    result,
		Sweep:     sweep,
	}
}

func (in Input) validate() error {
	if in.Placement.Len() == 0 {
		return fmt.Errorf("%w: placement has no stations", ErrNothingToPresent)
	}
	return nil
}

// Presenter renders one run.
type Presenter interface {
	Present(ctx context.Context, in Input) error
}

// Multi fans a run out to several presenters, stopping at the first error.
type Multi []Presenter

// Present implements Presenter.
func (m Multi) Present(ctx context.Context, in Input) error {
	for _, p := range m {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Present(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
