package saga

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
)

// Step is one compensable unit of a cross-store operation. Compensate is
// optional; steps with observable side effects should provide one.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Run executes the steps in order. On failure it runs the compensations of
// every completed step in reverse and returns the original failure, with
// any compensation failures appended. Compensation errors never mask the
// step error.
func Run(ctx context.Context, logg *logger.Logger, steps []Step) error {
	for i, step := range steps {
		err := step.Run(ctx)
		if err == nil {
			continue
		}

		failure := fmt.Errorf("step %s: %w", step.Name, err)
		if logg != nil {
			logg.Error(ctx, fmt.Sprintf("saga step %s failed, compensating", step.Name), err)
		}

		for j := i - 1; j >= 0; j-- {
			if steps[j].Compensate == nil {
				continue
			}
			if compErr := steps[j].Compensate(ctx); compErr != nil {
				failure = multierr.Append(failure, fmt.Errorf("compensate %s: %w", steps[j].Name, compErr))
				if logg != nil {
					logg.Error(ctx, fmt.Sprintf("saga compensation %s failed", steps[j].Name), compErr)
				}
			}
		}
		return failure
	}
	return nil
}
