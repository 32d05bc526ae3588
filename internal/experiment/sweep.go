package experiment

import (
	"context"
	"sync"

	"github.com/renyard/dynstep/internal/config"
)

// Sweep runs the same problem at several accuracy targets, one driver
// per target. Drivers are independent, so the runs proceed
// concurrently.
type Sweep struct {
	reg        *Registry
	accuracies []float64
}

func NewSweep(reg *Registry, accuracies []float64) *Sweep {
	return &Sweep{reg: reg, accuracies: accuracies}
}

func (s *Sweep) Accuracies() []float64 { return s.accuracies }

// Run returns one Result per accuracy, in the same order. The first
// failure wins; partial results are discarded.
func (s *Sweep) Run(ctx context.Context, cfg *config.Config) ([]*Result, error) {
	results := make([]*Result, len(s.accuracies))
	errs := make([]error, len(s.accuracies))

	var wg sync.WaitGroup
	for i, acc := range s.accuracies {
		wg.Add(1)
		go func(idx int, acc float64) {
			defer wg.Done()

			cfgCopy := *cfg
			cfgCopy.Accuracy = acc

			d, err := s.reg.BuildDriver(&cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = Run(ctx, d, &cfgCopy)
		}(i, acc)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
