// Package experiment assembles a configured driver from model and
// method names, and runs it over a report schedule.
package experiment

import (
	"fmt"
	"sort"

	"github.com/renyard/dynstep/internal/config"
	"github.com/renyard/dynstep/internal/driver"
	"github.com/renyard/dynstep/internal/dyn"
	"github.com/renyard/dynstep/internal/methods"
	"github.com/renyard/dynstep/internal/models"
	"github.com/renyard/dynstep/internal/project"
)

// Setup is one runnable problem: a system, its initial state and,
// for constrained systems, the projector to use.
type Setup struct {
	System    dyn.System
	Projector dyn.Projector
	Initial   *dyn.State
}

type Registry struct {
	models  map[string]func(cfg *config.Config) *Setup
	methods *methods.Registry
}

func NewRegistry() *Registry {
	r := &Registry{
		models:  make(map[string]func(cfg *config.Config) *Setup),
		methods: methods.NewRegistry(),
	}

	r.models["decay"] = func(cfg *config.Config) *Setup {
		m := models.NewDecay(1.0, cfg.Accuracy)
		return &Setup{System: m, Initial: m.InitialState(cfg.InitState.Z)}
	}
	r.models["oscillator"] = func(cfg *config.Config) *Setup {
		m := models.NewOscillator(1.0, cfg.Accuracy)
		return &Setup{System: m, Initial: m.InitialState(cfg.InitState.Theta, cfg.InitState.Omega)}
	}
	r.models["pendulum"] = func(cfg *config.Config) *Setup {
		m := models.NewPendulum()
		m.Acc = cfg.Accuracy
		m.ConsTol = cfg.ConstraintTol
		return &Setup{
			System:    m,
			Projector: project.NewNewton(m),
			Initial:   m.InitialState(cfg.InitState.Theta),
		}
	}
	return r
}

func (r *Registry) GetSetup(cfg *config.Config) (*Setup, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", cfg.Model)
	}
	return fn(cfg), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListMethods() []string { return r.methods.List() }

// BuildDriver wires a full driver from the configuration.
func (r *Registry) BuildDriver(cfg *config.Config) (*driver.Driver, error) {
	setup, err := r.GetSetup(cfg)
	if err != nil {
		return nil, err
	}
	m, err := r.methods.Get(cfg.Method)
	if err != nil {
		return nil, err
	}
	opts := driver.DefaultOptions()
	opts.InitialStepSize = cfg.InitialStep
	if cfg.MinStep > 0 {
		opts.MinStepSize = cfg.MinStep
	}
	opts.MaxStepSize = cfg.MaxStep
	opts.FinalTime = cfg.Duration
	opts.ProjectEveryStep = cfg.ProjectEveryStep
	return driver.New(setup.System, setup.Projector, m, setup.Initial, opts)
}
