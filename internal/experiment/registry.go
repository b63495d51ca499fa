package experiment

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/oberth/internal/dynamo"
	"github.com/san-kum/oberth/internal/integrators"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = r.integrators["verlet"]
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

// GetIntegrator returns a fresh integrator. An empty name selects Verlet.
func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = "verlet"
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	return slices.Sorted(maps.Keys(r.integrators))
}
