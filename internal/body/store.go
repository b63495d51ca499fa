// Package body holds the per-body state of a simulation and hands out
// opaque handles for reading it back.
//
// A [Store] is an indexed array of [Body] values. Bodies are never removed,
// so a [Handle] stays valid for the lifetime of the store that issued it.
// Handles carry the id of their store and are rejected by any other store.
package body

import (
	"fmt"
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a point mass. Radius is geometric only and never enters the
// force computation. Acceleration is derived state written by the engine.
type Body struct {
	Position     r3.Vec
	Velocity     r3.Vec
	Acceleration r3.Vec
	Mass         float64
	Radius       float64
}

// Handle identifies one body within one store.
type Handle struct {
	store uint64
	index int
}

func (h Handle) String() string {
	return fmt.Sprintf("body(%d:%d)", h.store, h.index)
}

var storeIDs atomic.Uint64

type Store struct {
	id     uint64
	bodies []Body
}

func NewStore() *Store {
	return &Store{id: storeIDs.Add(1)}
}

// Create appends a body with zero acceleration.
func (s *Store) Create(pos, vel r3.Vec, mass, radius float64) (Handle, error) {
	if !finite(mass) || mass <= 0 {
		return Handle{}, fmt.Errorf("%w: got %g", ErrInvalidMass, mass)
	}
	if !finite(radius) || radius < 0 {
		return Handle{}, fmt.Errorf("%w: got %g", ErrInvalidRadius, radius)
	}
	if !FiniteVec(pos) {
		return Handle{}, fmt.Errorf("%w: position %v", ErrInvalidVector, pos)
	}
	if !FiniteVec(vel) {
		return Handle{}, fmt.Errorf("%w: velocity %v", ErrInvalidVector, vel)
	}

	s.bodies = append(s.bodies, Body{
		Position: pos,
		Velocity: vel,
		Mass:     mass,
		Radius:   radius,
	})
	return Handle{store: s.id, index: len(s.bodies) - 1}, nil
}

func (s *Store) lookup(h Handle) (*Body, error) {
	if h.store != s.id || h.index < 0 || h.index >= len(s.bodies) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	return &s.bodies[h.index], nil
}

// Get returns a copy of the body behind h.
func (s *Store) Get(h Handle) (Body, error) {
	b, err := s.lookup(h)
	if err != nil {
		return Body{}, err
	}
	return *b, nil
}

func (s *Store) Position(h Handle) (r3.Vec, error) {
	b, err := s.lookup(h)
	if err != nil {
		return r3.Vec{}, err
	}
	return b.Position, nil
}

func (s *Store) Velocity(h Handle) (r3.Vec, error) {
	b, err := s.lookup(h)
	if err != nil {
		return r3.Vec{}, err
	}
	return b.Velocity, nil
}

func (s *Store) Acceleration(h Handle) (r3.Vec, error) {
	b, err := s.lookup(h)
	if err != nil {
		return r3.Vec{}, err
	}
	return b.Acceleration, nil
}

func (s *Store) Mass(h Handle) (float64, error) {
	b, err := s.lookup(h)
	if err != nil {
		return 0, err
	}
	return b.Mass, nil
}

func (s *Store) Radius(h Handle) (float64, error) {
	b, err := s.lookup(h)
	if err != nil {
		return 0, err
	}
	return b.Radius, nil
}

func (s *Store) Len() int { return len(s.bodies) }

// Handles returns a handle for every body in creation order.
func (s *Store) Handles() []Handle {
	hs := make([]Handle, len(s.bodies))
	for i := range hs {
		hs[i] = Handle{store: s.id, index: i}
	}
	return hs
}

// Bodies exposes the backing slice. Only the integrator and evaluator
// write through it; everything else should use Snapshot.
func (s *Store) Bodies() []Body { return s.bodies }

func (s *Store) Snapshot() []Body {
	c := make([]Body, len(s.bodies))
	copy(c, s.bodies)
	return c
}

// FiniteVec reports whether every component of v is neither NaN nor Inf.
func FiniteVec(v r3.Vec) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
