/*
Copyright © 2024 the Spatial authors.
This file is part of Spatial.

Spatial is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Spatial is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Spatial.  If not, see <http://www.gnu.org/licenses/>.
*/

package spatial

import (
	"fmt"
	"sync"
)

// SpatialOperations computes measures of shapes. Shapes hold a reference
// to the operations of the Implementation that built them.
type SpatialOperations interface {
	GeographyDistance(a, b *Geography) (float64, error)
	GeographyLength(g *Geography) (float64, error)
	GeographyArea(g *Geography) (float64, error)
	GeometryDistance(a, b *Geometry) (float64, error)
	GeometryLength(g *Geometry) (float64, error)
	GeometryArea(g *Geometry) (float64, error)
}

// OperationsRegistry holds at most one SpatialOperations implementation.
// It is safe for concurrent use.
type OperationsRegistry struct {
	mu  sync.Mutex
	ops SpatialOperations
}

// operationsSlot names the single slot of an OperationsRegistry.
const operationsSlot = "operations"

// DefaultRegistry is the process-wide registry read by
// DefaultImplementation.
var DefaultRegistry = new(OperationsRegistry)

// Register stores ops in the registry. It fails with a *RegistrationError
// if an implementation is already registered.
func (r *OperationsRegistry) Register(ops SpatialOperations) error {
	if ops == nil {
		return &ArgumentError{Name: "ops"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ops != nil {
		return &RegistrationError{Slot: operationsSlot, Existing: fmt.Sprintf("%T", r.ops)}
	}
	r.ops = ops
	return nil
}

// Clear removes the registered implementation, if any.
func (r *OperationsRegistry) Clear() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

// Operations returns the registered implementation, or nil.
func (r *OperationsRegistry) Operations() SpatialOperations {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ops
}

// Implementation is the context that pipeline components are created
// from. Shapes built from it use its Operations, which may be nil.
type Implementation struct {
	Operations SpatialOperations
}

// NewImplementation returns an implementation using ops.
func NewImplementation(ops SpatialOperations) *Implementation {
	return &Implementation{Operations: ops}
}

// DefaultImplementation returns an implementation using the operations
// registered in DefaultRegistry. It is meant for application entry points;
// library code should take an *Implementation.
func DefaultImplementation() *Implementation {
	return &Implementation{Operations: DefaultRegistry.Operations()}
}

// NewBuilder returns a builder for impl.
func (impl *Implementation) NewBuilder() *Builder {
	return newBuilder(impl.Operations)
}

// NewValidatingBuilder returns a builder and the head of a chain that
// validates calls before they reach it. Drivers call the returned
// pipeline and read results from the builder.
func (impl *Implementation) NewValidatingBuilder(opts ...ValidatorOption) (SpatialPipeline, *Builder) {
	b := newBuilder(impl.Operations)
	return chain(NewValidator(opts...), b), b
}
