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

import "fmt"

type builderFrame[P any, S any] struct {
	typ     SpatialType
	figures [][]P
	open    bool
	members []S
}

// builderCore assembles shapes of type S from positions of type P using an
// explicit stack of frames. The coordinate system belongs to the root
// frame.
type builderCore[P any, S any] struct {
	name      string
	defaultCS CoordinateSystem
	construct func(t SpatialType, cs CoordinateSystem, figures [][]P, members []S) S

	cs    CoordinateSystem
	csSet bool
	stack []*builderFrame[P, S]

	last  S
	built bool

	listeners []func(S)
}

func (b *builderCore[P, S]) stateError(call string) error {
	return fmt.Errorf("spatial: %s builder: unexpected call to %s", b.name, call)
}

func (b *builderCore[P, S]) setCoordinateSystem(cs CoordinateSystem) error {
	if len(b.stack) > 0 {
		// Nested shapes inherit the coordinate system of the root frame.
		return nil
	}
	b.cs = cs
	b.csSet = true
	return nil
}

func (b *builderCore[P, S]) begin(t SpatialType) error {
	if n := len(b.stack); n > 0 {
		top := b.stack[n-1]
		if !top.typ.isMulti() {
			return b.stateError("Begin inside " + top.typ.String())
		}
	}
	if len(b.stack) == 0 && !b.csSet {
		b.cs = b.defaultCS
		b.csSet = true
	}
	b.stack = append(b.stack, &builderFrame[P, S]{typ: t})
	return nil
}

func (b *builderCore[P, S]) beginFigure(p P) error {
	n := len(b.stack)
	if n == 0 || b.stack[n-1].open || b.stack[n-1].typ.isMulti() {
		return b.stateError("BeginFigure")
	}
	top := b.stack[n-1]
	top.figures = append(top.figures, []P{p})
	top.open = true
	return nil
}

func (b *builderCore[P, S]) lineTo(p P) error {
	n := len(b.stack)
	if n == 0 || !b.stack[n-1].open {
		return b.stateError("LineTo")
	}
	top := b.stack[n-1]
	last := len(top.figures) - 1
	top.figures[last] = append(top.figures[last], p)
	return nil
}

func (b *builderCore[P, S]) endFigure() error {
	n := len(b.stack)
	if n == 0 || !b.stack[n-1].open {
		return b.stateError("EndFigure")
	}
	b.stack[n-1].open = false
	return nil
}

func (b *builderCore[P, S]) end() error {
	n := len(b.stack)
	if n == 0 || b.stack[n-1].open {
		return b.stateError("End")
	}
	f := b.stack[n-1]
	b.stack[n-1] = nil
	b.stack = b.stack[:n-1]
	s := b.construct(f.typ, b.cs, f.figures, f.members)
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		parent.members = append(parent.members, s)
		return nil
	}
	b.last = s
	b.built = true
	for _, l := range b.listeners {
		l(s)
	}
	return nil
}

func (b *builderCore[P, S]) constructed() (S, error) {
	var zero S
	if len(b.stack) > 0 {
		return zero, ErrNotFinished
	}
	if !b.built {
		return zero, ErrNoShape
	}
	return b.last, nil
}

func (b *builderCore[P, S]) reset() {
	var zero S
	b.cs = CoordinateSystem{}
	b.csSet = false
	b.stack = nil
	b.last = zero
	b.built = false
}

// Builder is a terminal pipeline stage that assembles the calls it
// receives into immutable shapes. Each rail builds its own shapes. Builder
// does not validate; chain a Validator in front of it, as
// Implementation.NewValidatingBuilder does.
type Builder struct {
	geography geographyBuilder
	geometry  geometryBuilder
}

// NewBuilder returns a builder whose shapes use the operations of impl.
func NewBuilder(impl *Implementation) (*Builder, error) {
	if impl == nil {
		return nil, &ArgumentError{Name: "impl"}
	}
	return newBuilder(impl.Operations), nil
}

func newBuilder(ops SpatialOperations) *Builder {
	b := new(Builder)
	b.geography.core = builderCore[GeographyPosition, *Geography]{
		name:      "geography",
		defaultCS: DefaultGeography,
		construct: func(t SpatialType, cs CoordinateSystem, figures [][]GeographyPosition, members []*Geography) *Geography {
			return &Geography{typ: t, cs: cs, figures: figures, members: members, ops: ops}
		},
	}
	b.geometry.core = builderCore[GeometryPosition, *Geometry]{
		name:      "geometry",
		defaultCS: DefaultGeometry,
		construct: func(t SpatialType, cs CoordinateSystem, figures [][]GeometryPosition, members []*Geometry) *Geometry {
			return &Geometry{typ: t, cs: cs, figures: figures, members: members, ops: ops}
		},
	}
	return b
}

// GeographyPipeline implements SpatialPipeline.
func (b *Builder) GeographyPipeline() GeographyPipeline { return &b.geography }

// GeometryPipeline implements SpatialPipeline.
func (b *Builder) GeometryPipeline() GeometryPipeline { return &b.geometry }

// ConstructedGeography returns the last top-level geography shape built.
// It returns ErrNotFinished while a geography shape is being assembled.
func (b *Builder) ConstructedGeography() (*Geography, error) {
	return b.geography.core.constructed()
}

// ConstructedGeometry returns the last top-level geometry shape built.
// It returns ErrNotFinished while a geometry shape is being assembled.
func (b *Builder) ConstructedGeometry() (*Geometry, error) {
	return b.geometry.core.constructed()
}

// OnGeographyProduced registers f to be called with every top-level
// geography shape once it is complete.
func (b *Builder) OnGeographyProduced(f func(*Geography)) {
	b.geography.core.listeners = append(b.geography.core.listeners, f)
}

// OnGeometryProduced registers f to be called with every top-level
// geometry shape once it is complete.
func (b *Builder) OnGeometryProduced(f func(*Geometry)) {
	b.geometry.core.listeners = append(b.geometry.core.listeners, f)
}

type geographyBuilder struct {
	core builderCore[GeographyPosition, *Geography]
}

func (g *geographyBuilder) SetCoordinateSystem(cs CoordinateSystem) error {
	return g.core.setCoordinateSystem(cs)
}
func (g *geographyBuilder) BeginGeography(t SpatialType) error     { return g.core.begin(t) }
func (g *geographyBuilder) BeginFigure(p GeographyPosition) error { return g.core.beginFigure(p) }
func (g *geographyBuilder) LineTo(p GeographyPosition) error      { return g.core.lineTo(p) }
func (g *geographyBuilder) EndFigure() error                      { return g.core.endFigure() }
func (g *geographyBuilder) EndGeography() error                   { return g.core.end() }
func (g *geographyBuilder) Reset()                                { g.core.reset() }

type geometryBuilder struct {
	core builderCore[GeometryPosition, *Geometry]
}

func (g *geometryBuilder) SetCoordinateSystem(cs CoordinateSystem) error {
	return g.core.setCoordinateSystem(cs)
}
func (g *geometryBuilder) BeginGeometry(t SpatialType) error     { return g.core.begin(t) }
func (g *geometryBuilder) BeginFigure(p GeometryPosition) error { return g.core.beginFigure(p) }
func (g *geometryBuilder) LineTo(p GeometryPosition) error      { return g.core.lineTo(p) }
func (g *geometryBuilder) EndFigure() error                     { return g.core.endFigure() }
func (g *geometryBuilder) EndGeometry() error                   { return g.core.end() }
func (g *geometryBuilder) Reset()                               { g.core.reset() }
