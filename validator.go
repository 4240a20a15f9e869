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
	"math"
)

// DefaultMaxDepth is the default maximum nesting depth of a Validator.
const DefaultMaxDepth = 28

// MaxLongitude bounds the magnitude of geography longitudes. Longitudes
// beyond ±180 are accepted as wrapped values.
const MaxLongitude = 15069

// rail identifies the pipeline rail a call arrived on.
type rail int

const (
	noRail rail = iota
	geographyRail
	geometryRail
)

type validatorState int

const (
	stateStart  validatorState = iota // waiting for SetCoordinateSystem
	stateReady                        // coordinate system set or previous shape finished
	stateShape                        // inside a shape with no open figure
	stateFigure                       // inside an open figure
)

type validatorFrame struct {
	typ     SpatialType
	figures int
}

// validatorCore is the state machine shared by the two rails of a
// Validator. Each call is checked completely before any state changes, so
// a rejected call leaves the state as it was.
type validatorCore struct {
	maxDepth int

	rail  rail
	state validatorState
	cs    CoordinateSystem
	stack []validatorFrame

	// points, first and last describe the open figure.
	points      int
	first, last [2]float64
}

func (r rail) begin() string {
	if r == geometryRail {
		return "BeginGeometry"
	}
	return "BeginGeography"
}

func (r rail) end() string {
	if r == geometryRail {
		return "EndGeometry"
	}
	return "EndGeography"
}

func (r rail) topology() Topology {
	if r == geometryRail {
		return GeometryTopology
	}
	return GeographyTopology
}

func (v *validatorCore) top() *validatorFrame {
	return &v.stack[len(v.stack)-1]
}

// expected describes the calls that are legal on rail r in the current
// state.
func (v *validatorCore) expected(r rail) string {
	switch v.state {
	case stateStart:
		return "SetCoordinateSystem"
	case stateReady:
		return "SetCoordinateSystem or " + r.begin()
	case stateShape:
		f := v.top()
		switch {
		case f.typ.isMulti():
			return r.begin() + " or " + r.end()
		case f.typ == FullGlobe, f.typ != Polygon && f.figures > 0:
			return r.end()
		default:
			return "BeginFigure or " + r.end()
		}
	default:
		if v.top().typ == Point {
			return "EndFigure"
		}
		return "LineTo or EndFigure"
	}
}

// checkRail fails when a call other than SetCoordinateSystem arrives on
// a rail that has no coordinate system established.
func (v *validatorCore) checkRail(r rail, method string) error {
	if v.state == stateStart || v.rail != r {
		return unexpectedCall("SetCoordinateSystem", method)
	}
	return nil
}

func (v *validatorCore) setCoordinateSystem(r rail, cs CoordinateSystem) error {
	const method = "SetCoordinateSystem"
	switch v.state {
	case stateStart, stateReady:
		if cs.Topology != r.topology() {
			return newValidationError(CoordinateSystemMismatch, cs, "the "+r.topology().String()+" rail")
		}
		v.rail = r
		v.cs = cs
		v.state = stateReady
		return nil
	case stateShape:
		if v.rail != r {
			return unexpectedCall(v.expected(v.rail), method)
		}
		if !v.top().typ.isMulti() {
			return unexpectedCall(v.expected(r), method)
		}
		if cs != v.cs {
			return newValidationError(CoordinateSystemMismatch, cs, v.cs)
		}
		return nil
	default:
		if v.rail != r {
			return unexpectedCall(v.expected(v.rail), method)
		}
		return unexpectedCall(v.expected(r), method)
	}
}

func (v *validatorCore) begin(r rail, t SpatialType) error {
	method := r.begin()
	if r == geometryRail && t == FullGlobe {
		return newValidationError(InvalidType, t, "on the geometry rail")
	}
	if err := v.checkRail(r, method); err != nil {
		return err
	}
	if !t.valid() {
		return newValidationError(InvalidType, t, "as a shape type")
	}
	switch v.state {
	case stateReady:
	case stateShape:
		parent := v.top().typ
		if !parent.isMulti() {
			return unexpectedCall(v.expected(r), method)
		}
		if t == FullGlobe {
			return newValidationError(InvalidFullGlobe, "a full globe must be a top-level shape")
		}
		if m := parent.member(); m != Unknown && m != t {
			return newValidationError(InvalidType, t, "as a member of "+parent.String())
		}
	default:
		return unexpectedCall(v.expected(r), method)
	}
	if len(v.stack) >= v.maxDepth {
		return newValidationError(NestingOverflow, v.maxDepth)
	}
	v.stack = append(v.stack, validatorFrame{typ: t})
	v.state = stateShape
	return nil
}

func (v *validatorCore) beginFigure(r rail, c1, c2 float64) error {
	const method = "BeginFigure"
	if err := v.checkRail(r, method); err != nil {
		return err
	}
	if v.state != stateShape {
		return unexpectedCall(v.expected(r), method)
	}
	f := v.top()
	switch {
	case f.typ == FullGlobe:
		return newValidationError(InvalidFullGlobe, "a full globe has no figures")
	case f.typ.isMulti(), f.typ != Polygon && f.figures > 0:
		return unexpectedCall(v.expected(r), method)
	}
	if err := v.checkPosition(c1, c2); err != nil {
		return err
	}
	v.points = 1
	v.first = [2]float64{c1, c2}
	v.last = v.first
	v.state = stateFigure
	return nil
}

func (v *validatorCore) lineTo(r rail, c1, c2 float64) error {
	const method = "LineTo"
	if err := v.checkRail(r, method); err != nil {
		return err
	}
	if v.state != stateFigure || v.top().typ == Point {
		return unexpectedCall(v.expected(r), method)
	}
	if err := v.checkPosition(c1, c2); err != nil {
		return err
	}
	v.points++
	v.last = [2]float64{c1, c2}
	return nil
}

func (v *validatorCore) endFigure(r rail) error {
	const method = "EndFigure"
	if err := v.checkRail(r, method); err != nil {
		return err
	}
	if v.state != stateFigure {
		return unexpectedCall(v.expected(r), method)
	}
	f := v.top()
	switch f.typ {
	case LineString:
		if v.points < 2 {
			return newValidationError(InvalidLineStringPoints, v.points)
		}
	case Polygon:
		if v.points < 4 || !v.ringClosed() {
			return newValidationError(InvalidPolygonPoints, v.points)
		}
	}
	f.figures++
	v.points = 0
	v.state = stateShape
	return nil
}

func (v *validatorCore) end(r rail) error {
	method := r.end()
	if err := v.checkRail(r, method); err != nil {
		return err
	}
	if v.state != stateShape {
		return unexpectedCall(v.expected(r), method)
	}
	v.stack = v.stack[:len(v.stack)-1]
	if len(v.stack) == 0 {
		v.state = stateReady
	}
	return nil
}

func (v *validatorCore) reset() {
	maxDepth := v.maxDepth
	stack := v.stack[:0]
	*v = validatorCore{maxDepth: maxDepth, stack: stack}
}

// ringClosed reports whether the open figure ends where it began. On the
// geography rail longitudes that differ by exactly 360 degrees are equal.
func (v *validatorCore) ringClosed() bool {
	if v.first == v.last {
		return true
	}
	if v.rail != geographyRail || v.first[0] != v.last[0] {
		return false
	}
	return math.Abs(v.first[1]-v.last[1]) == 360
}

// checkPosition checks the first two coordinates of a position. On the
// geography rail they are latitude and longitude.
func (v *validatorCore) checkPosition(c1, c2 float64) error {
	names := [2]string{"x", "y"}
	if v.rail == geographyRail {
		names = [2]string{"latitude", "longitude"}
	}
	for i, c := range [2]float64{c1, c2} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return newValidationError(InvalidPointCoordinate, fmt.Sprintf("coordinate%d", i+1), names[i], c)
		}
	}
	if v.rail != geographyRail {
		return nil
	}
	if c1 < -90 || c1 > 90 {
		return newValidationError(InvalidLatitude, c1)
	}
	if c2 < -MaxLongitude || c2 > MaxLongitude {
		return newValidationError(InvalidLongitude, c2, -MaxLongitude, MaxLongitude)
	}
	return nil
}

// Validator is a pipeline stage that checks that the calls it receives
// form a valid sequence with valid values. It rejects the first offending
// call with a *ValidationError and otherwise does nothing; chain it in
// front of the stages it protects.
//
// Both rails share one state machine. Once a coordinate system has been
// set on one rail, calls on the other rail are rejected until a shape
// finishes and a new coordinate system is set on that rail.
type Validator struct {
	core      validatorCore
	geography validatorGeography
	geometry  validatorGeometry
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMaxDepth sets the maximum number of nested shapes.
func WithMaxDepth(depth int) ValidatorOption {
	return func(v *Validator) {
		v.core.maxDepth = depth
	}
}

// NewValidator returns a validator in its initial state.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{core: validatorCore{maxDepth: DefaultMaxDepth}}
	for _, opt := range opts {
		opt(v)
	}
	v.geography.core = &v.core
	v.geometry.core = &v.core
	return v
}

// GeographyPipeline implements SpatialPipeline.
func (v *Validator) GeographyPipeline() GeographyPipeline { return &v.geography }

// GeometryPipeline implements SpatialPipeline.
func (v *Validator) GeometryPipeline() GeometryPipeline { return &v.geometry }

// MaxDepth returns the maximum nesting depth.
func (v *Validator) MaxDepth() int { return v.core.maxDepth }

type validatorGeography struct {
	core *validatorCore
}

func (g *validatorGeography) SetCoordinateSystem(cs CoordinateSystem) error {
	return g.core.setCoordinateSystem(geographyRail, cs)
}

func (g *validatorGeography) BeginGeography(t SpatialType) error {
	return g.core.begin(geographyRail, t)
}

func (g *validatorGeography) BeginFigure(p GeographyPosition) error {
	return g.core.beginFigure(geographyRail, p.Latitude, p.Longitude)
}

func (g *validatorGeography) LineTo(p GeographyPosition) error {
	return g.core.lineTo(geographyRail, p.Latitude, p.Longitude)
}

func (g *validatorGeography) EndFigure() error { return g.core.endFigure(geographyRail) }

func (g *validatorGeography) EndGeography() error { return g.core.end(geographyRail) }

func (g *validatorGeography) Reset() { g.core.reset() }

type validatorGeometry struct {
	core *validatorCore
}

func (g *validatorGeometry) SetCoordinateSystem(cs CoordinateSystem) error {
	return g.core.setCoordinateSystem(geometryRail, cs)
}

func (g *validatorGeometry) BeginGeometry(t SpatialType) error {
	return g.core.begin(geometryRail, t)
}

func (g *validatorGeometry) BeginFigure(p GeometryPosition) error {
	return g.core.beginFigure(geometryRail, p.X, p.Y)
}

func (g *validatorGeometry) LineTo(p GeometryPosition) error {
	return g.core.lineTo(geometryRail, p.X, p.Y)
}

func (g *validatorGeometry) EndFigure() error { return g.core.endFigure(geometryRail) }

func (g *validatorGeometry) EndGeometry() error { return g.core.end(geometryRail) }

func (g *validatorGeometry) Reset() { g.core.reset() }
